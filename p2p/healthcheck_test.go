package p2p

import (
	"net"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestServeHealthCheck_RespondsToProbe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	stop := make(chan struct{})
	go func() {
		_ = ServeHealthCheck(addr, zap.NewNop(), stop)
	}()
	defer close(stop)

	var conn net.Conn
	for i := 0; i < 50; i++ {
		conn, err = net.Dial("tcp", addr)
		if err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte{0x00}); err != nil {
		t.Fatalf("write probe: %v", err)
	}
	reply := make([]byte, 1)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, err := conn.Read(reply); err != nil {
		t.Fatalf("read reply: %v", err)
	}
	if reply[0] != 0x01 {
		t.Fatalf("reply byte = %#x, want 0x01", reply[0])
	}
}

func TestServeHealthCheck_AcceptsSequentialProbes(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	stop := make(chan struct{})
	go func() {
		_ = ServeHealthCheck(addr, zap.NewNop(), stop)
	}()
	defer close(stop)

	probeOnce := func() byte {
		var conn net.Conn
		var err error
		for i := 0; i < 50; i++ {
			conn, err = net.Dial("tcp", addr)
			if err == nil {
				break
			}
			time.Sleep(10 * time.Millisecond)
		}
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		defer conn.Close()
		conn.Write([]byte{0x00})
		reply := make([]byte, 1)
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		conn.Read(reply)
		return reply[0]
	}

	for i := 0; i < 3; i++ {
		if got := probeOnce(); got != 0x01 {
			t.Fatalf("probe %d: got %#x, want 0x01", i, got)
		}
	}
}
