package p2p

import (
	"net"

	"go.uber.org/zap"
)

// DefaultHealthPort is the fixed liveness port (spec §6 "31014: health
// check (one-byte request/reply)"), distinct from the configurable Ghost
// port.
const DefaultHealthPort = 31014

// ServeHealthCheck runs the health-check listener: accepts one connection at
// a time, replies to a single 0x00 probe byte with 0x01, then closes and
// re-accepts (spec §4.7 "A separate health-check listener on a distinct
// port replies to a single-byte 0x00 probe with 0x01, then closes and
// re-accepts. This is a liveness signal, not part of the Ghost protocol.").
// Accepting exactly one connection at a time means concurrent probes queue
// on the kernel backlog or are refused once it's full (spec §9 Open
// Question, documented rather than changed).
func ServeHealthCheck(addr string, logger *zap.Logger, stop <-chan struct{}) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	go func() {
		<-stop
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		handleHealthProbe(conn, logger)
	}
}

func handleHealthProbe(conn net.Conn, logger *zap.Logger) {
	defer conn.Close()

	probe := make([]byte, 1)
	if _, err := conn.Read(probe); err != nil {
		logger.Debug("healthcheck: read failed", zap.Error(err))
		return
	}
	if probe[0] != 0x00 {
		logger.Debug("healthcheck: unexpected probe byte", zap.Uint8("byte", probe[0]))
		return
	}
	if _, err := conn.Write([]byte{0x01}); err != nil {
		logger.Debug("healthcheck: write failed", zap.Error(err))
	}
}
