package srp

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestHandshake_ClientAndServerDeriveSameSessionKey(t *testing.T) {
	g := Group1024()
	identifier := "peer-A"
	password := "correct horse battery staple"

	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		t.Fatalf("salt: %v", err)
	}
	verifier := NewVerifier(g, identifier, password, salt)

	client, err := NewClient(g, identifier, password)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	server, err := NewServer(g, verifier)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	clientKey, err := client.ComputeSessionKey(salt, server.PublicValue())
	if err != nil {
		t.Fatalf("client session key: %v", err)
	}
	serverKey, err := server.ComputeSessionKey(client.PublicValue())
	if err != nil {
		t.Fatalf("server session key: %v", err)
	}

	if !bytes.Equal(clientKey[:], serverKey[:]) {
		t.Fatalf("session keys differ: client=%x server=%x", clientKey, serverKey)
	}
}

func TestHandshake_WrongPasswordDerivesDifferentKey(t *testing.T) {
	g := Group1024()
	identifier := "peer-A"
	salt := []byte("fixed-salt-for-test-only")
	verifier := NewVerifier(g, identifier, "right-password", salt)

	client, err := NewClient(g, identifier, "wrong-password")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	server, err := NewServer(g, verifier)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	clientKey, err := client.ComputeSessionKey(salt, server.PublicValue())
	if err != nil {
		t.Fatalf("client session key: %v", err)
	}
	serverKey, err := server.ComputeSessionKey(client.PublicValue())
	if err != nil {
		t.Fatalf("server session key: %v", err)
	}

	if bytes.Equal(clientKey[:], serverKey[:]) {
		t.Fatalf("expected differing session keys for wrong password")
	}
}

func TestServer_RejectsDegenerateA(t *testing.T) {
	g := Group1024()
	verifier := NewVerifier(g, "id", "pw", []byte("salt"))
	server, err := NewServer(g, verifier)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	if _, err := server.ComputeSessionKey(g.N); err == nil {
		t.Fatalf("expected rejection of A == N (degenerate)")
	}
}

func TestClient_RejectsDegenerateB(t *testing.T) {
	g := Group1024()
	client, err := NewClient(g, "id", "pw")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ComputeSessionKey([]byte("salt"), g.N); err == nil {
		t.Fatalf("expected rejection of B == N (degenerate)")
	}
}
