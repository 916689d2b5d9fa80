// Package p2p implements the Ghost connection handler and supervisor fleet:
// a pool of per-connection state machines that dial or listen, authenticate
// over SRP-6a, and route decoded frames to a parent consumer (spec §4.6,
// §4.7). Grounded on the teacher's node/p2p package's split between a
// per-peer type (peer.go) and a shared message-routing contract
// (PeerHandler), adapted from a persistent-blockchain-sync peer to a
// session-oriented, message-passing Ghost handler.
package p2p

import (
	"math/big"
	"net"
	"time"

	"ghostnode.dev/node/ghost"
)

// ConnState is a handler's position in the state machine from spec §4.6.
type ConnState int

const (
	StateIdle ConnState = iota
	StateDialing
	StateListening
	StateAuthenticating
	StateReady
	StateDead
)

func (s ConnState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateDialing:
		return "DIAL"
	case StateListening:
		return "LISTEN"
	case StateAuthenticating:
		return "AUTHENTICATING"
	case StateReady:
		return "READY"
	case StateDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// Role mirrors the teacher's PeerRole split, renamed to the spec's
// bidirectional/inbound-only terminology (spec §4.6 "Peer selection
// policy").
type Role int

const (
	RoleUnknown Role = iota
	RoleBidirectional
	RoleInboundOnly
)

// Session is the per-live-connection state spec §3 names: "socket,
// session_key (32 bytes), peername (textual IP), role (inbound | outbound),
// ping RTT".
type Session struct {
	Conn       net.Conn
	SessionKey [32]byte
	PeerName   string
	Role       Role

	LastPingSent time.Time
	PingRTT      time.Duration
}

// PeerBook is the minimal contract the handler needs from the external peer
// store to dial or authenticate (spec §6 "Peer store: keyed by identifier,
// value (salt, prime, generator, verifier)" / "Known-peers list").
type PeerBook interface {
	KnownPeers() []string // ordered "ip:port" list
	SeedPeers() []string
	Identifier() string
	Password() string
	LookupVerifier(identifier string) (salt []byte, prime, generator, verifier *big.Int, ok bool)
	SaveVerifier(identifier string, salt []byte, prime, generator, verifier *big.Int) error
}

// Router is the parent consumer the handler forwards decoded, non-transport
// frames to (spec §4.6: "any other → forward (message, self) to the
// router/parent task"). Application-level consensus traffic (blocks,
// transactions) flows through this interface, never inside the handler.
type Router interface {
	Deliver(session *Session, msg ghost.Message)
}
