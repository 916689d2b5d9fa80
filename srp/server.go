package srp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Server is the SRP-6a server role: the side holding a persisted verifier,
// never the password (spec §4.5 "Inbound (we are server)"). One Server
// value handles exactly one handshake; the handler layer constructs a fresh
// one per connection attempt.
type Server struct {
	group Group
	v     *big.Int

	b *big.Int
	B *big.Int

	A *big.Int
}

// NewServer begins a server-side handshake against a persisted verifier.
func NewServer(g Group, verifier *big.Int) (*Server, error) {
	b, err := rand.Int(rand.Reader, g.N)
	if err != nil {
		return nil, fmt.Errorf("srp: server ephemeral: %w", err)
	}
	if b.Sign() == 0 {
		b = big.NewInt(1)
	}

	k := g.multiplier()
	// B = k*v + g^b mod N
	term1 := new(big.Int).Mul(k, verifier)
	term2 := new(big.Int).Exp(g.G, b, g.N)
	B := new(big.Int).Add(term1, term2)
	B.Mod(B, g.N)

	return &Server{group: g, v: verifier, b: b, B: B}, nil
}

// PublicValue returns B, the value carried in HANDSHAKE_AUTH or
// HANDSHAKE_CHALLENGE (spec §4.5).
func (s *Server) PublicValue() *big.Int {
	return s.B
}

// ComputeSessionKey consumes the client's public value A and derives the
// shared master key: S = (A * v^u)^b mod N (spec §4.5). Returns an error if
// A is degenerate (a multiple of N), the standard SRP-6a safeguard against
// an attacker who sends A=0 to force a predictable S.
func (s *Server) ComputeSessionKey(A *big.Int) ([32]byte, error) {
	if new(big.Int).Mod(A, s.group.N).Sign() == 0 {
		return [32]byte{}, fmt.Errorf("srp: invalid client public value A")
	}
	s.A = A

	u := s.group.scrambler(A, s.B)
	vu := new(big.Int).Exp(s.v, u, s.group.N)
	base := new(big.Int).Mul(A, vu)
	base.Mod(base, s.group.N)
	shared := new(big.Int).Exp(base, s.b, s.group.N)

	return SessionKey(shared), nil
}
