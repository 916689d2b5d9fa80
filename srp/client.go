package srp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Client is the SRP-6a client role: the side that knows the password but
// never transmits it (spec §4.5 "Outbound (we are client)").
type Client struct {
	group Group

	identifier string
	password   string

	a *big.Int
	A *big.Int
}

// NewClient begins a client-side handshake.
func NewClient(g Group, identifier, password string) (*Client, error) {
	a, err := rand.Int(rand.Reader, g.N)
	if err != nil {
		return nil, fmt.Errorf("srp: client ephemeral: %w", err)
	}
	if a.Sign() == 0 {
		a = big.NewInt(1)
	}
	A := new(big.Int).Exp(g.G, a, g.N)

	return &Client{group: g, identifier: identifier, password: password, a: a, A: A}, nil
}

// PublicValue returns A, sent as part of registration or in response to
// HANDSHAKE_CHALLENGE (spec §4.5).
func (c *Client) PublicValue() *big.Int {
	return c.A
}

// ComputeSessionKey consumes the server's salt and public value B and
// derives the same shared master key the server computes:
// S = (B - k*g^x)^(a + u*x) mod N (spec §4.5). Returns an error if B is
// degenerate, mirroring the server's guard against a malicious peer.
func (c *Client) ComputeSessionKey(salt []byte, B *big.Int) ([32]byte, error) {
	if new(big.Int).Mod(B, c.group.N).Sign() == 0 {
		return [32]byte{}, fmt.Errorf("srp: invalid server public value B")
	}

	x := ComputeX(c.identifier, c.password, salt)
	u := c.group.scrambler(c.A, B)
	k := c.group.multiplier()

	gx := new(big.Int).Exp(c.group.G, x, c.group.N)
	kgx := new(big.Int).Mul(k, gx)

	base := new(big.Int).Sub(B, kgx)
	base.Mod(base, c.group.N)

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, c.a)

	shared := new(big.Int).Exp(base, exp, c.group.N)
	return SessionKey(shared), nil
}
