package srp

import "math/big"

// ComputeVerifier is v = g^x mod N, computed once at registration time and
// persisted by the peer store alongside (identifier, salt, prime,
// generator) (spec §3, §4.5 point 1). The server never learns x or the
// password; only v.
func ComputeVerifier(g Group, x *big.Int) *big.Int {
	return new(big.Int).Exp(g.G, x, g.N)
}

// NewVerifier is the registration-time convenience that combines ComputeX
// and ComputeVerifier for a freshly chosen salt.
func NewVerifier(g Group, identifier, password string, salt []byte) *big.Int {
	return ComputeVerifier(g, ComputeX(identifier, password, salt))
}
