package consensus

// AddressVerifier resolves an address to its public key and checks a
// signature against a signing digest. Key derivation, signing and the
// underlying signature scheme are explicitly out of scope (spec §1
// Non-goals); the validator only ever calls through this interface, so any
// key-management/crypto package can supply it.
type AddressVerifier interface {
	// Verify reports whether sig is a valid signature by addr over digest.
	Verify(addr string, sig string, digest [32]byte) bool
}
