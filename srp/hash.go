package srp

import (
	"crypto/sha256"
	"math/big"
)

func hashToInt(parts ...[]byte) *big.Int {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// multiplier is SRP-6a's k = H(N, PAD(g)), the constant that prevents a
// malicious server's chosen B from canceling out v in the client's
// computation.
func (g Group) multiplier() *big.Int {
	return hashToInt(g.N.Bytes(), g.paddedBytes(g.G))
}

// scrambler is u = H(PAD(A), PAD(B)), binding the session key to both
// ephemeral public values so a replayed A or B can't be reused across
// handshakes.
func (g Group) scrambler(a, b *big.Int) *big.Int {
	return hashToInt(g.paddedBytes(a), g.paddedBytes(b))
}

// ComputeX is x = H(salt, H(identifier || ":" || password)), the private key
// derived from credentials that both ComputeVerifier (registration) and the
// client's session-key derivation (login) recompute independently; it is
// never transmitted.
func ComputeX(identifier, password string, salt []byte) *big.Int {
	inner := sha256.Sum256([]byte(identifier + ":" + password))
	return hashToInt(salt, inner[:])
}

// SessionKey derives the 32-byte AES-256 session key from the raw shared
// secret S (spec §3: "session_key (32 bytes)"). Hashing S rather than using
// it directly keeps the session key a fixed size regardless of the group's
// modulus length.
func SessionKey(s *big.Int) [32]byte {
	return sha256.Sum256(s.Bytes())
}
