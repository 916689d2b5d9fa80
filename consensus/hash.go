package consensus

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShaBase16 is sha_base16(x): SHA-256 over x, hex-encoded lowercase.
func ShaBase16(x []byte) string {
	sum := sha256.Sum256(x)
	return hex.EncodeToString(sum[:])
}

func shaBase16Bytes(x []byte) [32]byte {
	return sha256.Sum256(x)
}
