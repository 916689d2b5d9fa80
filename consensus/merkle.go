package consensus

// MerkleRoot computes the Merkle root over an ordered list of leaves
// (spec §4.1). Each leaf is first hashed with sha_base16; pairs are then
// hashed left-to-right, concatenation-first, duplicating the last element of
// an odd-sized level, until one root remains.
//
// An empty list returns the empty string rather than an error, matching the
// contract that emptiness is
// precluded upstream (block validation rejects an empty transaction list
// before any Merkle computation is attempted).
func MerkleRoot(leaves [][]byte) string {
	if len(leaves) == 0 {
		return ""
	}

	level := make([]string, len(leaves))
	for i, leaf := range leaves {
		level[i] = ShaBase16(leaf)
	}

	for len(level) > 1 {
		next := make([]string, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, hashPair(level[i], level[i]))
				continue
			}
			next = append(next, hashPair(level[i], level[i+1]))
		}
		level = next
	}
	return level[0]
}

func hashPair(left, right string) string {
	return ShaBase16([]byte(left + right))
}
