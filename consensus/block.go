package consensus

import "encoding/binary"

// headerPreimage is the byte string recompute_block_hash hashes: index as an
// 8-byte big-endian unsigned integer (spec §3: "index: big-endian unsigned
// integer, encoded as bytes"), followed by the length-prefixed previous hash
// and merkle root, then timestamp and difficulty as 8-byte little-endian
// integers. hash itself is excluded, since it is
// the value being recomputed.
func headerPreimage(b Block) []byte {
	out := make([]byte, 0, 8+len(b.PreviousHash)+len(b.MerkleRoot)+16)
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], b.Index)
	out = append(out, idx[:]...)
	out = appendString(out, b.PreviousHash)
	out = appendString(out, b.MerkleRoot)
	out = AppendU64le(out, uint64(b.Timestamp))
	out = AppendU64le(out, b.Difficulty)
	return out
}

// RecomputeBlockHash is recompute_block_hash(block) (spec §4.3 point 6):
// SHA-256 over the block header fields, hex-encoded.
func RecomputeBlockHash(b Block) string {
	return ShaBase16(headerPreimage(b))
}

// EncodeBlock is encode(block) (spec §4.3 point 8): the canonical wire form
// used only to measure byte_size against BLOCK_SIZE_LIMIT. Transactions are
// encoded in CanonicalSerializeTx form, the same preimage used for Merkle
// leaves. This is not the NEW_BLOCK wire payload (node/router.go sends the
// block as base64-encoded JSON), so the size measured here differs from the
// bytes a peer receives.
func EncodeBlock(b Block) []byte {
	out := []byte{CanonicalFormatV1}
	var idx [8]byte
	binary.BigEndian.PutUint64(idx[:], b.Index)
	out = append(out, idx[:]...)
	out = appendString(out, b.PreviousHash)
	out = appendString(out, b.Hash)
	out = appendString(out, b.MerkleRoot)
	out = AppendU64le(out, uint64(b.Timestamp))
	out = AppendU64le(out, b.Difficulty)
	out = AppendCompactSize(out, uint64(len(b.Transactions)))
	for _, tx := range b.Transactions {
		body := CanonicalSerializeTx(tx)
		out = AppendCompactSize(out, uint64(len(body)))
		out = append(out, body...)
	}
	return out
}

// BlockMerkleRoot is merkle_root([serialize(tx) for tx in transactions])
// (spec §3, §4.3 point 5).
func BlockMerkleRoot(txs []Transaction) string {
	leaves := make([][]byte, len(txs))
	for i, tx := range txs {
		leaves[i] = CanonicalSerializeTx(tx)
	}
	return MerkleRoot(leaves)
}
