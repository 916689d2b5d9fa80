package consensus

// Canonical serialization (spec §9 open question, resolved here).
//
// The source relies on a language-native term encoding that has no portable
// counterpart; this defines an explicit, versioned binary form so that
// signing_digest and Merkle-leaf encoding are bit-exact across
// implementations. Every encoded transaction (CanonicalSerializeTx) and block
// (EncodeBlock) is prefixed with CanonicalFormatV1 so a future incompatible
// revision can be detected rather than silently misparsed. The signing digest
// preimage is hashed, never parsed, and carries no version byte.
const CanonicalFormatV1 = 0x01

func appendString(dst []byte, s string) []byte {
	dst = AppendCompactSize(dst, uint64(len(s)))
	return append(dst, s...)
}

// canonicalUTXOBytes is the wire form of one UTXO: length-prefixed txoid,
// length-prefixed addr, 8-byte little-endian amount.
func canonicalUTXOBytes(dst []byte, u UTXO) []byte {
	dst = appendString(dst, u.TxOID)
	dst = appendString(dst, u.Addr)
	dst = AppendU64le(dst, uint64(u.Amount))
	return dst
}

func canonicalUTXOListBytes(dst []byte, list []UTXO) []byte {
	dst = AppendCompactSize(dst, uint64(len(list)))
	for _, u := range list {
		dst = canonicalUTXOBytes(dst, u)
	}
	return dst
}

// signingDigestPreimage is serialize(inputs) || serialize(outputs) || id ||
// txtype (spec §4.2), in that order, sigs deliberately excluded: sigs are
// computed over this digest, so they cannot be part of their own preimage.
func signingDigestPreimage(tx Transaction) []byte {
	var out []byte
	out = canonicalUTXOListBytes(out, tx.Inputs)
	out = canonicalUTXOListBytes(out, tx.Outputs)
	out = appendString(out, tx.ID)
	out = appendString(out, tx.TxType)
	return out
}

// SigningDigest is signing_digest(tx) = SHA256(serialize(inputs) ||
// serialize(outputs) || id || txtype) (spec §4.2). It depends only on
// (inputs, outputs, id, txtype) and is stable under reordering of sigs,
// since sigs never enter the preimage.
func SigningDigest(tx Transaction) [32]byte {
	return shaBase16Bytes(signingDigestPreimage(tx))
}

// CanonicalSerializeTx is the full wire form of a transaction, used as the
// Merkle leaf preimage for a block's merkle_root (spec §3, §4.3 point 5). It
// includes sigs (the per-tx signing digest excludes them, but the block
// commitment covers the whole transaction as broadcast).
func CanonicalSerializeTx(tx Transaction) []byte {
	out := []byte{CanonicalFormatV1}
	out = canonicalUTXOListBytes(out, tx.Inputs)
	out = canonicalUTXOListBytes(out, tx.Outputs)
	out = appendString(out, tx.ID)
	out = appendString(out, tx.TxType)
	out = AppendCompactSize(out, uint64(len(tx.Sigs)))
	for _, s := range tx.Sigs {
		out = appendString(out, s.Addr)
		out = appendString(out, s.Sig)
	}
	return out
}
