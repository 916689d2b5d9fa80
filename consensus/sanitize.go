package consensus

import (
	"bytes"
	"encoding/json"
)

// SanitizeBytes parses untrusted wire bytes into a Transaction, rejecting any
// field the schema doesn't declare (spec §4.2, §9: "the natural replacement
// [for dynamic field stripping] is a strict deserializer that errors on
// unknown fields — identical semantics, enforced by the schema rather than
// by a stripping pass"). DisallowUnknownFields recurses into inputs and
// outputs automatically, so a smuggled key anywhere in the tree is rejected.
func SanitizeBytes(raw []byte) (Transaction, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var tx Transaction
	if err := dec.Decode(&tx); err != nil {
		return Transaction{}, verr(ErrParse, "sanitize: "+err.Error())
	}
	if dec.More() {
		return Transaction{}, verr(ErrParse, "sanitize: trailing data")
	}
	return tx, nil
}

// Sanitize re-normalizes an in-memory Transaction through the same strict
// schema: marshal to its declared fields, then decode strictly. For a value
// that is already clean this is a no-op, which is what makes
// Sanitize(Sanitize(x)) == Sanitize(x) hold.
func Sanitize(tx Transaction) (Transaction, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return Transaction{}, verr(ErrParse, "sanitize: "+err.Error())
	}
	return SanitizeBytes(raw)
}

// SanitizeBlockBytes is SanitizeBytes for a whole candidate block: a block
// carried over the wire arrives as an untrusted byte string, and
// DisallowUnknownFields recurses into Transactions and their inputs/outputs,
// so a smuggled field anywhere in the tree is rejected before ValidateBlock
// ever sees the value.
func SanitizeBlockBytes(raw []byte) (Block, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var b Block
	if err := dec.Decode(&b); err != nil {
		return Block{}, verr(ErrParse, "sanitize: "+err.Error())
	}
	if dec.More() {
		return Block{}, verr(ErrParse, "sanitize: trailing data")
	}
	return b, nil
}

// SanitizeBlock is Sanitize for a whole block: marshal to its declared
// fields, then decode strictly, so a value built in-memory goes through the
// same schema a wire-received one does before it is ever sent.
func SanitizeBlock(b Block) (Block, error) {
	raw, err := json.Marshal(b)
	if err != nil {
		return Block{}, verr(ErrParse, "sanitize: "+err.Error())
	}
	return SanitizeBlockBytes(raw)
}
