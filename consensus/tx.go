package consensus

import (
	"math/big"
	"strconv"
	"time"
)

// CalculateHash is calculate_hash(tx) = merkle_root([input.txoid, ...])
// (spec §4.2). A coinbase has no inputs, so its id is computed separately by
// GenerateCoinbase.
func CalculateHash(tx Transaction) string {
	leaves := make([][]byte, len(tx.Inputs))
	for i, in := range tx.Inputs {
		leaves[i] = []byte(in.TxOID)
	}
	return MerkleRoot(leaves)
}

// GenerateCoinbase builds the block-reward-issuing transaction (spec §4.2).
// now is injected so callers (and tests) control the timestamp deterministically.
func GenerateCoinbase(amount int64, minerAddr string, now time.Time) Transaction {
	timestamp := strconv.FormatInt(now.UTC().Unix(), 10)
	id := ShaBase16([]byte(minerAddr + timestamp))
	return Transaction{
		ID:      id,
		Inputs:  nil,
		Outputs: []UTXO{{TxOID: id + ":0", Addr: minerAddr, Amount: amount}},
		Sigs:    nil,
		TxType:  TxTypeCoinbase,
	}
}

// Sum totals a UTXO list's amounts. Arbitrary precision, per the design note
// that amounts must never silently overflow regardless of how many inputs a
// transaction carries.
func Sum(list []UTXO) *big.Int {
	total := new(big.Int)
	for _, u := range list {
		total.Add(total, big.NewInt(u.Amount))
	}
	return total
}

// Fee is fee(tx) = sum(inputs) - sum(outputs) (spec §4.2). Callers validating
// coinbase amounts sum Fee across every non-coinbase transaction in a block.
func Fee(tx Transaction) *big.Int {
	return new(big.Int).Sub(Sum(tx.Inputs), Sum(tx.Outputs))
}
