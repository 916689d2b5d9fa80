package consensus

// UTXO is an unspent transaction output reference (spec §3).
//
// TxOID is "<tx_id>:<output_index>" and is globally unique across the chain.
// Amount is a non-negative integer in the smallest indivisible unit.
type UTXO struct {
	TxOID  string `json:"txoid"`
	Addr   string `json:"addr"`
	Amount int64  `json:"amount"`
}

const (
	TxTypeP2PK     = "P2PK"
	TxTypeCoinbase = "COINBASE"
)

// AddrSig is one element of a transaction's signature set: a signature
// produced by the holder of Addr over the transaction's signing digest.
type AddrSig struct {
	Addr string `json:"addr"`
	Sig  string `json:"sig"`
}

// Transaction is the UTXO-spending unit (spec §3). Inputs reference prior
// UTXOs by value (not just txoid) so the validator can recompute sums and
// the signing digest without a store round-trip.
type Transaction struct {
	ID      string    `json:"id"`
	Inputs  []UTXO    `json:"inputs"`
	Outputs []UTXO    `json:"outputs"`
	Sigs    []AddrSig `json:"sigs"`
	TxType  string    `json:"txtype"`
}

// Block is the interface the validator consumes (spec §3). Index is carried
// as a plain uint64 here; the spec's "big-endian unsigned integer, encoded
// as bytes" framing only matters at the hashing boundary (see
// headerPreimage in block.go), not in the in-memory shape.
type Block struct {
	Index        uint64        `json:"index"`
	PreviousHash string        `json:"previous_hash"`
	Hash         string        `json:"hash"`
	MerkleRoot   string        `json:"merkle_root"`
	Timestamp    int64         `json:"timestamp"`
	Difficulty   uint64        `json:"difficulty"`
	Transactions []Transaction `json:"transactions"`
}

// LastBlock is the minimal view of the chain tip the validator needs: its
// index and hash. The real ledger (out of scope, spec §1) satisfies this
// with whatever richer type it already has.
type LastBlock struct {
	Index uint64
	Hash  string
}

// PoolCheck answers "is this input currently spendable?" against whatever
// UTXO view the caller wants validated — the main chain's or a fork's
// (spec §4.3.1 point 2). The validator never constructs its own view.
type PoolCheck func(input UTXO) bool
