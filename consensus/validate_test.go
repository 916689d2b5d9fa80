package consensus

import (
	"testing"
	"time"
)

// fakeVerifier accepts any signature whose string equals "valid-"+addr, just
// enough structure for the validator's call pattern to be exercised without
// pulling in a real signature scheme (out of scope, spec §1).
type fakeVerifier struct{}

func (fakeVerifier) Verify(addr string, sig string, _ [32]byte) bool {
	return sig == "valid-"+addr
}

func alwaysInPool(UTXO) bool { return true }

func buildGenesisBlock(t *testing.T, p Params, now time.Time) Block {
	t.Helper()
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	b := Block{
		Index:        0,
		Timestamp:    now.Unix(),
		Difficulty:   0,
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)
	return b
}

func TestValidateBlock_GenesisOK(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	b := buildGenesisBlock(t, p, now)

	if err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now); err != nil {
		t.Fatalf("expected genesis block to validate, got %v", err)
	}
}

func TestValidateBlock_WrongCoinbaseAmount(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	b := buildGenesisBlock(t, p, now)
	b.Transactions[0].Outputs[0].Amount++
	// Recompute hash/merkle so the coinbase amount is the only thing wrong
	// with the block.
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrInvalidCoinbase {
		t.Fatalf("expected invalid_coinbase, got %v", err)
	}
}

func TestValidateBlock_CoinbaseWithExtraOutputIsRejected(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	// A correct first output plus a smuggled-in second output: if the
	// validator only checked Outputs[0], this would mint free coins.
	coinbase.Outputs = append(coinbase.Outputs, UTXO{TxOID: coinbase.ID + ":1", Addr: "attacker", Amount: 1_000_000})

	b := Block{
		Index:        0,
		Timestamp:    now.Unix(),
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrInvalidCoinbase {
		t.Fatalf("expected invalid_coinbase for multi-output coinbase, got %v", err)
	}
}

func TestValidateBlock_FailedPoolCheck(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)

	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	spend := Transaction{
		Inputs:  []UTXO{{TxOID: "a:0", Addr: "A", Amount: 5}},
		Outputs: []UTXO{{TxOID: "x:0", Addr: "B", Amount: 5}},
		Sigs:    []AddrSig{{Addr: "A", Sig: "valid-A"}},
		TxType:  TxTypeP2PK,
	}
	spend.ID = CalculateHash(spend)

	coinbase.Outputs[0].Amount = reward // no fees, sum(outputs)==sum(inputs)

	b := Block{
		Index:        0,
		Timestamp:    now.Unix(),
		Transactions: []Transaction{coinbase, spend},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	never := func(UTXO) bool { return false }
	err := ValidateBlock(b, 0, nil, never, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrInvalidTransactions {
		t.Fatalf("expected invalid_transactions, got %v", err)
	}
	if len(err.TxErrors) != 1 || err.TxErrors[0].Err.Kind != ErrFailedPoolCheck {
		t.Fatalf("expected aggregated failed_pool_check, got %+v", err.TxErrors)
	}
}

func TestValidateBlock_MissingSignerIsSigSetMismatch(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)

	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward

	spend := Transaction{
		Inputs:  []UTXO{{TxOID: "a:0", Addr: "A", Amount: 5}, {TxOID: "b:0", Addr: "B", Amount: 5}},
		Outputs: []UTXO{{TxOID: "x:0", Addr: "C", Amount: 10}},
		Sigs:    []AddrSig{{Addr: "A", Sig: "valid-A"}},
		TxType:  TxTypeP2PK,
	}
	spend.ID = CalculateHash(spend)

	b := Block{
		Index:        0,
		Timestamp:    now.Unix(),
		Transactions: []Transaction{coinbase, spend},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrInvalidTransactions {
		t.Fatalf("expected invalid_transactions, got %v", err)
	}
	if err.TxErrors[0].Err.Kind != ErrSigSetMismatch {
		t.Fatalf("expected sig_set_mismatch, got %+v", err.TxErrors[0].Err)
	}
}

func TestValidateBlock_TimestampExactlyAtLimitIsRejected(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward

	b := Block{
		Index:        0,
		Timestamp:    now.Unix() + p.FutureTimeLimit,
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrTimestampTooHigh {
		t.Fatalf("expected timestamp_too_high at now+limit (boundary is exclusive), got %v", err)
	}
}

func TestValidateBlock_TimestampOneBelowLimitIsAccepted(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward

	b := Block{
		Index:        0,
		Timestamp:    now.Unix() + p.FutureTimeLimit - 1,
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	if err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now); err != nil {
		t.Fatalf("expected now+limit-1 to validate, got %v", err)
	}
}

func TestValidateBlock_IndexMustExceedLast(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	reward := BlockReward(1, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward

	b := Block{
		Index:        1,
		PreviousHash: "lasthash",
		Timestamp:    now.Unix(),
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	last := &LastBlock{Index: 1, Hash: "lasthash"}
	err := ValidateBlock(b, 0, last, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrInvalidIndex {
		t.Fatalf("expected invalid_index, got %v", err)
	}
}

func TestValidateBlock_TimestampTooHigh(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward

	b := Block{
		Index:        0,
		Timestamp:    now.Unix() + p.FutureTimeLimit + 10,
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrTimestampTooHigh {
		t.Fatalf("expected timestamp_too_high, got %v", err)
	}
}

func buildSizeBoundaryBlock(t *testing.T, p Params, now time.Time) Block {
	t.Helper()
	reward := BlockReward(0, p)
	coinbase := GenerateCoinbase(reward, "miner", now)
	coinbase.Outputs[0].Amount = reward
	b := Block{
		Index:        0,
		Timestamp:    now.Unix(),
		Transactions: []Transaction{coinbase},
	}
	b.MerkleRoot = BlockMerkleRoot(b.Transactions)
	b.Hash = RecomputeBlockHash(b)
	return b
}

func TestValidateBlock_SizeExactlyAtLimitIsAccepted(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	b := buildSizeBoundaryBlock(t, p, now)
	p.BlockSizeLimit = len(EncodeBlock(b))

	if err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now); err != nil {
		t.Fatalf("expected block exactly at the size limit to validate, got %v", err)
	}
}

func TestValidateBlock_SizeOneOverLimitIsRejected(t *testing.T) {
	p := DefaultParams()
	now := time.Unix(1_700_000_000, 0)
	b := buildSizeBoundaryBlock(t, p, now)
	p.BlockSizeLimit = len(EncodeBlock(b)) - 1

	err := ValidateBlock(b, 0, nil, alwaysInPool, fakeVerifier{}, p, now)
	if err == nil || err.Kind != ErrBlockTooLarge {
		t.Fatalf("expected block_too_large one byte over the limit, got %v", err)
	}
}
