package consensus

import "time"

// ValidateBlock is validate_block(block, difficulty, last_block, pool_check)
// (spec §4.3): a pure function from (candidate block, difficulty, last
// block, pool-membership predicate) to ok (nil) or error(kind). Genesis
// (index == 0, last == nil) skips the index and previous-hash checks;
// otherwise checks run in the fixed order below and the first failure wins.
func ValidateBlock(block Block, difficulty uint64, lastBlock *LastBlock, poolCheck PoolCheck, verifier AddressVerifier, p Params, now time.Time) *ValidationError {
	if block.Index != 0 {
		if lastBlock == nil {
			return errInvalidIndex(0, block.Index)
		}
		if block.Index <= lastBlock.Index {
			return errInvalidIndex(lastBlock.Index, block.Index)
		}
		if block.PreviousHash != lastBlock.Hash {
			return errWrongHashPrevMismatch(block.PreviousHash, lastBlock.Hash)
		}
	}

	if err := validateCoinbase(block, p); err != nil {
		return err
	}

	if err := validateAllTransactions(block.Transactions, poolCheck, verifier); err != nil {
		return err
	}

	if got := BlockMerkleRoot(block.Transactions); got != block.MerkleRoot {
		return verr(ErrInvalidMerkleRoot, "merkle root mismatch")
	}

	computed := RecomputeBlockHash(block)
	if computed != block.Hash {
		return errWrongHashClaimMismatch(computed, block.Hash)
	}
	if !HashBeatsTarget(block.Hash, difficulty) {
		return errWrongHashTooHigh(block.Hash, difficulty)
	}

	if block.Timestamp >= now.UTC().Unix()+p.FutureTimeLimit {
		return verr(ErrTimestampTooHigh, "timestamp too far in the future")
	}

	if len(EncodeBlock(block)) > p.BlockSizeLimit {
		return verr(ErrBlockTooLarge, "encoded block exceeds size limit")
	}

	return nil
}

// validateCoinbase is spec §4.3 point 3: transactions[0] must exist and be
// the unique coinbase, and its sole output amount must equal
// block_reward(index) + sum of fees over every other transaction.
func validateCoinbase(block Block, p Params) *ValidationError {
	if len(block.Transactions) == 0 {
		return verr(ErrNoCoinbase, "block has no transactions")
	}
	coinbase := block.Transactions[0]
	if coinbase.TxType != TxTypeCoinbase {
		return errNotCoinbase(coinbase.TxType)
	}
	for _, tx := range block.Transactions[1:] {
		if tx.TxType == TxTypeCoinbase {
			return verr(ErrTooManyCoinbase, "coinbase found outside position 0")
		}
	}
	if len(coinbase.Outputs) != 1 {
		return verr(ErrInvalidCoinbase, "coinbase must have exactly one output")
	}

	reward := BlockReward(block.Index, p)
	fees := int64(0)
	for _, tx := range block.Transactions[1:] {
		fees += Fee(tx).Int64()
	}
	want := reward + fees
	got := int64(0)
	for _, out := range coinbase.Outputs {
		got += out.Amount
	}
	if got != want {
		return errInvalidCoinbase(uint64(fees), uint64(reward), uint64(got))
	}
	return nil
}

// validateAllTransactions is spec §4.3 point 4: every transaction validates
// under 4.3.1 (the coinbase is trivially accepted — its inputs are empty so
// the sig-set and pool-check steps have nothing to enforce). Failures
// aggregate into a single ErrInvalidTransactions rather than short-circuiting
// on the first bad transaction, since the caller may want the full list.
func validateAllTransactions(txs []Transaction, poolCheck PoolCheck, verifier AddressVerifier) *ValidationError {
	var txErrs []TxValidationError
	for i, tx := range txs {
		if tx.TxType == TxTypeCoinbase {
			continue
		}
		if err := validateTransaction(tx, poolCheck, verifier); err != nil {
			txErrs = append(txErrs, TxValidationError{Index: i, Err: err})
		}
	}
	if len(txErrs) > 0 {
		return errInvalidTransactions(txErrs)
	}
	return nil
}

// validateTransaction is spec §4.3.1, run in order; first failure wins.
func validateTransaction(tx Transaction, poolCheck PoolCheck, verifier AddressVerifier) *ValidationError {
	if got := CalculateHash(tx); got != tx.ID {
		return errInvalidTxID(got, tx.ID)
	}

	for _, in := range tx.Inputs {
		if !poolCheck(in) {
			return verr(ErrFailedPoolCheck, "input "+in.TxOID+" failed pool check")
		}
	}

	signed := make(map[string]bool, len(tx.Sigs))
	for _, s := range tx.Sigs {
		signed[s.Addr] = true
	}
	for _, in := range tx.Inputs {
		if !signed[in.Addr] {
			return verr(ErrSigSetMismatch, "no signature for input address "+in.Addr)
		}
	}

	digest := SigningDigest(tx)
	for _, s := range tx.Sigs {
		if !verifier.Verify(s.Addr, s.Sig, digest) {
			return verr(ErrInvalidTxSig, "signature invalid for address "+s.Addr)
		}
	}

	for _, u := range tx.Inputs {
		if !isIntegerAmount(u.Amount) {
			return verr(ErrUTXOAmountNotInteger, "input amount not an integer")
		}
	}
	for _, u := range tx.Outputs {
		if !isIntegerAmount(u.Amount) {
			return verr(ErrUTXOAmountNotInteger, "output amount not an integer")
		}
	}

	inSum := Sum(tx.Inputs)
	outSum := Sum(tx.Outputs)
	if outSum.Cmp(inSum) > 0 {
		return errOutputsExceedInputs(uint64(outSum.Int64()), uint64(inSum.Int64()))
	}

	return nil
}

// isIntegerAmount always holds for the int64-typed UTXO.Amount; kept as an
// explicit check because sanitize.go's JSON boundary is where a
// fractional/non-integer amount would actually be caught before reaching
// this type.
func isIntegerAmount(int64) bool {
	return true
}
