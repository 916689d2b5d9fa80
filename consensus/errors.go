package consensus

import "fmt"

// ErrorKind enumerates every distinct validator failure. Each validator check
// in ValidateBlock/validateTransaction maps to exactly one kind; the first
// failing check wins and the later checks are never evaluated. The one
// exception is the transaction step: every non-coinbase transaction is
// checked and their failures are aggregated under ErrInvalidTransactions.
type ErrorKind string

const (
	ErrInvalidIndex             ErrorKind = "invalid_index"
	ErrWrongHashPrevMismatch     ErrorKind = "wrong_hash.doesnt_match_last"
	ErrWrongHashClaimMismatch    ErrorKind = "wrong_hash.doesnt_match_provided"
	ErrWrongHashTooHigh          ErrorKind = "wrong_hash.too_high"
	ErrInvalidMerkleRoot         ErrorKind = "invalid_merkle_root"
	ErrTimestampTooHigh          ErrorKind = "timestamp_too_high"
	ErrBlockTooLarge             ErrorKind = "block_too_large"
	ErrNoCoinbase                ErrorKind = "no_coinbase"
	ErrNotCoinbase               ErrorKind = "not_coinbase"
	ErrTooManyCoinbase           ErrorKind = "too_many_coinbase"
	ErrInvalidCoinbase           ErrorKind = "invalid_coinbase"
	ErrInvalidTxID               ErrorKind = "invalid_tx_id"
	ErrFailedPoolCheck           ErrorKind = "failed_pool_check"
	ErrSigSetMismatch            ErrorKind = "sig_set_mismatch"
	ErrInvalidTxSig              ErrorKind = "invalid_tx_sig"
	ErrUTXOAmountNotInteger      ErrorKind = "utxo_amount_not_integer"
	ErrOutputsExceedInputs       ErrorKind = "outputs_exceed_inputs"
	ErrInvalidTransactions       ErrorKind = "invalid_transactions"
	ErrParse                     ErrorKind = "parse_error"
)

// ValidationError is the single error type returned by this package. It
// carries structured detail so callers and tests can assert on the exact
// failure rather than string-matching a message.
type ValidationError struct {
	Kind ErrorKind
	Msg  string

	// Optional structured detail, populated per-kind. Unused fields are zero.
	Got, Expected uint64
	GotHash, ExpectedHash string
	ActualType            string
	Fees, Reward, Amount  uint64
	OutputsSum, InputsSum uint64

	// Per-transaction failures, aggregated under ErrInvalidTransactions.
	TxErrors []TxValidationError
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Msg != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
	}
	return string(e.Kind)
}

// TxValidationError is one element of an ErrInvalidTransactions aggregate: the
// index of the offending transaction within the block's transaction list and
// the reason it failed.
type TxValidationError struct {
	Index int
	Err   *ValidationError
}

func verr(kind ErrorKind, msg string) *ValidationError {
	return &ValidationError{Kind: kind, Msg: msg}
}

func errInvalidIndex(prev, got uint64) *ValidationError {
	return &ValidationError{Kind: ErrInvalidIndex, Got: got, Expected: prev, Msg: fmt.Sprintf("index %d does not exceed last index %d", got, prev)}
}

func errWrongHashPrevMismatch(got, expected string) *ValidationError {
	return &ValidationError{Kind: ErrWrongHashPrevMismatch, GotHash: got, ExpectedHash: expected}
}

func errWrongHashClaimMismatch(computed, claimed string) *ValidationError {
	return &ValidationError{Kind: ErrWrongHashClaimMismatch, GotHash: claimed, ExpectedHash: computed}
}

func errWrongHashTooHigh(hash string, difficulty uint64) *ValidationError {
	return &ValidationError{Kind: ErrWrongHashTooHigh, GotHash: hash, Expected: difficulty}
}

func errNotCoinbase(actualType string) *ValidationError {
	return &ValidationError{Kind: ErrNotCoinbase, ActualType: actualType}
}

func errInvalidCoinbase(fees, reward, amount uint64) *ValidationError {
	return &ValidationError{Kind: ErrInvalidCoinbase, Fees: fees, Reward: reward, Amount: amount}
}

func errInvalidTxID(expected, got string) *ValidationError {
	return &ValidationError{Kind: ErrInvalidTxID, ExpectedHash: expected, GotHash: got}
}

func errOutputsExceedInputs(out, in uint64) *ValidationError {
	return &ValidationError{Kind: ErrOutputsExceedInputs, OutputsSum: out, InputsSum: in}
}

func errInvalidTransactions(txErrs []TxValidationError) *ValidationError {
	return &ValidationError{Kind: ErrInvalidTransactions, TxErrors: txErrs}
}
