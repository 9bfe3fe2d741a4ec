package chain

import "errors"

// Validation errors.
var (
	ErrMissingReceiver      = errors.New("transaction missing receiver")
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrBlockHashMismatch    = errors.New("block hash mismatch")
	ErrBlockLinkMismatch    = errors.New("block does not link to chain tip")
	ErrBlockDifficultyUnmet = errors.New("block does not meet difficulty target")
	ErrChainInvalid         = errors.New("chain is not valid")
	ErrChainNotLonger       = errors.New("candidate chain is not longer than current")
)
