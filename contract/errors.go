package contract

import "errors"

// ErrUnknownInstruction is returned by Compile for a mnemonic it doesn't
// recognize, or for one missing a required operand.
var ErrUnknownInstruction = errors.New("contract: unknown instruction")

// ErrContractNotFound is returned by Call when no contract exists at the
// requested address, in memory or in the store.
var ErrContractNotFound = errors.New("contract: not found")
