package vm

import "errors"

// VM trap errors. Any of these halts execution with success=false and
// discards storage changes.
var (
	ErrOutOfGas        = errors.New("vm: out of gas")
	ErrStackUnderflow  = errors.New("vm: stack underflow")
	ErrInvalidJump     = errors.New("vm: invalid jump destination")
	ErrInvalidOpcode   = errors.New("vm: invalid opcode")
)
