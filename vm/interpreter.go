package vm

import (
	"encoding/hex"
	"strings"

	"github.com/holiman/uint256"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 13/12/2025
 * Time: 09:10
 */

// Result is Execute's full outcome contract. On REVERT or any trap,
// Success is false and Storage is nil: nothing from the failed run is
// handed back for the caller to persist.
type Result struct {
	Success    bool
	GasUsed    uint64
	ReturnData []byte
	Storage    map[string]string
	Logs       [][]byte
	Stack      []string
	Error      string
}

// CallContext carries the environment values a contract call can observe:
// the caller's address, the value attached to the call, and the calldata.
type CallContext struct {
	Caller    string
	CallValue uint64
	CallData  []byte
	GasLimit  uint64
}

// Execute runs bytecode to completion (or to a trap) against the
// contract's persistent storage, given as plain decimal-string key/value
// pairs. The incoming map is never mutated; a success carries a fresh map
// in Result.Storage for the caller to persist, and a trap carries none.
func Execute(bytecode []byte, storage map[string]string, ctx CallContext) Result {
	gasLimit := ctx.GasLimit
	if gasLimit == 0 {
		gasLimit = DefaultGasLimit
	}

	work := storageFromMap(storage)
	st := newStack()
	mem := newMemory()
	dests := validJumpDests(bytecode)

	var gasUsed uint64
	var logs [][]byte
	pc := 0

	fail := func(err error) Result {
		return Result{
			Success: false,
			GasUsed: gasUsed,
			Storage: nil,
			Logs:    logs,
			Stack:   st.snapshot(),
			Error:   err.Error(),
		}
	}

	for pc < len(bytecode) {
		op := Opcode(bytecode[pc])

		if !isKnown(op) {
			return fail(ErrInvalidOpcode)
		}
		cost := gasCost[op]
		if gasUsed+cost > gasLimit {
			return fail(ErrOutOfGas)
		}
		gasUsed += cost

		switch op {
		case STOP:
			return Result{Success: true, GasUsed: gasUsed, Storage: storageToMap(work), Logs: logs, Stack: st.snapshot()}

		case PUSH1:
			if pc+1 >= len(bytecode) {
				return fail(ErrInvalidOpcode)
			}
			st.push(uint256.NewInt(uint64(bytecode[pc+1])))
			pc += 2
			continue

		case PUSH32:
			if pc+32 >= len(bytecode) {
				return fail(ErrInvalidOpcode)
			}
			v := new(uint256.Int).SetBytes(bytecode[pc+1 : pc+33])
			st.push(v)
			pc += 33
			continue

		case POP:
			if _, err := st.pop(); err != nil {
				return fail(err)
			}

		case DUP:
			if err := st.dup(); err != nil {
				return fail(err)
			}

		case SWAP:
			if err := st.swap(); err != nil {
				return fail(err)
			}

		case ADD, SUB, MUL, DIV, MOD:
			if err := binaryArith(st, op); err != nil {
				return fail(err)
			}

		case LT, GT, EQ:
			if err := binaryCompare(st, op); err != nil {
				return fail(err)
			}

		case ISZERO:
			a, err := st.pop()
			if err != nil {
				return fail(err)
			}
			st.push(boolToUint256(a.IsZero()))

		case AND, OR:
			a, err := st.pop()
			if err != nil {
				return fail(err)
			}
			b, err := st.pop()
			if err != nil {
				return fail(err)
			}
			res := new(uint256.Int)
			if op == AND {
				res.And(a, b)
			} else {
				res.Or(a, b)
			}
			st.push(res)

		case NOT:
			a, err := st.pop()
			if err != nil {
				return fail(err)
			}
			st.push(new(uint256.Int).Not(a))

		case JUMP:
			dest, err := st.pop()
			if err != nil {
				return fail(err)
			}
			target := dest.Uint64()
			if !dests[target] {
				return fail(ErrInvalidJump)
			}
			pc = int(target)
			continue

		case JUMPI:
			dest, err := st.pop()
			if err != nil {
				return fail(err)
			}
			cond, err := st.pop()
			if err != nil {
				return fail(err)
			}
			if !cond.IsZero() {
				target := dest.Uint64()
				if !dests[target] {
					return fail(ErrInvalidJump)
				}
				pc = int(target)
				continue
			}

		case JUMPDEST:
			// no-op marker; gas already charged above.

		case CALLER:
			st.push(callerToUint256(ctx.Caller))

		case CALLVALUE:
			st.push(uint256.NewInt(ctx.CallValue))

		case CALLDATALOAD:
			offset, err := st.pop()
			if err != nil {
				return fail(err)
			}
			st.push(callDataLoad(ctx.CallData, offset.Uint64()))

		case CALLDATASIZE:
			st.push(uint256.NewInt(uint64(len(ctx.CallData))))

		case SLOAD:
			key, err := st.pop()
			if err != nil {
				return fail(err)
			}
			st.push(work.load(key))

		case SSTORE:
			key, err := st.pop()
			if err != nil {
				return fail(err)
			}
			value, err := st.pop()
			if err != nil {
				return fail(err)
			}
			work.store(key, value)

		case MLOAD:
			offset, err := st.pop()
			if err != nil {
				return fail(err)
			}
			st.push(mem.load(offset.Uint64()))

		case MSTORE:
			offset, err := st.pop()
			if err != nil {
				return fail(err)
			}
			value, err := st.pop()
			if err != nil {
				return fail(err)
			}
			mem.store(offset.Uint64(), value)

		case RETURN:
			data, err := returnData(st, mem)
			if err != nil {
				return fail(err)
			}
			return Result{Success: true, GasUsed: gasUsed, ReturnData: data, Storage: storageToMap(work), Logs: logs, Stack: st.snapshot()}

		case REVERT:
			return Result{Success: false, GasUsed: gasUsed, Stack: st.snapshot(), Error: "reverted"}

		case LOG:
			entry, err := returnData(st, mem)
			if err != nil {
				return fail(err)
			}
			logs = append(logs, entry)
		}

		pc++
	}

	// Falling off the end of the bytecode is a successful stop.
	return Result{Success: true, GasUsed: gasUsed, Storage: storageToMap(work), Logs: logs, Stack: st.snapshot()}
}

func binaryArith(st *stack, op Opcode) error {
	a, err := st.pop()
	if err != nil {
		return err
	}
	b, err := st.pop()
	if err != nil {
		return err
	}
	res := new(uint256.Int)
	switch op {
	case ADD:
		res.Add(a, b)
	case SUB:
		res.Sub(a, b)
	case MUL:
		res.Mul(a, b)
	case DIV:
		if b.IsZero() {
			res.Clear()
		} else {
			res.Div(a, b)
		}
	case MOD:
		if b.IsZero() {
			res.Clear()
		} else {
			res.Mod(a, b)
		}
	}
	st.push(res)
	return nil
}

func binaryCompare(st *stack, op Opcode) error {
	a, err := st.pop()
	if err != nil {
		return err
	}
	b, err := st.pop()
	if err != nil {
		return err
	}
	var result bool
	switch op {
	case LT:
		result = a.Lt(b)
	case GT:
		result = a.Gt(b)
	case EQ:
		result = a.Eq(b)
	}
	st.push(boolToUint256(result))
	return nil
}

func boolToUint256(b bool) *uint256.Int {
	if b {
		return uint256.NewInt(1)
	}
	return new(uint256.Int)
}

// callDataLoad reads a 32-byte, zero-padded window of calldata starting
// at offset.
func callDataLoad(data []byte, offset uint64) *uint256.Int {
	var window [32]byte
	if offset < uint64(len(data)) {
		copy(window[:], data[offset:])
	}
	return new(uint256.Int).SetBytes(window[:])
}

// callerToUint256 implements the lossy CALLER mapping: the caller's hex
// address is truncated to its first 16 characters, then parsed as a hex
// number. Non-hex input parses as zero rather than erroring, since CALLER
// never fails mid-execution.
func callerToUint256(caller string) *uint256.Int {
	short := caller
	if len(short) > 16 {
		short = short[:16]
	}
	short = strings.ToLower(short)
	raw, err := hex.DecodeString(padHexEven(short))
	if err != nil {
		return new(uint256.Int)
	}
	return new(uint256.Int).SetBytes(raw)
}

func padHexEven(s string) string {
	if len(s)%2 == 1 {
		return "0" + s
	}
	return s
}

// returnData assembles RETURN/LOG payloads: pop [offset, size] and read
// that many bytes word-by-word from memory.
func returnData(st *stack, mem *memory) ([]byte, error) {
	offset, err := st.pop()
	if err != nil {
		return nil, err
	}
	size, err := st.pop()
	if err != nil {
		return nil, err
	}
	n := size.Uint64()
	base := offset.Uint64()
	raw := make([]byte, 0, n+32)
	for uint64(len(raw)) < n {
		word := mem.load(base + uint64(len(raw))/32)
		wordBytes := word.Bytes32()
		raw = append(raw, wordBytes[:]...)
	}
	return raw[:n], nil
}

func storageToMap(t *storageTable) map[string]string {
	out := make(map[string]string, len(t.slots))
	for k, v := range t.slots {
		out[k] = v.Dec()
	}
	return out
}
