package contract

import (
	"strconv"
	"strings"

	"github.com/ledgerd/ledgerd/vm"
)

/**
 * Created by GoLand.
 * Project: ledgerd
 * User: PETER DANIEL KILIMBA
 * Date: 13/12/2025
 * Time: 10:40
 */

// Compile translates assembly-like source into bytecode. Source is
// line-based; "//" starts a comment; empty lines are ignored. Tokens are
// whitespace-separated and case-insensitive.
func Compile(source string) ([]byte, error) {
	var out []byte

	for _, rawLine := range strings.Split(source, "\n") {
		line := stripComment(rawLine)
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		mnemonic := strings.ToUpper(fields[0])

		switch mnemonic {
		case "PUSH":
			n, err := parseOperand(fields)
			if err != nil {
				return nil, err
			}
			out = append(out, encodePush(n)...)

		case "STORE":
			k, err := parseOperand(fields)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(vm.PUSH1), byte(k))
			out = append(out, byte(vm.SSTORE))

		case "LOAD":
			// LOAD always takes an explicit slot operand, same as STORE; a bare
			// LOAD with nothing to push isn't a valid instruction here.
			k, err := parseOperand(fields)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(vm.PUSH1), byte(k))
			out = append(out, byte(vm.SLOAD))

		case "JUMP":
			dest, err := parseOperand(fields)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(vm.PUSH1), byte(dest))
			out = append(out, byte(vm.JUMP))

		case "ADD", "SUB", "MUL", "DIV", "MOD", "LT", "GT", "EQ", "ISZERO",
			"AND", "OR", "NOT", "POP", "DUP", "SWAP",
			"CALLER", "CALLVALUE", "CALLDATASIZE", "CALLDATALOAD",
			"JUMPDEST", "STOP", "RETURN", "REVERT", "LOG", "SLOAD", "SSTORE", "MLOAD", "MSTORE":
			op, err := opcodeFor(mnemonic)
			if err != nil {
				return nil, err
			}
			out = append(out, byte(op))

		default:
			return nil, ErrUnknownInstruction
		}
	}

	return out, nil
}

func stripComment(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		return line[:idx]
	}
	return line
}

func parseOperand(fields []string) (int64, error) {
	if len(fields) < 2 {
		return 0, ErrUnknownInstruction
	}
	return strconv.ParseInt(fields[1], 10, 64)
}

// encodePush emits PUSH1 n for n<256, else PUSH32 of the big-endian
// 32-byte encoding of n.
func encodePush(n int64) []byte {
	if n >= 0 && n < 256 {
		return []byte{byte(vm.PUSH1), byte(n)}
	}
	var word [32]byte
	v := uint64(n)
	for i := 31; i >= 0 && v > 0; i-- {
		word[i] = byte(v)
		v >>= 8
	}
	out := make([]byte, 0, 33)
	out = append(out, byte(vm.PUSH32))
	out = append(out, word[:]...)
	return out
}

var mnemonicOpcode = map[string]vm.Opcode{
	"ADD": vm.ADD, "SUB": vm.SUB, "MUL": vm.MUL, "DIV": vm.DIV, "MOD": vm.MOD,
	"LT": vm.LT, "GT": vm.GT, "EQ": vm.EQ, "ISZERO": vm.ISZERO,
	"AND": vm.AND, "OR": vm.OR, "NOT": vm.NOT,
	"POP": vm.POP, "DUP": vm.DUP, "SWAP": vm.SWAP,
	"CALLER": vm.CALLER, "CALLVALUE": vm.CALLVALUE, "CALLDATASIZE": vm.CALLDATASIZE, "CALLDATALOAD": vm.CALLDATALOAD,
	"JUMPDEST": vm.JUMPDEST, "STOP": vm.STOP, "RETURN": vm.RETURN, "REVERT": vm.REVERT, "LOG": vm.LOG,
	"SLOAD": vm.SLOAD, "SSTORE": vm.SSTORE, "MLOAD": vm.MLOAD, "MSTORE": vm.MSTORE,
}

func opcodeFor(mnemonic string) (vm.Opcode, error) {
	op, ok := mnemonicOpcode[mnemonic]
	if !ok {
		return 0, ErrUnknownInstruction
	}
	return op, nil
}
