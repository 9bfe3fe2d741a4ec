package vm

import "testing"

func TestStopHaltsSuccessfully(t *testing.T) {
	code := []byte{byte(STOP)}
	res := Execute(code, nil, CallContext{})
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
}

func TestFallOffEndIsSuccess(t *testing.T) {
	code := []byte{byte(PUSH1), 1}
	res := Execute(code, nil, CallContext{})
	if !res.Success {
		t.Fatalf("expected falling off the end to succeed, got error %q", res.Error)
	}
}

func TestAddAndStore(t *testing.T) {
	// PUSH1 3; PUSH1 4; ADD; PUSH1 0; SSTORE; STOP
	code := []byte{
		byte(PUSH1), 3,
		byte(PUSH1), 4,
		byte(ADD),
		byte(PUSH1), 0,
		byte(SSTORE),
		byte(STOP),
	}
	res := Execute(code, nil, CallContext{GasLimit: DefaultGasLimit})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Storage["0"] != "7" {
		t.Fatalf("expected storage[0] == 7, got %v", res.Storage)
	}
}

func TestDivByZeroYieldsZeroNoFault(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0,
		byte(PUSH1), 5,
		byte(DIV),
		byte(PUSH1), 0,
		byte(SSTORE),
		byte(STOP),
	}
	res := Execute(code, nil, CallContext{GasLimit: DefaultGasLimit})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Storage["0"] != "0" {
		t.Fatalf("expected division by zero to store 0, got %v", res.Storage)
	}
}

func TestUnknownOpcodeHalts(t *testing.T) {
	code := []byte{0xFF}
	res := Execute(code, nil, CallContext{})
	if res.Success {
		t.Fatal("expected unknown opcode to halt with failure")
	}
	if res.Error != ErrInvalidOpcode.Error() {
		t.Fatalf("expected ErrInvalidOpcode, got %q", res.Error)
	}
}

func TestStackUnderflowOnAdd(t *testing.T) {
	code := []byte{byte(ADD)}
	res := Execute(code, nil, CallContext{})
	if res.Success {
		t.Fatal("expected stack underflow to halt with failure")
	}
	if res.Error != ErrStackUnderflow.Error() {
		t.Fatalf("expected ErrStackUnderflow, got %q", res.Error)
	}
}

func TestRevertDiscardsStorage(t *testing.T) {
	code := []byte{
		byte(PUSH1), 9,
		byte(PUSH1), 0,
		byte(SSTORE),
		byte(REVERT),
	}
	res := Execute(code, nil, CallContext{GasLimit: DefaultGasLimit})
	if res.Success {
		t.Fatal("expected REVERT to report failure")
	}
	if res.Storage != nil {
		t.Fatalf("expected no storage on revert, got %v", res.Storage)
	}
}

func TestOutOfGasBeforeCompletion(t *testing.T) {
	// PUSH1 1; ADD costs 6 gas per pair, so enough repetitions to clear
	// DefaultGasLimit must halt with OutOfGas before reaching STOP. Seed
	// the stack with one value so ADD always has an operand to pop.
	const reps = DefaultGasLimit/6 + 1000
	code := make([]byte, 0, 2+reps*3)
	code = append(code, byte(PUSH1), 1)
	for i := uint64(0); i < reps; i++ {
		code = append(code, byte(PUSH1), 1, byte(ADD))
	}
	code = append(code, byte(STOP))

	res := Execute(code, nil, CallContext{})
	if res.Success {
		t.Fatal("expected execution to run out of gas before completing")
	}
	if res.Error != ErrOutOfGas.Error() {
		t.Fatalf("expected ErrOutOfGas, got %q", res.Error)
	}
}

func TestJumpIntoPush32ImmediateIsInvalid(t *testing.T) {
	// Layout: PUSH1 10; JUMP; PUSH32 <32 bytes>; STOP. Offset 10 falls
	// inside the PUSH32 immediate (which spans offsets 4..35), a byte
	// validJumpDests never marks as a JUMPDEST.
	full := []byte{
		byte(PUSH1), 10,
		byte(JUMP),
		byte(PUSH32),
	}
	full = append(full, make([]byte, 32)...)
	full = append(full, byte(STOP))

	res := Execute(full, nil, CallContext{GasLimit: DefaultGasLimit})
	if res.Success {
		t.Fatal("expected jump into a PUSH32 immediate to fail")
	}
	if res.Error != ErrInvalidJump.Error() {
		t.Fatalf("expected ErrInvalidJump, got %q", res.Error)
	}
}

func TestJumpToValidDest(t *testing.T) {
	// PUSH1 5; JUMP; (skipped: PUSH1 99); JUMPDEST at offset 5; STOP
	code := []byte{
		byte(PUSH1), 5,
		byte(JUMP),
		byte(PUSH1), 99,
		byte(JUMPDEST),
		byte(STOP),
	}
	res := Execute(code, nil, CallContext{GasLimit: DefaultGasLimit})
	if !res.Success {
		t.Fatalf("expected successful jump, got %q", res.Error)
	}
}

func TestCallDataLoadZeroPads(t *testing.T) {
	code := []byte{
		byte(PUSH1), 0,
		byte(CALLDATALOAD),
		byte(PUSH1), 0,
		byte(SSTORE),
		byte(STOP),
	}
	res := Execute(code, nil, CallContext{CallData: []byte{0x01}, GasLimit: DefaultGasLimit})
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	// 0x01 followed by 31 zero bytes, as a decimal number.
	want := "452312848583266388373324160190187140051835877600158453279131187530910662656"
	if res.Storage["0"] != want {
		t.Fatalf("expected zero-padded calldata window, got %v", res.Storage["0"])
	}
}
