package contract

import (
	"testing"

	"github.com/ledgerd/ledgerd/vm"
)

func TestCompileStoreAndLoad(t *testing.T) {
	src := "STORE 1\nLOAD 1\nSTOP"
	bc, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []byte{
		byte(vm.PUSH1), 1, byte(vm.SSTORE),
		byte(vm.PUSH1), 1, byte(vm.SLOAD),
		byte(vm.STOP),
	}
	if len(bc) != len(want) {
		t.Fatalf("expected %d bytes, got %d (%v)", len(want), len(bc), bc)
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], bc[i])
		}
	}
}

func TestCompileSkipsCommentsAndBlankLines(t *testing.T) {
	src := "// a header comment\n\nSTOP // trailing comment\n"
	bc, err := Compile(src)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(bc) != 1 || bc[0] != byte(vm.STOP) {
		t.Fatalf("expected a single STOP byte, got %v", bc)
	}
}

func TestCompilePushWideValueUsesPush32(t *testing.T) {
	bc, err := Compile("PUSH 300")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(bc) != 33 || bc[0] != byte(vm.PUSH32) {
		t.Fatalf("expected a 33-byte PUSH32 sequence, got %d bytes starting %v", len(bc), bc[:1])
	}
}

func TestCompilePushNarrowValueUsesPush1(t *testing.T) {
	bc, err := Compile("PUSH 7")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if len(bc) != 2 || bc[0] != byte(vm.PUSH1) || bc[1] != 7 {
		t.Fatalf("expected PUSH1 7, got %v", bc)
	}
}

func TestCompileUnknownMnemonicFails(t *testing.T) {
	_, err := Compile("FROBNICATE 1")
	if err != ErrUnknownInstruction {
		t.Fatalf("expected ErrUnknownInstruction, got %v", err)
	}
}

func TestCompileJump(t *testing.T) {
	bc, err := Compile("JUMP 5\nJUMPDEST")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []byte{byte(vm.PUSH1), 5, byte(vm.JUMP), byte(vm.JUMPDEST)}
	if len(bc) != len(want) {
		t.Fatalf("expected %d bytes, got %d", len(want), len(bc))
	}
	for i := range want {
		if bc[i] != want[i] {
			t.Fatalf("byte %d: expected %d, got %d", i, want[i], bc[i])
		}
	}
}
