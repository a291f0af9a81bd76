package frame

import (
	"testing"

	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/value"
)

func TestNewInitializesRegistersUndefined(t *testing.T) {
	f := New(bytecode.NewChunk(), 3)
	for i, r := range f.Registers {
		if !r.IsUndefined() {
			t.Errorf("register %d = %v, want undefined", i, r)
		}
	}
}

func TestCloneIsRegisterIndependent(t *testing.T) {
	f := New(bytecode.NewChunk(), 2)
	f.Registers[0] = value.Number(1)
	f.PC = 4
	f.Catch = &CatchInfo{HandlerPC: 10, Register: 1}

	clone := f.Clone()
	clone.Registers[0] = value.Number(99)
	clone.Catch.HandlerPC = 20

	if f.Registers[0].AsNumber() != 1 {
		t.Error("cloning should not mutate the original frame's registers")
	}
	if f.Catch.HandlerPC != 10 {
		t.Error("cloning should deep-copy Catch, not alias it")
	}
	if clone.PC != 4 {
		t.Error("clone should start at the same PC as the original")
	}
}
