package frame

import (
	"testing"

	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

func TestStepLoadConstAndReturn(t *testing.T) {
	c := bytecode.NewChunk()
	idx := c.AddConstant(value.Number(7))
	c.WriteOpCode(bytecode.OpLoadConst, 1)
	c.WriteByte(0)
	c.WriteUint16(idx)
	c.WriteOpCode(bytecode.OpReturn, 1)
	c.WriteByte(0)

	f := New(c, 1)

	res, err := Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.(StepContinue); !ok {
		t.Fatalf("first step should continue, got %#v", res)
	}
	if f.Registers[0].AsNumber() != 7 {
		t.Fatalf("R0 = %v, want 7", f.Registers[0])
	}

	res, err = Step(f)
	if err != nil {
		t.Fatal(err)
	}
	pop, ok := res.(StepPop)
	if !ok {
		t.Fatalf("return should produce StepPop, got %#v", res)
	}
	if pop.Value.AsNumber() != 7 {
		t.Errorf("returned value = %v, want 7", pop.Value)
	}
}

func TestStepAddInstruction(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOpCode(bytecode.OpAdd, 1)
	c.WriteByte(2) // dest
	c.WriteByte(0) // left
	c.WriteByte(1) // right

	f := New(c, 3)
	f.Registers[0] = value.Number(2)
	f.Registers[1] = value.Number(3)

	if _, err := Step(f); err != nil {
		t.Fatal(err)
	}
	if f.Registers[2].AsNumber() != 5 {
		t.Fatalf("R2 = %v, want 5", f.Registers[2])
	}
	if f.PC != 4 {
		t.Errorf("PC = %d, want 4", f.PC)
	}
}

func TestStepConditionalJumpConcreteGuard(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOpCode(bytecode.OpJumpIfFalse, 1)
	c.WriteByte(0)
	c.WriteInt16(10)

	f := New(c, 1)
	f.Registers[0] = value.Bool(false)

	if _, err := Step(f); err != nil {
		t.Fatal(err)
	}
	if f.PC != 4+10 {
		t.Fatalf("PC = %d, want %d", f.PC, 4+10)
	}
	if f.Fork != nil {
		t.Error("a concrete guard should never set Fork")
	}
}

func TestStepConditionalJumpSignalGuardForks(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOpCode(bytecode.OpJumpIfFalse, 1)
	c.WriteByte(0)
	c.WriteInt16(10)

	f := New(c, 1)
	gen := signal.NewIDGen()
	guard := signal.NewInput(gen, ops.Bool, "flag").Val()
	f.Registers[0] = guard

	res, err := Step(f)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.(StepContinue); !ok {
		t.Fatalf("a signal-guarded jump should still report StepContinue, got %#v", res)
	}
	if f.Fork == nil {
		t.Fatal("a signal-valued guard should populate Fork")
	}
	if f.PC != 0 {
		t.Error("a signal-guarded jump should not move the program counter itself")
	}
	// JumpIfFalse: falling through (PC+4) means the guard was truthy. Fork
	// is normalized so TakenPC is always the guard-truthy PC, which here is
	// the fall-through; FallthroughPC holds the jump target.
	if f.Fork.TakenPC != 4 {
		t.Errorf("TakenPC = %d, want 4 (guard truthy)", f.Fork.TakenPC)
	}
	if f.Fork.FallthroughPC != 4+10 {
		t.Errorf("FallthroughPC = %d, want %d (guard falsey)", f.Fork.FallthroughPC, 4+10)
	}
}

func TestStepCallPushesCallee(t *testing.T) {
	callee := bytecode.NewChunk()
	callee.WriteOpCode(bytecode.OpReturnUndefined, 1)

	caller := bytecode.NewChunk()
	caller.WriteOpCode(bytecode.OpCall, 1)
	caller.WriteByte(1) // dest
	caller.WriteByte(0) // funcReg
	caller.WriteByte(1) // argStart
	caller.WriteByte(0) // argCount

	f := New(caller, 2)
	f.Registers[0] = value.NewFunction("f", 0, 1, callee)

	res, err := Step(f)
	if err != nil {
		t.Fatal(err)
	}
	push, ok := res.(StepPush)
	if !ok {
		t.Fatalf("OpCall should produce StepPush, got %#v", res)
	}
	if push.Callee.Chunk != callee {
		t.Error("pushed callee should run the function's own chunk")
	}
	if push.Callee.ReturnDest != 1 {
		t.Errorf("ReturnDest = %d, want 1", push.Callee.ReturnDest)
	}
}
