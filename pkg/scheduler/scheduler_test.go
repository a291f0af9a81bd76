package scheduler

import (
	"bytes"
	"strings"
	"testing"

	"circuitvm/pkg/assembler"
	"circuitvm/pkg/branch"
	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/frame"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

func TestRunLinearProgram(t *testing.T) {
	h := assembler.NewHand().Registers(3)
	h.Add(2, 0, 1)
	h.Return(2)
	module := h.Finish()

	gen := signal.NewIDGen()
	result, err := New(gen).Run(module.Chunk, module.RegisterSize, []value.Value{value.Number(2), value.Number(3)})
	if err != nil {
		t.Fatal(err)
	}
	if result.AsNumber() != 5 {
		t.Fatalf("Run() = %v, want 5", result)
	}
}

// TestRunSignalGuardedConditionalMerges builds, by hand, the bytecode for
// `if (x) { return 1 } else { return 2 }` where x arrives as a signal, and
// checks that the scheduler forks and then arithmetically merges the two
// branch results into a single derived signal instead of resolving the
// branch concretely.
func TestRunSignalGuardedConditionalMerges(t *testing.T) {
	h := assembler.NewHand().Registers(2)
	h, patch := h.JumpIfFalse(0)
	h.LoadConst(1, value.Number(1))
	h, jumpEnd := h.Jump()
	h.Patch(patch)
	h.LoadConst(1, value.Number(2))
	h.Patch(jumpEnd)
	h.Return(1)
	module := h.Finish()

	gen := signal.NewIDGen()
	guard := signal.NewInput(gen, ops.Bool, "x").Val()
	result, err := New(gen).Run(module.Chunk, module.RegisterSize, []value.Value{guard})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := signal.IsSignal(result); !ok {
		t.Fatalf("a signal-guarded conditional should merge to a derived signal, got %v", result)
	}
}

func TestSamePositionRequiresMatchingStacks(t *testing.T) {
	chunkA := bytecode.NewChunk()
	chunkA.WriteOpCode(bytecode.OpReturn, 1)
	chunkB := bytecode.NewChunk()
	chunkB.WriteOpCode(bytecode.OpReturn, 1)

	a := branch.New(frame.New(chunkA, 1))
	b := branch.New(frame.New(chunkB, 1))
	a.Frames[0].PC, b.Frames[0].PC = 3, 3

	if samePosition(a, b) {
		t.Fatal("branches at the same depth/PC but running different chunks must not be treated as reconverged")
	}

	c := branch.New(frame.New(chunkA, 2))
	c.Frames[0].PC = 3
	if samePosition(a, c) {
		t.Fatal("branches with different register-window sizes must not be treated as reconverged")
	}
}

func TestRunStepLimitExceeded(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOpCode(bytecode.OpJump, 1)
	c.WriteInt16(-3)

	gen := signal.NewIDGen()
	_, err := New(gen, WithStepLimit(10)).Run(c, 1, nil)
	if err == nil {
		t.Fatal("an infinite loop should exceed the step limit and return an error")
	}
	if !strings.Contains(err.Error(), "step limit") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRunWithTraceWritesInstructions(t *testing.T) {
	h := assembler.NewHand().Registers(1)
	h.LoadConst(0, value.Number(1))
	h.Return(0)
	module := h.Finish()

	var buf bytes.Buffer
	gen := signal.NewIDGen()
	if _, err := New(gen, WithTrace(&buf)).Run(module.Chunk, module.RegisterSize, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "OpLoadConst") {
		t.Errorf("trace output should mention the executed opcode, got %q", buf.String())
	}
}
