package branch

import (
	"testing"

	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/frame"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

func TestLessOrdersByDepthThenPC(t *testing.T) {
	shallow := &Branch{Frames: []*frame.Frame{frame.New(bytecode.NewChunk(), 1)}}
	deep := &Branch{Frames: []*frame.Frame{frame.New(bytecode.NewChunk(), 1), frame.New(bytecode.NewChunk(), 1)}}
	if !shallow.Less(deep) {
		t.Error("a shallower stack should have lower priority")
	}

	a := &Branch{Frames: []*frame.Frame{frame.New(bytecode.NewChunk(), 1)}}
	b := &Branch{Frames: []*frame.Frame{frame.New(bytecode.NewChunk(), 1)}}
	a.Frames[0].PC = 1
	b.Frames[0].PC = 5
	if !b.Less(a) {
		t.Error("at equal depth, the higher PC should have lower priority: the earlier position runs first")
	}
}

func TestStepReturnsDoneWhenStackEmpties(t *testing.T) {
	c := bytecode.NewChunk()
	idx := c.AddConstant(value.Number(42))
	c.WriteOpCode(bytecode.OpLoadConst, 1)
	c.WriteByte(0)
	c.WriteUint16(idx)
	c.WriteOpCode(bytecode.OpReturn, 1)
	c.WriteByte(0)

	b := New(frame.New(c, 1))

	if _, err := b.Step(); err != nil {
		t.Fatal(err)
	}
	res, err := b.Step()
	if err != nil {
		t.Fatal(err)
	}
	done, ok := res.(Done)
	if !ok {
		t.Fatalf("expected Done once the stack empties, got %#v", res)
	}
	if done.Value.AsNumber() != 42 {
		t.Errorf("Done.Value = %v, want 42", done.Value)
	}
}

func TestStepForksOnSignalGuard(t *testing.T) {
	c := bytecode.NewChunk()
	c.WriteOpCode(bytecode.OpJumpIfFalse, 1)
	c.WriteByte(0)
	c.WriteInt16(10)

	b := New(frame.New(c, 1))
	gen := signal.NewIDGen()
	guard := signal.NewInput(gen, ops.Bool, "flag").Val()
	b.top().Registers[0] = guard

	res, err := b.Step()
	if err != nil {
		t.Fatal(err)
	}
	forked, ok := res.(Forked)
	if !ok {
		t.Fatalf("expected Forked, got %#v", res)
	}
	if forked.A == b || forked.B == b {
		t.Error("fork should produce two brand new branches, not reuse the original")
	}
	if value.IdentEqual(forked.A.Flag, forked.B.Flag) {
		t.Error("the two forked branches should carry complementary flags")
	}
}

func TestUnwindPropagatesUncaughtException(t *testing.T) {
	c := bytecode.NewChunk()
	idx := c.AddConstant(value.Str("boom"))
	c.WriteOpCode(bytecode.OpLoadConst, 1)
	c.WriteByte(0)
	c.WriteUint16(idx)
	c.WriteOpCode(bytecode.OpThrow, 1)
	c.WriteByte(0)

	b := New(frame.New(c, 1))
	if _, err := b.Step(); err != nil {
		t.Fatal(err)
	}
	_, err := b.Step()
	if err == nil {
		t.Fatal("an uncaught throw should surface as an error")
	}
}

func TestUnwindHandlesActiveCatch(t *testing.T) {
	c := bytecode.NewChunk()
	idx := c.AddConstant(value.Str("boom"))
	c.WriteOpCode(bytecode.OpLoadConst, 1)
	c.WriteByte(0)
	c.WriteUint16(idx)
	c.WriteOpCode(bytecode.OpThrow, 1)
	c.WriteByte(0)
	handlerPC := len(c.Code)
	c.WriteOpCode(bytecode.OpReturn, 1)
	c.WriteByte(1)

	f := frame.New(c, 2)
	f.Catch = &frame.CatchInfo{HandlerPC: handlerPC, Register: 1}
	b := New(f)

	if _, err := b.Step(); err != nil {
		t.Fatal(err)
	}
	res, err := b.Step()
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := res.(Continue); !ok {
		t.Fatalf("a caught throw should continue, got %#v", res)
	}
	if f.Registers[1].AsString() != "boom" {
		t.Errorf("caught exception value = %v, want %q", f.Registers[1], "boom")
	}
}
