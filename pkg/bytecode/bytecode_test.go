package bytecode

import (
	"strings"
	"testing"

	"circuitvm/pkg/value"
)

func TestChunkWriteReadUint16(t *testing.T) {
	c := NewChunk()
	c.WriteUint16(0xBEEF)
	if got := c.ReadUint16(0); got != 0xBEEF {
		t.Fatalf("ReadUint16() = %x, want %x", got, 0xBEEF)
	}
}

func TestChunkWriteReadInt16Negative(t *testing.T) {
	c := NewChunk()
	c.WriteInt16(-5)
	if got := c.ReadInt16(0); got != -5 {
		t.Fatalf("ReadInt16() = %d, want -5", got)
	}
}

func TestAddConstantReturnsIndex(t *testing.T) {
	c := NewChunk()
	i0 := c.AddConstant(value.Number(1))
	i1 := c.AddConstant(value.Number(2))
	if i0 != 0 || i1 != 1 {
		t.Fatalf("AddConstant indices = %d, %d, want 0, 1", i0, i1)
	}
	if c.Constants[i1].AsNumber() != 2 {
		t.Error("constant pool did not retain the added value")
	}
}

func TestDisassembleChunkListsEveryInstruction(t *testing.T) {
	c := NewChunk()
	dest := c.AddConstant(value.Number(42))
	c.WriteOpCode(OpLoadConst, 1)
	c.WriteByte(0)
	c.WriteUint16(dest)
	c.WriteOpCode(OpReturn, 1)
	c.WriteByte(0)

	out := c.DisassembleChunk("main")
	if !strings.Contains(out, "OpLoadConst") {
		t.Error("disassembly should mention OpLoadConst")
	}
	if !strings.Contains(out, "OpReturn") {
		t.Error("disassembly should mention OpReturn")
	}
}

func TestDisassembleInstructionAtHasNoTrailingNewline(t *testing.T) {
	c := NewChunk()
	c.WriteOpCode(OpReturnUndefined, 1)
	out := c.DisassembleInstructionAt(0)
	if strings.HasSuffix(out, "\n") {
		t.Error("DisassembleInstructionAt should trim its trailing newline")
	}
	if !strings.Contains(out, "OpReturnUndefined") {
		t.Errorf("unexpected disassembly: %q", out)
	}
}

func TestOpCodeStringUnknown(t *testing.T) {
	op := OpCode(200)
	if !strings.HasPrefix(op.String(), "UnknownOpcode") {
		t.Errorf("String() on an out-of-range opcode = %q", op.String())
	}
}
