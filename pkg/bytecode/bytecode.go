// Package bytecode defines the register-machine instruction set the
// symbolic execution engine interprets (§4.2, §4.3). It is a narrow
// subset of a full language VM's opcode set: no generators, no `with`,
// no private class fields, no module imports — only the arithmetic,
// logical, comparison, control-flow, and call instructions a compiled
// arithmetic-circuit entry function can contain.
//
// Grounded on the teacher's own register-machine encoding
// (pkg/vm/bytecode.go and the orphaned pkg/bytecode/bytecode.go
// snapshot): one-byte opcode followed by a fixed run of register-index
// operands, constant-pool indices, or signed 16-bit jump offsets.
package bytecode

import (
	"fmt"
	"strings"

	"circuitvm/pkg/value"
)

// OpCode identifies a single bytecode instruction.
type OpCode uint8

const (
	// Format: OpCode <DestReg> <Operand1> <Operand2> ...

	OpLoadConst     OpCode = iota // Rx ConstIdx(u16): Rx = Constants[ConstIdx]
	OpLoadUnit                    // Rx: Rx = unit
	OpLoadUndefined               // Rx: Rx = undefined
	OpLoadNull                    // Rx: Rx = null
	OpLoadTrue                    // Rx: Rx = true
	OpLoadFalse                   // Rx: Rx = false
	OpMove                        // Rx Ry: Rx = Ry

	// Unary (Dest, Operand)
	OpUnaryPlus  // Rx Ry: Rx = +Ry
	OpNegate     // Rx Ry: Rx = -Ry
	OpNot        // Rx Ry: Rx = !Ry
	OpBitNot     // Rx Ry: Rx = ~Ry

	// Arithmetic (Dest, Left, Right)
	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpModulo
	OpExponent

	// Comparison (Dest, Left, Right) -> bool
	OpLooseEqual
	OpLooseNotEqual
	OpEqual
	OpNotEqual
	OpLess
	OpLessEqual
	OpGreater
	OpGreaterEqual

	// Logical (Dest, Left, Right) -> §4.1's logical result-type rule
	OpLogicalAnd
	OpLogicalOr

	// Bitwise (Dest, Left, Right)
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShiftLeft
	OpShiftRight
	OpShiftRightUnsigned

	// Composite values
	OpNewArray  // Rx: Rx = new empty array
	OpArrayGet  // Rx Ry Rz: Rx = Ry[Rz]
	OpArraySet  // Rx Ry Rz: Rx[Ry] = Rz
	OpArrayPush // Rx Ry: push Ry onto array Rx
	OpNewObject // Rx: Rx = new empty object
	OpObjectGet // Rx Ry ConstIdx(u16): Rx = Ry.Constants[ConstIdx]
	OpObjectSet // Rx ConstIdx(u16) Rz: Rx.Constants[ConstIdx] = Rz

	// Function/Call
	OpCall   // Rx FuncReg ArgStart ArgCount: call FuncReg with registers [ArgStart, ArgStart+ArgCount), result in Rx
	OpReturn // Rx: return value in register Rx
	OpReturnUndefined

	// Control flow
	OpJump        // Offset(i16): unconditional relative jump
	OpJumpIfFalse // Rx Offset(i16): jump if Rx is falsey
	OpJumpIfTrue  // Rx Offset(i16): jump if Rx is truthy

	// Exceptions
	OpThrow // Rx: raise Rx as an uncaught exception unless a catch frame is active
)

func (op OpCode) String() string {
	names := [...]string{
		"OpLoadConst", "OpLoadUnit", "OpLoadUndefined", "OpLoadNull", "OpLoadTrue", "OpLoadFalse", "OpMove",
		"OpUnaryPlus", "OpNegate", "OpNot", "OpBitNot",
		"OpAdd", "OpSubtract", "OpMultiply", "OpDivide", "OpModulo", "OpExponent",
		"OpLooseEqual", "OpLooseNotEqual", "OpEqual", "OpNotEqual", "OpLess", "OpLessEqual", "OpGreater", "OpGreaterEqual",
		"OpLogicalAnd", "OpLogicalOr",
		"OpBitAnd", "OpBitOr", "OpBitXor", "OpShiftLeft", "OpShiftRight", "OpShiftRightUnsigned",
		"OpNewArray", "OpArrayGet", "OpArraySet", "OpArrayPush", "OpNewObject", "OpObjectGet", "OpObjectSet",
		"OpCall", "OpReturn", "OpReturnUndefined",
		"OpJump", "OpJumpIfFalse", "OpJumpIfTrue",
		"OpThrow",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return fmt.Sprintf("UnknownOpcode(%d)", op)
}

// Chunk is a sequence of bytecode instructions plus its constant pool.
// Constants hold value.Value directly (functions included), mirroring the
// teacher's Chunk shape.
type Chunk struct {
	Code      []byte
	Constants []value.Value
	Lines     []int
}

func NewChunk() *Chunk {
	return &Chunk{Code: make([]byte, 0), Constants: make([]value.Value, 0), Lines: make([]int, 0)}
}

func (c *Chunk) WriteOpCode(op OpCode, line int) {
	c.Code = append(c.Code, byte(op))
	c.Lines = append(c.Lines, line)
}

func (c *Chunk) WriteByte(b byte) {
	c.Code = append(c.Code, b)
}

// WriteInt16 appends a signed 16-bit value, big-endian, used for jump
// offsets (relative, may be negative for loop backedges).
func (c *Chunk) WriteInt16(v int16) {
	u := uint16(v)
	c.Code = append(c.Code, byte(u>>8), byte(u&0xff))
}

// WriteUint16 appends an unsigned 16-bit value, big-endian, used for
// constant-pool indices.
func (c *Chunk) WriteUint16(v uint16) {
	c.Code = append(c.Code, byte(v>>8), byte(v&0xff))
}

func (c *Chunk) ReadInt16(offset int) int16 {
	return int16(uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1]))
}

func (c *Chunk) ReadUint16(offset int) uint16 {
	return uint16(c.Code[offset])<<8 | uint16(c.Code[offset+1])
}

// AddConstant appends v to the constant pool and returns its index.
func (c *Chunk) AddConstant(v value.Value) uint16 {
	c.Constants = append(c.Constants, v)
	idx := len(c.Constants) - 1
	if idx > 65535 {
		panic("bytecode: too many constants in one chunk")
	}
	return uint16(idx)
}

// --- Disassembly ---

// DisassembleChunk returns a human-readable listing of the whole chunk,
// used by tests asserting on emitted instruction shape. The --trace path
// renders one instruction at a time through DisassembleInstructionAt.
func (c *Chunk) DisassembleChunk(name string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)
	offset := 0
	for offset < len(c.Code) {
		offset = c.disassembleInstruction(&b, offset)
	}
	return b.String()
}

// DisassembleInstructionAt returns a human-readable rendering of the
// single instruction at offset, without a trailing newline.
func (c *Chunk) DisassembleInstructionAt(offset int) string {
	var b strings.Builder
	c.disassembleInstruction(&b, offset)
	return strings.TrimSuffix(b.String(), "\n")
}

func (c *Chunk) disassembleInstruction(b *strings.Builder, offset int) int {
	fmt.Fprintf(b, "%04d ", offset)
	op := OpCode(c.Code[offset])
	switch op {
	case OpLoadConst:
		return c.constRegInstruction(b, op, offset)
	case OpLoadUnit, OpLoadUndefined, OpLoadNull, OpLoadTrue, OpLoadFalse, OpReturn, OpNewArray, OpNewObject, OpThrow:
		return c.regInstruction(b, op, offset)
	case OpMove, OpUnaryPlus, OpNegate, OpNot, OpBitNot, OpArrayPush:
		return c.regRegInstruction(b, op, offset)
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpExponent,
		OpLooseEqual, OpLooseNotEqual, OpEqual, OpNotEqual, OpLess, OpLessEqual, OpGreater, OpGreaterEqual,
		OpLogicalAnd, OpLogicalOr, OpBitAnd, OpBitOr, OpBitXor, OpShiftLeft, OpShiftRight, OpShiftRightUnsigned,
		OpArrayGet, OpArraySet:
		return c.regRegRegInstruction(b, op, offset)
	case OpObjectGet:
		rx, ry := c.Code[offset+1], c.Code[offset+2]
		idx := c.ReadUint16(offset + 3)
		fmt.Fprintf(b, "%-18s R%d, R%d, #%d\n", op, rx, ry, idx)
		return offset + 5
	case OpObjectSet:
		return c.regConstRegInstruction(b, op, offset)
	case OpCall:
		return c.callInstruction(b, op, offset)
	case OpReturnUndefined:
		return c.simpleInstruction(b, op, offset)
	case OpJump:
		return c.jumpInstruction(b, op, offset, false)
	case OpJumpIfFalse, OpJumpIfTrue:
		return c.jumpInstruction(b, op, offset, true)
	default:
		fmt.Fprintf(b, "unknown opcode %d\n", op)
		return offset + 1
	}
}

func (c *Chunk) simpleInstruction(b *strings.Builder, op OpCode, offset int) int {
	fmt.Fprintf(b, "%s\n", op)
	return offset + 1
}

func (c *Chunk) regInstruction(b *strings.Builder, op OpCode, offset int) int {
	reg := c.Code[offset+1]
	fmt.Fprintf(b, "%-18s R%d\n", op, reg)
	return offset + 2
}

func (c *Chunk) regRegInstruction(b *strings.Builder, op OpCode, offset int) int {
	rx, ry := c.Code[offset+1], c.Code[offset+2]
	fmt.Fprintf(b, "%-18s R%d, R%d\n", op, rx, ry)
	return offset + 3
}

func (c *Chunk) regRegRegInstruction(b *strings.Builder, op OpCode, offset int) int {
	rx, ry, rz := c.Code[offset+1], c.Code[offset+2], c.Code[offset+3]
	fmt.Fprintf(b, "%-18s R%d, R%d, R%d\n", op, rx, ry, rz)
	return offset + 4
}

func (c *Chunk) constRegInstruction(b *strings.Builder, op OpCode, offset int) int {
	reg := c.Code[offset+1]
	idx := c.ReadUint16(offset + 2)
	if int(idx) < len(c.Constants) {
		fmt.Fprintf(b, "%-18s R%d, %d ('%v')\n", op, reg, idx, c.Constants[idx])
	} else {
		fmt.Fprintf(b, "%-18s R%d, %d (invalid)\n", op, reg, idx)
	}
	return offset + 4
}

func (c *Chunk) regConstRegInstruction(b *strings.Builder, op OpCode, offset int) int {
	rx := c.Code[offset+1]
	idx := c.ReadUint16(offset + 2)
	rz := c.Code[offset+4]
	fmt.Fprintf(b, "%-18s R%d, #%d, R%d\n", op, rx, idx, rz)
	return offset + 5
}

func (c *Chunk) callInstruction(b *strings.Builder, op OpCode, offset int) int {
	dest, funcReg, argStart, argCount := c.Code[offset+1], c.Code[offset+2], c.Code[offset+3], c.Code[offset+4]
	fmt.Fprintf(b, "%-18s R%d, R%d, args[R%d:%d]\n", op, dest, funcReg, argStart, argCount)
	return offset + 5
}

func (c *Chunk) jumpInstruction(b *strings.Builder, op OpCode, offset int, hasReg bool) int {
	if hasReg {
		reg := c.Code[offset+1]
		delta := c.ReadInt16(offset + 2)
		fmt.Fprintf(b, "%-18s R%d, %+d (to %04d)\n", op, reg, delta, offset+4+int(delta))
		return offset + 4
	}
	delta := c.ReadInt16(offset + 1)
	fmt.Fprintf(b, "%-18s %+d (to %04d)\n", op, delta, offset+3+int(delta))
	return offset + 3
}
