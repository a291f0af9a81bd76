package frame

import (
	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/cerr"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/value"
)

// StepResult is the sum type Step reports back to its caller (pkg/branch),
// per spec §9's suggested redesign of the interpreter step into an
// explicit return value instead of frame-mutates-in-place side effects.
type StepResult interface {
	isStepResult()
}

// StepContinue means the instruction executed and the frame should keep
// running. If f.Fork was set by this step, the caller must handle the
// fork before calling Step again.
type StepContinue struct{}

// StepPush means a call instruction was executed: Callee should be pushed
// onto the branch's frame stack and become the active frame.
type StepPush struct {
	Callee *Frame
}

// StepPop means the frame returned: Value should be written into register
// Dest of the new top-of-stack frame (after this frame is popped), or
// become the branch's final result if the stack is now empty.
type StepPop struct {
	Dest  byte
	Value value.Value
}

// StepException means an uncaught exception escaped this frame (no active
// Catch). The caller unwinds the stack looking for a handler.
type StepException struct {
	Value value.Value
}

func (StepContinue) isStepResult()  {}
func (StepPush) isStepResult()      {}
func (StepPop) isStepResult()       {}
func (StepException) isStepResult() {}

// Step executes exactly one instruction in f and reports what happened.
func Step(f *Frame) (StepResult, error) {
	code := f.Chunk.Code
	op := bytecode.OpCode(code[f.PC])

	switch op {
	case bytecode.OpLoadConst:
		reg := code[f.PC+1]
		idx := f.Chunk.ReadUint16(f.PC + 2)
		f.Registers[reg] = f.Chunk.Constants[idx]
		f.PC += 4

	case bytecode.OpLoadUnit:
		f.Registers[code[f.PC+1]] = value.Unit
		f.PC += 2
	case bytecode.OpLoadUndefined:
		f.Registers[code[f.PC+1]] = value.Undefined
		f.PC += 2
	case bytecode.OpLoadNull:
		f.Registers[code[f.PC+1]] = value.Null
		f.PC += 2
	case bytecode.OpLoadTrue:
		f.Registers[code[f.PC+1]] = value.True
		f.PC += 2
	case bytecode.OpLoadFalse:
		f.Registers[code[f.PC+1]] = value.False
		f.PC += 2

	case bytecode.OpMove:
		f.Registers[code[f.PC+1]] = f.Registers[code[f.PC+2]]
		f.PC += 3

	case bytecode.OpUnaryPlus, bytecode.OpNegate, bytecode.OpNot, bytecode.OpBitNot:
		if err := stepUnary(f, op); err != nil {
			return nil, err
		}
		f.PC += 3

	case bytecode.OpAdd, bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide,
		bytecode.OpModulo, bytecode.OpExponent,
		bytecode.OpLooseEqual, bytecode.OpLooseNotEqual, bytecode.OpEqual, bytecode.OpNotEqual,
		bytecode.OpLess, bytecode.OpLessEqual, bytecode.OpGreater, bytecode.OpGreaterEqual,
		bytecode.OpLogicalAnd, bytecode.OpLogicalOr,
		bytecode.OpBitAnd, bytecode.OpBitOr, bytecode.OpBitXor,
		bytecode.OpShiftLeft, bytecode.OpShiftRight, bytecode.OpShiftRightUnsigned:
		if err := stepBinary(f, op); err != nil {
			return nil, err
		}
		f.PC += 4

	case bytecode.OpNewArray:
		f.Registers[code[f.PC+1]] = value.NewArray()
		f.PC += 2
	case bytecode.OpNewObject:
		f.Registers[code[f.PC+1]] = value.NewObject()
		f.PC += 2

	case bytecode.OpArrayGet:
		dest, arr, idx := code[f.PC+1], code[f.PC+2], code[f.PC+3]
		idxVal := f.Registers[idx]
		if idxVal.IsDynamic() {
			return nil, &cerr.StructuralError{Msg: "array index must not be signal-valued"}
		}
		f.Registers[dest] = f.Registers[arr].AsArray().Get(int(idxVal.AsNumber()))
		f.PC += 4
	case bytecode.OpArraySet:
		arr, idx, val := code[f.PC+1], code[f.PC+2], code[f.PC+3]
		idxVal := f.Registers[idx]
		if idxVal.IsDynamic() {
			return nil, &cerr.StructuralError{Msg: "array index must not be signal-valued"}
		}
		f.Registers[arr].AsArray().Set(int(idxVal.AsNumber()), f.Registers[val])
		f.PC += 4
	case bytecode.OpArrayPush:
		arr, val := code[f.PC+1], code[f.PC+2]
		f.Registers[arr].AsArray().Push(f.Registers[val])
		f.PC += 3

	case bytecode.OpObjectGet:
		dest, obj := code[f.PC+1], code[f.PC+2]
		idx := f.Chunk.ReadUint16(f.PC + 3)
		key := f.Chunk.Constants[idx].AsString()
		v, ok := f.Registers[obj].AsObject().Get(key)
		if !ok {
			v = value.Undefined
		}
		f.Registers[dest] = v
		f.PC += 5
	case bytecode.OpObjectSet:
		obj := code[f.PC+1]
		idx := f.Chunk.ReadUint16(f.PC + 2)
		val := code[f.PC+4]
		key := f.Chunk.Constants[idx].AsString()
		f.Registers[obj].AsObject().Set(key, f.Registers[val])
		f.PC += 5

	case bytecode.OpCall:
		return stepCall(f)

	case bytecode.OpReturn:
		v := f.Registers[code[f.PC+1]]
		return StepPop{Dest: f.ReturnDest, Value: v}, nil
	case bytecode.OpReturnUndefined:
		return StepPop{Dest: f.ReturnDest, Value: value.Undefined}, nil

	case bytecode.OpJump:
		delta := f.Chunk.ReadInt16(f.PC + 1)
		f.PC = f.PC + 3 + int(delta)

	case bytecode.OpJumpIfFalse, bytecode.OpJumpIfTrue:
		return stepConditionalJump(f, op)

	case bytecode.OpThrow:
		v := f.Registers[code[f.PC+1]]
		if f.Catch != nil {
			f.Registers[f.Catch.Register] = v
			f.PC = f.Catch.HandlerPC
			f.Catch = nil
			return StepContinue{}, nil
		}
		return StepException{Value: v}, nil

	default:
		return nil, &cerr.StructuralError{Msg: "unknown opcode in chunk"}
	}

	return StepContinue{}, nil
}

func stepUnary(f *Frame, op bytecode.OpCode) error {
	code := f.Chunk.Code
	dest, src := code[f.PC+1], code[f.PC+2]
	var uop ops.UnaryOp
	switch op {
	case bytecode.OpUnaryPlus:
		uop = ops.Plus
	case bytecode.OpNegate:
		uop = ops.Minus
	case bytecode.OpNot:
		uop = ops.Not
	case bytecode.OpBitNot:
		uop = ops.BitNot
	}
	v, err := ApplyUnary(uop, f.Registers[src])
	if err != nil {
		return err
	}
	f.Registers[dest] = v
	return nil
}

var binaryOpTable = map[bytecode.OpCode]ops.BinaryOp{
	bytecode.OpAdd:                  ops.Add,
	bytecode.OpSubtract:             ops.Sub,
	bytecode.OpMultiply:             ops.Mul,
	bytecode.OpDivide:               ops.Div,
	bytecode.OpModulo:               ops.Mod,
	bytecode.OpExponent:             ops.Exp,
	bytecode.OpLooseEqual:           ops.LooseEq,
	bytecode.OpLooseNotEqual:        ops.LooseNe,
	bytecode.OpEqual:                ops.Eq,
	bytecode.OpNotEqual:             ops.Ne,
	bytecode.OpLess:                 ops.Less,
	bytecode.OpLessEqual:            ops.LessEq,
	bytecode.OpGreater:              ops.Greater,
	bytecode.OpGreaterEqual:         ops.GreaterEq,
	bytecode.OpLogicalAnd:           ops.And,
	bytecode.OpLogicalOr:            ops.Or,
	bytecode.OpBitAnd:               ops.BitAnd,
	bytecode.OpBitOr:                ops.BitOr,
	bytecode.OpBitXor:               ops.BitXor,
	bytecode.OpShiftLeft:            ops.LeftShift,
	bytecode.OpShiftRight:           ops.RightShift,
	bytecode.OpShiftRightUnsigned:   ops.RightShiftUnsigned,
}

func stepBinary(f *Frame, op bytecode.OpCode) error {
	code := f.Chunk.Code
	dest, left, right := code[f.PC+1], code[f.PC+2], code[f.PC+3]
	bop := binaryOpTable[op]
	v, err := ApplyBinary(bop, f.Registers[left], f.Registers[right])
	if err != nil {
		return err
	}
	f.Registers[dest] = v
	return nil
}

func stepCall(f *Frame) (StepResult, error) {
	code := f.Chunk.Code
	dest, funcReg, argStart, argCount := code[f.PC+1], code[f.PC+2], code[f.PC+3], code[f.PC+4]
	fnVal := f.Registers[funcReg]
	if !fnVal.IsFunction() {
		return nil, &cerr.StructuralError{Msg: "call target is not a function"}
	}
	fn := fnVal.AsFunction()
	chunk, ok := fn.Chunk.(*bytecode.Chunk)
	if !ok {
		return nil, &cerr.SchedulerFault{Msg: "function constant has no bytecode chunk"}
	}
	callee := New(chunk, fn.RegisterSize)
	callee.ReturnDest = dest
	copy(callee.Registers, fn.Bound)
	for i := 0; i < int(argCount); i++ {
		callee.Registers[len(fn.Bound)+i] = f.Registers[int(argStart)+i]
	}
	f.PC += 5
	return StepPush{Callee: callee}, nil
}

// stepConditionalJump handles both concrete and signal-guarded
// conditional jumps. A concrete guard takes effect immediately, like any
// other jump; a signal-valued guard leaves f.Fork populated and returns
// StepContinue without moving the program counter, deferring the actual
// fork to the owning Branch (§4.3).
func stepConditionalJump(f *Frame, op bytecode.OpCode) (StepResult, error) {
	code := f.Chunk.Code
	reg := code[f.PC+1]
	delta := f.Chunk.ReadInt16(f.PC + 2)
	guard := f.Registers[reg]
	nextPC := f.PC + 4
	takenPC := f.PC + 4 + int(delta)

	if !guard.IsDynamic() {
		wantJump := guard.IsTruthy()
		if op == bytecode.OpJumpIfFalse {
			wantJump = !wantJump
		}
		if wantJump {
			f.PC = takenPC
		} else {
			f.PC = nextPC
		}
		return StepContinue{}, nil
	}

	fallthroughPC, jumpPC := nextPC, takenPC
	if op == bytecode.OpJumpIfFalse {
		// Falling through means the guard was truthy; taking the jump
		// means it was falsey. Normalize Fork so TakenPC always means
		// "guard evaluated truthy".
		jumpPC, fallthroughPC = fallthroughPC, jumpPC
	}
	f.Fork = &ForkInfo{Flag: guard, TakenPC: jumpPC, FallthroughPC: fallthroughPC}
	return StepContinue{}, nil
}
