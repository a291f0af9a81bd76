// Package value implements the tagged-union value domain the symbolic
// execution engine operates over: primitives, composite values, function
// descriptors, and the Dynamic escape hatch that hosts symbolic signals.
//
// The teacher's own value type (pkg/values/value.go) NaN-boxes through an
// unsafe.Pointer + uint64 payload for speed. This package uses a plain
// tagged struct instead — see DESIGN.md for why — following the shape of
// an earlier, simpler snapshot of the same teacher (pkg/value/value.go,
// module paseratti2) that used exactly this `Type` + union-of-fields
// layout before the NaN-boxing rewrite.
package value

import (
	"fmt"
	"math"
	"math/big"

	"circuitvm/pkg/ops"
)

// ValueType tags which variant a Value holds.
type ValueType uint8

const (
	TypeUnit ValueType = iota
	TypeUndefined
	TypeNull
	TypeBool
	TypeNumber
	TypeBigInt
	TypeString
	TypeArray
	TypeObject
	TypeFunction
	TypeClass         // declared but inert: see SPEC_FULL.md
	TypeStaticBuiltin // declared but inert: see SPEC_FULL.md
	TypeDynamic       // hosts a Dynamic payload (signal.Signal, merge.CouldNotMerge, ...)
	TypeCopyCounter   // test instrumentation for clone-on-write (§3, §9)
	TypeStoragePtr    // unused in the core; declared for completeness with spec §3
)

func (t ValueType) String() string {
	switch t {
	case TypeUnit:
		return "unit"
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeBigInt:
		return "bigint"
	case TypeString:
		return "string"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	case TypeFunction:
		return "function"
	case TypeClass:
		return "class"
	case TypeStaticBuiltin:
		return "static-builtin"
	case TypeDynamic:
		return "dynamic"
	case TypeCopyCounter:
		return "copy-counter"
	case TypeStoragePtr:
		return "storage-ptr"
	default:
		return fmt.Sprintf("unknown-type(%d)", t)
	}
}

// Dynamic is the open polymorphic hook spec §9 calls for: the only variant
// whose behavior is not fixed by the tagged union. signal.Signal and
// merge.CouldNotMerge are the two implementations in this codebase.
type Dynamic interface {
	// Pretty returns a short debug label, analogous to the original's
	// ValTrait::codify.
	Pretty() string
}

// UnaryOverrider is implemented by Dynamic values that can intercept unary
// operator application (§4.1's "unary override").
type UnaryOverrider interface {
	Dynamic
	OverrideUnary(op ops.UnaryOp, operand Value) (Value, bool)
}

// BinaryOverrider is implemented by Dynamic values that can intercept
// binary operator application (§4.1's "binary override").
type BinaryOverrider interface {
	Dynamic
	OverrideBinary(op ops.BinaryOp, left, right Value) (Value, bool)
}

// Value is the tagged union described in spec §3.
type Value struct {
	typ ValueType
	num float64 // Bool (0/1) and Number payload
	str string  // String payload
	obj any     // heap-shared payload: *Array, *Object, *Function, *big.Int, Dynamic, *CopyCounter, *StoragePtr, *Class, *StaticBuiltin
}

var (
	Unit      = Value{typ: TypeUnit}
	Undefined = Value{typ: TypeUndefined}
	Null      = Value{typ: TypeNull}
	True      = Value{typ: TypeBool, num: 1}
	False     = Value{typ: TypeBool, num: 0}
)

func Bool(b bool) Value {
	if b {
		return True
	}
	return False
}

func Number(n float64) Value {
	return Value{typ: TypeNumber, num: n}
}

func Int(n int) Value {
	return Number(float64(n))
}

func BigInt(n *big.Int) Value {
	return Value{typ: TypeBigInt, obj: n}
}

func Str(s string) Value {
	return Value{typ: TypeString, str: s}
}

// DynamicVal wraps a Dynamic payload (a signal or a could-not-merge
// sentinel) as a Value.
func DynamicVal(d Dynamic) Value {
	return Value{typ: TypeDynamic, obj: d}
}

// CopyCounter is test instrumentation: a heap-shared counter payload.
// Nothing in this module increments Count; Frame.Clone copies a Value
// holding one like any other register value.
type CopyCounter struct {
	Count int
}

func NewCopyCounter() Value {
	return Value{typ: TypeCopyCounter, obj: &CopyCounter{}}
}

// StoragePtr is declared but never produced by this core (§3: "unused in
// the core").
type StoragePtr struct{}

func NewStoragePtr() Value {
	return Value{typ: TypeStoragePtr, obj: &StoragePtr{}}
}

// Class and StaticBuiltin are declared-but-inert per §3: constructible and
// reportable via Type(), but never produced by the bytecode subset this
// engine interprets (no class declarations or builtin globals reach a
// circuit-representable entry function).
type Class struct{ Name string }
type StaticBuiltin struct{ Name string }

func NewClass(name string) Value         { return Value{typ: TypeClass, obj: &Class{Name: name}} }
func NewStaticBuiltin(name string) Value { return Value{typ: TypeStaticBuiltin, obj: &StaticBuiltin{Name: name}} }

// Type returns the variant tag.
func (v Value) Type() ValueType { return v.typ }

func (v Value) IsUnit() bool      { return v.typ == TypeUnit }
func (v Value) IsUndefined() bool { return v.typ == TypeUndefined }
func (v Value) IsNull() bool     { return v.typ == TypeNull }
func (v Value) IsBool() bool     { return v.typ == TypeBool }
func (v Value) IsNumber() bool   { return v.typ == TypeNumber }
func (v Value) IsBigInt() bool   { return v.typ == TypeBigInt }
func (v Value) IsString() bool   { return v.typ == TypeString }
func (v Value) IsArray() bool    { return v.typ == TypeArray }
func (v Value) IsObject() bool   { return v.typ == TypeObject }
func (v Value) IsFunction() bool { return v.typ == TypeFunction }
func (v Value) IsDynamic() bool  { return v.typ == TypeDynamic }

// ElemType reports the elementary type (number/bool) used by §4.1's result
// tables. Panics if v is neither a number, bool, nor a Dynamic that itself
// declares an elementary type (a Signal).
func (v Value) ElemType() ops.ElemType {
	switch v.typ {
	case TypeBool:
		return ops.Bool
	case TypeNumber:
		return ops.Number
	case TypeDynamic:
		if et, ok := v.obj.(interface{ ElemType() ops.ElemType }); ok {
			return et.ElemType()
		}
	}
	panic("value: ElemType() called on a value with no elementary type: " + v.typ.String())
}

func (v Value) AsBool() bool {
	if v.typ != TypeBool {
		panic("value: not a bool")
	}
	return v.num != 0
}

func (v Value) AsNumber() float64 {
	if v.typ != TypeNumber {
		panic("value: not a number")
	}
	return v.num
}

func (v Value) AsBigInt() *big.Int {
	if v.typ != TypeBigInt {
		panic("value: not a bigint")
	}
	return v.obj.(*big.Int)
}

func (v Value) AsString() string {
	if v.typ != TypeString {
		panic("value: not a string")
	}
	return v.str
}

func (v Value) AsArray() *Array {
	if v.typ != TypeArray {
		panic("value: not an array")
	}
	return v.obj.(*Array)
}

func (v Value) AsObject() *Object {
	if v.typ != TypeObject {
		panic("value: not an object")
	}
	return v.obj.(*Object)
}

func (v Value) AsFunction() *Function {
	if v.typ != TypeFunction {
		panic("value: not a function")
	}
	return v.obj.(*Function)
}

func (v Value) AsDynamic() Dynamic {
	if v.typ != TypeDynamic {
		panic("value: not dynamic")
	}
	return v.obj.(Dynamic)
}

func (v Value) AsCopyCounter() *CopyCounter {
	if v.typ != TypeCopyCounter {
		panic("value: not a copy-counter")
	}
	return v.obj.(*CopyCounter)
}

// IsTruthy follows JS-style truthiness for the primitive variants this
// engine's bytecode can actually branch on directly (a Dynamic guard never
// reaches here: it is intercepted earlier by the fork machinery in
// pkg/frame).
func (v Value) IsTruthy() bool {
	switch v.typ {
	case TypeUnit, TypeUndefined, TypeNull:
		return false
	case TypeBool:
		return v.num != 0
	case TypeNumber:
		return v.num != 0 && !math.IsNaN(v.num)
	case TypeString:
		return v.str != ""
	default:
		return true
	}
}

// IdentEqual is the "identically equal" relation from §3: primitive
// payloads match exactly, or heap-shared payloads are the same allocation.
func IdentEqual(a, b Value) bool {
	if a.typ != b.typ {
		return false
	}
	switch a.typ {
	case TypeUnit, TypeUndefined, TypeNull:
		return true
	case TypeBool, TypeNumber:
		return a.num == b.num
	case TypeString:
		return a.str == b.str
	case TypeBigInt:
		return a.AsBigInt().Cmp(b.AsBigInt()) == 0
	default:
		return a.obj == b.obj
	}
}

func (v Value) String() string {
	switch v.typ {
	case TypeUnit:
		return "()"
	case TypeUndefined:
		return "undefined"
	case TypeNull:
		return "null"
	case TypeBool:
		return fmt.Sprintf("%t", v.AsBool())
	case TypeNumber:
		return fmt.Sprintf("%v", v.num)
	case TypeBigInt:
		return v.AsBigInt().String()
	case TypeString:
		return v.str
	case TypeArray:
		return v.AsArray().String()
	case TypeObject:
		return "[object]"
	case TypeFunction:
		return "[function " + v.AsFunction().Name + "]"
	case TypeClass:
		return "[class " + v.obj.(*Class).Name + "]"
	case TypeStaticBuiltin:
		return "[builtin " + v.obj.(*StaticBuiltin).Name + "]"
	case TypeDynamic:
		return v.AsDynamic().Pretty()
	case TypeCopyCounter:
		return fmt.Sprintf("[copy-counter %d]", v.AsCopyCounter().Count)
	case TypeStoragePtr:
		return "[storage-ptr]"
	default:
		return "<unknown value>"
	}
}
