// Package ops defines the unary and binary operators the symbolic execution
// engine understands, independent of how they're encoded in bytecode or how
// they're spelled in the emitted Bristol circuit.
package ops

// ElemType is the declared elementary type of a circuit-representable
// scalar: the result of applying an operator is always one of these two
// per §4.1's result-type table.
type ElemType uint8

const (
	Number ElemType = iota
	Bool
)

func (t ElemType) String() string {
	switch t {
	case Number:
		return "number"
	case Bool:
		return "bool"
	default:
		return "unknown"
	}
}

// UnaryOp enumerates the unary operators a signal's operator-override hook
// can receive. Rx Ry: Rx = Op(Ry).
type UnaryOp uint8

const (
	Plus   UnaryOp = iota // +x (unary plus / numeric coercion)
	Minus                 // -x
	Not                   // !x (logical not)
	BitNot                // ~x
)

func (op UnaryOp) String() string {
	switch op {
	case Plus:
		return "Plus"
	case Minus:
		return "Minus"
	case Not:
		return "Not"
	case BitNot:
		return "BitNot"
	default:
		return "UnknownUnaryOp"
	}
}

// ResultType is the declared type of a signal produced by applying this
// unary operator, per §4.1.
func (op UnaryOp) ResultType() ElemType {
	switch op {
	case Not:
		return Bool
	default:
		return Number
	}
}

// BinaryOp enumerates the binary operators a signal's operator-override
// hook can receive. Rx Ry Rz: Rx = Ry Op Rz.
type BinaryOp uint8

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Mod
	Exp

	LooseEq
	LooseNe
	Eq
	Ne

	And // logical &&
	Or  // logical ||

	Less
	LessEq
	Greater
	GreaterEq

	BitAnd
	BitOr
	BitXor
	LeftShift
	RightShift
	RightShiftUnsigned
)

func (op BinaryOp) String() string {
	names := [...]string{
		"Add", "Sub", "Mul", "Div", "Mod", "Exp",
		"LooseEq", "LooseNe", "Eq", "Ne",
		"And", "Or",
		"Less", "LessEq", "Greater", "GreaterEq",
		"BitAnd", "BitOr", "BitXor", "LeftShift", "RightShift", "RightShiftUnsigned",
	}
	if int(op) < len(names) {
		return names[op]
	}
	return "UnknownBinaryOp"
}

// IsComparison reports whether op always produces a bool regardless of its
// operand types (equality, ordering).
func (op BinaryOp) IsComparison() bool {
	switch op {
	case LooseEq, LooseNe, Eq, Ne, Less, LessEq, Greater, GreaterEq:
		return true
	default:
		return false
	}
}

// IsLogical reports whether op is the boolean &&/|| family, whose result
// type depends on its operands (§4.1: "bool if both operands are bool else
// number").
func (op BinaryOp) IsLogical() bool {
	return op == And || op == Or
}

// ResultType is the declared type of a signal produced by applying this
// binary operator to operands of the given declared types, per §4.1.
// leftType/rightType are only consulted for the logical family.
func (op BinaryOp) ResultType(leftType, rightType ElemType) ElemType {
	switch {
	case op.IsComparison():
		return Bool
	case op.IsLogical():
		if leftType == Bool && rightType == Bool {
			return Bool
		}
		return Number
	default:
		return Number
	}
}
