package ops

// BristolUnary maps an internal unary operator to its Bristol Fashion gate
// token, per the table in spec §6. Grounded directly on
// compiler/src/bristol_op_strings.rs's to_bristol_unary_op.
func BristolUnary(op UnaryOp) string {
	switch op {
	case Plus:
		return "AUnaryAdd"
	case Minus:
		return "AUnarySub"
	case Not:
		return "ANot"
	case BitNot:
		return "ABitNot"
	default:
		panic("ops: no Bristol token for unary op " + op.String())
	}
}

// BristolBinary maps an internal binary operator to its Bristol Fashion
// gate token. Loose and strict equality collapse to the same token, the
// way the Rust original's to_bristol_binary_op does, since the circuit
// backend has no notion of JS-style type coercion once operands are
// already numbers/bools.
func BristolBinary(op BinaryOp) string {
	switch op {
	case Add:
		return "AAdd"
	case Sub:
		return "ASub"
	case Mul:
		return "AMul"
	case Div:
		return "ADiv"
	case Mod:
		return "AMod"
	case Exp:
		return "AExp"
	case LooseEq, Eq:
		return "AEq"
	case LooseNe, Ne:
		return "ANeq"
	case And:
		return "ABoolAnd"
	case Or:
		return "ABoolOr"
	case Less:
		return "ALt"
	case LessEq:
		return "ALEq"
	case Greater:
		return "AGt"
	case GreaterEq:
		return "AGEq"
	case BitAnd:
		return "ABitAnd"
	case BitOr:
		return "ABitOr"
	case BitXor:
		return "AXor"
	case LeftShift:
		return "AShiftL"
	case RightShift, RightShiftUnsigned:
		return "AShiftR"
	default:
		panic("ops: no Bristol token for binary op " + op.String())
	}
}
