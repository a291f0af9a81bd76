package signal

import (
	"circuitvm/pkg/ops"
	"circuitvm/pkg/value"
)

// OverrideUnary implements value.UnaryOverrider. Grounded on
// circuit_signal.rs's override_unary_op: unary plus is always a no-op
// (numeric coercion of an already-numeric signal), everything else mints a
// new derived Signal.
func (s Signal) OverrideUnary(op ops.UnaryOp, operand value.Value) (value.Value, bool) {
	if op == ops.Plus {
		return operand, true
	}
	return New(s.gen, op.ResultType(), UnaryOrigin{Op: op, Operand: operand}).Val(), true
}

// OverrideBinary implements value.BinaryOverrider. It first tries the
// fixed algebraic-identity table from circuit_signal.rs's
// override_binary_op (`+0`, `×0`, `×1`, boolean `&&`/`||` short-circuits);
// failing that it mints a new derived Signal recording the operation.
func (s Signal) OverrideBinary(op ops.BinaryOp, left, right value.Value) (value.Value, bool) {
	if !isElementary(left) || !isElementary(right) {
		return value.Value{}, false
	}
	if v, ok := binaryIdentity(op, left, right); ok {
		return v, true
	}
	resultType := op.ResultType(left.ElemType(), right.ElemType())
	return New(s.gen, resultType, BinaryOrigin{Op: op, Left: left, Right: right}).Val(), true
}

// isElementary reports whether v is a number, a bool, or a Dynamic that
// declares an elementary type of its own (a Signal always does). Matches
// circuit_signal.rs's override_binary_op, which bails out to None the
// moment either operand's typeof_() isn't Number or Bool, leaving the
// caller to raise a structural error instead of minting a gate over a
// value that can never sit on an arithmetic wire.
func isElementary(v value.Value) bool {
	if v.IsNumber() || v.IsBool() {
		return true
	}
	if !v.IsDynamic() {
		return false
	}
	_, ok := v.AsDynamic().(interface{ ElemType() ops.ElemType })
	return ok
}

// isConstNumber reports whether v is a concrete (non-signal) number equal
// to n.
func isConstNumber(v value.Value, n float64) bool {
	return v.IsNumber() && v.AsNumber() == n
}

func isConstBool(v value.Value, b bool) bool {
	return v.IsBool() && v.AsBool() == b
}

// binaryIdentity applies the identities that let a signal-valued
// expression collapse back to one of its operands (or a constant) without
// allocating a new gate. This keeps circuits free of redundant
// add-zero/mul-one/mul-zero gates the way the original compiler's
// override_binary_op does.
func binaryIdentity(op ops.BinaryOp, left, right value.Value) (value.Value, bool) {
	switch op {
	case ops.Add:
		if isConstNumber(right, 0) {
			return left, true
		}
		if isConstNumber(left, 0) {
			return right, true
		}
	case ops.Sub:
		if isConstNumber(right, 0) {
			return left, true
		}
	case ops.Mul:
		if isConstNumber(left, 0) || isConstNumber(right, 0) {
			return value.Number(0), true
		}
		if isConstNumber(right, 1) {
			return left, true
		}
		if isConstNumber(left, 1) {
			return right, true
		}
	case ops.Div:
		if isConstNumber(right, 1) {
			return left, true
		}
	case ops.And:
		if isConstBool(left, false) || isConstBool(right, false) {
			return value.False, true
		}
		if isConstBool(left, true) {
			return right, true
		}
		if isConstBool(right, true) {
			return left, true
		}
	case ops.Or:
		if isConstBool(left, true) || isConstBool(right, true) {
			return value.True, true
		}
		if isConstBool(left, false) {
			return right, true
		}
		if isConstBool(right, false) {
			return left, true
		}
	}
	return value.Value{}, false
}
