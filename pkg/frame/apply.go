package frame

import (
	"fmt"
	"math"
	"math/big"

	"circuitvm/pkg/cerr"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/value"
)

// ApplyUnary and ApplyBinary are the "operator interception" component
// from spec §4.1/§2: every arithmetic/logical/comparison opcode in Step
// goes through one of these instead of computing directly on registers.
// They ask each operand whether it overrides the operator (value.Dynamic
// values like signal.Signal do) before falling back to concrete
// evaluation, so the bytecode interpreter itself never needs to know that
// signals exist.
func ApplyUnary(op ops.UnaryOp, operand value.Value) (value.Value, error) {
	if operand.IsDynamic() {
		if ov, ok := operand.AsDynamic().(value.UnaryOverrider); ok {
			if v, handled := ov.OverrideUnary(op, operand); handled {
				return v, nil
			}
		}
	}
	return evalUnary(op, operand)
}

func ApplyBinary(op ops.BinaryOp, left, right value.Value) (value.Value, error) {
	if left.IsDynamic() {
		if ov, ok := left.AsDynamic().(value.BinaryOverrider); ok {
			v, handled := ov.OverrideBinary(op, left, right)
			if handled {
				return v, nil
			}
			return value.Value{}, structuralf("%s %s %s: incompatible operand for a signal", left.Type(), op, right.Type())
		}
	}
	if right.IsDynamic() {
		if ov, ok := right.AsDynamic().(value.BinaryOverrider); ok {
			v, handled := ov.OverrideBinary(op, left, right)
			if handled {
				return v, nil
			}
			return value.Value{}, structuralf("%s %s %s: incompatible operand for a signal", left.Type(), op, right.Type())
		}
	}
	return evalBinary(op, left, right)
}

func evalUnary(op ops.UnaryOp, operand value.Value) (value.Value, error) {
	switch op {
	case ops.Plus:
		return value.Number(numberOf(operand)), nil
	case ops.Minus:
		return value.Number(-numberOf(operand)), nil
	case ops.Not:
		return value.Bool(!operand.IsTruthy()), nil
	case ops.BitNot:
		return value.Number(float64(^toInt32(numberOf(operand)))), nil
	default:
		return value.Value{}, structuralf("unsupported unary operator %s", op)
	}
}

func evalBinary(op ops.BinaryOp, left, right value.Value) (value.Value, error) {
	switch op {
	case ops.Add:
		if left.IsString() || right.IsString() {
			return value.Str(left.String() + right.String()), nil
		}
		return value.Number(numberOf(left) + numberOf(right)), nil
	case ops.Sub:
		return value.Number(numberOf(left) - numberOf(right)), nil
	case ops.Mul:
		return value.Number(numberOf(left) * numberOf(right)), nil
	case ops.Div:
		return value.Number(numberOf(left) / numberOf(right)), nil
	case ops.Mod:
		return value.Number(math.Mod(numberOf(left), numberOf(right))), nil
	case ops.Exp:
		return value.Number(math.Pow(numberOf(left), numberOf(right))), nil
	case ops.LooseEq, ops.Eq:
		return value.Bool(valuesEqual(left, right)), nil
	case ops.LooseNe, ops.Ne:
		return value.Bool(!valuesEqual(left, right)), nil
	case ops.Less:
		return value.Bool(numberOf(left) < numberOf(right)), nil
	case ops.LessEq:
		return value.Bool(numberOf(left) <= numberOf(right)), nil
	case ops.Greater:
		return value.Bool(numberOf(left) > numberOf(right)), nil
	case ops.GreaterEq:
		return value.Bool(numberOf(left) >= numberOf(right)), nil
	case ops.And:
		if !left.IsTruthy() {
			return left, nil
		}
		return right, nil
	case ops.Or:
		if left.IsTruthy() {
			return left, nil
		}
		return right, nil
	case ops.BitAnd:
		return value.Number(float64(toInt32(numberOf(left)) & toInt32(numberOf(right)))), nil
	case ops.BitOr:
		return value.Number(float64(toInt32(numberOf(left)) | toInt32(numberOf(right)))), nil
	case ops.BitXor:
		return value.Number(float64(toInt32(numberOf(left)) ^ toInt32(numberOf(right)))), nil
	case ops.LeftShift:
		return value.Number(float64(toInt32(numberOf(left)) << (toUint32(numberOf(right)) & 31))), nil
	case ops.RightShift:
		return value.Number(float64(toInt32(numberOf(left)) >> (toUint32(numberOf(right)) & 31))), nil
	case ops.RightShiftUnsigned:
		return value.Number(float64(toUint32(numberOf(left)) >> (toUint32(numberOf(right)) & 31))), nil
	default:
		return value.Value{}, structuralf("unsupported binary operator %s", op)
	}
}

func numberOf(v value.Value) float64 {
	switch {
	case v.IsNumber():
		return v.AsNumber()
	case v.IsBool():
		if v.AsBool() {
			return 1
		}
		return 0
	case v.IsBigInt():
		f, _ := new(big.Float).SetInt(v.AsBigInt()).Float64()
		return f
	default:
		return math.NaN()
	}
}

func toInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(f)))
}

func toUint32(f float64) uint32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(f))
}

func valuesEqual(a, b value.Value) bool {
	if a.Type() == b.Type() {
		return value.IdentEqual(a, b)
	}
	if a.IsNumber() && b.IsBool() || a.IsBool() && b.IsNumber() {
		return numberOf(a) == numberOf(b)
	}
	return false
}

func structuralf(format string, args ...any) *cerr.StructuralError {
	return &cerr.StructuralError{Msg: fmt.Sprintf(format, args...)}
}
