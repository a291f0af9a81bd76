// Package merge implements the arithmetic merge described in spec §4.5:
// reconciling the two values a forked pair of branches produced for the
// same register (or array/object slot) once they reconverge, using
// lf·L + rf·R (or the cheaper L + rf·(R−L) form when the flags are a
// complementary f/¬f pair) for scalars, and structural recursion for
// arrays and objects.
//
// Grounded on compiler/src/arithmetic_merge.rs: quick_val_eq, the
// CircuitNumber blend, arithmetic_merge_map's key-set check, and the
// CouldNotMerge sentinel (there, a panic; here, a value that pkg/scheduler
// checks for right after each merge and turns into a cerr.StructuralError
// instead of panicking).
package merge

import (
	"fmt"
	"sort"

	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

// CouldNotMerge is the Dynamic sentinel produced when two branch values
// have incompatible shapes (different array lengths, mismatched object
// key sets, or a type mismatch a number/bool blend can't paper over).
type CouldNotMerge struct {
	Left, Right value.Value
}

func (c CouldNotMerge) Pretty() string {
	return fmt.Sprintf("<could not merge %s and %s>", c.Left.Type(), c.Right.Type())
}

func couldNotMerge(left, right value.Value) value.Value {
	return value.DynamicVal(CouldNotMerge{Left: left, Right: right})
}

// IsCouldNotMerge reports whether v is (or structurally contains, at the
// top level) a could-not-merge sentinel.
func IsCouldNotMerge(v value.Value) bool {
	if !v.IsDynamic() {
		return false
	}
	_, ok := v.AsDynamic().(CouldNotMerge)
	return ok
}

// Merge reconciles left (reached under leftFlag) and right (reached under
// rightFlag) into a single value. New signals the blend needs are minted
// through the operand signals' own OverrideBinary (and so their own
// generator); gen is passed down the recursion unchanged.
func Merge(gen *signal.IDGen, leftFlag, left, rightFlag, right value.Value) (value.Value, error) {
	if value.IdentEqual(left, right) {
		return left, nil
	}

	if isScalar(left) && isScalar(right) {
		return mergeScalar(gen, leftFlag, left, rightFlag, right)
	}

	if left.IsArray() && right.IsArray() {
		return mergeArrays(gen, leftFlag, left.AsArray(), rightFlag, right.AsArray())
	}

	if left.IsObject() && right.IsObject() {
		return mergeObjects(gen, leftFlag, left.AsObject(), rightFlag, right.AsObject())
	}

	return couldNotMerge(left, right), nil
}

// isScalar reports whether v is a leaf value the blend formula applies to
// directly: a concrete number/bool, or a signal declaring one of those
// elementary types.
func isScalar(v value.Value) bool {
	if v.IsNumber() || v.IsBool() {
		return true
	}
	if v.IsDynamic() {
		if _, ok := v.AsDynamic().(signal.Signal); ok {
			return true
		}
	}
	return false
}

// mergeScalar implements lf·L + rf·R, applying the ¬f rewrite to
// L + rf·(R−L) whenever rightFlag is structurally Not(leftFlag) — the
// common case, since leftFlag/rightFlag are almost always a branch and its
// direct sibling. Both forms are algebraically equal; the rewrite just
// saves the compiler from emitting a redundant multiply-by-complement gate
// when the complement is already in hand.
func mergeScalar(gen *signal.IDGen, leftFlag, left, rightFlag, right value.Value) (value.Value, error) {
	if isComplementOf(rightFlag, leftFlag) {
		diff, err := applyBin(ops.Sub, right, left)
		if err != nil {
			return value.Value{}, err
		}
		scaled, err := applyBin(ops.Mul, rightFlag, diff)
		if err != nil {
			return value.Value{}, err
		}
		return applyBin(ops.Add, left, scaled)
	}
	if isComplementOf(leftFlag, rightFlag) {
		diff, err := applyBin(ops.Sub, left, right)
		if err != nil {
			return value.Value{}, err
		}
		scaled, err := applyBin(ops.Mul, leftFlag, diff)
		if err != nil {
			return value.Value{}, err
		}
		return applyBin(ops.Add, right, scaled)
	}

	lTerm, err := applyBin(ops.Mul, leftFlag, left)
	if err != nil {
		return value.Value{}, err
	}
	rTerm, err := applyBin(ops.Mul, rightFlag, right)
	if err != nil {
		return value.Value{}, err
	}
	return applyBin(ops.Add, lTerm, rTerm)
}

// isComplementOf reports whether a is exactly Not(b), the shape a fork
// always produces for its two branch flags.
func isComplementOf(a, b value.Value) bool {
	s, ok := signal.IsSignal(a)
	if !ok {
		return false
	}
	u, ok := s.Origin().(signal.UnaryOrigin)
	if !ok || u.Op != ops.Not {
		return false
	}
	return value.IdentEqual(u.Operand, b)
}

func applyBin(op ops.BinaryOp, left, right value.Value) (value.Value, error) {
	if s, ok := signal.IsSignal(left); ok {
		v, _ := s.OverrideBinary(op, left, right)
		return v, nil
	}
	if s, ok := signal.IsSignal(right); ok {
		v, _ := s.OverrideBinary(op, left, right)
		return v, nil
	}
	return concreteBinary(op, left, right)
}

// concreteBinary is a small, self-contained numeric evaluator: pkg/merge
// intentionally doesn't import pkg/frame (which would be a layering
// inversion — frame is one layer up, orchestrating branch execution that
// calls into merge, not the reverse), so it can't reuse frame.ApplyBinary.
func concreteBinary(op ops.BinaryOp, left, right value.Value) (value.Value, error) {
	l, r := numberOf(left), numberOf(right)
	switch op {
	case ops.Add:
		return value.Number(l + r), nil
	case ops.Sub:
		return value.Number(l - r), nil
	case ops.Mul:
		return value.Number(l * r), nil
	default:
		return value.Value{}, fmt.Errorf("merge: unsupported concrete operator %s", op)
	}
}

func numberOf(v value.Value) float64 {
	if v.IsBool() {
		if v.AsBool() {
			return 1
		}
		return 0
	}
	return v.AsNumber()
}

func mergeArrays(gen *signal.IDGen, leftFlag value.Value, left *value.Array, rightFlag value.Value, right *value.Array) (value.Value, error) {
	if left.Len() != right.Len() {
		return couldNotMerge(value.NewArray(left.Elements...), value.NewArray(right.Elements...)), nil
	}
	merged := make([]value.Value, left.Len())
	for i := range merged {
		v, err := Merge(gen, leftFlag, left.Get(i), rightFlag, right.Get(i))
		if err != nil {
			return value.Value{}, err
		}
		if IsCouldNotMerge(v) {
			return v, nil
		}
		merged[i] = v
	}
	return value.NewArray(merged...), nil
}

func mergeObjects(gen *signal.IDGen, leftFlag value.Value, left *value.Object, rightFlag value.Value, right *value.Object) (value.Value, error) {
	leftKeys, rightKeys := sortedKeys(left), sortedKeys(right)
	if !sameKeys(leftKeys, rightKeys) {
		return couldNotMerge(value.NewObject(), value.NewObject()), nil
	}

	result := value.NewObject().AsObject()
	for _, k := range leftKeys {
		lv, _ := left.Get(k)
		rv, _ := right.Get(k)
		v, err := Merge(gen, leftFlag, lv, rightFlag, rv)
		if err != nil {
			return value.Value{}, err
		}
		if IsCouldNotMerge(v) {
			return v, nil
		}
		result.Set(k, v)
	}
	return value.ObjectVal(result), nil
}

func sortedKeys(o *value.Object) []string {
	keys := o.Keys()
	sort.Strings(keys)
	return keys
}

func sameKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
