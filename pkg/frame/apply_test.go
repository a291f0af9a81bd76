package frame

import (
	"testing"

	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

func TestApplyBinaryConcreteArithmetic(t *testing.T) {
	v, err := ApplyBinary(ops.Add, value.Number(2), value.Number(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsNumber() != 5 {
		t.Errorf("2+3 = %v, want 5", v.AsNumber())
	}
}

func TestApplyBinaryStringConcat(t *testing.T) {
	v, err := ApplyBinary(ops.Add, value.Str("a"), value.Str("b"))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsString() != "ab" {
		t.Errorf("\"a\"+\"b\" = %q, want \"ab\"", v.AsString())
	}
}

func TestApplyBinaryDefersToSignalOverride(t *testing.T) {
	gen := signal.NewIDGen()
	sig := signal.NewInput(gen, ops.Number, "x").Val()
	v, err := ApplyBinary(ops.Add, sig, value.Number(0))
	if err != nil {
		t.Fatal(err)
	}
	if !value.IdentEqual(v, sig) {
		t.Error("ApplyBinary should let the signal's override collapse x+0 to x")
	}
}

func TestApplyBinaryRejectsSignalAgainstIncompatibleConcreteType(t *testing.T) {
	gen := signal.NewIDGen()
	sig := signal.NewInput(gen, ops.Number, "x").Val()
	if _, err := ApplyBinary(ops.Add, sig, value.Str("suffix")); err == nil {
		t.Fatal("a signal added to a string should raise a structural error, not compute a concrete result")
	}
}

func TestApplyUnaryNot(t *testing.T) {
	v, err := ApplyUnary(ops.Not, value.Bool(false))
	if err != nil {
		t.Fatal(err)
	}
	if !v.AsBool() {
		t.Error("!false should be true")
	}
}

func TestApplyBinaryComparison(t *testing.T) {
	v, err := ApplyBinary(ops.Less, value.Number(1), value.Number(2))
	if err != nil {
		t.Fatal(err)
	}
	if !v.AsBool() {
		t.Error("1 < 2 should be true")
	}
}

func TestApplyBinaryBitwise(t *testing.T) {
	v, err := ApplyBinary(ops.BitAnd, value.Number(6), value.Number(3))
	if err != nil {
		t.Fatal(err)
	}
	if v.AsNumber() != 2 {
		t.Errorf("6 & 3 = %v, want 2", v.AsNumber())
	}
}
