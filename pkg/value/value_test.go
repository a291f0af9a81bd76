package value

import (
	"testing"

	"circuitvm/pkg/ops"
)

func TestConstructorsRoundTripType(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		typ  ValueType
	}{
		{"bool-true", Bool(true), TypeBool},
		{"bool-false", Bool(false), TypeBool},
		{"number", Number(3.5), TypeNumber},
		{"int", Int(7), TypeNumber},
		{"string", Str("hi"), TypeString},
		{"array", NewArray(), TypeArray},
		{"object", NewObject(), TypeObject},
		{"unit", Unit, TypeUnit},
		{"undefined", Undefined, TypeUndefined},
		{"null", Null, TypeNull},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if c.v.Type() != c.typ {
				t.Fatalf("Type() = %s, want %s", c.v.Type(), c.typ)
			}
		})
	}
}

func TestAsAccessorsPanicOnMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected AsNumber on a string to panic")
		}
	}()
	Str("x").AsNumber()
}

func TestIsTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Unit, false},
		{Undefined, false},
		{Null, false},
		{Bool(false), false},
		{Number(0), false},
		{Str(""), false},
		{Bool(true), true},
		{Number(1), true},
		{Number(-1), true},
		{Str("x"), true},
		{NewArray(), true},
	}
	for _, c := range cases {
		if got := c.v.IsTruthy(); got != c.want {
			t.Errorf("%v.IsTruthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestIdentEqual(t *testing.T) {
	if !IdentEqual(Number(1), Number(1)) {
		t.Error("1 should be identically equal to 1")
	}
	if IdentEqual(Number(1), Number(2)) {
		t.Error("1 should not be identically equal to 2")
	}
	if IdentEqual(Number(1), Bool(true)) {
		t.Error("values of different types are never identically equal")
	}
	a, b := NewArray(), NewArray()
	if IdentEqual(a, b) {
		t.Error("two distinct array allocations should not be identically equal")
	}
	if !IdentEqual(a, a) {
		t.Error("an array should be identically equal to itself")
	}
}

func TestElemType(t *testing.T) {
	if Number(1).ElemType() != ops.Number {
		t.Error("number value should declare ops.Number")
	}
	if Bool(true).ElemType() != ops.Bool {
		t.Error("bool value should declare ops.Bool")
	}
}

func TestElemTypePanicsOnNonElementary(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected ElemType on a string to panic")
		}
	}()
	Str("x").ElemType()
}

type stubDynamic struct{ label string }

func (s stubDynamic) Pretty() string { return s.label }

func TestDynamicValRoundTrips(t *testing.T) {
	d := stubDynamic{label: "stub"}
	v := DynamicVal(d)
	if !v.IsDynamic() {
		t.Fatal("DynamicVal should produce a dynamic-typed Value")
	}
	if v.AsDynamic().Pretty() != "stub" {
		t.Errorf("Pretty() = %q, want %q", v.AsDynamic().Pretty(), "stub")
	}
	if v.String() != "stub" {
		t.Errorf("String() = %q, want %q", v.String(), "stub")
	}
}

func TestObjectValWrapsExistingObject(t *testing.T) {
	o := NewObject().AsObject()
	o.Set("a", Number(1))
	v := ObjectVal(o)
	if !v.IsObject() {
		t.Fatal("ObjectVal should produce an object-typed Value")
	}
	got, ok := v.AsObject().Get("a")
	if !ok || got.AsNumber() != 1 {
		t.Fatalf("expected wrapped object to retain its properties, got %v, %v", got, ok)
	}
}
