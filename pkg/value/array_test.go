package value

import "testing"

func TestArrayGetOutOfBoundsIsUndefined(t *testing.T) {
	a := NewArray(Number(1), Number(2)).AsArray()
	if !a.Get(5).IsUndefined() {
		t.Error("out-of-bounds Get should return Undefined")
	}
	if !a.Get(-1).IsUndefined() {
		t.Error("negative Get should return Undefined")
	}
}

func TestArraySetExtends(t *testing.T) {
	a := NewArray().AsArray()
	a.Set(2, Number(9))
	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if !a.Get(0).IsUndefined() || !a.Get(1).IsUndefined() {
		t.Error("gap slots should be Undefined")
	}
	if a.Get(2).AsNumber() != 9 {
		t.Error("Set should place the value at the requested index")
	}
}

func TestArrayPush(t *testing.T) {
	a := NewArray().AsArray()
	a.Push(Number(1))
	a.Push(Number(2))
	if a.Len() != 2 || a.Get(1).AsNumber() != 2 {
		t.Fatalf("unexpected array after pushes: %v", a.Elements)
	}
}

func TestArrayCloneIsIndependent(t *testing.T) {
	a := NewArray(Number(1)).AsArray()
	b := a.Clone()
	b.Set(0, Number(2))
	if a.Get(0).AsNumber() != 1 {
		t.Error("cloning should not mutate the original array")
	}
}
