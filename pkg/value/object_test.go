package value

import "testing"

func TestObjectGetSetRoundTrip(t *testing.T) {
	o := NewObject().AsObject()
	if _, ok := o.Get("missing"); ok {
		t.Error("missing key should report ok=false")
	}
	o.Set("a", Number(1))
	v, ok := o.Get("a")
	if !ok || v.AsNumber() != 1 {
		t.Fatalf("Get(%q) = %v, %v", "a", v, ok)
	}
}

func TestObjectKeysAndClone(t *testing.T) {
	o := NewObject().AsObject()
	o.Set("a", Number(1))
	o.Set("b", Number(2))
	if len(o.Keys()) != 2 {
		t.Fatalf("Keys() = %v, want 2 entries", o.Keys())
	}
	clone := o.Clone()
	clone.Set("a", Number(99))
	orig, _ := o.Get("a")
	if orig.AsNumber() != 1 {
		t.Error("cloning should not mutate the original object")
	}
}
