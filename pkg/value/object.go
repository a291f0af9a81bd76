package value

// Object is the heap-shared payload behind TypeObject: a string-keyed
// property bag. There is no prototype chain here — the source language's
// object model is out of scope (no parser/checker in this core); objects
// only need to exist because the arithmetic merge (§4.5) has to recurse
// into them structurally when two branches disagree on a record-shaped
// value.
type Object struct {
	Props map[string]Value
}

func NewObject() Value {
	return Value{typ: TypeObject, obj: &Object{Props: map[string]Value{}}}
}

// ObjectVal wraps an already-constructed *Object as a Value, used by
// pkg/merge when assembling a merged object from scratch.
func ObjectVal(o *Object) Value {
	return Value{typ: TypeObject, obj: o}
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.Props[key]
	return v, ok
}

func (o *Object) Set(key string, v Value) {
	if o.Props == nil {
		o.Props = map[string]Value{}
	}
	o.Props[key] = v
}

// Keys returns the string-keyed property names in map iteration order.
// Callers that need deterministic order (the merge engine's key-set
// comparison) sort it themselves.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.Props))
	for k := range o.Props {
		keys = append(keys, k)
	}
	return keys
}

// Clone performs a shallow copy: a new property map with the same Value
// entries, matching Array.Clone's one-level-deep discipline.
func (o *Object) Clone() *Object {
	props := make(map[string]Value, len(o.Props))
	for k, v := range o.Props {
		props[k] = v
	}
	return &Object{Props: props}
}
