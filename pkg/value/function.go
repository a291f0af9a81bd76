package value

// Function is the heap-shared payload behind TypeFunction: a callable
// entry point into a bytecode chunk plus the arity/register-window layout
// the call-frame machinery (pkg/frame) needs to set one up.
//
// Chunk is typed `any` rather than *bytecode.Chunk to avoid an import
// cycle (pkg/bytecode's Chunk holds []Value constants, so it must import
// pkg/value, not the reverse) — the same trick the teacher's own
// pkg/value/value.go uses for its `obj interface{}` field, "to avoid
// creating direct import cycles". Callers that construct or invoke a
// Function (pkg/frame) hold the concrete *bytecode.Chunk type
// and type-assert it back out.
type Function struct {
	Name         string
	Arity        int
	Variadic     bool
	RegisterSize int
	Chunk        any
	// Bound carries closed-over values for a bound/closure function,
	// laid out ahead of the caller's own arguments in the callee's
	// register window, mirroring the teacher's upvalue handling.
	Bound []Value
}

func NewFunction(name string, arity, registerSize int, chunk any) Value {
	return Value{typ: TypeFunction, obj: &Function{
		Name:         name,
		Arity:        arity,
		RegisterSize: registerSize,
		Chunk:        chunk,
	}}
}
