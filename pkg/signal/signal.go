// Package signal implements the symbolic, wire-valued operand described in
// spec §3/§4.1: a Signal stands in for a value that depends on a circuit
// input and therefore cannot be resolved to a concrete number or bool
// during symbolic execution. Arithmetic on a Signal either simplifies via
// a fixed identity table or produces a new Signal recording how it was
// derived, which pkg/circuit later walks to emit gates.
//
// Grounded on compiler/src/circuit_signal.rs and compiler/src/id_generator.rs
// from the original implementation; there is no teacher analogue (the
// teacher has no symbolic/partial-evaluation value), so the Go shape below
// follows the teacher's general preference for small interfaces over tagged
// structs (pkg/errors.PaseratiError) rather than any one borrowed file.
package signal

import (
	"fmt"

	"circuitvm/pkg/ops"
	"circuitvm/pkg/value"
)

// ID uniquely identifies a Signal within one compilation. Two signals with
// the same ID are the same wire; the circuit builder (pkg/circuit) keys its
// wire-deduplication map on this.
type ID uint64

// IDGen hands out increasing Signal IDs. Shared by every Signal produced
// during one Scheduler.Run, mirroring id_generator.rs's single shared
// counter threaded through the original's CircuitSignal construction.
type IDGen struct {
	next ID
}

func NewIDGen() *IDGen { return &IDGen{} }

func (g *IDGen) next_() ID {
	id := g.next
	g.next++
	return id
}

// Origin records how a Signal came to exist: a raw circuit input, or the
// application of a unary/binary operator to other values (at least one of
// which was itself a Signal).
type Origin interface {
	isOrigin()
}

// InputOrigin marks a Signal as a circuit input — constructed directly by
// the caller, not derived from an operator application.
type InputOrigin struct {
	// Name is the input's declared name, used by pkg/circuit to populate
	// the Bristol manifest's input_name_to_wire_index.
	Name string
}

// UnaryOrigin records Rx = Op(Operand).
type UnaryOrigin struct {
	Op      ops.UnaryOp
	Operand value.Value
}

// BinaryOrigin records Rx = Left Op Right.
type BinaryOrigin struct {
	Op    ops.BinaryOp
	Left  value.Value
	Right value.Value
}

func (InputOrigin) isOrigin()  {}
func (UnaryOrigin) isOrigin()  {}
func (BinaryOrigin) isOrigin() {}

// Signal is the Dynamic payload signal-guarded execution produces. It
// implements value.Dynamic, value.UnaryOverrider and value.BinaryOverrider
// so that pkg/frame's operator-application path (pkg/frame/apply.go) needs
// no special-casing: it just asks the operand whether it wants to handle
// the operator itself.
type Signal struct {
	id       ID
	declared ops.ElemType
	origin   Origin
	gen      *IDGen
}

// New constructs a Signal with a fresh ID from gen.
func New(gen *IDGen, declared ops.ElemType, origin Origin) Signal {
	return Signal{id: gen.next_(), declared: declared, origin: origin, gen: gen}
}

// NewInput constructs the Signal for a circuit input slot.
func NewInput(gen *IDGen, declared ops.ElemType, name string) Signal {
	return New(gen, declared, InputOrigin{Name: name})
}

func (s Signal) ID() ID               { return s.id }
func (s Signal) Origin() Origin       { return s.origin }
func (s Signal) ElemType() ops.ElemType { return s.declared }

func (s Signal) Pretty() string {
	switch o := s.origin.(type) {
	case InputOrigin:
		return fmt.Sprintf("signal#%d(input %q)", s.id, o.Name)
	case UnaryOrigin:
		return fmt.Sprintf("signal#%d(%s ...)", s.id, o.Op)
	case BinaryOrigin:
		return fmt.Sprintf("signal#%d(... %s ...)", s.id, o.Op)
	default:
		return fmt.Sprintf("signal#%d", s.id)
	}
}

// Val wraps s as a value.Value.
func (s Signal) Val() value.Value {
	return value.DynamicVal(s)
}

// IsSignal reports whether v holds a Signal, and returns it.
func IsSignal(v value.Value) (Signal, bool) {
	if !v.IsDynamic() {
		return Signal{}, false
	}
	s, ok := v.AsDynamic().(Signal)
	return s, ok
}
