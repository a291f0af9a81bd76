package circuit

import (
	"fmt"
	"math"

	"circuitvm/pkg/cerr"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

const maxUint64 = ^uint64(0)

// encodeConstant maps a concrete constant into the single uint64
// constant-value space the wire-dedup map keys on, wrapping negative
// integers the way the original's `usize::MAX - ((-number) - 1)` does.
// Go has no native usize; uint64 plays the same role here.
func encodeConstant(n float64) uint64 {
	if n < 0 {
		k := uint64(-n)
		return maxUint64 - (k - 1)
	}
	return uint64(n)
}

// decodeConstant reverses encodeConstant. Values above half the uint64
// range are assumed to have come from the negative branch — true for
// every constant a real circuit program produces, since nobody compiles
// literals anywhere near 2^63.
func decodeConstant(encoded uint64) float64 {
	if encoded > maxUint64/2 {
		k := maxUint64 - encoded + 1
		return -float64(k)
	}
	return float64(encoded)
}

// Builder performs the post-order walk from spec §4.6: starting at a
// program's output values, it includes every signal those outputs
// transitively depend on exactly once, assigning each a dense wire index
// and, for operator-derived signals, a gate.
type Builder struct {
	gates         []Gate
	wireCount     uint64
	wiresIncluded map[signal.ID]uint64
	constants     map[uint64]uint64 // encoded constant value -> wire id
	inputWires    map[string]uint64
	inputOrder    []string
}

func NewBuilder() *Builder {
	return &Builder{
		wiresIncluded: map[signal.ID]uint64{},
		constants:     map[uint64]uint64{},
		inputWires:    map[string]uint64{},
	}
}

// IncludeInputs reserves the first len(names) wires for the circuit's
// declared inputs, in order, matching include_inputs's input_len..0..
// contiguous numbering so wire indices double as argument order.
func (b *Builder) IncludeInputs(names []string) {
	for _, name := range names {
		b.inputWires[name] = b.wireCount
		b.inputOrder = append(b.inputOrder, name)
		b.wireCount++
	}
}

// IncludeOutputs includes every output value's dependency closure, then
// the outputs themselves, and returns their wire indices in order.
func (b *Builder) IncludeOutputs(outputs []value.Value) ([]uint64, error) {
	for _, out := range outputs {
		for _, dep := range dependencies(out) {
			if _, err := b.IncludeVal(dep); err != nil {
				return nil, err
			}
		}
	}

	ids := make([]uint64, len(outputs))
	for i, out := range outputs {
		id, err := b.IncludeVal(out)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// IncludeVal assigns (or looks up) the wire index for val, recursing into
// its dependencies first so every gate only ever references
// already-numbered wires.
func (b *Builder) IncludeVal(val value.Value) (uint64, error) {
	switch {
	case val.IsBool():
		n := 0.0
		if val.AsBool() {
			n = 1
		}
		return b.includeConstant(n), nil

	case val.IsNumber():
		n := val.AsNumber()
		if math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, &cerr.StructuralError{Msg: fmt.Sprintf("cannot use non-integer or non-finite constant %v in a circuit", n)}
		}
		return b.includeConstant(n), nil

	case val.IsDynamic():
		sig, ok := val.AsDynamic().(signal.Signal)
		if !ok {
			return 0, &cerr.StructuralError{Msg: fmt.Sprintf("cannot include unrecognized dynamic value (%s) in a circuit", val.AsDynamic().Pretty())}
		}
		return b.includeSignal(sig, val)

	default:
		return 0, &cerr.StructuralError{Msg: fmt.Sprintf("cannot include a %s value in a circuit", val.Type())}
	}
}

func (b *Builder) includeConstant(n float64) uint64 {
	encoded := encodeConstant(n)
	if id, ok := b.constants[encoded]; ok {
		return id
	}
	id := b.wireCount
	b.wireCount++
	b.constants[encoded] = id
	return id
}

func (b *Builder) includeSignal(sig signal.Signal, val value.Value) (uint64, error) {
	if id, ok := b.wiresIncluded[sig.ID()]; ok {
		return id, nil
	}

	deps := dependencies(val)
	depIDs := make([]uint64, len(deps))
	for i, dep := range deps {
		id, err := b.IncludeVal(dep)
		if err != nil {
			return 0, err
		}
		depIDs[i] = id
	}

	switch o := sig.Origin().(type) {
	case signal.InputOrigin:
		id, ok := b.inputWires[o.Name]
		if !ok {
			return 0, &cerr.SchedulerFault{Msg: fmt.Sprintf("input signal %q was not registered via IncludeInputs", o.Name)}
		}
		b.wiresIncluded[sig.ID()] = id
		return id, nil

	case signal.UnaryOrigin:
		id := b.wireCount
		b.wireCount++
		b.gates = append(b.gates, UnaryGate(o.Op, depIDs[0], id))
		b.wiresIncluded[sig.ID()] = id
		return id, nil

	case signal.BinaryOrigin:
		id := b.wireCount
		b.wireCount++
		b.gates = append(b.gates, BinaryGate(o.Op, depIDs[0], depIDs[1], id))
		b.wiresIncluded[sig.ID()] = id
		return id, nil

	default:
		return 0, &cerr.SchedulerFault{Msg: "signal has an unrecognized origin"}
	}
}

// dependencies returns the immediate operand values a signal's origin
// records, or nil for anything that isn't a derived signal — mirroring
// circuit_builder.rs's free function get_dependencies.
func dependencies(val value.Value) []value.Value {
	if !val.IsDynamic() {
		return nil
	}
	sig, ok := val.AsDynamic().(signal.Signal)
	if !ok {
		return nil
	}
	switch o := sig.Origin().(type) {
	case signal.UnaryOrigin:
		return []value.Value{o.Operand}
	case signal.BinaryOrigin:
		return []value.Value{o.Left, o.Right}
	default:
		return nil
	}
}

// Finish assembles the Circuit from everything gathered so far. inputs
// and outputs give the declaration-order name lists; outputWires is
// IncludeOutputs's return value.
func (b *Builder) Finish(inputs []string, outputs []string, outputWires []uint64) *Circuit {
	inputMap := make(map[string]uint64, len(inputs))
	for _, name := range inputs {
		inputMap[name] = b.inputWires[name]
	}
	outputMap := make(map[string]uint64, len(outputs))
	for i, name := range outputs {
		outputMap[name] = outputWires[i]
	}
	constants := make(map[uint64]uint64, len(b.constants))
	for encoded, id := range b.constants {
		constants[id] = encoded
	}
	return &Circuit{
		Size:        b.wireCount,
		Inputs:      inputMap,
		InputOrder:  inputs,
		Constants:   constants,
		Outputs:     outputMap,
		OutputOrder: outputs,
		Gates:       b.gates,
	}
}
