// Package circuit implements the circuit builder and the resulting
// circuit representation from spec §4.6: a post-order walk over the
// signals reachable from a program's output values, deduplicating wires
// by signal identity and by constant value, producing a flat list of
// unary/binary gates over a dense wire numbering.
//
// Grounded on compiler/src/circuit_builder.rs (IncludeInputs/
// IncludeOutputs/IncludeVal, the two's-complement negative-constant
// encoding) and compiler/src/circuit.rs (Gate, Eval, Depth).
package circuit

import (
	"circuitvm/pkg/ops"
)

// Gate is one arithmetic gate in the flattened circuit, referencing wires
// by their dense index.
type Gate struct {
	Binary bool // false: Unary
	UnaryOp ops.UnaryOp
	BinaryOp ops.BinaryOp
	Left, Right, Input, Output uint64
}

// UnaryGate and BinaryGate are convenience constructors.
func UnaryGate(op ops.UnaryOp, input, output uint64) Gate {
	return Gate{Binary: false, UnaryOp: op, Input: input, Output: output}
}

func BinaryGate(op ops.BinaryOp, left, right, output uint64) Gate {
	return Gate{Binary: true, BinaryOp: op, Left: left, Right: right, Output: output}
}

// Circuit is the fully built, wire-numbered arithmetic circuit.
type Circuit struct {
	Size      uint64            // total wire count
	Inputs    map[string]uint64 // input name -> wire index, in declaration order via InputOrder
	InputOrder []string
	Constants map[uint64]uint64 // wire index -> encoded constant value (two's-complement wrapped)
	Outputs   map[string]uint64
	OutputOrder []string
	Gates     []Gate
}

// Eval runs the circuit over float64, the one concrete numeric evaluator
// this package ships (there is no finite-field arithmetic backend). It
// mirrors the original's generic
// CircuitNumber::eval, specialized to one numeric type since Go's
// interface-based generics would buy nothing extra here.
func (c *Circuit) Eval(inputs map[string]float64) map[string]float64 {
	wires := make([]float64, c.Size)

	for name, id := range c.Inputs {
		wires[id] = inputs[name]
	}
	for id, encoded := range c.Constants {
		wires[id] = decodeConstant(encoded)
	}

	for _, g := range c.Gates {
		if g.Binary {
			wires[g.Output] = evalBinary(g.BinaryOp, wires[g.Left], wires[g.Right])
		} else {
			wires[g.Output] = evalUnary(g.UnaryOp, wires[g.Input])
		}
	}

	result := make(map[string]float64, len(c.Outputs))
	for name, id := range c.Outputs {
		result[name] = wires[id]
	}
	return result
}

func evalUnary(op ops.UnaryOp, v float64) float64 {
	switch op {
	case ops.Plus:
		return v
	case ops.Minus:
		return -v
	case ops.Not:
		if v == 0 {
			return 1
		}
		return 0
	case ops.BitNot:
		return float64(^int64(v))
	default:
		return 0
	}
}

func evalBinary(op ops.BinaryOp, l, r float64) float64 {
	switch op {
	case ops.Add:
		return l + r
	case ops.Sub:
		return l - r
	case ops.Mul:
		return l * r
	case ops.Div:
		return l / r
	case ops.Eq, ops.LooseEq:
		if l == r {
			return 1
		}
		return 0
	case ops.Ne, ops.LooseNe:
		if l != r {
			return 1
		}
		return 0
	case ops.Less:
		if l < r {
			return 1
		}
		return 0
	case ops.LessEq:
		if l <= r {
			return 1
		}
		return 0
	case ops.Greater:
		if l > r {
			return 1
		}
		return 0
	case ops.GreaterEq:
		if l >= r {
			return 1
		}
		return 0
	case ops.And:
		if l != 0 && r != 0 {
			return 1
		}
		return 0
	case ops.Or:
		if l != 0 || r != 0 {
			return 1
		}
		return 0
	default:
		return 0
	}
}

// Depth returns the length of the circuit's longest gate dependency
// chain, the same metric the CLI reports alongside wire and gate counts.
func (c *Circuit) Depth() uint64 {
	wireDepth := make([]uint64, c.Size)
	var max uint64
	for _, g := range c.Gates {
		var d uint64
		if g.Binary {
			d = 1 + maxU64(wireDepth[g.Left], wireDepth[g.Right])
		} else {
			d = 1 + wireDepth[g.Input]
		}
		wireDepth[g.Output] = d
		if d > max {
			max = d
		}
	}
	return max
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
