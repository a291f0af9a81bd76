package circuit

import (
	"testing"

	"circuitvm/pkg/ops"
)

// buildAddCircuit builds wire0=a, wire1=b, wire2=a+b as output "sum".
func buildAddCircuit() *Circuit {
	return &Circuit{
		Size:        3,
		Inputs:      map[string]uint64{"a": 0, "b": 1},
		InputOrder:  []string{"a", "b"},
		Constants:   map[uint64]uint64{},
		Outputs:     map[string]uint64{"sum": 2},
		OutputOrder: []string{"sum"},
		Gates:       []Gate{BinaryGate(ops.Add, 0, 1, 2)},
	}
}

func TestEvalComputesGateChain(t *testing.T) {
	c := buildAddCircuit()
	out := c.Eval(map[string]float64{"a": 2, "b": 3})
	if out["sum"] != 5 {
		t.Fatalf("sum = %v, want 5", out["sum"])
	}
}

func TestEvalUnaryGate(t *testing.T) {
	c := &Circuit{
		Size:        2,
		Inputs:      map[string]uint64{"a": 0},
		InputOrder:  []string{"a"},
		Constants:   map[uint64]uint64{},
		Outputs:     map[string]uint64{"neg": 1},
		OutputOrder: []string{"neg"},
		Gates:       []Gate{UnaryGate(ops.Minus, 0, 1)},
	}
	out := c.Eval(map[string]float64{"a": 4})
	if out["neg"] != -4 {
		t.Fatalf("neg = %v, want -4", out["neg"])
	}
}

func TestDepthFollowsLongestChain(t *testing.T) {
	// wire0=a, wire1=a+a (depth 1), wire2=wire1+wire1 (depth 2)
	c := &Circuit{
		Size:       3,
		Inputs:     map[string]uint64{"a": 0},
		InputOrder: []string{"a"},
		Constants:  map[uint64]uint64{},
		Gates: []Gate{
			BinaryGate(ops.Add, 0, 0, 1),
			BinaryGate(ops.Add, 1, 1, 2),
		},
	}
	if c.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", c.Depth())
	}
}

func TestDepthZeroWithNoGates(t *testing.T) {
	c := &Circuit{Size: 1, Inputs: map[string]uint64{"a": 0}}
	if c.Depth() != 0 {
		t.Errorf("Depth() with no gates = %d, want 0", c.Depth())
	}
}
