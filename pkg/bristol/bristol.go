// Package bristol renders a compiled circuit.Circuit into the two
// artifacts spec §6 defines: the Bristol Fashion text format the circuit
// evaluators in the wider MPC/ZK ecosystem read, and a companion JSON
// manifest mapping named inputs/outputs/constants onto wire indices (the
// Bristol format itself is unlabeled and purely positional).
//
// Grounded on compiler/src/bristol_circuit.rs's CircuitInfo/ConstantInfo
// (field-for-field, swapping serde for the teacher's own
// encoding/json-based JSON handling — the teacher never reaches for a
// third-party JSON library, and neither does any other example repo in
// the pack, so this is the one place the ambient stack stays on stdlib;
// see DESIGN.md) and compiler/src/circuit.rs's to_bristol.
package bristol

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"circuitvm/pkg/circuit"
	"circuitvm/pkg/ops"
)

// ConstantInfo records one constant wire's original decimal value.
type ConstantInfo struct {
	Value     string `json:"value"`
	WireIndex uint32 `json:"wire_index"`
}

// CircuitInfo is the JSON-serializable manifest accompanying a Bristol
// text file, resolving its positional wire numbering back to names.
type CircuitInfo struct {
	InputNameToWireIndex  map[string]uint32       `json:"input_name_to_wire_index"`
	Constants             map[string]ConstantInfo `json:"constants"`
	OutputNameToWireIndex map[string]uint32       `json:"output_name_to_wire_index"`
}

// Circuit bundles the Bristol text with its manifest, the unit of output
// the CLI writes to disk (circuit.txt + circuit_info.json).
type Circuit struct {
	Info    CircuitInfo
	Bristol string
}

// Render converts c into Bristol Fashion text plus its manifest.
func Render(c *circuit.Circuit) *Circuit {
	var lines []string
	lines = append(lines, fmt.Sprintf("%d %d", len(c.Gates), c.Size))

	var inputLine strings.Builder
	fmt.Fprintf(&inputLine, "%d", len(c.InputOrder))
	for range c.InputOrder {
		inputLine.WriteString(" 1")
	}
	lines = append(lines, inputLine.String())

	var outputLine strings.Builder
	fmt.Fprintf(&outputLine, "%d", len(c.OutputOrder))
	for range c.OutputOrder {
		outputLine.WriteString(" 1")
	}
	lines = append(lines, outputLine.String())
	lines = append(lines, "")

	for _, g := range c.Gates {
		if g.Binary {
			lines = append(lines, fmt.Sprintf("2 1 %d %d %d %s", g.Left, g.Right, g.Output, ops.BristolBinary(g.BinaryOp)))
		} else {
			lines = append(lines, fmt.Sprintf("1 1 %d %d %s", g.Input, g.Output, ops.BristolUnary(g.UnaryOp)))
		}
	}

	inputIdx := make(map[string]uint32, len(c.InputOrder))
	for _, name := range c.InputOrder {
		inputIdx[name] = uint32(c.Inputs[name])
	}

	constants := make(map[string]ConstantInfo, len(c.Constants))
	for wireID, encoded := range c.Constants {
		name := fmt.Sprintf("constant_%d", encoded)
		constants[name] = ConstantInfo{
			Value:     strconv.FormatUint(encoded, 10),
			WireIndex: uint32(wireID),
		}
	}

	outputIdx := make(map[string]uint32, len(c.OutputOrder))
	for _, name := range c.OutputOrder {
		outputIdx[name] = uint32(c.Outputs[name])
	}

	return &Circuit{
		Info: CircuitInfo{
			InputNameToWireIndex:  inputIdx,
			Constants:             constants,
			OutputNameToWireIndex: outputIdx,
		},
		Bristol: strings.Join(lines, "\n"),
	}
}

// InfoJSON marshals the manifest the way the CLI writes circuit_info.json:
// pretty-printed, matching the teacher's own preference (cmd/paserati's
// -ast/-tokens debug dumps go through json.MarshalIndent) for readable
// diagnostic output over compact wire format.
func (c *Circuit) InfoJSON() ([]byte, error) {
	return json.MarshalIndent(c.Info, "", "  ")
}
