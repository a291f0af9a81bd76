// Package boolify is the interface boundary for the boolean-expansion
// pass spec §1's Non-goals explicitly excludes from this engine: lowering
// an arithmetic circuit's comparison/logical gates into a pure boolean
// (AND/XOR/INV) circuit for garbled-circuit-style MPC backends. No
// implementation ships here; Expander exists so a downstream tool can be
// plugged in without this package needing to change.
package boolify

import "circuitvm/pkg/circuit"

// Expander lowers an arithmetic circuit's wires of the given bit widths
// into an all-boolean circuit. widths maps each wire index that needs
// fixed-width boolean decomposition to its bit width; wires absent from
// the map are assumed already boolean (single-bit).
type Expander interface {
	Expand(c *circuit.Circuit, widths map[uint64]int) (*circuit.Circuit, error)
}
