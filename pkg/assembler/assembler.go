// Package assembler defines the boundary between source text and the
// bytecode this engine interprets. Per spec §1's Non-goals, no actual
// parser or bytecode assembler lives in this repository — programs are
// expected to arrive as bytecode from an upstream compiler stage. This
// package exists so pkg/entry has a stable interface to depend on, and so
// tests have a convenient hand-rolled way to produce bytecode without
// one.
package assembler

import (
	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/cerr"
	"circuitvm/pkg/source"
)

// EntryModule is what an Assembler hands back: one callable entry point
// plus the declared names pkg/entry needs to wire circuit inputs and
// outputs to registers.
type EntryModule struct {
	// Name is the entry function's declared name, used by pkg/entry to
	// name circuit outputs when OutputNames is left empty (spec §9: a
	// single return value is named after the function, more than one is
	// indexed name[i]).
	Name         string
	Chunk        *bytecode.Chunk
	RegisterSize int
	InputNames   []string
	// OutputNames names each register the entry function returns as an
	// array (see spec §9: a function with one return value names it after
	// the function itself, more than one is indexed name[i] — pkg/entry
	// applies that convention when this is empty).
	OutputNames []string
}

// Assembler turns source text into an EntryModule, or reports why it
// couldn't. A lexer/parser/compiler pipeline for any particular source
// language is out of scope here; this repository ships two
// implementations instead: Hand, a fluent builder tests use to construct
// bytecode directly, and WireFormat, the JSON bytecode hand-off
// cmd/circuitc reads at the command line.
type Assembler interface {
	Assemble(src *source.SourceFile) (*EntryModule, []cerr.CircuitError)
}
