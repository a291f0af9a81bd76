package assembler

import (
	"encoding/json"
	"fmt"

	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/cerr"
	"circuitvm/pkg/source"
	"circuitvm/pkg/value"
)

// WireFormat is the Assembler cmd/circuitc ships. Per this package's
// Non-goals, no source-language front end lives here: the <main-file>
// circuitc takes is expected to already be in the bytecode shape an
// upstream compiler stage would hand off, encoded as JSON. WireFormat
// only decodes that encoding into an EntryModule — it parses data, not a
// programming language, so it doesn't reopen the parser/assembler
// Non-goal.
type WireFormat struct{}

type wireConstant struct {
	Type string  `json:"type"`
	Num  float64 `json:"num,omitempty"`
	Bool bool    `json:"bool,omitempty"`
	Str  string  `json:"str,omitempty"`
}

// wireModule is the on-disk shape of a WireFormat module: a flattened
// view of bytecode.Chunk plus the entry-point metadata EntryModule needs.
type wireModule struct {
	Name         string         `json:"name"`
	RegisterSize int            `json:"register_size"`
	Inputs       []string       `json:"inputs"`
	Outputs      []string       `json:"outputs"`
	Code         []byte         `json:"code"`
	Lines        []int          `json:"lines"`
	Constants    []wireConstant `json:"constants"`
}

func (w wireConstant) toValue() (value.Value, error) {
	switch w.Type {
	case "number":
		return value.Number(w.Num), nil
	case "bool":
		return value.Bool(w.Bool), nil
	case "string":
		return value.Str(w.Str), nil
	case "undefined":
		return value.Undefined, nil
	case "null":
		return value.Null, nil
	default:
		return value.Value{}, fmt.Errorf("unknown constant type %q", w.Type)
	}
}

// Assemble decodes src.Content as a wireModule. The position on any
// decode error is left zero-valued; WireFormat has no lexer to attribute
// a byte offset to a JSON syntax error.
func (WireFormat) Assemble(src *source.SourceFile) (*EntryModule, []cerr.CircuitError) {
	var wm wireModule
	if err := json.Unmarshal([]byte(src.Content), &wm); err != nil {
		return nil, []cerr.CircuitError{&cerr.StructuralError{
			Msg: fmt.Sprintf("%s: malformed bytecode module: %s", src.DisplayPath(), err),
		}}
	}

	chunk := bytecode.NewChunk()
	chunk.Code = wm.Code
	chunk.Lines = wm.Lines
	for i, wc := range wm.Constants {
		v, err := wc.toValue()
		if err != nil {
			return nil, []cerr.CircuitError{&cerr.StructuralError{
				Msg: fmt.Sprintf("%s: constant %d: %s", src.DisplayPath(), i, err),
			}}
		}
		chunk.AddConstant(v)
	}

	return &EntryModule{
		Name:         wm.Name,
		Chunk:        chunk,
		RegisterSize: wm.RegisterSize,
		InputNames:   wm.Inputs,
		OutputNames:  wm.Outputs,
	}, nil
}
