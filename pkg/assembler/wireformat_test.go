package assembler

import (
	"testing"

	"circuitvm/pkg/source"
)

const validModule = `{
  "name": "add",
  "register_size": 3,
  "inputs": ["a", "b"],
  "outputs": ["sum"],
  "code": "AAAAAQAB",
  "lines": [1, 1, 1],
  "constants": []
}`

func TestWireFormatAssembleDecodesMetadata(t *testing.T) {
	src := source.NewSourceFile("add.json", "add.json", validModule)
	m, errs := WireFormat{}.Assemble(src)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if m.Name != "add" {
		t.Errorf("Name = %q, want %q", m.Name, "add")
	}
	if m.RegisterSize != 3 {
		t.Errorf("RegisterSize = %d, want 3", m.RegisterSize)
	}
	if len(m.InputNames) != 2 || len(m.OutputNames) != 1 {
		t.Errorf("unexpected input/output names: %v %v", m.InputNames, m.OutputNames)
	}
}

func TestWireFormatAssembleDecodesConstants(t *testing.T) {
	src := source.NewSourceFile("c.json", "c.json", `{
		"name": "f",
		"register_size": 1,
		"inputs": [],
		"outputs": [],
		"code": "",
		"lines": [],
		"constants": [
			{"type": "number", "num": 42},
			{"type": "bool", "bool": true},
			{"type": "string", "str": "hi"}
		]
	}`)
	m, errs := WireFormat{}.Assemble(src)
	if errs != nil {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if len(m.Chunk.Constants) != 3 {
		t.Fatalf("expected 3 decoded constants, got %d", len(m.Chunk.Constants))
	}
	if m.Chunk.Constants[0].AsNumber() != 42 {
		t.Error("first constant should decode to number 42")
	}
	if m.Chunk.Constants[1].AsBool() != true {
		t.Error("second constant should decode to bool true")
	}
	if m.Chunk.Constants[2].AsString() != "hi" {
		t.Error("third constant should decode to string \"hi\"")
	}
}

func TestWireFormatAssembleRejectsMalformedJSON(t *testing.T) {
	src := source.NewSourceFile("bad.json", "bad.json", "{not json")
	_, errs := WireFormat{}.Assemble(src)
	if len(errs) == 0 {
		t.Fatal("malformed JSON should report at least one error")
	}
}

func TestWireFormatAssembleRejectsUnknownConstantType(t *testing.T) {
	src := source.NewSourceFile("bad.json", "bad.json", `{
		"name": "f", "register_size": 1, "inputs": [], "outputs": [], "code": "", "lines": [],
		"constants": [{"type": "weird"}]
	}`)
	_, errs := WireFormat{}.Assemble(src)
	if len(errs) == 0 {
		t.Fatal("an unknown constant type should be a structural error")
	}
}
