// Package entry implements the top-level compile orchestration spec §6's
// CLI surface drives: assemble a source file into bytecode, run it
// symbolically over freshly minted input signals, and flatten the
// resulting value into a named Bristol circuit.
//
// Grounded on compiler/src/compile.rs's compile/get_compile_artifacts
// pipeline (assemble -> run with signal inputs -> build circuit from
// outputs) and its output naming rule (single return value named after
// the function, otherwise name[i]), and on the teacher's driver.go for
// the overall "one function does parse-through-execute, returns
// diagnostics on failure" shape.
package entry

import (
	"fmt"

	"circuitvm/pkg/assembler"
	"circuitvm/pkg/bristol"
	"circuitvm/pkg/circuit"
	"circuitvm/pkg/diagnostics"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/scheduler"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/source"
	"circuitvm/pkg/value"
)

// Result bundles everything a successful compile produces: the raw
// circuit (for Depth/wire/gate counts) and its rendered Bristol form.
type Result struct {
	Circuit *circuit.Circuit
	Bristol *bristol.Circuit
}

// Compile assembles src, symbolically executes its entry function over
// one fresh signal per declared input, and flattens the result into a
// circuit. opts configure the scheduler (step limit, trace output).
func Compile(src *source.SourceFile, asm assembler.Assembler, opts ...scheduler.Option) (*Result, diagnostics.Report, error) {
	report := diagnostics.Report{}

	module, errs := asm.Assemble(src)
	if len(errs) > 0 {
		for _, e := range errs {
			report.Add(src.Path, diagnostics.FromError(e))
		}
		return nil, report, fmt.Errorf("entry: assembly failed for %s", src.DisplayPath())
	}

	gen := signal.NewIDGen()
	args := make([]value.Value, len(module.InputNames))
	for i, name := range module.InputNames {
		args[i] = signal.NewInput(gen, ops.Number, name).Val()
	}

	sched := scheduler.New(gen, opts...)
	result, err := sched.Run(module.Chunk, module.RegisterSize, args)
	if err != nil {
		return nil, report, err
	}

	outputs, outputNames := namedOutputs(module, result)

	builder := circuit.NewBuilder()
	builder.IncludeInputs(module.InputNames)
	outputWires, err := builder.IncludeOutputs(outputs)
	if err != nil {
		return nil, report, err
	}

	circ := builder.Finish(module.InputNames, outputNames, outputWires)
	return &Result{Circuit: circ, Bristol: bristol.Render(circ)}, report, nil
}

// namedOutputs applies spec §9's output naming rule: an entry function
// that returns a single value names its one output after the function
// itself; one that returns an array treats each element as its own named
// output, "name[i]", unless the assembler already declared explicit
// names.
func namedOutputs(module *assembler.EntryModule, result value.Value) ([]value.Value, []string) {
	var values []value.Value
	if result.IsArray() {
		values = append(values, result.AsArray().Elements...)
	} else {
		values = append(values, result)
	}

	if len(module.OutputNames) == len(values) {
		return values, module.OutputNames
	}

	names := make([]string, len(values))
	if len(values) == 1 {
		names[0] = module.Name
	} else {
		for i := range values {
			names[i] = fmt.Sprintf("%s[%d]", module.Name, i)
		}
	}
	return values, names
}
