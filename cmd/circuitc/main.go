// Command circuitc is the CLI front end for the symbolic circuit
// compiler: it assembles a bytecode module, runs it symbolically, and
// writes the resulting circuit's Bristol Fashion text plus its JSON
// wire-index manifest to an output directory.
//
// Grounded on cli/src/main.rs's main (clear-and-recreate output dir,
// write circuit.txt + circuit_info.json, print the wires/gates/depth
// summary line) with the flag/arg handling lifted onto Cobra per
// SPEC_FULL.md's CLI-surface note instead of the original's bare
// std::env::args.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"circuitvm/pkg/assembler"
	"circuitvm/pkg/diagnostics"
	"circuitvm/pkg/entry"
	"circuitvm/pkg/scheduler"
	"circuitvm/pkg/source"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "circuitc",
		Short:         "Compile a bytecode module into a Bristol Fashion arithmetic circuit",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newCompileCmd())
	return root
}

func newCompileCmd() *cobra.Command {
	var stepLimit int
	var trace bool
	var outDir string

	cmd := &cobra.Command{
		Use:   "compile <main-file>",
		Short: "Assemble, symbolically execute, and flatten a module into a circuit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args[0], outDir, stepLimit, trace)
		},
	}

	cmd.Flags().IntVar(&stepLimit, "step-limit", scheduler.DefaultStepLimit, "maximum total instructions executed across all branches")
	cmd.Flags().BoolVar(&trace, "trace", false, "disassemble every executed instruction to stderr")
	cmd.Flags().StringVar(&outDir, "out-dir", "output", "directory to write circuit.txt and circuit_info.json into")

	return cmd
}

func runCompile(cmd *cobra.Command, mainFile, outDir string, stepLimit int, trace bool) error {
	content, err := os.ReadFile(mainFile)
	if err != nil {
		return fmt.Errorf("circuitc: %w", err)
	}
	src := source.FromFile(mainFile, string(content))

	opts := []scheduler.Option{scheduler.WithStepLimit(stepLimit)}
	if trace {
		opts = append(opts, scheduler.WithTrace(cmd.ErrOrStderr()))
	}

	result, report, err := entry.Compile(src, assembler.WireFormat{}, opts...)
	printReport(cmd, report)
	if err != nil {
		return fmt.Errorf("circuitc: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wires: %d, Gates: %d, Depth: %d\n",
		result.Circuit.Size, len(result.Circuit.Gates), result.Circuit.Depth())

	if err := os.RemoveAll(outDir); err != nil {
		return fmt.Errorf("circuitc: clearing %s: %w", outDir, err)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("circuitc: creating %s: %w", outDir, err)
	}

	circuitPath := filepath.Join(outDir, "circuit.txt")
	if err := os.WriteFile(circuitPath, []byte(result.Bristol.Bristol), 0o644); err != nil {
		return fmt.Errorf("circuitc: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), circuitPath)

	infoJSON, err := result.Bristol.InfoJSON()
	if err != nil {
		return fmt.Errorf("circuitc: %w", err)
	}
	infoPath := filepath.Join(outDir, "circuit_info.json")
	if err := os.WriteFile(infoPath, infoJSON, 0o644); err != nil {
		return fmt.Errorf("circuitc: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), infoPath)

	return nil
}

// printReport writes every collected diagnostic to stderr, grouped by
// source path, matching handle_diagnostics_cli's per-file grouping.
func printReport(cmd *cobra.Command, report diagnostics.Report) {
	for path, ds := range report {
		for _, d := range ds {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d:%d: %s: %s\n", path, d.Pos.Line, d.Pos.Column, d.Severity, d.Msg)
		}
	}
}
