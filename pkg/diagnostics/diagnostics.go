// Package diagnostics defines the path-keyed error report the top-level
// source parser/checker (out of scope per spec §1's Non-goals) would
// produce, and that pkg/entry folds this core's own cerr.CircuitError
// values into so a single report type can describe either failure mode.
//
// Grounded on the teacher's pkg/errors (a PaseratiError interface plus a
// position/message/kind triple) generalized to the multi-file report
// shape a real compiler driver accumulates across a module graph, even
// though this engine only ever compiles one file (spec §1: no module
// system in scope).
package diagnostics

import "circuitvm/pkg/cerr"

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Diagnostic is one reported problem, with enough position information
// to point a user at the offending source span.
type Diagnostic struct {
	Severity Severity
	Pos      cerr.Position
	Msg      string
}

// FromError builds an error-severity Diagnostic from any CircuitError
// this core raises.
func FromError(err cerr.CircuitError) Diagnostic {
	return Diagnostic{Severity: SeverityError, Pos: err.Pos(), Msg: err.Message()}
}

// Report collects diagnostics keyed by source path, the same shape a
// multi-file compiler driver would use even though this engine's entry
// point only ever populates one key.
type Report map[string][]Diagnostic

func (r Report) Add(path string, d Diagnostic) {
	r[path] = append(r[path], d)
}

// HasErrors reports whether any entry in the report is error-severity.
func (r Report) HasErrors() bool {
	for _, ds := range r {
		for _, d := range ds {
			if d.Severity == SeverityError {
				return true
			}
		}
	}
	return false
}
