// Package cerr defines the error taxonomy the symbolic execution engine
// raises, mirroring the diagnostics-by-path contract the out-of-scope
// source-level reporter (pkg/diagnostics) also speaks.
package cerr

import "fmt"

// CircuitError is the interface implemented by every error this core
// raises. It deliberately mirrors the shape of a source-level diagnostic
// (position + kind + message) so that pkg/entry can merge structural
// compilation errors into the same path-keyed report the upstream
// parser/checker would have produced.
type CircuitError interface {
	error
	Pos() Position
	Kind() string // "Structural", "Internal", "Exception"
	Message() string
}

// StructuralError is raised when the symbolic engine cannot produce a
// valid circuit from otherwise well-typed bytecode: a signal used as an
// array index, a non-integer/non-finite constant, an operator applied to
// signal types it doesn't support, or a merge that can't reconcile
// diverging branch shapes.
type StructuralError struct {
	Position
	Msg string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("Structural Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *StructuralError) Pos() Position   { return e.Position }
func (e *StructuralError) Kind() string    { return "Structural" }
func (e *StructuralError) Message() string { return e.Msg }

// SchedulerFault indicates the scheduler or merge engine observed a state
// that should be impossible given the invariants of §4.4/§4.5 — a stack
// length mismatch at merge, a duplicate signal id, a branch heap ordering
// violation. These are bugs in the core, not malformed user input, and are
// meant to be treated as fatal assertions.
type SchedulerFault struct {
	Position
	Msg string
}

func (e *SchedulerFault) Error() string {
	return fmt.Sprintf("Scheduler Fault: %s", e.Msg)
}
func (e *SchedulerFault) Pos() Position   { return e.Position }
func (e *SchedulerFault) Kind() string    { return "Internal" }
func (e *SchedulerFault) Message() string { return e.Msg }

// RuntimeException wraps an uncaught exception value escaping the
// interpreted program. Msg is expected to already be the exception's
// pretty-printed form.
type RuntimeException struct {
	Position
	Msg string
}

func (e *RuntimeException) Error() string {
	return fmt.Sprintf("Uncaught exception at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *RuntimeException) Pos() Position   { return e.Position }
func (e *RuntimeException) Kind() string    { return "Exception" }
func (e *RuntimeException) Message() string { return e.Msg }
