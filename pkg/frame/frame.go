// Package frame implements the call-frame and single-step interpreter
// described in spec §4.2: a register window per call, a program counter,
// and a Step function that executes exactly one instruction and reports
// what the branch running it (pkg/branch) needs to do next — keep going,
// push a callee frame, pop a return value, or propagate an exception.
//
// Grounded on the teacher's CallFrame (pkg/vm/vm.go's frame struct) for
// the register-window/return-target shape, generalized per spec §9's
// suggested redesign of Step into an explicit sum type instead of a
// frame-mutates-in-place convention.
package frame

import (
	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/value"
)

// CatchInfo marks an active exception handler: if OpThrow executes while
// Catch is set, control transfers to HandlerPC instead of unwinding the
// frame, with the thrown value placed in Register.
type CatchInfo struct {
	HandlerPC int
	Register  byte
}

// ForkInfo is left on a Frame by Step when a conditional jump's guard is a
// signal rather than a concrete bool (§4.3's data-dependent fork). The
// owning Branch inspects this immediately after a StepContinue and, if
// set, performs the actual fork instead of letting the frame proceed —
// this is the one place frame state is read back out after Step returns,
// mirroring circuit_vm_branch.rs's handling of the analogous condition.
type ForkInfo struct {
	// Flag is the signal-valued value.Value that produced the fork.
	Flag value.Value
	// TakenPC and FallthroughPC are the two program counters execution
	// would have gone to had the guard been concretely true/false.
	TakenPC       int
	FallthroughPC int
}

// Frame is one call's register window, program counter, and exception
// handler stack entry.
type Frame struct {
	Chunk     *bytecode.Chunk
	PC        int
	Registers []value.Value
	// ReturnDest is the register index in the caller's frame that should
	// receive this frame's return value.
	ReturnDest byte
	Catch      *CatchInfo
	Fork       *ForkInfo
}

// New allocates a fresh frame over chunk with registerSize registers,
// all initialized to undefined.
func New(chunk *bytecode.Chunk, registerSize int) *Frame {
	regs := make([]value.Value, registerSize)
	for i := range regs {
		regs[i] = value.Undefined
	}
	return &Frame{Chunk: chunk, Registers: regs}
}

// Clone performs the copy-on-write duplication a fork needs: program
// counter and return target are scalar and copy trivially, the register
// window is copied one level deep (§3/§9's clone-on-write discipline —
// array/object elements inside a register are not deep-copied).
func (f *Frame) Clone() *Frame {
	regs := make([]value.Value, len(f.Registers))
	copy(regs, f.Registers)
	var catch *CatchInfo
	if f.Catch != nil {
		c := *f.Catch
		catch = &c
	}
	return &Frame{
		Chunk:      f.Chunk,
		PC:         f.PC,
		Registers:  regs,
		ReturnDest: f.ReturnDest,
		Catch:      catch,
	}
}

// Depth is used by the scheduler's branch ordering (§4.4: "deeper stack
// wins ties broken by PC"); a single Frame has no stack depth of its own,
// so this lives on Branch instead. Kept here as a doc pointer for readers
// following the Branch.Less implementation.
