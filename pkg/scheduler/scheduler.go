// Package scheduler implements the branch fork-and-merge scheduler from
// spec §4.4: it runs a max-heap of active branches, stepping whichever
// one has the deepest call stack (ties broken by program counter),
// opportunistically reconverging branches that land back on the same
// (depth, pc), and folding together whatever branches are left once the
// heap drains.
//
// Grounded on circuit_vm.rs's CircuitVM (heap of alternates, step-limited
// run loop) and circuit_vm_branch.rs's ordering; the exact
// adopt-best-alt comparison the original performs on every single step
// is simplified here to an explicit reconvergence check plus a final
// fold, which is still correct (branch flags partition the space, so
// Merge is associative and commutative over the finished set) even
// though it reconverges somewhat later than the original's eager
// comparison. See DESIGN.md.
package scheduler

import (
	"container/heap"
	"fmt"
	"io"

	"circuitvm/pkg/branch"
	"circuitvm/pkg/bytecode"
	"circuitvm/pkg/cerr"
	"circuitvm/pkg/frame"
	"circuitvm/pkg/merge"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/signal"
	"circuitvm/pkg/value"
)

// DefaultStepLimit bounds total instructions executed across all branches
// in one Run, guarding against runaway or genuinely unbounded programs
// (this engine has no timeout/cancellation concept beyond step counting,
// since it runs fully offline with no I/O).
const DefaultStepLimit = 10_000_000

// Option configures a Scheduler, following the functional-options shape
// SPEC_FULL's ambient configuration section adopts project-wide.
type Option func(*Scheduler)

// WithStepLimit overrides DefaultStepLimit.
func WithStepLimit(n int) Option {
	return func(s *Scheduler) { s.stepLimit = n }
}

// WithTrace causes every instruction to be disassembled and written to w
// as it executes — the engine's only logging facility (§3's ambient
// stack: no structured logger, just an opt-in writer, matching how the
// teacher's driver gates debug output behind a plain bool).
func WithTrace(w io.Writer) Option {
	return func(s *Scheduler) { s.trace = w }
}

// Scheduler runs one compiled entry function to a single, fully merged
// result value.
type Scheduler struct {
	gen       *signal.IDGen
	stepLimit int
	trace     io.Writer
}

func New(gen *signal.IDGen, opts ...Option) *Scheduler {
	s := &Scheduler{gen: gen, stepLimit: DefaultStepLimit}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes chunk starting at register window registerSize with args
// already placed in registers [0, len(args)), and returns the single
// merged return value every branch eventually produces.
func (s *Scheduler) Run(chunk *bytecode.Chunk, registerSize int, args []value.Value) (value.Value, error) {
	entry := frame.New(chunk, registerSize)
	copy(entry.Registers, args)

	h := &branchHeap{branch.New(entry)}
	heap.Init(h)

	var doneResults []doneResult
	steps := 0

	for h.Len() > 0 {
		if steps >= s.stepLimit {
			return value.Value{}, &cerr.SchedulerFault{Msg: "step limit exceeded with branches still running"}
		}

		b := heap.Pop(h).(*branch.Branch)

		if alt := h.peek(); alt != nil && samePosition(b, alt) {
			heap.Pop(h)
			merged, err := s.reconverge(b, alt)
			if err != nil {
				return value.Value{}, err
			}
			heap.Push(h, merged)
			continue
		}

		if s.trace != nil {
			s.traceStep(b)
		}

		res, err := b.Step()
		steps++
		if err != nil {
			return value.Value{}, err
		}

		switch r := res.(type) {
		case branch.Continue:
			heap.Push(h, b)
		case branch.Forked:
			heap.Push(h, r.A)
			heap.Push(h, r.B)
		case branch.Done:
			doneResults = append(doneResults, doneResult{flag: b.Flag, value: r.Value})
		default:
			return value.Value{}, &cerr.SchedulerFault{Msg: "branch.Step returned an unrecognized result"}
		}
	}

	return s.fold(doneResults)
}

type doneResult struct {
	flag  value.Value
	value value.Value
}

// samePosition reports whether b and alt have reconverged: their call
// stacks agree, frame for frame, on the executing chunk, program counter,
// register-window size, and active catch handler. Matching depth and top
// PC alone isn't enough — two branches with unrelated call histories (a
// recursive call, or two distinct call sites) can land on the same
// depth/PC pair with incompatible stacks underneath, and merging those
// would silently fold together registers that were never the same
// variable. This is the condition under which their divergent register
// state can instead be merged back into one branch.
func samePosition(b, alt *branch.Branch) bool {
	if len(b.Frames) != len(alt.Frames) {
		return false
	}
	for i := range b.Frames {
		bf, af := b.Frames[i], alt.Frames[i]
		if bf.Chunk != af.Chunk || bf.PC != af.PC {
			return false
		}
		if len(bf.Registers) != len(af.Registers) {
			return false
		}
		if !sameCatch(bf.Catch, af.Catch) {
			return false
		}
	}
	return true
}

func sameCatch(a, b *frame.CatchInfo) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// reconverge merges two branches that share a (depth, pc) position by
// merging their frame stacks register-by-register and combining their
// path flags with a logical Or (the two paths together cover whatever
// fraction of the input space either one covered).
func (s *Scheduler) reconverge(a, b *branch.Branch) (*branch.Branch, error) {
	if len(a.Frames) != len(b.Frames) {
		return nil, &cerr.SchedulerFault{Msg: "reconverging branches have mismatched call stacks"}
	}
	mergedFrames := make([]*frame.Frame, len(a.Frames))
	for i := range a.Frames {
		mf, err := s.mergeFrame(a.Flag, a.Frames[i], b.Flag, b.Frames[i])
		if err != nil {
			return nil, err
		}
		mergedFrames[i] = mf
	}
	combinedFlag, err := frame.ApplyBinary(ops.Or, a.Flag, b.Flag)
	if err != nil {
		return nil, err
	}
	return &branch.Branch{Flag: combinedFlag, Frames: mergedFrames}, nil
}

func (s *Scheduler) mergeFrame(aFlag value.Value, a *frame.Frame, bFlag value.Value, b *frame.Frame) (*frame.Frame, error) {
	merged := a.Clone()
	for i := range merged.Registers {
		v, err := merge.Merge(s.gen, aFlag, a.Registers[i], bFlag, b.Registers[i])
		if err != nil {
			return nil, err
		}
		if merge.IsCouldNotMerge(v) {
			return nil, &cerr.StructuralError{Msg: "branches produced incompatible shapes for the same register"}
		}
		merged.Registers[i] = v
	}
	return merged, nil
}

// fold combines every finished branch's result into one value, in the
// order they finished. Order doesn't affect the result: Merge's blend is
// associative and commutative over a set of flags that partition the
// input space.
func (s *Scheduler) fold(results []doneResult) (value.Value, error) {
	if len(results) == 0 {
		return value.Value{}, &cerr.SchedulerFault{Msg: "scheduler produced no result"}
	}
	acc := results[0]
	for _, r := range results[1:] {
		v, err := merge.Merge(s.gen, acc.flag, acc.value, r.flag, r.value)
		if err != nil {
			return value.Value{}, err
		}
		if merge.IsCouldNotMerge(v) {
			return value.Value{}, &cerr.StructuralError{Msg: "program's branches returned incompatible shapes"}
		}
		combinedFlag, err := frame.ApplyBinary(ops.Or, acc.flag, r.flag)
		if err != nil {
			return value.Value{}, err
		}
		acc = doneResult{flag: combinedFlag, value: v}
	}
	return acc.value, nil
}

// traceStep writes a one-line disassembly of the next instruction a
// branch is about to execute, prefixed with its scheduling position so a
// --trace run shows forks and reconvergences as depth changes.
func (s *Scheduler) traceStep(b *branch.Branch) {
	f := b.Frames[len(b.Frames)-1]
	if f.PC >= len(f.Chunk.Code) {
		return
	}
	fmt.Fprintf(s.trace, "[depth=%d pc=%04d] %s\n", b.Depth(), f.PC, f.Chunk.DisassembleInstructionAt(f.PC))
}
