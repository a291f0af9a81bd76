// Package branch implements one execution path through the scheduler
// described in spec §4.3/§4.4: a call stack of frames plus the path
// condition ("flag") that got this branch forked off its sibling. When a
// Step discovers a data-dependent conditional, the branch forks in two;
// when its stack empties, it carries a final result back to the
// scheduler to be arithmetically merged with whatever its sibling
// produced.
//
// Grounded on circuit_vm_branch.rs's CircuitVMBranch (flag/frame/stack
// fields, step/push/pop, Ord-by-depth-then-pc) and generalized to Go's
// container/heap ordering contract by pkg/scheduler.
package branch

import (
	"circuitvm/pkg/cerr"
	"circuitvm/pkg/frame"
	"circuitvm/pkg/ops"
	"circuitvm/pkg/value"
)

// Branch is one path of symbolic execution: a call stack (innermost frame
// last) and the accumulated path condition that led here. Flag is
// value.True for the single root branch that hasn't forked yet.
type Branch struct {
	Flag   value.Value
	Frames []*frame.Frame
}

// New creates the single root branch a Scheduler.Run starts with.
func New(entry *frame.Frame) *Branch {
	return &Branch{Flag: value.True, Frames: []*frame.Frame{entry}}
}

func (b *Branch) top() *frame.Frame { return b.Frames[len(b.Frames)-1] }

// Depth is the call-stack depth used to order branches in the scheduler's
// max-heap (§4.4: deeper stacks run first, since a shallow, forked-off
// branch that is just waiting to reconverge shouldn't starve a branch
// doing real work).
func (b *Branch) Depth() int { return len(b.Frames) }

// PC is the program counter of the active frame, the tiebreaker when two
// branches share a depth.
func (b *Branch) PC() int { return b.top().PC }

// Less reports whether b has strictly lower scheduling priority than
// other: shallower stacks are lower priority, and among equal-depth
// branches the one at the lower program counter is higher priority, so
// that the earlier position reconverges with whatever is still behind it
// before either runs further ahead.
func (b *Branch) Less(other *Branch) bool {
	if b.Depth() != other.Depth() {
		return b.Depth() < other.Depth()
	}
	return b.PC() > other.PC()
}

// Result is what Step reports when a branch finishes or forks.
type Result interface{ isResult() }

// Continue means the branch is still running; call Step again.
type Continue struct{}

// Forked means the active frame hit a signal-guarded conditional: A and B
// replace b entirely and should both be scheduled.
type Forked struct{ A, B *Branch }

// Done means the call stack emptied: Value is the branch's final result.
type Done struct{ Value value.Value }

func (Continue) isResult() {}
func (Forked) isResult()   {}
func (Done) isResult()     {}

// Step runs exactly one bytecode instruction in the active frame and
// reports what the scheduler should do next.
func (b *Branch) Step() (Result, error) {
	f := b.top()
	res, err := frame.Step(f)
	if err != nil {
		return nil, err
	}

	switch r := res.(type) {
	case frame.StepContinue:
		if f.Fork != nil {
			return b.fork(f.Fork)
		}
		return Continue{}, nil

	case frame.StepPush:
		b.Frames = append(b.Frames, r.Callee)
		return Continue{}, nil

	case frame.StepPop:
		b.Frames = b.Frames[:len(b.Frames)-1]
		if len(b.Frames) == 0 {
			return Done{Value: r.Value}, nil
		}
		b.top().Registers[r.Dest] = r.Value
		return Continue{}, nil

	case frame.StepException:
		return b.unwind(r.Value)

	default:
		return nil, &cerr.SchedulerFault{Msg: "frame.Step returned an unrecognized result"}
	}
}

// unwind pops frames looking for an active Catch, per the exception
// model in §7. If none is found, the exception escapes the program.
func (b *Branch) unwind(exc value.Value) (Result, error) {
	for len(b.Frames) > 0 {
		f := b.top()
		if f.Catch != nil {
			f.Registers[f.Catch.Register] = exc
			f.PC = f.Catch.HandlerPC
			f.Catch = nil
			return Continue{}, nil
		}
		b.Frames = b.Frames[:len(b.Frames)-1]
	}
	return nil, &cerr.RuntimeException{Msg: exc.String()}
}

// fork splits b into two branches along fi, cloning the call stack one
// level deep (§3/§9's clone-on-write discipline) so the two branches'
// subsequent mutations never alias each other.
func (b *Branch) fork(fi *frame.ForkInfo) (Result, error) {
	leftFrames := cloneStack(b.Frames)
	rightFrames := cloneStack(b.Frames)

	leftTop := leftFrames[len(leftFrames)-1]
	leftTop.Fork = nil
	leftTop.PC = fi.TakenPC

	rightTop := rightFrames[len(rightFrames)-1]
	rightTop.Fork = nil
	rightTop.PC = fi.FallthroughPC

	notFlag, err := frame.ApplyUnary(ops.Not, fi.Flag)
	if err != nil {
		return nil, err
	}

	leftFlag, err := frame.ApplyBinary(ops.And, b.Flag, fi.Flag)
	if err != nil {
		return nil, err
	}
	rightFlag, err := frame.ApplyBinary(ops.And, b.Flag, notFlag)
	if err != nil {
		return nil, err
	}

	return Forked{
		A: &Branch{Flag: leftFlag, Frames: leftFrames},
		B: &Branch{Flag: rightFlag, Frames: rightFrames},
	}, nil
}

func cloneStack(frames []*frame.Frame) []*frame.Frame {
	cloned := make([]*frame.Frame, len(frames))
	for i, f := range frames {
		cloned[i] = f.Clone()
	}
	return cloned
}
