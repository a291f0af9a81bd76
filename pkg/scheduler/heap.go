package scheduler

import "circuitvm/pkg/branch"

// branchHeap is a container/heap.Interface max-heap over active branches,
// ordered per branch.Branch.Less (deeper stack first, PC as tiebreak),
// grounded on circuit_vm_branch.rs's Ord impl and circuit_vm.rs's
// BinaryHeap<CircuitVMBranch> of waiting alternates (§4.4).
type branchHeap []*branch.Branch

func (h branchHeap) Len() int { return len(h) }

// Less inverts branch.Branch.Less so that container/heap, which always
// pops the minimum element, ends up popping the highest-priority branch.
func (h branchHeap) Less(i, j int) bool {
	return h[j].Less(h[i])
}

func (h branchHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *branchHeap) Push(x any) {
	*h = append(*h, x.(*branch.Branch))
}

func (h *branchHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func (h branchHeap) peek() *branch.Branch {
	if len(h) == 0 {
		return nil
	}
	return h[0]
}
