package pathfind

import "fmt"

// Frontier is the append-only FIFO of candidates awaiting expansion.
// The read cursor only moves forward, so every candidate behind it has a
// step no greater than any candidate at or after it.
type Frontier struct {
	items  []Candidate
	cursor int
	best   map[NodeID]int // smallest step of any pushed candidate ending at the node
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	return &Frontier{
		items: make([]Candidate, 0, 16),
		best:  make(map[NodeID]int),
	}
}

// Push appends c to the back of the queue. It rejects malformed candidates
// and candidates shallower than the last one pushed.
func (f *Frontier) Push(c Candidate) error {
	if !c.valid() {
		return fmt.Errorf("%w: %d nodes at step %d", ErrMalformedCandidate, len(c.Path), c.Step)
	}

	if n := len(f.items); n > 0 && c.Step < f.items[n-1].Step {
		return fmt.Errorf("%w: step %d pushed after step %d", ErrStepOrder, c.Step, f.items[n-1].Step)
	}

	f.items = append(f.items, c)

	head := c.Head()
	if step, ok := f.best[head]; !ok || c.Step < step {
		f.best[head] = c.Step
	}

	return nil
}

// Next pops the candidate under the cursor. It returns false once the queue is drained.
func (f *Frontier) Next() (Candidate, bool) {
	if f.cursor >= len(f.items) {
		return Candidate{}, false
	}

	c := f.items[f.cursor]
	f.cursor++

	return c, true
}

// Best reports the shallowest step at which node has been pushed.
func (f *Frontier) Best(node NodeID) (int, bool) {
	step, ok := f.best[node]
	return step, ok
}

// Pending returns the number of candidates not yet popped.
func (f *Frontier) Pending() int {
	return len(f.items) - f.cursor
}

// Len returns the total number of candidates ever pushed.
func (f *Frontier) Len() int {
	return len(f.items)
}

// ScanAhead calls fn for every candidate not yet popped, in queue order.
func (f *Frontier) ScanAhead(fn func(Candidate)) {
	for _, c := range f.items[f.cursor:] {
		fn(c)
	}
}
