package viewtree

import "fmt"

// Cycle identifies the role of the two tree buffers.
type Cycle uint8

const (
	// CycleA and CycleB are the stable states: no transition in progress.
	CycleA Cycle = iota
	CycleB

	// CycleAB and CycleBA are the transitional states. The first letter
	// names the buffer holding the outgoing view chain, the second the
	// buffer receiving the incoming one. At most one transitional value
	// is active at a time; it acts as a navigation lock.
	CycleAB
	CycleBA
)

// String returns the string representation of the cycle.
func (c Cycle) String() string {
	switch c {
	case CycleA:
		return "a"
	case CycleB:
		return "b"
	case CycleAB:
		return "ab"
	case CycleBA:
		return "ba"
	default:
		return fmt.Sprintf("Cycle(%d)", uint8(c))
	}
}

// Transitional reports whether a transition is in progress.
func (c Cycle) Transitional() bool {
	return c == CycleAB || c == CycleBA
}

// Transition returns the transitional cycle that follows a stable state:
// a begins ba, b begins ab. Calling Transition on a transitional value
// returns the value unchanged.
func (c Cycle) Transition() Cycle {
	switch c {
	case CycleA:
		return CycleBA
	case CycleB:
		return CycleAB
	default:
		return c
	}
}

// Collapse returns the stable cycle a finished transition settles into:
// ba settles to b, ab settles to a. Calling Collapse on a stable value
// returns the value unchanged.
func (c Cycle) Collapse() Cycle {
	switch c {
	case CycleBA:
		return CycleB
	case CycleAB:
		return CycleA
	default:
		return c
	}
}

// Slot is one position in a tree buffer: a resolved view plus the
// integer key the rendering layer uses as remount identity, and the
// route params the view consumes.
type Slot struct {
	Ref    any
	Key    int
	Params map[string]string
}

// Tree is a snapshot of the dual-buffer component tree.
//
// A and B hold view chains at the same positional depths. Eq is the
// index of the last position (from the front) where both buffers hold
// the same ref and params - the unchanged common prefix - or -1 when
// the buffers differ from the first position. Eq is always at most
// min(len(A), len(B)) - 1.
type Tree struct {
	A  []Slot
	B  []Slot
	Eq int
}

// NewTree returns an empty tree with no common prefix.
func NewTree() *Tree {
	return &Tree{Eq: -1}
}

// Buffer returns the buffer holding the live view chain under c: the
// incoming buffer during a transition, and the last-incoming buffer
// once settled. The stable letter names the free buffer - the one the
// next transition will write into - so live content sits in the other
// one.
func (t *Tree) Buffer(c Cycle) []Slot {
	if c == CycleA || c == CycleAB {
		return t.B
	}
	return t.A
}

// Incoming returns the buffer that receives the incoming view chain
// under the given transitional cycle.
func (t *Tree) Incoming(dir Cycle) []Slot {
	if dir == CycleAB {
		return t.B
	}
	return t.A
}

// Outgoing returns the buffer holding the outgoing view chain under the
// given transitional cycle.
func (t *Tree) Outgoing(dir Cycle) []Slot {
	if dir == CycleAB {
		return t.A
	}
	return t.B
}

// Keys returns the key held at each depth of the incoming buffer.
func (t *Tree) Keys(dir Cycle) []int {
	in := t.Incoming(dir)
	keys := make([]int, len(in))
	for i, s := range in {
		keys[i] = s.Key
	}
	return keys
}
