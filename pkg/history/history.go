// Package history abstracts the browser history stack.
//
// The navigation controller talks to history exclusively through the
// History interface. The in-memory implementation mirrors a browser
// session's stack semantics and backs tests and headless use; the
// websocket bridge provides an implementation backed by a real browser
// client.
package history

import "sync"

// Location is a snapshot of the current address.
type Location struct {
	// Path is the pathname, always beginning with "/".
	Path string

	// Search is the raw query string without the leading "?".
	Search string

	// Hash is the fragment without the leading "#".
	Hash string

	// State is the opaque history state attached to this entry.
	State any
}

// History is the browser history contract consumed by the controller.
type History interface {
	// Push appends a new entry and makes it current.
	Push(loc Location)

	// Replace swaps the current entry in place.
	Replace(loc Location)

	// Go moves delta entries through the stack (negative is back) and
	// fires pop handlers for the entry landed on.
	Go(delta int)

	// Location returns the current entry.
	Location() Location

	// OnPop registers a handler for back/forward traversal. The
	// returned function removes the handler.
	OnPop(fn func(Location)) (remove func())
}

// Memory is an in-memory History with browser stack semantics:
// pushing while not at the top of the stack discards the forward
// entries, and Go clamps to the stack bounds.
type Memory struct {
	mu      sync.Mutex
	entries []Location
	index   int

	popMu   sync.Mutex
	pops    map[uint64]func(Location)
	nextPop uint64
}

// NewMemory creates a memory history with a single root entry.
func NewMemory() *Memory {
	return &Memory{
		entries: []Location{{Path: "/"}},
		pops:    make(map[uint64]func(Location)),
	}
}

// Push appends a new entry, discarding any forward entries.
func (m *Memory) Push(loc Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries[:m.index+1], loc)
	m.index = len(m.entries) - 1
}

// Replace swaps the current entry in place.
func (m *Memory) Replace(loc Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[m.index] = loc
}

// Go moves delta entries and fires pop handlers.
// Moving by 0 or past either end of the stack is a no-op.
func (m *Memory) Go(delta int) {
	m.mu.Lock()
	target := m.index + delta
	if delta == 0 || target < 0 || target >= len(m.entries) {
		m.mu.Unlock()
		return
	}
	m.index = target
	loc := m.entries[m.index]
	m.mu.Unlock()

	m.firePop(loc)
}

// Location returns the current entry.
func (m *Memory) Location() Location {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[m.index]
}

// Len returns the number of entries in the stack.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// OnPop registers a back/forward handler.
func (m *Memory) OnPop(fn func(Location)) (remove func()) {
	m.popMu.Lock()
	defer m.popMu.Unlock()
	id := m.nextPop
	m.nextPop++
	m.pops[id] = fn
	return func() {
		m.popMu.Lock()
		defer m.popMu.Unlock()
		delete(m.pops, id)
	}
}

func (m *Memory) firePop(loc Location) {
	m.popMu.Lock()
	fns := make([]func(Location), 0, len(m.pops))
	for _, fn := range m.pops {
		fns = append(fns, fn)
	}
	m.popMu.Unlock()

	for _, fn := range fns {
		fn(loc)
	}
}
