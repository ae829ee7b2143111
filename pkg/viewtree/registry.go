package viewtree

import "sync"

// SlotID identifies one mounted slot by buffer depth and transition key.
type SlotID struct {
	Depth int
	Key   int
}

// Mount is the binding slot for a mounted view instance. Hooks and the
// rendering layer use it to introspect and control a specific mount,
// e.g. to park transition state or DOM handles on it.
type Mount struct {
	mu     sync.RWMutex
	values map[string]any
}

// Set stores a value on the mount.
func (m *Mount) Set(key string, v any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string]any)
	}
	m.values[key] = v
}

// Get returns a value previously stored on the mount.
func (m *Mount) Get(key string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

// Registry tracks mounted slots across transitions.
//
// Entries are created by Reconcile for every incoming (depth, key) pair
// and garbage-collected by Sweep once their key falls behind the minimum
// key still live in either buffer at that depth.
type Registry struct {
	mu     sync.RWMutex
	mounts map[SlotID]*Mount
}

// NewRegistry returns an empty mount registry.
func NewRegistry() *Registry {
	return &Registry{mounts: make(map[SlotID]*Mount)}
}

// Bind returns the mount for id, creating a fresh empty one if needed.
func (r *Registry) Bind(id SlotID) *Mount {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.mounts[id]; ok {
		return m
	}
	m := &Mount{}
	r.mounts[id] = m
	return m
}

// Lookup returns the mount for id, or nil if it is not registered.
func (r *Registry) Lookup(id SlotID) *Mount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mounts[id]
}

// Len returns the number of live mounts.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.mounts)
}

// Sweep removes mounts no longer reachable from either buffer of the
// given tree: entries whose key is behind the minimum of the two
// buffers' keys at their depth, and entries at depths beyond both
// buffers.
func (r *Registry) Sweep(t *Tree) {
	if t == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id := range r.mounts {
		if id.Key < minLiveKey(t, id.Depth) {
			delete(r.mounts, id)
		}
	}
}

// minLiveKey returns the smallest key either buffer holds at depth.
// Depths beyond both buffers have no live keys; everything there is
// stale.
func minLiveKey(t *Tree, depth int) int {
	inA, inB := depth < len(t.A), depth < len(t.B)
	switch {
	case inA && inB:
		return min(t.A[depth].Key, t.B[depth].Key)
	case inA:
		return t.A[depth].Key
	case inB:
		return t.B[depth].Key
	default:
		return int(^uint(0) >> 1)
	}
}
