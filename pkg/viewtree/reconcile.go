package viewtree

import (
	"fmt"
	"maps"
	"reflect"
)

// Resolved is one element of a freshly resolved view chain, ready to be
// placed into the incoming buffer.
type Resolved struct {
	Ref    any
	Params map[string]string
}

// Reconcile computes the next tree snapshot from the previous one and a
// newly resolved view chain.
//
// dir must be a transitional cycle; its first letter names the outgoing
// buffer, copied from prev unchanged, and its second letter the incoming
// buffer, rebuilt from next. Each incoming slot inherits the key the
// outgoing buffer holds at that depth, so keys only ever grow: positions
// past the outgoing chain fall back to the incoming-letter buffer's old
// key at that index, or 0.
//
// Walking both buffers from the front, Eq advances while ref and params
// are identical. At the first differing position the incoming key is
// bumped by 1, and so is every key below it - a changed ancestor
// invalidates the identity of everything nested under it. A chain that
// grows deeper counts as differing at the first new depth.
//
// Every (depth, key) pair of the incoming buffer is bound as a fresh
// empty entry in reg.
func Reconcile(prev *Tree, next []Resolved, dir Cycle, reg *Registry) (*Tree, error) {
	if !dir.Transitional() {
		return nil, fmt.Errorf("viewtree: reconcile direction %s is not transitional", dir)
	}
	if prev == nil {
		prev = NewTree()
	}

	outgoing := append([]Slot(nil), prev.Outgoing(dir)...)
	prevIncoming := prev.Incoming(dir)

	incoming := make([]Slot, len(next))
	for i, n := range next {
		key := 0
		if i < len(outgoing) {
			key = outgoing[i].Key
		} else if i < len(prevIncoming) {
			key = prevIncoming[i].Key
		}
		incoming[i] = Slot{Ref: n.Ref, Key: key, Params: n.Params}
	}

	// Equality scan with cascading key bumps.
	eq := -1
	diff := len(outgoing)
	for i := 0; i < min(len(outgoing), len(incoming)); i++ {
		if sameRef(outgoing[i].Ref, incoming[i].Ref) && maps.Equal(outgoing[i].Params, incoming[i].Params) {
			eq = i
			continue
		}
		diff = i
		break
	}
	for j := diff; j < len(incoming); j++ {
		incoming[j].Key++
	}

	if reg != nil {
		for i, s := range incoming {
			reg.Bind(SlotID{Depth: i, Key: s.Key})
		}
	}

	next2 := &Tree{Eq: eq}
	if dir == CycleAB {
		next2.A, next2.B = outgoing, incoming
	} else {
		next2.A, next2.B = incoming, outgoing
	}
	return next2, nil
}

// sameRef compares two view references by identity. Funcs, pointers and
// other reference kinds compare by address; plain comparable values
// compare by value.
func sameRef(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	av, bv := reflect.ValueOf(a), reflect.ValueOf(b)
	if av.Type() != bv.Type() {
		return false
	}
	switch av.Kind() {
	case reflect.Func, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.UnsafePointer:
		return av.Pointer() == bv.Pointer()
	}
	if !av.Type().Comparable() {
		return reflect.DeepEqual(a, b)
	}
	return a == b
}
