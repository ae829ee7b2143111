package viewtree

import "testing"

type fakeView struct{ name string }

func TestCycleTransitions(t *testing.T) {
	tests := []struct {
		stable       Cycle
		transitional Cycle
		settled      Cycle
	}{
		{CycleA, CycleBA, CycleB},
		{CycleB, CycleAB, CycleA},
	}
	for _, tt := range tests {
		if got := tt.stable.Transition(); got != tt.transitional {
			t.Errorf("%s.Transition() = %s, want %s", tt.stable, got, tt.transitional)
		}
		if got := tt.transitional.Collapse(); got != tt.settled {
			t.Errorf("%s.Collapse() = %s, want %s", tt.transitional, got, tt.settled)
		}
	}
	if CycleA.Transitional() || CycleB.Transitional() {
		t.Error("stable cycles reported transitional")
	}
	if !CycleAB.Transitional() || !CycleBA.Transitional() {
		t.Error("transitional cycles reported stable")
	}
}

func TestReconcileBumpsKeyOnChangedRef(t *testing.T) {
	x := &fakeView{"X"}
	y := &fakeView{"Y"}

	prev := &Tree{
		A:  []Slot{{Ref: x, Key: 0}},
		B:  nil,
		Eq: -1,
	}

	next, err := Reconcile(prev, []Resolved{{Ref: y}}, CycleAB, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if len(next.A) != 1 || next.A[0].Ref != x || next.A[0].Key != 0 {
		t.Errorf("outgoing buffer changed: %+v", next.A)
	}
	if len(next.B) != 1 || next.B[0].Ref != y {
		t.Fatalf("incoming buffer = %+v", next.B)
	}
	if next.B[0].Key != 1 {
		t.Errorf("incoming key = %d, want 1 (inherited 0, bumped)", next.B[0].Key)
	}
	if next.Eq != -1 {
		t.Errorf("eq = %d, want -1", next.Eq)
	}
}

func TestReconcileSharedPrefixKeepsKeys(t *testing.T) {
	shell := &fakeView{"Shell"}
	list := &fakeView{"List"}
	detail := &fakeView{"Detail"}

	// Previous transition left shell/list in buffer a, shell/list in b.
	prev := &Tree{
		A:  []Slot{{Ref: shell, Key: 2}, {Ref: list, Key: 5}},
		B:  []Slot{{Ref: shell, Key: 2}, {Ref: list, Key: 5}},
		Eq: 1,
	}

	next, err := Reconcile(prev, []Resolved{{Ref: shell}, {Ref: detail}}, CycleAB, NewRegistry())
	if err != nil {
		t.Fatal(err)
	}

	if next.B[0].Key != 2 {
		t.Errorf("unchanged slot key = %d, want reused 2", next.B[0].Key)
	}
	if next.B[1].Key != 6 {
		t.Errorf("changed slot key = %d, want 6", next.B[1].Key)
	}
	if next.Eq != 0 {
		t.Errorf("eq = %d, want 0", next.Eq)
	}
}

func TestReconcileCascadingBump(t *testing.T) {
	a1, a2, a3 := &fakeView{"1"}, &fakeView{"2"}, &fakeView{"3"}
	b1 := &fakeView{"other"}

	prev := &Tree{
		A: []Slot{{Ref: a1, Key: 0}, {Ref: a2, Key: 0}, {Ref: a3, Key: 0}},
		B: []Slot{{Ref: a1, Key: 0}, {Ref: a2, Key: 0}, {Ref: a3, Key: 0}},
	}

	// Changed root: every nested slot loses its identity too.
	next, err := Reconcile(prev, []Resolved{{Ref: b1}, {Ref: a2}, {Ref: a3}}, CycleBA, nil)
	if err != nil {
		t.Fatal(err)
	}
	in := next.Incoming(CycleBA)
	for i, want := range []int{1, 1, 1} {
		if in[i].Key != want {
			t.Errorf("slot %d key = %d, want %d", i, in[i].Key, want)
		}
	}
	if next.Eq != -1 {
		t.Errorf("eq = %d, want -1", next.Eq)
	}
}

func TestReconcileParamsChangeBumpsKey(t *testing.T) {
	detail := &fakeView{"Detail"}
	prev := &Tree{
		A: []Slot{{Ref: detail, Key: 3, Params: map[string]string{"id": "1"}}},
		B: []Slot{{Ref: detail, Key: 3, Params: map[string]string{"id": "1"}}},
	}

	next, err := Reconcile(prev, []Resolved{{Ref: detail, Params: map[string]string{"id": "2"}}}, CycleAB, nil)
	if err != nil {
		t.Fatal(err)
	}
	if next.B[0].Key != 4 {
		t.Errorf("key = %d, want 4 after params change", next.B[0].Key)
	}
	if next.Eq != -1 {
		t.Errorf("eq = %d, want -1", next.Eq)
	}
}

func TestReconcileShorterChain(t *testing.T) {
	shell := &fakeView{"Shell"}
	list := &fakeView{"List"}

	prev := &Tree{
		A: []Slot{{Ref: shell, Key: 1}, {Ref: list, Key: 1}},
		B: []Slot{{Ref: shell, Key: 1}, {Ref: list, Key: 1}},
	}

	// Navigate to a shallower view: only existing indices are visited.
	next, err := Reconcile(prev, []Resolved{{Ref: shell}}, CycleAB, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(next.B) != 1 {
		t.Fatalf("incoming length = %d, want 1", len(next.B))
	}
	if next.B[0].Key != 1 {
		t.Errorf("key = %d, want reused 1", next.B[0].Key)
	}
	if next.Eq != 0 {
		t.Errorf("eq = %d, want 0", next.Eq)
	}
}

func TestReconcileEqNeverExceedsShorterBuffer(t *testing.T) {
	v := &fakeView{"v"}
	prev := &Tree{
		A: []Slot{{Ref: v, Key: 0}, {Ref: v, Key: 0}, {Ref: v, Key: 0}},
		B: []Slot{{Ref: v, Key: 0}, {Ref: v, Key: 0}, {Ref: v, Key: 0}},
	}
	next, err := Reconcile(prev, []Resolved{{Ref: v}, {Ref: v}}, CycleAB, nil)
	if err != nil {
		t.Fatal(err)
	}
	if limit := min(len(next.A), len(next.B)) - 1; next.Eq > limit {
		t.Errorf("eq = %d exceeds min(len(a), len(b))-1 = %d", next.Eq, limit)
	}
}

func TestReconcileKeysMonotonic(t *testing.T) {
	v1, v2 := &fakeView{"1"}, &fakeView{"2"}
	tree := NewTree()
	dir := CycleA

	views := []*fakeView{v1, v2, v1, v1, v2}
	lastKey := -1
	for _, v := range views {
		d := dir.Transition()
		next, err := Reconcile(tree, []Resolved{{Ref: v}}, d, nil)
		if err != nil {
			t.Fatal(err)
		}
		key := next.Incoming(d)[0].Key
		if key < lastKey {
			t.Fatalf("slot key decreased: %d -> %d", lastKey, key)
		}
		lastKey = key
		tree = next
		dir = d.Collapse()
	}
}

func TestReconcileRejectsStableDirection(t *testing.T) {
	if _, err := Reconcile(NewTree(), nil, CycleA, nil); err == nil {
		t.Error("expected error for stable direction")
	}
}

func TestRegistryBindAndSweep(t *testing.T) {
	reg := NewRegistry()

	reg.Bind(SlotID{Depth: 0, Key: 0})
	reg.Bind(SlotID{Depth: 0, Key: 1})
	reg.Bind(SlotID{Depth: 1, Key: 4})
	reg.Bind(SlotID{Depth: 2, Key: 9})

	v := &fakeView{"v"}
	tree := &Tree{
		A: []Slot{{Ref: v, Key: 1}, {Ref: v, Key: 5}},
		B: []Slot{{Ref: v, Key: 1}, {Ref: v, Key: 4}},
	}
	reg.Sweep(tree)

	if reg.Lookup(SlotID{Depth: 0, Key: 0}) != nil {
		t.Error("stale key 0 at depth 0 survived sweep")
	}
	if reg.Lookup(SlotID{Depth: 0, Key: 1}) == nil {
		t.Error("live key 1 at depth 0 was swept")
	}
	if reg.Lookup(SlotID{Depth: 1, Key: 4}) == nil {
		t.Error("live key 4 at depth 1 was swept")
	}
	if reg.Lookup(SlotID{Depth: 2, Key: 9}) != nil {
		t.Error("unreachable depth 2 entry survived sweep")
	}
}

func TestMountValues(t *testing.T) {
	reg := NewRegistry()
	m := reg.Bind(SlotID{Depth: 0, Key: 0})
	m.Set("el", "node-17")

	got, ok := reg.Lookup(SlotID{Depth: 0, Key: 0}).Get("el")
	if !ok || got != "node-17" {
		t.Errorf("mount value = %v, %v", got, ok)
	}
	if _, ok := m.Get("missing"); ok {
		t.Error("unexpected value for missing key")
	}
}
