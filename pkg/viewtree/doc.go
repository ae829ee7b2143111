// Package viewtree maintains the dual-buffer component tree that backs
// view transitions.
//
// Two parallel buffers (a and b) hold the outgoing and incoming view
// chains during a transition. Each slot carries an integer key; the
// rendering layer uses (depth, key) as remount identity, so a slot whose
// key changes is torn down and re-entered while an unchanged key is
// reused in place. Reconcile pairs a freshly resolved view chain against
// the previous tree and bumps keys from the first position that differs,
// since a changed ancestor invalidates the identity of everything nested
// under it.
//
// The Cycle value names which buffer is outgoing and which is incoming.
// Stable values (CycleA, CycleB) mean no transition is in progress;
// transitional values (CycleAB, CycleBA) act as a navigation lock.
package viewtree
