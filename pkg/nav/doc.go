// Package nav drives the navigation lifecycle.
//
// A Controller owns all mutable navigation state: the dual-buffer
// component tree, the cycle and phase, the location snapshot and the
// query-parameter cache. External code reads that state through
// observable stores and mutates it only indirectly via Navigate.
//
// Each accepted navigation runs the phase sequence
//
//	idle -> beforeLoad -> duringLoad -> duringRender -> afterRender -> idle
//
// with user hooks invoked sequentially, outer layout to inner view, at
// every phase. Cancellation is cooperative: every navigation captures a
// monotonically increasing ticket and re-checks it against the global
// counter after each batch of hook invocations; a mismatch means a newer
// navigation superseded this one, which then aborts - rolling back any
// tree mutation it already applied.
//
// Bypass navigations synchronize history and location without touching
// the tree, and are therefore allowed while a transition is in flight.
package nav
