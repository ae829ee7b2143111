package route

import (
	"context"

	"github.com/viaduct-ui/viaduct/pkg/viewtree"
)

// Hooks are the lifecycle callbacks scoped to one table level.
// All fields are optional. Hooks run sequentially, outer level to
// inner, each awaited fully before the next.
type Hooks struct {
	// BeforeLoad runs before any tree mutation. Its decision controls
	// the navigation: Proceed continues, Redirect supersedes the
	// navigation with a new one, Abort cancels it. An abort here
	// leaves the tree untouched.
	BeforeLoad func(ctx context.Context, ev BeforeLoadEvent) Decision

	// DuringLoad runs after the tree has been reconciled but before
	// the history commit. An error here rolls the tree back.
	DuringLoad func(ctx context.Context, ev LifecycleEvent) error

	// DuringRender runs after the commit, around the render boundary.
	// Errors are logged and otherwise ignored.
	DuringRender func(ctx context.Context, ev LifecycleEvent) error

	// AfterRender runs once the transition has settled. Side effects
	// only; errors cannot influence the navigation.
	AfterRender func(ctx context.Context, ev LifecycleEvent)
}

// BeforeLoadEvent carries the resolved match into BeforeLoad hooks.
type BeforeLoadEvent struct {
	// To is the normalized target pathname.
	To string

	// Match is the matched leaf binding.
	Match *Binding

	// Params are the extracted route params.
	Params map[string]string

	// Reentrant is true when this navigation was itself issued from
	// inside a hook phase (a redirect chain). Hooks can use it to
	// avoid redirect loops.
	Reentrant bool
}

// LifecycleEvent carries transition state into DuringLoad,
// DuringRender and AfterRender hooks.
type LifecycleEvent struct {
	Cycle    viewtree.Cycle
	Tree     *viewtree.Tree
	Params   map[string]string
	Registry *viewtree.Registry

	// Keys are the transition keys of the incoming buffer, by depth.
	Keys []int

	// Route is the full matched pattern, outer to inner.
	Route string
}

type decisionKind uint8

const (
	decisionProceed decisionKind = iota
	decisionRedirect
	decisionAbort
)

// Decision is the result of a BeforeLoad hook. The zero value
// proceeds.
type Decision struct {
	kind    decisionKind
	target  string
	replace bool
	err     error
}

// Proceed continues the navigation.
func Proceed() Decision {
	return Decision{}
}

// Redirect supersedes the navigation with a new one to target.
func Redirect(target string) Decision {
	return Decision{kind: decisionRedirect, target: target}
}

// RedirectReplace is Redirect with history replace semantics, so the
// aborted navigation leaves no extra history entry.
func RedirectReplace(target string) Decision {
	return Decision{kind: decisionRedirect, target: target, replace: true}
}

// Abort cancels the navigation. err may be nil.
func Abort(err error) Decision {
	return Decision{kind: decisionAbort, err: err}
}

// Redirect returns the redirect target, its replace flag, and whether
// the decision is a redirect.
func (d Decision) Redirect() (target string, replace, ok bool) {
	return d.target, d.replace, d.kind == decisionRedirect
}

// Aborted returns the abort error and whether the decision aborts.
func (d Decision) Aborted() (error, bool) {
	return d.err, d.kind == decisionAbort
}
