package nav

import "github.com/viaduct-ui/viaduct/pkg/route"

// Option configures a single navigation.
type Option func(*options)

type options struct {
	hash      string
	hasHash   bool
	replace   bool
	search    string
	hasSearch bool
	state     any
	bypass    bool
	hooks     []route.Hooks

	scrollOff bool
	scroll    string

	// fromPop marks a navigation driven by history traversal; the
	// history stack has already moved, so commit must not push again.
	fromPop bool

	// reentrant marks a navigation issued from inside a hook phase
	// (a redirect chain).
	reentrant bool
}

// WithHash sets the fragment appended at commit.
func WithHash(hash string) Option {
	return func(o *options) {
		o.hash = hash
		o.hasHash = true
	}
}

// WithReplace replaces the current history entry instead of pushing.
func WithReplace() Option {
	return func(o *options) {
		o.replace = true
	}
}

// WithSearch sets the query string appended at commit, without the
// leading "?".
func WithSearch(search string) Option {
	return func(o *options) {
		o.search = search
		o.hasSearch = true
	}
}

// WithState attaches opaque history state to the committed entry.
func WithState(state any) Option {
	return func(o *options) {
		o.state = state
	}
}

// WithBypass turns the navigation into a pure history/location sync:
// no hooks run and the component tree is untouched.
func WithBypass() Option {
	return func(o *options) {
		o.bypass = true
	}
}

// WithHooks appends extra lifecycle hooks for this navigation only,
// running after the route table's own hooks.
func WithHooks(h route.Hooks) Option {
	return func(o *options) {
		o.hooks = append(o.hooks, h)
	}
}

// WithScroll sets the scroll behavior requested at commit.
func WithScroll(behavior string) Option {
	return func(o *options) {
		o.scroll = behavior
	}
}

// WithoutScroll suppresses scrolling to top after the commit.
func WithoutScroll() Option {
	return func(o *options) {
		o.scrollOff = true
	}
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
