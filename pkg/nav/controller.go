package nav

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/viaduct-ui/viaduct/pkg/history"
	"github.com/viaduct-ui/viaduct/pkg/route"
	"github.com/viaduct-ui/viaduct/pkg/state"
	"github.com/viaduct-ui/viaduct/pkg/viewtree"
)

// Config configures a Controller.
type Config struct {
	// Views is the route table. Supplied once; immutable afterwards.
	Views *route.Table

	// History is the history backend. Defaults to an in-memory stack.
	History history.History

	// BasePath is an optional prefix under which every constructed
	// and matched path is rebased. It is stripped before matching and
	// re-added before committing to history.
	BasePath string

	// NotFound is rendered when no pattern matches, instead of
	// aborting the navigation.
	NotFound *route.Binding

	// Scroller receives the scroll-to-top request at commit. Nil
	// disables scrolling.
	Scroller func(behavior string)

	// OnError receives contained navigation errors: hook aborts, view
	// resolution failures, unmatched paths. Optional.
	OnError func(error)

	// Observers receive lifecycle notifications.
	Observers []Observer

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Controller sequences navigations against a route table.
//
// All navigation state is owned by the controller and mutated only
// inside Navigate; hooks and the rendering layer read it through the
// exported stores. A single non-bypass navigation may be in flight at
// a time.
type Controller struct {
	views     *route.Table
	hist      history.History
	base      string
	notFound  *route.Binding
	scroller  func(string)
	onError   func(error)
	observers []Observer
	log       *slog.Logger

	tree     *state.Store[*viewtree.Tree]
	cycle    *state.Store[viewtree.Cycle]
	phase    *state.Store[Phase]
	location *state.Store[history.Location]
	params   *state.Store[map[string]string]
	query    *state.Store[url.Values]
	registry *viewtree.Registry

	mu      sync.Mutex
	counter uint64

	removePop func()
}

// New creates a controller. Route table overlap warnings are logged
// but never fail setup; an empty table is only rejected at the first
// navigation attempt.
func New(cfg Config) *Controller {
	if cfg.History == nil {
		cfg.History = history.NewMemory()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	c := &Controller{
		views:     cfg.Views,
		hist:      cfg.History,
		base:      strings.TrimSuffix(cfg.BasePath, "/"),
		notFound:  cfg.NotFound,
		scroller:  cfg.Scroller,
		onError:   cfg.OnError,
		observers: cfg.Observers,
		log:       cfg.Logger,

		tree:     state.New(viewtree.NewTree()),
		cycle:    state.New(viewtree.CycleA),
		phase:    state.New(PhaseIdle),
		location: state.New(cfg.History.Location()),
		params:   state.New(map[string]string{}),
		query:    state.New(url.Values{}),
		registry: viewtree.NewRegistry(),
	}

	if cfg.Views != nil {
		for _, w := range cfg.Views.Validate() {
			c.log.Warn("route table validation", "warning", w.String())
		}
	}

	c.removePop = c.hist.OnPop(c.handlePop)
	return c
}

// Close detaches the controller from its history backend.
func (c *Controller) Close() {
	if c.removePop != nil {
		c.removePop()
		c.removePop = nil
	}
}

// Tree returns the observable component tree snapshot.
func (c *Controller) Tree() *state.Store[*viewtree.Tree] { return c.tree }

// Cycle returns the observable cycle value.
func (c *Controller) Cycle() *state.Store[viewtree.Cycle] { return c.cycle }

// Phase returns the observable lifecycle phase.
func (c *Controller) Phase() *state.Store[Phase] { return c.phase }

// Location returns the observable location snapshot.
func (c *Controller) Location() *state.Store[history.Location] { return c.location }

// Params returns the observable route params of the current view.
func (c *Controller) Params() *state.Store[map[string]string] { return c.params }

// Query returns the observable query-parameter cache.
func (c *Controller) Query() *state.Store[url.Values] { return c.query }

// Registry returns the mounted-node registry.
func (c *Controller) Registry() *viewtree.Registry { return c.registry }

// Path constructs a concrete path from a pattern, without the base
// prefix. It is a convenience wrapper over route.BuildPath.
func (c *Controller) Path(pattern string, params map[string]string) (string, error) {
	return route.BuildPath(pattern, params)
}

// IsActive reports whether the current pathname matches pattern.
func (c *Controller) IsActive(pattern string, params map[string]string) bool {
	return route.IsActive(c.currentPath(), pattern, params)
}

// IsActivePrefix is IsActive with prefix semantics.
func (c *Controller) IsActivePrefix(pattern string, params map[string]string) bool {
	return route.IsActivePrefix(c.currentPath(), pattern, params)
}

func (c *Controller) currentPath() string {
	return strings.TrimPrefix(c.location.Get().Path, c.base)
}

// Navigate resolves target and runs the navigation lifecycle.
// See NavigateContext.
func (c *Controller) Navigate(target string, opts ...Option) error {
	return c.NavigateContext(context.Background(), target, opts...)
}

// NavigateContext resolves target against the route table and drives
// the full navigation lifecycle. The only error surfaced to the caller
// is ErrEmptyRouteTable; every mid-lifecycle failure is contained.
//
// A non-bypass navigation issued while another one holds the
// transitional cycle is rejected outright, not queued.
func (c *Controller) NavigateContext(ctx context.Context, target string, opts ...Option) error {
	return c.navigate(ctx, target, buildOptions(opts))
}

// Back navigates one entry back in history.
func (c *Controller) Back() { c.hist.Go(-1) }

// Forward navigates one entry forward in history.
func (c *Controller) Forward() { c.hist.Go(1) }

// NavigateDelta moves delta entries through history; the resulting
// traversal re-enters the controller as a full navigation.
func (c *Controller) NavigateDelta(delta int) { c.hist.Go(delta) }

// handlePop reflects a back/forward traversal as a full navigation.
// The stack has already moved, so commit only updates the snapshot.
func (c *Controller) handlePop(loc history.Location) {
	o := options{fromPop: true, state: loc.State}
	if loc.Search != "" {
		o.search, o.hasSearch = loc.Search, true
	}
	if loc.Hash != "" {
		o.hash, o.hasHash = loc.Hash, true
	}
	if err := c.navigate(context.Background(), loc.Path, o); err != nil {
		c.fail(err)
	}
}

func (c *Controller) navigate(ctx context.Context, target string, o options) error {
	pathname, search, hash := splitTarget(target)
	if o.hasSearch {
		search = o.search
	}
	if o.hasHash {
		hash = o.hash
	}
	matchPath := c.stripBase(pathname)

	if o.bypass {
		// Pure URL/affordance sync: no hooks, no tree mutation, and no
		// transitional-cycle guard, since nothing here conflicts with
		// an in-flight transition.
		c.commit(matchPath, search, hash, nil, o)
		return nil
	}

	if c.cycle.Get().Transitional() {
		c.log.Debug("navigation rejected: transition in flight", "to", matchPath)
		c.notifyFinished(0, OutcomeRejected)
		return nil
	}
	if c.views.Empty() {
		return fmt.Errorf("navigate %q: %w", matchPath, ErrEmptyRouteTable)
	}

	ticket := c.nextTicket()
	c.notifyStarted(ticket, matchPath)

	c.setPhase(ticket, PhaseBeforeLoad)

	res, ok := c.views.Match(matchPath)
	if !ok {
		if c.notFound == nil {
			c.abort(ticket, OutcomeNoRoute, fmt.Errorf("%w: %q", errNoRoute, matchPath))
			return nil
		}
		res = &route.MatchResult{
			Match:   c.notFound,
			Params:  map[string]string{},
			Pattern: matchPath,
		}
	}

	hooks := res.Hooks
	if len(o.hooks) > 0 {
		hooks = append(append([]route.Hooks(nil), hooks...), o.hooks...)
	}

	// Phase beforeLoad: sequential, outer to inner, each settled before
	// the next. Aborts here leave the tree untouched.
	bev := route.BeforeLoadEvent{
		To:        matchPath,
		Match:     res.Match,
		Params:    res.Params,
		Reentrant: o.reentrant,
	}
	for _, h := range hooks {
		if h.BeforeLoad == nil {
			continue
		}
		d := invokeBeforeLoad(ctx, h.BeforeLoad, bev)
		if tgt, repl, isRedirect := d.Redirect(); isRedirect {
			c.notifyFinished(ticket, OutcomeRedirected)
			ro := options{replace: repl, reentrant: true}
			return c.navigate(ctx, tgt, ro)
		}
		if err, aborted := d.Aborted(); aborted {
			if err == nil {
				err = fmt.Errorf("beforeLoad hook aborted navigation to %q", matchPath)
			}
			c.abort(ticket, OutcomeAborted, err)
			return nil
		}
	}
	if c.isStale(ticket) {
		c.log.Debug("navigation superseded after beforeLoad", "to", matchPath)
		c.notifyFinished(ticket, OutcomeStale)
		return nil
	}

	// Resolution: lazy references become concrete views before any
	// tree mutation.
	chain := append(append([]*route.Binding(nil), res.Layouts...), res.Match)
	resolved := make([]viewtree.Resolved, len(chain))
	for i, b := range chain {
		v, err := b.Resolve(ctx)
		if err != nil {
			c.abort(ticket, OutcomeAborted, fmt.Errorf("resolve view for %q: %w", matchPath, err))
			return nil
		}
		resolved[i] = viewtree.Resolved{Ref: v, Params: slotParams(b, res.Params, i == len(chain)-1)}
	}

	prevTree := c.tree.Get()
	prevCycle := c.cycle.Get()
	dir := prevCycle.Transition()

	newTree, err := viewtree.Reconcile(prevTree, resolved, dir, c.registry)
	if err != nil {
		c.abort(ticket, OutcomeAborted, err)
		return nil
	}
	c.tree.Set(newTree)
	c.cycle.Set(dir)

	lev := route.LifecycleEvent{
		Cycle:    dir,
		Tree:     newTree,
		Params:   res.Params,
		Registry: c.registry,
		Keys:     newTree.Keys(dir),
		Route:    res.Pattern,
	}

	// Phase duringLoad: the tree is already mutated, so failure and
	// staleness both require the compensating rollback.
	c.setPhase(ticket, PhaseDuringLoad)
	for _, h := range hooks {
		if h.DuringLoad == nil {
			continue
		}
		if err := invokeLifecycle(ctx, h.DuringLoad, lev); err != nil {
			c.rollback(prevTree, prevCycle)
			c.abort(ticket, OutcomeAborted, fmt.Errorf("duringLoad hook: %w", err))
			return nil
		}
	}
	if c.isStale(ticket) {
		c.rollback(prevTree, prevCycle)
		c.log.Debug("navigation superseded after duringLoad", "to", matchPath)
		c.notifyFinished(ticket, OutcomeStale)
		return nil
	}

	c.commit(matchPath, search, hash, res.Params, o)

	// Phase duringRender: state is visibly committed; rollback is no
	// longer meaningful, failures are logged only.
	c.setPhase(ticket, PhaseDuringRender)
	for _, h := range hooks {
		if h.DuringRender == nil {
			continue
		}
		if err := invokeLifecycle(ctx, h.DuringRender, lev); err != nil {
			c.log.Error("duringRender hook failed", "route", res.Pattern, "error", err)
		}
	}
	c.cycle.Set(dir.Collapse())

	c.setPhase(ticket, PhaseAfterRender)
	for _, h := range hooks {
		if h.AfterRender == nil {
			continue
		}
		if err := invokeAfterRender(ctx, h.AfterRender, lev); err != nil {
			c.log.Error("afterRender hook failed", "route", res.Pattern, "error", err)
		}
	}

	c.setPhase(ticket, PhaseIdle)
	c.registry.Sweep(c.tree.Get())
	c.notifyFinished(ticket, OutcomeCommitted)
	return nil
}

// commit synchronizes history, the location snapshot, the query cache
// and the scroll position. Both the bypass path and the full lifecycle
// end up here.
func (c *Controller) commit(matchPath, search, hash string, params map[string]string, o options) {
	loc := history.Location{
		Path:   c.rebase(matchPath),
		Search: search,
		Hash:   hash,
		State:  o.state,
	}

	if !o.fromPop {
		if o.replace {
			c.hist.Replace(loc)
		} else {
			c.hist.Push(loc)
		}
	}
	c.location.Set(loc)
	if params != nil {
		c.params.Set(params)
	}

	// The query cache follows the browser-authoritative value; skip
	// the notification when nothing drifted.
	vals, err := url.ParseQuery(search)
	if err != nil {
		c.log.Warn("unparsable query string", "search", search, "error", err)
		vals = url.Values{}
	}
	if !queryEqual(c.query.Get(), vals) {
		c.query.Set(vals)
	}

	if !o.scrollOff && c.scroller != nil {
		behavior := o.scroll
		if behavior == "" {
			behavior = "auto"
		}
		c.scroller(behavior)
	}
}

// rollback restores the pre-navigation snapshots. Registry entries
// bound by the discarded reconciliation stay until the next successful
// sweep.
func (c *Controller) rollback(tree *viewtree.Tree, cycle viewtree.Cycle) {
	c.tree.Set(tree)
	c.cycle.Set(cycle)
}

func (c *Controller) abort(ticket uint64, outcome Outcome, err error) {
	c.fail(err)
	c.setPhase(ticket, PhaseIdle)
	c.notifyFinished(ticket, outcome)
}

func (c *Controller) fail(err error) {
	c.log.Error("navigation failed", "error", err)
	if c.onError != nil {
		c.onError(err)
	}
}

func (c *Controller) setPhase(ticket uint64, p Phase) {
	c.phase.Set(p)
	for _, ob := range c.observers {
		ob.PhaseChanged(ticket, p)
	}
}

func (c *Controller) notifyStarted(ticket uint64, to string) {
	for _, ob := range c.observers {
		ob.NavigationStarted(ticket, to)
	}
}

func (c *Controller) notifyFinished(ticket uint64, outcome Outcome) {
	for _, ob := range c.observers {
		ob.NavigationFinished(ticket, outcome)
	}
}

// nextTicket increments the global navigation counter and returns the
// new value as this navigation's ticket.
func (c *Controller) nextTicket() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	return c.counter
}

// isStale reports whether a newer navigation has taken a ticket since
// this one started.
func (c *Controller) isStale(ticket uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counter != ticket
}

func (c *Controller) stripBase(path string) string {
	if c.base != "" && strings.HasPrefix(path, c.base) {
		path = strings.TrimPrefix(path, c.base)
	}
	if path == "" {
		path = "/"
	}
	return path
}

func (c *Controller) rebase(path string) string {
	if c.base == "" {
		return path
	}
	if path == "/" {
		return c.base
	}
	return c.base + path
}

// slotParams picks the params a slot carries: declared names win, the
// leaf match defaults to all matched params, layouts default to none
// so their transition identity survives param changes.
func slotParams(b *route.Binding, all map[string]string, leaf bool) map[string]string {
	if b.ParamNames != nil {
		sub := make(map[string]string, len(b.ParamNames))
		for _, name := range b.ParamNames {
			if v, ok := all[name]; ok {
				sub[name] = v
			}
		}
		return sub
	}
	if leaf {
		return all
	}
	return nil
}

// splitTarget separates a navigation target into pathname, search and
// hash parts.
func splitTarget(target string) (pathname, search, hash string) {
	pathname = target
	if i := strings.IndexByte(pathname, '#'); i >= 0 {
		hash = pathname[i+1:]
		pathname = pathname[:i]
	}
	if i := strings.IndexByte(pathname, '?'); i >= 0 {
		search = pathname[i+1:]
		pathname = pathname[:i]
	}
	if pathname == "" {
		pathname = "/"
	}
	return pathname, search, hash
}

func queryEqual(a, b url.Values) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
	}
	return true
}
