package route

import (
	"context"
	"fmt"
	"sync"
)

// View is an opaque renderable. The engine never inspects it; the
// rendering layer decides what a concrete view means.
type View = any

// Ref resolves to a concrete view. Static references resolve
// immediately; lazy references defer loading until first navigation.
type Ref interface {
	Resolve(ctx context.Context) (View, error)
}

// Module is implemented by resolved views that bundle several named
// exports, selectable via WithSubmodule.
type Module interface {
	Export(name string) (View, bool)
}

type staticRef struct {
	view View
}

func (r staticRef) Resolve(context.Context) (View, error) {
	return r.view, nil
}

// Static wraps an already concrete view as a Ref.
func Static(v View) Ref {
	return staticRef{view: v}
}

type lazyRef struct {
	load func(ctx context.Context) (View, error)

	once sync.Once
	view View
	err  error
}

func (r *lazyRef) Resolve(ctx context.Context) (View, error) {
	r.once.Do(func() {
		r.view, r.err = r.load(ctx)
	})
	return r.view, r.err
}

// Lazy defers view loading until the first navigation that needs it.
// The load result is cached; subsequent resolutions are immediate.
func Lazy(load func(ctx context.Context) (View, error)) Ref {
	return &lazyRef{load: load}
}

// Binding is a pattern's resolved value: a view reference plus the
// optional submodule selection and the param names the view consumes.
type Binding struct {
	Ref Ref

	// Submodule selects a named export of the resolved view.
	Submodule string

	// ParamNames are the route params this view consumes. A match
	// binding with no declaration receives all matched params; a
	// layout with no declaration receives none, keeping its transition
	// identity stable across param changes.
	ParamNames []string
}

// Resolve resolves the underlying reference and applies the submodule
// selection.
func (b *Binding) Resolve(ctx context.Context) (View, error) {
	v, err := b.Ref.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	if b.Submodule == "" {
		return v, nil
	}
	mod, ok := v.(Module)
	if !ok {
		return nil, fmt.Errorf("route: submodule %q requested but view %T is not a Module", b.Submodule, v)
	}
	sub, ok := mod.Export(b.Submodule)
	if !ok {
		return nil, fmt.Errorf("route: view has no submodule %q", b.Submodule)
	}
	return sub, nil
}

// BindOption configures a Binding.
type BindOption func(*Binding)

// WithSubmodule selects a named export of the resolved view.
func WithSubmodule(name string) BindOption {
	return func(b *Binding) {
		b.Submodule = name
	}
}

// WithParams declares which route params the view consumes.
func WithParams(names ...string) BindOption {
	return func(b *Binding) {
		b.ParamNames = names
	}
}

// entry is one pattern key of a table level: either a leaf binding or
// a nested table, never both.
type entry struct {
	pattern string
	binding *Binding
	child   *Table
}

// Table is one level of the nested route table. Entries keep their
// declaration order, which breaks priority ties during matching.
// A Table is immutable once handed to a controller.
type Table struct {
	entries  []entry
	layout   *Binding
	hooks    *Hooks
	breaking bool
}

// New creates an empty table level.
func New() *Table {
	return &Table{}
}

// View binds a pattern to a view reference.
func (t *Table) View(pattern string, ref Ref, opts ...BindOption) *Table {
	b := &Binding{Ref: ref}
	for _, opt := range opts {
		opt(b)
	}
	t.entries = append(t.entries, entry{pattern: pattern, binding: b})
	return t
}

// Child nests a sub-table under a pattern. The sub-table matches
// against the path suffix left over after the pattern.
func (t *Table) Child(pattern string, sub *Table) *Table {
	t.entries = append(t.entries, entry{pattern: pattern, child: sub})
	return t
}

// Layout sets the view wrapping every match under this level.
func (t *Table) Layout(ref Ref, opts ...BindOption) *Table {
	b := &Binding{Ref: ref}
	for _, opt := range opts {
		opt(b)
	}
	t.layout = b
	return t
}

// Hooks attaches lifecycle hooks scoped to this level and all
// descendants.
func (t *Table) Hooks(h Hooks) *Table {
	t.hooks = &h
	return t
}

// Break marks the whole table as a layout-breaking boundary: matches
// under it do not inherit ancestor layouts. The table's own layout
// still applies.
func (t *Table) Break() *Table {
	t.breaking = true
	return t
}

// Empty reports whether the table has no entries.
func (t *Table) Empty() bool {
	return t == nil || len(t.entries) == 0
}
