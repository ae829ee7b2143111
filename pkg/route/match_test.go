package route

import (
	"context"
	"errors"
	"testing"
)

type view struct{ name string }

func TestMatchNestedWithLayout(t *testing.T) {
	home := &view{"Home"}
	list := &view{"List"}
	detail := &view{"Detail"}
	shell := &view{"Shell"}

	users := New().
		View("/", Static(list)).
		View("/:id", Static(detail)).
		Layout(Static(shell))

	table := New().
		View("/", Static(home)).
		Child("/users", users)

	res, ok := table.Match("/users/42")
	if !ok {
		t.Fatal("expected match for /users/42")
	}
	if got := mustResolve(t, res.Match); got != detail {
		t.Errorf("match = %v, want Detail", got)
	}
	if res.Params["id"] != "42" {
		t.Errorf("params[id] = %q, want 42", res.Params["id"])
	}
	if len(res.Layouts) != 1 || mustResolve(t, res.Layouts[0]) != shell {
		t.Errorf("layouts = %v, want [Shell]", res.Layouts)
	}
	if res.Pattern != "/users/:id" {
		t.Errorf("pattern = %q, want /users/:id", res.Pattern)
	}
}

func TestMatchWildcard(t *testing.T) {
	viewer := &view{"Viewer"}

	table := New().
		Child("/files", New().View("*rest", Static(viewer)))

	res, ok := table.Match("/files/a/b")
	if !ok {
		t.Fatal("expected match for /files/a/b")
	}
	if res.Params["rest"] != "a/b" {
		t.Errorf("params[rest] = %q, want a/b", res.Params["rest"])
	}
	if got := mustResolve(t, res.Match); got != viewer {
		t.Errorf("match = %v, want Viewer", got)
	}
}

func TestMatchRoot(t *testing.T) {
	home := &view{"Home"}
	table := New().View("/", Static(home))

	for _, path := range []string{"/", ""} {
		res, ok := table.Match(path)
		if !ok {
			t.Fatalf("expected match for %q", path)
		}
		if got := mustResolve(t, res.Match); got != home {
			t.Errorf("match = %v, want Home", got)
		}
		if len(res.Params) != 0 {
			t.Errorf("params = %v, want empty", res.Params)
		}
	}
}

func TestMatchTrailingSlashStripped(t *testing.T) {
	about := &view{"About"}
	table := New().View("/about", Static(about))

	res, ok := table.Match("/about/")
	if !ok {
		t.Fatal("expected match for /about/")
	}
	if got := mustResolve(t, res.Match); got != about {
		t.Errorf("match = %v", got)
	}
}

func TestMatchRejectsWrongDepth(t *testing.T) {
	table := New().View("/users", Static(&view{"List"}))

	if _, ok := table.Match("/users/42"); ok {
		t.Error("matched /users/42 against /users")
	}
	if _, ok := table.Match("/"); ok {
		t.Error("matched / against /users")
	}
}

func TestMatchPriorityOrder(t *testing.T) {
	static := &view{"Static"}
	dynamic := &view{"Dynamic"}
	wild := &view{"Wild"}

	// Declared worst-first; priority must still scan static first.
	table := New().
		View("*rest", Static(wild)).
		View("/:name", Static(dynamic)).
		View("/new", Static(static))

	res, ok := table.Match("/new")
	if !ok {
		t.Fatal("expected match")
	}
	if got := mustResolve(t, res.Match); got != static {
		t.Errorf("match = %v, want the static candidate", got)
	}

	res, ok = table.Match("/other")
	if !ok {
		t.Fatal("expected match")
	}
	if got := mustResolve(t, res.Match); got != dynamic {
		t.Errorf("match = %v, want the dynamic candidate", got)
	}

	res, ok = table.Match("/a/b/c")
	if !ok {
		t.Fatal("expected match")
	}
	if got := mustResolve(t, res.Match); got != wild {
		t.Errorf("match = %v, want the wildcard candidate", got)
	}
}

func TestMatchDeclarationOrderBreaksTies(t *testing.T) {
	first := &view{"First"}
	second := &view{"Second"}

	table := New().
		View("/:a", Static(first)).
		View("/:b", Static(second))

	res, ok := table.Match("/x")
	if !ok {
		t.Fatal("expected match")
	}
	if got := mustResolve(t, res.Match); got != first {
		t.Errorf("match = %v, want the first-declared candidate", got)
	}
	if res.Params["a"] != "x" {
		t.Errorf("params = %v", res.Params)
	}
}

func TestMatchNoExtraneousParams(t *testing.T) {
	table := New().
		Child("/users", New().
			View("/:id", Static(&view{"Detail"})).
			View("/:id/posts/:post", Static(&view{"Post"})))

	res, ok := table.Match("/users/7/posts/9")
	if !ok {
		t.Fatal("expected match")
	}
	if len(res.Params) != 2 || res.Params["id"] != "7" || res.Params["post"] != "9" {
		t.Errorf("params = %v, want {id:7 post:9}", res.Params)
	}
}

func TestMatchHooksOuterToInner(t *testing.T) {
	order := 0
	outer := Hooks{BeforeLoad: func(context.Context, BeforeLoadEvent) Decision {
		if order != 0 {
			panic("outer hook not first")
		}
		order++
		return Proceed()
	}}
	inner := Hooks{BeforeLoad: func(context.Context, BeforeLoadEvent) Decision {
		order++
		return Proceed()
	}}

	table := New().
		Hooks(outer).
		Child("/admin", New().
			Hooks(inner).
			View("/panel", Static(&view{"Panel"})))

	res, ok := table.Match("/admin/panel")
	if !ok {
		t.Fatal("expected match")
	}
	if len(res.Hooks) != 2 {
		t.Fatalf("hooks = %d, want 2", len(res.Hooks))
	}
	for _, h := range res.Hooks {
		h.BeforeLoad(context.Background(), BeforeLoadEvent{})
	}
	if order != 2 {
		t.Errorf("hook order counter = %d", order)
	}
}

func TestMatchLayoutChainOuterToInner(t *testing.T) {
	rootShell := &view{"RootShell"}
	userShell := &view{"UserShell"}

	table := New().
		Layout(Static(rootShell)).
		Child("/users", New().
			Layout(Static(userShell)).
			View("/:id", Static(&view{"Detail"})))

	res, ok := table.Match("/users/1")
	if !ok {
		t.Fatal("expected match")
	}
	if len(res.Layouts) != 2 {
		t.Fatalf("layouts = %d, want 2", len(res.Layouts))
	}
	if mustResolve(t, res.Layouts[0]) != rootShell || mustResolve(t, res.Layouts[1]) != userShell {
		t.Error("layout chain not outer-to-inner")
	}
}

func TestMatchParenSegmentBreaksLayouts(t *testing.T) {
	shell := &view{"Shell"}
	login := &view{"Login"}

	table := New().
		Layout(Static(shell)).
		View("/(auth)/login", Static(login))

	res, ok := table.Match("/auth/login")
	if !ok {
		t.Fatal("expected match for /auth/login")
	}
	if got := mustResolve(t, res.Match); got != login {
		t.Errorf("match = %v", got)
	}
	if len(res.Layouts) != 0 {
		t.Errorf("layouts = %v, want none across a boundary", res.Layouts)
	}
	if !res.BreakFromLayouts {
		t.Error("BreakFromLayouts not set")
	}
}

func TestMatchBrokenTableKeepsOwnLayout(t *testing.T) {
	rootShell := &view{"RootShell"}
	authShell := &view{"AuthShell"}
	login := &view{"Login"}

	auth := New().
		Layout(Static(authShell)).
		View("/login", Static(login)).
		Break()

	table := New().
		Layout(Static(rootShell)).
		Child("/auth", auth)

	res, ok := table.Match("/auth/login")
	if !ok {
		t.Fatal("expected match")
	}
	if len(res.Layouts) != 1 || mustResolve(t, res.Layouts[0]) != authShell {
		t.Errorf("layouts = %v, want [AuthShell] only", res.Layouts)
	}
}

func TestMatchNoBacktrackingAcrossSiblings(t *testing.T) {
	// /users consumes the prefix; its table has no match for /users/x/y,
	// so the sibling wildcard must NOT be consulted.
	table := New().
		Child("/users", New().View("/:id", Static(&view{"Detail"}))).
		View("*rest", Static(&view{"Fallback"}))

	if _, ok := table.Match("/users/x/y"); ok {
		t.Error("backtracked to sibling after consuming nested table")
	}
	// The wildcard still serves paths that never enter the nested table.
	if _, ok := table.Match("/other"); !ok {
		t.Error("wildcard fallback did not match /other")
	}
}

func TestLazyRefResolvesOnce(t *testing.T) {
	loads := 0
	detail := &view{"Detail"}
	ref := Lazy(func(context.Context) (View, error) {
		loads++
		return detail, nil
	})

	table := New().View("/d", ref)
	res, _ := table.Match("/d")

	for i := 0; i < 3; i++ {
		v, err := res.Match.Resolve(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if v != detail {
			t.Fatalf("resolved %v", v)
		}
	}
	if loads != 1 {
		t.Errorf("loads = %d, want 1", loads)
	}
}

type moduleView struct {
	exports map[string]View
}

func (m *moduleView) Export(name string) (View, bool) {
	v, ok := m.exports[name]
	return v, ok
}

func TestBindingSubmodule(t *testing.T) {
	settings := &view{"Settings"}
	mod := &moduleView{exports: map[string]View{"Settings": settings}}

	table := New().View("/settings", Static(mod), WithSubmodule("Settings"))
	res, _ := table.Match("/settings")

	v, err := res.Match.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if v != settings {
		t.Errorf("resolved %v, want the Settings export", v)
	}

	bad := &Binding{Ref: Static(mod), Submodule: "Missing"}
	if _, err := bad.Resolve(context.Background()); err == nil {
		t.Error("expected error for missing submodule")
	}
}

func TestLazyRefPropagatesError(t *testing.T) {
	wantErr := errors.New("chunk load failed")
	ref := Lazy(func(context.Context) (View, error) {
		return nil, wantErr
	})
	if _, err := ref.Resolve(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want %v", err, wantErr)
	}
}

func mustResolve(t *testing.T, b *Binding) View {
	t.Helper()
	v, err := b.Resolve(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return v
}
