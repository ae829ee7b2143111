package viaduct

import (
	"context"
	"testing"
)

func TestFacadeEndToEnd(t *testing.T) {
	views := NewTable().
		Layout(Static("shell")).
		View("/", Static("home")).
		View("/users/:id", Static("user"), WithParams("id"))

	app := Setup(Config{Views: views})
	defer app.Close()

	if err := app.Navigate("/users/42"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if got := app.Location().Get().Path; got != "/users/42" {
		t.Fatalf("location = %q", got)
	}
	if got := app.Params().Get()["id"]; got != "42" {
		t.Fatalf("params[id] = %q", got)
	}

	slots := app.Tree().Get().Buffer(app.Cycle().Get())
	if len(slots) != 2 || slots[0].Ref != "shell" || slots[1].Ref != "user" {
		t.Fatalf("slots = %+v", slots)
	}
}

func TestFacadeGuards(t *testing.T) {
	views := NewTable().
		View("/", Static("home")).
		View("/admin", Static("admin")).
		Hooks(Hooks{BeforeLoad: func(_ context.Context, ev BeforeLoadEvent) Decision {
			if ev.To == "/admin" {
				return Redirect("/")
			}
			return Proceed()
		}})

	app := Setup(Config{Views: views})
	defer app.Close()

	if err := app.Navigate("/admin"); err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if got := app.Location().Get().Path; got != "/" {
		t.Fatalf("location = %q, want redirect to /", got)
	}
}

func TestFacadePathHelpers(t *testing.T) {
	p, err := P("/users/:id", map[string]string{"id": "7"})
	if err != nil {
		t.Fatalf("P: %v", err)
	}
	if p != "/users/7" {
		t.Fatalf("p = %q", p)
	}
	if !IsActive("/users/7", "/users/:id", map[string]string{"id": "7"}) {
		t.Fatal("IsActive mismatch")
	}
	if !IsActivePrefix("/users/7/posts", "/users/:id", nil) {
		t.Fatal("IsActivePrefix mismatch")
	}
}
