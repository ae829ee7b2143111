// Package viaduct provides the public API for the Viaduct navigation
// engine.
//
// This is the recommended import for most applications:
//
//	import "github.com/viaduct-ui/viaduct"
//
// Usage:
//
//	views := viaduct.NewTable().
//		Layout(viaduct.Static(Shell)).
//		View("/", viaduct.Static(Home)).
//		View("/users/:id", viaduct.Lazy(loadUser), viaduct.WithParams("id"))
//
//	app := viaduct.Setup(viaduct.Config{Views: views})
//	app.Navigate("/users/42")
package viaduct

import (
	"github.com/viaduct-ui/viaduct/pkg/history"
	"github.com/viaduct-ui/viaduct/pkg/nav"
	"github.com/viaduct-ui/viaduct/pkg/route"
	"github.com/viaduct-ui/viaduct/pkg/viewtree"
)

// Route table construction (re-export from pkg/route).

// Table is a level of the nested route table.
type Table = route.Table

// NewTable creates an empty route table level.
var NewTable = route.New

// Ref is a view reference: resolved at navigation time into the view
// value placed in the tree.
type Ref = route.Ref

// Static wraps an already-constructed view.
var Static = route.Static

// Lazy defers view construction to the first navigation that needs it.
var Lazy = route.Lazy

// Module is the interface lazily-loaded bundles implement.
type Module = route.Module

// WithSubmodule selects a named export of a lazily-loaded module.
var WithSubmodule = route.WithSubmodule

// WithParams declares the route params a view receives.
var WithParams = route.WithParams

// Lifecycle hooks (re-export from pkg/route).

// Hooks are the lifecycle callbacks of one table level.
type Hooks = route.Hooks

// BeforeLoadEvent is passed to beforeLoad hooks.
type BeforeLoadEvent = route.BeforeLoadEvent

// LifecycleEvent is passed to duringLoad, duringRender and afterRender
// hooks.
type LifecycleEvent = route.LifecycleEvent

// Decision is a beforeLoad hook's verdict.
type Decision = route.Decision

// Proceed lets the navigation continue.
var Proceed = route.Proceed

// Redirect diverts the navigation to another target.
var Redirect = route.Redirect

// RedirectReplace diverts without growing the history stack.
var RedirectReplace = route.RedirectReplace

// Abort cancels the navigation.
var Abort = route.Abort

// Path helpers (re-export from pkg/route).

// P builds a concrete path from a pattern and params.
var P = route.BuildPath

// IsActive reports whether a pathname matches a pattern exactly.
var IsActive = route.IsActive

// IsActivePrefix reports whether a pathname lives under a pattern.
var IsActivePrefix = route.IsActivePrefix

// Controller (re-export from pkg/nav).

// Config configures a navigation controller.
type Config = nav.Config

// Controller sequences navigations against a route table.
type Controller = nav.Controller

// Setup creates a navigation controller.
var Setup = nav.New

// Observer receives navigation lifecycle notifications.
type Observer = nav.Observer

// Phase is the controller's lifecycle position.
type Phase = nav.Phase

// Navigation options (re-export from pkg/nav).

// Option configures a single navigation.
type Option = nav.Option

// WithHash sets the fragment committed with the navigation.
var WithHash = nav.WithHash

// WithReplace replaces the current history entry instead of pushing.
var WithReplace = nav.WithReplace

// WithSearch sets the query string committed with the navigation.
var WithSearch = nav.WithSearch

// WithState attaches opaque history state.
var WithState = nav.WithState

// WithBypass syncs the URL without running the lifecycle.
var WithBypass = nav.WithBypass

// WithHooks appends hooks for a single navigation.
var WithHooks = nav.WithHooks

// WithScroll sets the scroll behavior at commit.
var WithScroll = nav.WithScroll

// WithoutScroll disables scrolling to top after the commit.
var WithoutScroll = nav.WithoutScroll

// View tree (re-export from pkg/viewtree).

// Tree is the dual-buffer component tree.
type Tree = viewtree.Tree

// Slot is one occupied position of a tree buffer.
type Slot = viewtree.Slot

// Cycle identifies the stable or transitional buffer configuration.
type Cycle = viewtree.Cycle

// History (re-export from pkg/history).

// Location is one history entry.
type Location = history.Location

// History is the navigation history backend.
type History = history.History

// NewMemoryHistory creates the in-memory history used outside a
// browser bridge.
var NewMemoryHistory = history.NewMemory
