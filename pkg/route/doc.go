// Package route implements declarative nested route tables and path
// matching for Viaduct.
//
// A Table maps path patterns to view references or nested tables. Two
// reserved slots exist per level: a layout wrapping every match under
// the level, and lifecycle hooks scoped to the level and all its
// descendants.
//
// # Pattern Grammar
//
// Pattern keys are segment sequences:
//
//	/users          literal segments
//	/users/:id      :name binds one path segment
//	/files/*rest    *name binds the remaining path suffix (terminal)
//	/(admin)/panel  (segment) breaks out of ancestor layouts
//
// A whole table can also be marked layout-breaking with Break().
//
// # Matching
//
// Candidates at one level are scanned in priority order: root, then
// static literals, then dynamic segments, then wildcards; equal
// priorities keep declaration order. The first full structural match
// wins - once a candidate's prefix begins consuming nested table
// levels there is no backtracking across its siblings.
//
// # Usage
//
//	users := route.New().
//		View("/", route.Static(List)).
//		View("/:id", route.Static(Detail), route.WithParams("id")).
//		Layout(route.Static(Shell))
//
//	table := route.New().
//		View("/", route.Static(Home)).
//		Child("/users", users)
//
//	res, ok := table.Match("/users/42")
//	// res.Params["id"] == "42", res.Layouts == [Shell]
package route
