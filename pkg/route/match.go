package route

import "strings"

// MatchResult is the outcome of resolving a pathname against a table.
type MatchResult struct {
	// Match is the leaf binding the path resolved to.
	Match *Binding

	// Layouts are the wrapper bindings enclosing the match, outer to
	// inner.
	Layouts []*Binding

	// Hooks are the lifecycle hooks of every contributing level,
	// ancestor to descendant.
	Hooks []Hooks

	// Params are the values bound by :name and *name segments of the
	// winning pattern.
	Params map[string]string

	// BreakFromLayouts reports that the match crossed a
	// layout-breaking boundary, so callers above this table must not
	// wrap it in their own layouts.
	BreakFromLayouts bool

	// Pattern is the full matched pattern, outer to inner, with
	// boundary parentheses stripped.
	Pattern string
}

type scanState uint8

const (
	scanMatched scanState = iota
	scanRejected
	scanStopped
)

// Match resolves a pathname against the table.
//
// Candidates at each level are scanned in priority order; the first
// full structural match wins. Once a candidate's prefix starts
// consuming a nested table there is no backtracking across its
// siblings: an inner mismatch fails the whole resolution.
func (t *Table) Match(pathname string) (*MatchResult, bool) {
	segs := splitPath(normalizePath(pathname))
	res, st := t.matchLevel(segs)
	if st != scanMatched {
		return nil, false
	}
	return res, true
}

func (t *Table) matchLevel(segs []string) (*MatchResult, scanState) {
	for _, e := range t.ordered() {
		res, st := t.scanEntry(e, segs)
		switch st {
		case scanMatched:
			return res, scanMatched
		case scanStopped:
			return nil, scanStopped
		}
	}
	return nil, scanRejected
}

// scanEntry walks one candidate pattern against the path segments.
func (t *Table) scanEntry(e entry, segs []string) (*MatchResult, scanState) {
	psegs := splitPattern(e.pattern)
	params := make(map[string]string)
	broke := false

	for i, raw := range psegs {
		ps, wrapped := stripParens(raw)
		if wrapped {
			broke = true
		}

		if strings.HasPrefix(ps, "*") {
			// Wildcard binds the remaining path suffix and matching
			// stops immediately. Wildcards are terminal, so the entry
			// must be a leaf.
			if e.binding == nil {
				return nil, scanRejected
			}
			params[ps[1:]] = strings.Join(segs[i:], "/")
			return t.finishLeaf(e, psegs, params, broke), scanMatched
		}

		if i >= len(segs) {
			return nil, scanRejected
		}

		if strings.HasPrefix(ps, ":") {
			params[ps[1:]] = segs[i]
			continue
		}

		if ps != segs[i] {
			return nil, scanRejected
		}
	}

	if e.child != nil {
		return t.descend(e, psegs, segs[len(psegs):], params, broke)
	}

	// Leaf: the pattern must consume the path exactly.
	if len(psegs) != len(segs) {
		return nil, scanRejected
	}
	return t.finishLeaf(e, psegs, params, broke), scanMatched
}

// finishLeaf assembles the result for a leaf match at this level.
// A boundary inside the pattern excludes the level's own layout; a
// break on the whole table keeps it but stops ancestors from adding
// theirs.
func (t *Table) finishLeaf(e entry, psegs []string, params map[string]string, broke bool) *MatchResult {
	res := &MatchResult{
		Match:            e.binding,
		Params:           params,
		BreakFromLayouts: broke || t.breaking,
		Pattern:          canonPattern(joinPattern("", psegs)),
	}
	if t.hooks != nil {
		res.Hooks = []Hooks{*t.hooks}
	}
	if !broke && t.layout != nil {
		res.Layouts = []*Binding{t.layout}
	}
	return res
}

// descend recurses into a nested table on the unmatched suffix and
// merges the inner result with this level's contribution.
func (t *Table) descend(e entry, psegs []string, rest []string, params map[string]string, broke bool) (*MatchResult, scanState) {
	inner, st := e.child.matchLevel(rest)
	if st != scanMatched {
		// The prefix already consumed this table level; no
		// backtracking across sibling candidates.
		return nil, scanStopped
	}

	for k, v := range inner.Params {
		params[k] = v
	}
	res := &MatchResult{
		Match:   inner.Match,
		Params:  params,
		Pattern: canonPattern(joinPattern(joinPattern("", psegs), splitPattern(inner.Pattern))),
	}

	if t.hooks != nil {
		res.Hooks = append(res.Hooks, *t.hooks)
	}
	res.Hooks = append(res.Hooks, inner.Hooks...)

	switch {
	case inner.BreakFromLayouts:
		// The inner match opted out of everything above it.
		res.Layouts = inner.Layouts
		res.BreakFromLayouts = true
	case broke:
		// Boundary on this entry's own pattern: drop this level's
		// layout as well.
		res.Layouts = inner.Layouts
		res.BreakFromLayouts = true
	default:
		if t.layout != nil {
			res.Layouts = append(res.Layouts, t.layout)
		}
		res.Layouts = append(res.Layouts, inner.Layouts...)
		res.BreakFromLayouts = t.breaking
	}
	return res, scanMatched
}

// normalizePath strips the trailing slash unless the path is exactly
// root, and guarantees a leading slash.
func normalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// splitPath splits a normalized path into segments. Root has none.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// splitPattern splits a pattern key into segments. Root patterns
// ("" and "/") have none.
func splitPattern(pattern string) []string {
	return splitPath(pattern)
}

// stripParens removes a (boundary) wrapper from a segment and reports
// whether one was present.
func stripParens(seg string) (string, bool) {
	if len(seg) >= 2 && seg[0] == '(' && seg[len(seg)-1] == ')' {
		return seg[1 : len(seg)-1], true
	}
	return seg, false
}

// joinPattern appends pattern segments to a prefix, stripping boundary
// parentheses. Zero segments leave the prefix untouched.
func joinPattern(prefix string, psegs []string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, raw := range psegs {
		seg, _ := stripParens(raw)
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

// canonPattern maps the empty joined pattern to root.
func canonPattern(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
