package route

import (
	"sort"
	"strings"
)

// Priority classes, lowest scans first.
const (
	PriorityRoot     = 1
	PriorityStatic   = 2
	PriorityDynamic  = 3
	PriorityWildcard = 4
)

// Priority returns the scan-order class of a pattern: root before
// static literals, before dynamic segments, before wildcards. It only
// affects candidate scan order and overlap diagnostics, never the
// shape of a successful match.
func Priority(pattern string) int {
	if pattern == "" || pattern == "/" {
		return PriorityRoot
	}
	for _, seg := range splitPattern(pattern) {
		seg, _ = stripParens(seg)
		if strings.HasPrefix(seg, "*") {
			return PriorityWildcard
		}
	}
	for _, seg := range splitPattern(pattern) {
		seg, _ = stripParens(seg)
		if strings.HasPrefix(seg, ":") {
			return PriorityDynamic
		}
	}
	return PriorityStatic
}

// ordered returns the level's entries in priority order. The sort is
// stable: equal priorities keep declaration order.
func (t *Table) ordered() []entry {
	out := make([]entry, len(t.entries))
	copy(out, t.entries)
	sort.SliceStable(out, func(i, j int) bool {
		return Priority(out[i].pattern) < Priority(out[j].pattern)
	})
	return out
}
