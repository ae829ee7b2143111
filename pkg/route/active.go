package route

import "strings"

// IsActive reports whether current matches pattern.
//
// With params supplied, pattern is built into a concrete path and
// compared to current verbatim. Without params, the comparison is
// segment by segment, with any :name segment in the pattern matching
// exactly one segment of any value.
func IsActive(current, pattern string, params map[string]string) bool {
	return isActive(current, pattern, params, false)
}

// IsActivePrefix is IsActive with prefix semantics: current may extend
// past the pattern.
func IsActivePrefix(current, pattern string, params map[string]string) bool {
	return isActive(current, pattern, params, true)
}

func isActive(current, pattern string, params map[string]string, prefix bool) bool {
	current = normalizePath(current)

	if params != nil {
		built, err := BuildPath(pattern, params)
		if err != nil {
			return false
		}
		if prefix {
			return current == built || strings.HasPrefix(current, built+"/") || built == "/"
		}
		return current == built
	}

	csegs := splitPath(current)
	psegs := splitPattern(pattern)
	if prefix {
		if len(csegs) < len(psegs) {
			return false
		}
	} else if len(csegs) != len(psegs) {
		return false
	}

	for i, raw := range psegs {
		seg, _ := stripParens(raw)
		if strings.HasPrefix(seg, ":") {
			continue
		}
		if seg != csegs[i] {
			return false
		}
	}
	return true
}
