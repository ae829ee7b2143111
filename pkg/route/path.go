package route

import (
	"fmt"
	"strings"
)

// BuildPath constructs a concrete path from a pattern by substituting
// params into :name and *name segments. Boundary parentheses are
// stripped. The result has no trailing slash; the root pattern yields
// "/".
//
// BuildPath round-trips with Match: feeding the result back into a
// table holding the pattern yields exactly the same params.
func BuildPath(pattern string, params map[string]string) (string, error) {
	psegs := splitPattern(pattern)
	if len(psegs) == 0 {
		return "/", nil
	}

	var b strings.Builder
	for _, raw := range psegs {
		seg, _ := stripParens(raw)
		switch {
		case strings.HasPrefix(seg, ":"), strings.HasPrefix(seg, "*"):
			name := seg[1:]
			v, ok := params[name]
			if !ok {
				return "", fmt.Errorf("route: missing param %q for pattern %q", name, pattern)
			}
			if seg[0] == '*' {
				// Wildcard values may span several segments.
				v = strings.Trim(v, "/")
			}
			if v == "" {
				continue
			}
			b.WriteByte('/')
			b.WriteString(v)
		default:
			b.WriteByte('/')
			b.WriteString(seg)
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}
