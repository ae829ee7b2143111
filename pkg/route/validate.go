package route

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal finding from table validation.
type Warning struct {
	// Level is the pattern path of the table level, "/" for the root.
	Level string

	// Patterns are the colliding pattern keys.
	Patterns []string

	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("route: %s at level %q: %s", w.Message, w.Level, strings.Join(w.Patterns, ", "))
}

// Validate walks the table and reports ambiguous pattern overlaps.
// A dynamic and a wildcard key at the same level can both capture the
// same input; priority order decides, which is usually intended but
// worth flagging. Warnings never fail setup.
func (t *Table) Validate() []Warning {
	var warns []Warning
	t.validateLevel("/", &warns)
	return warns
}

func (t *Table) validateLevel(level string, warns *[]Warning) {
	var dynamics, wildcards []string
	for _, e := range t.entries {
		psegs := splitPattern(e.pattern)
		if len(psegs) == 0 {
			continue
		}
		first, _ := stripParens(psegs[0])
		switch {
		case strings.HasPrefix(first, "*"):
			wildcards = append(wildcards, e.pattern)
		case strings.HasPrefix(first, ":"):
			dynamics = append(dynamics, e.pattern)
		}
	}
	if len(dynamics) > 0 && len(wildcards) > 0 {
		*warns = append(*warns, Warning{
			Level:    level,
			Patterns: append(append([]string(nil), dynamics...), wildcards...),
			Message:  "dynamic and wildcard keys overlap",
		})
	}

	for _, e := range t.entries {
		if e.child != nil {
			e.child.validateLevel(canonPattern(joinPattern(strings.TrimSuffix(level, "/"), splitPattern(e.pattern))), warns)
		}
	}
}
