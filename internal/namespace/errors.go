package namespace

import (
	"fmt"
	"strings"
)

// LookupError reports a name or scope segment that does not exist.
type LookupError struct {
	Name  string
	Scope string
}

func (e *LookupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("namespace %q not found", e.Scope)
	}
	return fmt.Sprintf("%q not found in namespace %q", e.Name, e.Scope)
}

// AliasCycleError reports attribute aliases that lead back to themselves.
type AliasCycleError struct {
	Chain []string
}

func (e *AliasCycleError) Error() string {
	return "attribute alias cycle: " + strings.Join(e.Chain, " -> ")
}
