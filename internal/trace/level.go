package trace

import (
	"fmt"
	"slices"
	"strings"
)

// Level is the tracing verbosity. Each level admits one more Scope than the
// one below it: phase shows driver and pass spans, detail adds modules,
// debug adds single nodes.
type Level uint8

const (
	LevelOff Level = iota
	LevelPhase
	LevelDetail
	LevelDebug
)

var levelNames = []string{"off", "phase", "detail", "debug"}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads --trace-level; empty means off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	if i := slices.Index(levelNames, s); i >= 0 {
		return Level(i), nil
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (want %s)", s, strings.Join(levelNames, "|"))
}

func (l Level) ShouldEmit(scope Scope) bool {
	return l > LevelOff && l <= LevelDebug && scope <= Scope(l)+1
}
