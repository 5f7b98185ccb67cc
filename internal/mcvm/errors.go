package mcvm

import (
	"fmt"
	"strings"
)

// ErrorCode identifies the kind of a machine failure.
type ErrorCode int

// Stable codes, do not renumber.
const (
	ErrMalformed       ErrorCode = 1001 // MC1001: command could not be parsed
	ErrUnknownFunction ErrorCode = 1002 // MC1002: function id not loaded
	ErrUnknownTarget   ErrorCode = 1003 // MC1003: objective, storage or bossbar missing
	ErrEmptyList       ErrorCode = 1004 // MC1004: read from an empty storage list
	ErrDepth           ErrorCode = 1005 // MC1005: function nesting above MaxDepth
	ErrBudget          ErrorCode = 1006 // MC1006: command budget exhausted
	ErrUnsupported     ErrorCode = 1999 // MC1999: command outside the supported subset
)

func (c ErrorCode) String() string {
	return fmt.Sprintf("MC%d", c)
}

// Error is a failed command together with the function stack that ran it.
type Error struct {
	Code    ErrorCode
	Message string
	// Function and Line locate the command; Line is 1-based.
	Function  string
	Line      int
	Backtrace []string // innermost first
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s", e.Code, e.Message)
	if e.Function != "" {
		fmt.Fprintf(&sb, " (%s:%d)", e.Function, e.Line)
	}
	return sb.String()
}

func errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
