package template

import (
	"fmt"

	"mcfc/internal/diag"
)

const (
	badArgument   = diag.TplBadArgument
	arity         = diag.TplArity
	unknownOption = diag.TplUnknownOption
)

// Error is a template failure the generator reports with the call's span.
type Error struct {
	Code diag.Code
	Func string
	Msg  string
}

func (e *Error) Error() string {
	if e.Func == "" {
		return e.Msg
	}
	return e.Func + ": " + e.Msg
}

func errorf(code diag.Code, format string, args ...any) *Error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}
