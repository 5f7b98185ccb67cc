package codegen

import (
	"errors"
	"fmt"

	"mcfc/internal/diag"
	"mcfc/internal/namespace"
	"mcfc/internal/scoreboard"
	"mcfc/internal/source"
	"mcfc/internal/template"
)

// Error is a fatal generation problem with its diagnostic code.
type Error struct {
	Code diag.Code
	Span source.Span
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func errorf(code diag.Code, sp source.Span, format string, args ...any) *Error {
	return &Error{Code: code, Span: sp, Msg: fmt.Sprintf(format, args...)}
}

// Frame is one enclosing node of a failed generation.
type Frame struct {
	Span          source.Span
	Node          string // kind of the node, e.g. "If"
	Namespace     string
	FileNamespace string
}

// CompileError annotates an error with the nodes it unwound through.
// Frames are innermost first.
type CompileError struct {
	Err    error
	Frames []Frame
}

func (e *CompileError) Error() string {
	if len(e.Frames) == 0 {
		return e.Err.Error()
	}
	f := e.Frames[0]
	return fmt.Sprintf("%s (in %s, namespace %s)", e.Err, f.Node, f.Namespace)
}

func (e *CompileError) Unwrap() error { return e.Err }

// wrap adds fr to err, creating the CompileError on the first frame.
func wrap(err error, fr Frame) error {
	var ce *CompileError
	if errors.As(err, &ce) {
		ce.Frames = append(ce.Frames, fr)
		return err
	}
	return &CompileError{Err: err, Frames: []Frame{fr}}
}

// CodeOf maps a generation error to its diagnostic code.
func CodeOf(err error) diag.Code {
	var (
		ge    *Error
		te    *template.Error
		cycle *namespace.AliasCycleError
		nl    *namespace.LookupError
		sl    *scoreboard.LookupError
		emit  *scoreboard.EmitError
	)
	switch {
	case errors.As(err, &ge):
		return ge.Code
	case errors.As(err, &te):
		return te.Code
	case errors.As(err, &cycle):
		return diag.GenAliasCycle
	case errors.As(err, &nl), errors.As(err, &sl):
		return diag.GenUnresolved
	case errors.As(err, &emit):
		return diag.GenMalformedCommand
	}
	return diag.UnknownCode
}

// SpanOf returns the most precise span known for err.
func SpanOf(err error) source.Span {
	var ge *Error
	if errors.As(err, &ge) && ge.Span != (source.Span{}) {
		return ge.Span
	}
	var ce *CompileError
	if errors.As(err, &ce) && len(ce.Frames) > 0 {
		return ce.Frames[0].Span
	}
	return source.Span{}
}
