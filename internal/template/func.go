package template

import (
	"errors"
	"fmt"
	"strings"

	"mcfc/internal/scoreboard"
)

// Param is a named parameter; a nil Default makes it required.
type Param struct {
	Name    string
	Default *Value
}

func opt(name string, def Value) Param { return Param{Name: name, Default: &def} }
func req(name string) Param            { return Param{Name: name} }

// Func is a template function.
type Func struct {
	Name     string
	Params   []Param
	Variadic string  // collects extra positionals when set
	KwOnly   []Param // after the variadic parameter
	Fn       func(c *Call) (string, error)
}

// Env is the compilation context a template call runs in.
type Env struct {
	Codec         *scoreboard.Codec
	Namespace     string
	FileNamespace string
	Result        string // result register of Namespace
	TempBank      string
	VarsBank      string
	FlagsBank     string
	True          string
	Comments      bool
	// Unique returns a fresh register name tagged with kind.
	Unique func(kind string) string
	// Raise records a breakpoint on the current file namespace.
	Raise func(tag, name, objective string) error
	// State survives between calls of one compile unit.
	State map[string]string
}

// Comment renders a comment line when comments are enabled.
func (e *Env) Comment(format string, args ...any) string {
	if !e.Comments {
		return ""
	}
	return "# " + fmt.Sprintf(format, args...) + "\n"
}

// Argument is an unbound call argument; Name is empty for positionals.
type Argument struct {
	Name  string
	Value Value
}

// Call is one bound invocation.
type Call struct {
	Func *Func
	Env  *Env

	args        map[string]Value
	rest        []Value
	wroteResult bool
}

// Arg returns a bound parameter.
func (c *Call) Arg(name string) Value { return c.args[name] }

// Rest returns the variadic arguments.
func (c *Call) Rest() []Value { return c.rest }

// Result returns the code of the result register and marks it written.
func (c *Call) Result() string {
	c.wroteResult = true
	return c.Env.Codec.ResolveOrAllocate(c.Env.Result, c.Env.TempBank)
}

// WroteResult reports whether the call produced a value.
func (c *Call) WroteResult() bool { return c.wroteResult }

// String returns a string parameter.
func (c *Call) String(name string) (string, error) {
	v := c.args[name]
	if v.Kind != KindString {
		return "", c.bad(name, v, "str")
	}
	return v.Str, nil
}

// Score returns an int or bool parameter as a score value.
func (c *Call) Score(name string) (int32, error) {
	v := c.args[name]
	n, ok := v.Score()
	if !ok {
		return 0, c.bad(name, v, "int")
	}
	return n, nil
}

func (c *Call) bad(name string, v Value, want string) error {
	return &Error{Code: badArgument, Func: c.Func.Name,
		Msg: fmt.Sprintf("argument %s must be %s, got %s %s", name, want, v.Kind, v)}
}

// Bind matches arguments to parameters the way Python does for
// `def f(a, b=1, *rest, kw=2)`.
func (f *Func) Bind(env *Env, args []Argument) (*Call, error) {
	c := &Call{Func: f, Env: env, args: make(map[string]Value)}
	pos := 0
	for _, a := range args {
		if a.Name != "" {
			continue
		}
		switch {
		case pos < len(f.Params):
			c.args[f.Params[pos].Name] = a.Value
			pos++
		case f.Variadic != "":
			c.rest = append(c.rest, a.Value)
		default:
			return nil, &Error{Code: arity, Func: f.Name,
				Msg: fmt.Sprintf("takes %d positional arguments", len(f.Params))}
		}
	}
	for _, a := range args {
		if a.Name == "" {
			continue
		}
		if !f.accepts(a.Name) {
			return nil, &Error{Code: unknownOption, Func: f.Name,
				Msg: fmt.Sprintf("unexpected keyword argument %q", a.Name)}
		}
		if _, dup := c.args[a.Name]; dup {
			return nil, &Error{Code: arity, Func: f.Name,
				Msg: fmt.Sprintf("multiple values for argument %q", a.Name)}
		}
		c.args[a.Name] = a.Value
	}
	var missing []string
	for _, p := range append(f.Params[:len(f.Params):len(f.Params)], f.KwOnly...) {
		if _, ok := c.args[p.Name]; ok {
			continue
		}
		if p.Default == nil {
			missing = append(missing, p.Name)
			continue
		}
		c.args[p.Name] = *p.Default
	}
	if len(missing) > 0 {
		return nil, &Error{Code: arity, Func: f.Name,
			Msg: "missing required argument: " + strings.Join(missing, ", ")}
	}
	return c, nil
}

func (f *Func) accepts(name string) bool {
	for _, p := range f.Params {
		if p.Name == name {
			return true
		}
	}
	for _, p := range f.KwOnly {
		if p.Name == name {
			return true
		}
	}
	return false
}

// Invoke binds args and runs the function.
func (f *Func) Invoke(env *Env, args []Argument) (string, *Call, error) {
	c, err := f.Bind(env, args)
	if err != nil {
		return "", nil, err
	}
	code, err := f.Fn(c)
	if err != nil {
		var te *Error
		if errors.As(err, &te) && te.Func == "" {
			te.Func = f.Name
		}
		return "", c, err
	}
	return code, c, nil
}
