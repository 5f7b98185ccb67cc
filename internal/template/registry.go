package template

import (
	"slices"
	"strings"

	"mcfc/internal/breakpoint"
)

// Module is an importable group of template functions.
type Module struct {
	Name    string
	Aliases []string // other dotted names the module is importable as
	Funcs   []*Func
	// Processors are registered when the module is imported.
	Processors map[string]breakpoint.Processor
}

// Func returns the function called name.
func (m *Module) Func(name string) (*Func, bool) {
	for _, f := range m.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// Registry holds the template modules of a compile unit and the symbols
// their functions were bound to.
type Registry struct {
	modules map[string]*Module
	names   []string
	bound   map[string]*Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		modules: make(map[string]*Module),
		bound:   make(map[string]*Func),
	}
}

// Standard returns a registry with the built-in modules.
func Standard() *Registry {
	r := NewRegistry()
	for _, m := range []*Module{Builtin(), Scoreboard(), EnvBuild(), Bossbar()} {
		r.Add(m)
	}
	return r
}

// Add makes m importable under its name and aliases.
func (r *Registry) Add(m *Module) {
	for _, n := range append([]string{m.Name}, m.Aliases...) {
		if _, ok := r.modules[n]; !ok {
			r.names = append(r.names, n)
		}
		r.modules[n] = m
	}
}

// Module returns the module importable as the dotted name.
func (r *Registry) Module(name string) (*Module, bool) {
	m, ok := r.modules[name]
	return m, ok
}

// IsPackage reports whether some module lives under the dotted prefix.
func (r *Registry) IsPackage(prefix string) bool {
	for _, n := range r.names {
		if strings.HasPrefix(n, prefix+".") {
			return true
		}
	}
	return false
}

// Bind attaches f to a namespace symbol target.
func (r *Registry) Bind(target string, f *Func) {
	r.bound[target] = f
}

// Lookup returns the function bound to target.
func (r *Registry) Lookup(target string) (*Func, bool) {
	f, ok := r.bound[target]
	return f, ok
}

// Bound lists bound targets, sorted.
func (r *Registry) Bound() []string {
	out := make([]string, 0, len(r.bound))
	for t := range r.bound {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Names lists importable module names in registration order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}
