package namespace

import (
	"fmt"
	"strings"
)

// scope is a symbol together with the names declared under it.
type scope struct {
	sym   Symbol
	names map[string]*scope
	order []string // порядок объявления
}

func newScope(sym Symbol) *scope {
	return &scope{sym: sym, names: make(map[string]*scope)}
}

func (s *scope) lookup(name string) (*scope, bool) {
	child, ok := s.names[name]
	return child, ok
}

// Table is the namespace tree of one compile unit.
type Table struct {
	roots     map[string]*scope
	rootOrder []string
	temps     map[string][]string
	tempOrder []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		roots: make(map[string]*scope),
		temps: make(map[string][]string),
	}
}

// InitRoot creates (or replaces) a top-level scope such as `source_code:main`.
func (t *Table) InitRoot(path string, kind Kind) error {
	if path == "" || strings.Contains(path, Sep) {
		return fmt.Errorf("invalid root namespace %q", path)
	}
	if _, ok := t.roots[path]; !ok {
		t.rootOrder = append(t.rootOrder, path)
	}
	t.roots[path] = newScope(Symbol{Name: path, Target: path, Kind: kind})
	return nil
}

// HasRoot reports whether InitRoot was called for path.
func (t *Table) HasRoot(path string) bool {
	_, ok := t.roots[path]
	return ok
}

// walk descends along path and calls visit for every scope on the way.
func (t *Table) walk(path string, visit func(prefix string, s *scope)) (*scope, error) {
	segs := strings.Split(path, Sep)
	cur, ok := t.roots[segs[0]]
	if !ok {
		return nil, &LookupError{Scope: path}
	}
	if visit != nil {
		visit(segs[0], cur)
	}
	prefix := segs[0]
	for _, seg := range segs[1:] {
		next, ok := cur.lookup(seg)
		if !ok {
			return nil, &LookupError{Scope: path}
		}
		cur = next
		prefix += Sep + seg
		if visit != nil {
			visit(prefix, cur)
		}
	}
	return cur, nil
}

// Set declares name in scope. Redeclaring replaces the symbol; names
// already declared under it stay reachable.
func (t *Table) Set(name, target, scopePath string, kind Kind) error {
	parent, err := t.walk(scopePath, nil)
	if err != nil {
		return err
	}
	t.put(parent, Symbol{Name: name, Target: target, Kind: kind})
	return nil
}

// SetAlias declares name in scope as an attribute alias of
// (aliasScope, aliasName). Lookups through it re-resolve at the alias.
func (t *Table) SetAlias(name, aliasScope, aliasName, scopePath string) error {
	parent, err := t.walk(scopePath, nil)
	if err != nil {
		return err
	}
	t.put(parent, Symbol{
		Name:       name,
		Target:     AliasTarget(aliasScope, aliasName),
		Kind:       KindAttribute,
		AliasScope: aliasScope,
		AliasName:  aliasName,
	})
	return nil
}

func (t *Table) put(parent *scope, sym Symbol) {
	if old, ok := parent.names[sym.Name]; ok {
		old.sym = sym
		return
	}
	parent.names[sym.Name] = newScope(sym)
	parent.order = append(parent.order, sym.Name)
}

// Resolution is the result of Get.
type Resolution struct {
	Symbol Symbol
	Scope  string // scope that held the match
}

// Target is the plain form of a resolution.
func (r Resolution) Target() string { return r.Symbol.Target }

// Get looks name up along scopePath. Every scope from the root down to the
// terminal one is checked and the deepest one declaring name wins.
func (t *Table) Get(name, scopePath string) (Resolution, error) {
	var (
		res   Resolution
		found bool
	)
	_, err := t.walk(scopePath, func(prefix string, s *scope) {
		if child, ok := s.lookup(name); ok {
			res = Resolution{Symbol: child.sym, Scope: prefix}
			found = true
		}
	})
	if err != nil {
		return Resolution{}, &LookupError{Name: name, Scope: scopePath}
	}
	if !found {
		return Resolution{}, &LookupError{Name: name, Scope: scopePath}
	}
	return res, nil
}

// GetLocal looks name up in scopePath only, without ancestors.
func (t *Table) GetLocal(name, scopePath string) (Symbol, bool) {
	s, err := t.walk(scopePath, nil)
	if err != nil {
		return Symbol{}, false
	}
	child, ok := s.lookup(name)
	if !ok {
		return Symbol{}, false
	}
	return child.sym, true
}

// Symbol returns the symbol a full scope path ends in.
func (t *Table) Symbol(path string) (Symbol, bool) {
	s, err := t.walk(path, nil)
	if err != nil {
		return Symbol{}, false
	}
	return s.sym, true
}

// Exists reports whether path names a scope.
func (t *Table) Exists(path string) bool {
	_, err := t.walk(path, nil)
	return err == nil
}

// Names lists the symbols declared directly in scopePath in declaration order.
func (t *Table) Names(scopePath string) ([]Symbol, error) {
	s, err := t.walk(scopePath, nil)
	if err != nil {
		return nil, err
	}
	out := make([]Symbol, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.names[n].sym)
	}
	return out, nil
}
