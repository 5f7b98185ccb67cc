package filens

import (
	"fmt"
	"slices"
	"strings"
)

// LookupError reports a missing name or path.
type LookupError struct {
	Name string
	Path string
}

func (e *LookupError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("file namespace %q not found", e.Path)
	}
	return fmt.Sprintf("%q not found in file namespace %q", e.Name, e.Path)
}

// Table is the file-namespace tree of a compile unit.
type Table struct {
	roots map[string]*Node
	order []string
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{roots: make(map[string]*Node)}
}

// InitRoot creates a top-level node.
func (t *Table) InitRoot(path string, level Level, typ Type, ns string) (*Node, error) {
	if path == "" || strings.Contains(path, Sep) {
		return nil, fmt.Errorf("invalid root file namespace %q", path)
	}
	if _, ok := t.roots[path]; !ok {
		t.order = append(t.order, path)
	}
	n := newNode(path, path, level, typ, ns, path)
	t.roots[path] = n
	return n, nil
}

// Node returns the node at path.
func (t *Table) Node(path string) (*Node, error) {
	return t.walk(path, nil)
}

func (t *Table) walk(path string, visit func(prefix string, n *Node)) (*Node, error) {
	segs := strings.Split(path, Sep)
	cur, ok := t.roots[segs[0]]
	if !ok {
		return nil, &LookupError{Path: path}
	}
	if visit != nil {
		visit(segs[0], cur)
	}
	prefix := segs[0]
	for _, seg := range segs[1:] {
		next, ok := cur.children[seg]
		if !ok {
			return nil, &LookupError{Path: path}
		}
		cur = next
		prefix += Sep + seg
		if visit != nil {
			visit(prefix, cur)
		}
	}
	return cur, nil
}

// Set adds or replaces the child name of parent. Breakpoints and children
// of a replaced node are kept.
func (t *Table) Set(name, target, parent string, level Level, typ Type, ns string) (*Node, error) {
	p, err := t.walk(parent, nil)
	if err != nil {
		return nil, err
	}
	if old, ok := p.children[name]; ok {
		old.Target, old.Level, old.Type, old.Namespace = target, level, typ, ns
		old.Drained = false
		return old, nil
	}
	n := newNode(name, Join(parent, name), level, typ, ns, target)
	p.children[name] = n
	p.order = append(p.order, name)
	return n, nil
}

// Get finds name along scope with the namespace walk rule: the deepest
// node on the way that has a child called name wins.
func (t *Table) Get(name, scope string) (*Node, string, error) {
	var (
		found *Node
		where string
	)
	_, err := t.walk(scope, func(prefix string, n *Node) {
		if c, ok := n.children[name]; ok {
			found, where = c, prefix
		}
	})
	if err != nil || found == nil {
		return nil, "", &LookupError{Name: name, Path: scope}
	}
	return found, where, nil
}

// DrainLinks returns the armed link children of path and marks them
// drained, so each call site is seen by exactly one continuation point.
func (t *Table) DrainLinks(path string) ([]*Node, error) {
	n, err := t.walk(path, nil)
	if err != nil {
		return nil, err
	}
	var out []*Node
	for _, c := range n.Children() {
		if c.Type == TypeLink && !c.Drained {
			c.Drained = true
			out = append(out, c)
		}
	}
	return out, nil
}

// Raise appends a breakpoint record to the node at path. A record whose
// nonzero ID the node already holds is not added again.
func (t *Table) Raise(path string, rec Record) error {
	n, err := t.walk(path, nil)
	if err != nil {
		return err
	}
	if rec.ID != 0 && slices.ContainsFunc(n.Breakpoints, func(r Record) bool { return r.ID == rec.ID }) {
		return nil
	}
	n.Breakpoints = append(n.Breakpoints, rec)
	return nil
}

// Records returns a copy of the pending records of path and leaves them in
// place. Function nodes are read this way by every call site.
func (t *Table) Records(path string) ([]Record, error) {
	n, err := t.walk(path, nil)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Breakpoints), nil
}

// Take removes and returns the pending records of path.
func (t *Table) Take(path string) ([]Record, error) {
	n, err := t.walk(path, nil)
	if err != nil {
		return nil, err
	}
	recs := n.Breakpoints
	n.Breakpoints = nil
	return recs, nil
}

// Pending reports how many records wait at path.
func (t *Table) Pending(path string) int {
	n, err := t.walk(path, nil)
	if err != nil {
		return 0
	}
	return len(n.Breakpoints)
}

// Entry is a dumped node.
type Entry struct {
	Name        string   `msgpack:"name" json:"name"`
	Level       string   `msgpack:"level" json:"level"`
	Type        string   `msgpack:"type" json:"type"`
	Namespace   string   `msgpack:"namespace" json:"namespace"`
	Target      string   `msgpack:"target,omitempty" json:"target,omitempty"`
	Breakpoints []Record `msgpack:"breakpoints,omitempty" json:"breakpoints,omitempty"`
	Children    []Entry  `msgpack:"children,omitempty" json:"children,omitempty"`
}

// Snapshot dumps the tree in insertion order.
func (t *Table) Snapshot() []Entry {
	out := make([]Entry, 0, len(t.order))
	for _, r := range t.order {
		out = append(out, dump(t.roots[r]))
	}
	return out
}

func dump(n *Node) Entry {
	e := Entry{
		Name:        n.Name,
		Level:       n.Level.String(),
		Type:        n.Type.String(),
		Namespace:   n.Namespace,
		Breakpoints: slices.Clone(n.Breakpoints),
	}
	if n.Target != n.Path {
		e.Target = n.Target
	}
	for _, c := range n.Children() {
		e.Children = append(e.Children, dump(c))
	}
	return e
}
