package namespace

// Entry is a dumped symbol with the names declared under it.
type Entry struct {
	Name     string  `msgpack:"name" json:"name"`
	Target   string  `msgpack:"target" json:"target"`
	Kind     string  `msgpack:"kind" json:"kind"`
	Children []Entry `msgpack:"children,omitempty" json:"children,omitempty"`
}

// Snapshot returns the whole tree, roots and symbols in insertion order.
func (t *Table) Snapshot() []Entry {
	out := make([]Entry, 0, len(t.rootOrder))
	for _, r := range t.rootOrder {
		out = append(out, dump(t.roots[r]))
	}
	return out
}

func dump(s *scope) Entry {
	e := Entry{Name: s.sym.Name, Target: s.sym.Target, Kind: s.sym.Kind.String()}
	for _, n := range s.order {
		e.Children = append(e.Children, dump(s.names[n]))
	}
	return e
}
