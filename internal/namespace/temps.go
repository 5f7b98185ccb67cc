package namespace

import "slices"

// InitTemp starts an empty temporary list for scope.
func (t *Table) InitTemp(scopePath string) {
	if _, ok := t.temps[scopePath]; !ok {
		t.tempOrder = append(t.tempOrder, scopePath)
	}
	t.temps[scopePath] = nil
}

// PushTemp marks reg as live in scope.
func (t *Table) PushTemp(scopePath, reg string) {
	if _, ok := t.temps[scopePath]; !ok {
		t.tempOrder = append(t.tempOrder, scopePath)
	}
	t.temps[scopePath] = append(t.temps[scopePath], reg)
}

// PopTemp removes the most recent occurrence of reg. It reports false when
// reg was not live.
func (t *Table) PopTemp(scopePath, reg string) bool {
	list := t.temps[scopePath]
	for i := len(list) - 1; i >= 0; i-- {
		if list[i] == reg {
			t.temps[scopePath] = slices.Delete(list, i, i+1)
			return true
		}
	}
	return false
}

// Temps returns a copy of the live temporaries of scope, oldest first.
func (t *Table) Temps(scopePath string) []string {
	return slices.Clone(t.temps[scopePath])
}

// Leak is a scope whose temporary list is not empty.
type Leak struct {
	Scope string
	Regs  []string
}

// Leaks lists scopes with live temporaries, in the order the scopes were
// first seen.
func (t *Table) Leaks() []Leak {
	var out []Leak
	for _, s := range t.tempOrder {
		if regs := t.temps[s]; len(regs) > 0 {
			out = append(out, Leak{Scope: s, Regs: slices.Clone(regs)})
		}
	}
	return out
}
