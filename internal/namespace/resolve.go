package namespace

// ResolveOptions control auto-creation of missing names.
type ResolveOptions struct {
	Create bool // declare missing names in the scope being searched
	Kind   Kind // kind of auto-created symbols
}

// Resolved describes the symbol a reference ends in.
type Resolved struct {
	Name   string // leaf name after alias resolution
	Target string
	Scope  string // scope that held the leaf
	Symbol Symbol
}

// Resolve resolves a name (`x`) or attribute chain (`mod.sub.x`) from
// scopePath. Attribute aliases are followed until a non-alias symbol is
// reached.
func (t *Table) Resolve(ref []string, scopePath string, opts ResolveOptions) (Resolved, error) {
	if len(ref) == 0 {
		return Resolved{}, &LookupError{Scope: scopePath}
	}
	res, err := t.resolveName(ref[0], scopePath, opts)
	if err != nil {
		return Resolved{}, err
	}
	for _, attr := range ref[1:] {
		res, err = t.resolveName(attr, res.Target, opts)
		if err != nil {
			return Resolved{}, err
		}
	}
	return res, nil
}

func (t *Table) resolveName(name, scopePath string, opts ResolveOptions) (Resolved, error) {
	visited := make(map[string]struct{})
	var chain []string
	for {
		key := AliasTarget(scopePath, name)
		if _, seen := visited[key]; seen {
			return Resolved{}, &AliasCycleError{Chain: append(chain, key)}
		}
		visited[key] = struct{}{}
		chain = append(chain, key)

		r, err := t.Get(name, scopePath)
		if err != nil {
			if !opts.Create {
				return Resolved{}, err
			}
			if err := t.Set(name, Join(scopePath, name), scopePath, opts.Kind); err != nil {
				return Resolved{}, err
			}
			if r, err = t.Get(name, scopePath); err != nil {
				return Resolved{}, err
			}
		}
		if r.Symbol.Kind != KindAttribute {
			return Resolved{Name: name, Target: r.Symbol.Target, Scope: r.Scope, Symbol: r.Symbol}, nil
		}
		scopePath, name = r.Symbol.AliasScope, r.Symbol.AliasName
	}
}
