package namespace

import (
	"fmt"
	"strings"

	"mcfc/internal/scoreboard"
)

// Storage names the data storage used for spills and the banks the
// spilled registers live in.
type Storage struct {
	Root      string // e.g. "mcfc:runtime"
	Temp      string
	LocalVars string
	LocalTemp string
	VarsBank  string
	TempBank  string
}

type spillReg struct {
	code string
	bank string
	list string
}

// StoreLocal renders the commands that push the locals of the function
// scope at scopePath onto the storage lists, and the commands that pop them
// back. Locals are variables declared in that scope whose register belongs
// to it (`<scope>.<name>`), in declaration order, followed by the live
// temporaries of the scope. Load is the exact reverse of store.
func (t *Table) StoreLocal(scopePath string, codec *scoreboard.Codec, st Storage) (store, load string, err error) {
	syms, err := t.Names(scopePath)
	if err != nil {
		return "", "", err
	}

	var regs []spillReg
	for _, sym := range syms {
		if sym.Kind != KindVariable || sym.Target != scopePath+"."+sym.Name {
			continue
		}
		if !codec.Has(sym.Target, st.VarsBank) {
			// объявлена, но ещё ни разу не записана
			continue
		}
		code, err := codec.Lookup(sym.Target, st.VarsBank)
		if err != nil {
			return "", "", err
		}
		regs = append(regs, spillReg{code: code, bank: st.VarsBank, list: st.LocalVars})
	}
	for _, tmp := range t.temps[scopePath] {
		code, err := codec.Lookup(tmp, st.TempBank)
		if err != nil {
			return "", "", fmt.Errorf("spill %s: %w", scopePath, err)
		}
		regs = append(regs, spillReg{code: code, bank: st.TempBank, list: st.LocalTemp})
	}

	var sb, lb strings.Builder
	for _, r := range regs {
		fmt.Fprintf(&sb, "execute store result storage %s %s int 1 run scoreboard players get %s %s\n",
			st.Root, st.Temp, r.code, r.bank)
		fmt.Fprintf(&sb, "data modify storage %s %s append from storage %s %s\n",
			st.Root, r.list, st.Root, st.Temp)
	}
	for i := len(regs) - 1; i >= 0; i-- {
		r := regs[i]
		fmt.Fprintf(&lb, "execute store result score %s %s run data get storage %s %s[-1] 1\n",
			r.code, r.bank, st.Root, r.list)
		fmt.Fprintf(&lb, "data remove storage %s %s[-1]\n", st.Root, r.list)
	}
	return sb.String(), lb.String(), nil
}
