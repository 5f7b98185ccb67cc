package namespace

import (
	"errors"
	"strings"
	"testing"

	"mcfc/internal/scoreboard"
)

const root = "src:main"

func newTable(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	if err := tbl.InitRoot(root, KindFile); err != nil {
		t.Fatalf("InitRoot: %v", err)
	}
	mustSet(t, tbl, "module", Join(root, "module"), root, KindModule)
	return tbl
}

func mustSet(t *testing.T, tbl *Table, name, target, scope string, kind Kind) {
	t.Helper()
	if err := tbl.Set(name, target, scope, kind); err != nil {
		t.Fatalf("Set(%s in %s): %v", name, scope, err)
	}
}

func TestSetMissingScope(t *testing.T) {
	tbl := newTable(t)
	err := tbl.Set("x", "y", Join(root, "module", "nope"), KindVariable)
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected LookupError, got %v", err)
	}
}

func TestScopeShadowing(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")
	mustSet(t, tbl, "x", mod+".x", mod, KindVariable)
	mustSet(t, tbl, "f", Join(mod, "f"), mod, KindFunction)
	mustSet(t, tbl, "g", Join(mod, "g"), mod, KindFunction)
	mustSet(t, tbl, "x", Join(mod, "f")+".x", Join(mod, "f"), KindVariable)

	r, err := tbl.Get("x", Join(mod, "f"))
	if err != nil {
		t.Fatalf("Get in f: %v", err)
	}
	if r.Target() != Join(mod, "f")+".x" || r.Scope != Join(mod, "f") {
		t.Fatalf("nested lookup = %+v", r)
	}

	r, err = tbl.Get("x", Join(mod, "g"))
	if err != nil {
		t.Fatalf("Get in g: %v", err)
	}
	if r.Target() != mod+".x" || r.Scope != mod {
		t.Fatalf("sibling lookup = %+v", r)
	}

	if _, err := tbl.Get("nope", Join(mod, "g")); err == nil {
		t.Fatal("expected error for unknown name")
	}
}

func TestRedeclareKeepsChildren(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")
	mustSet(t, tbl, "f", Join(mod, "f"), mod, KindFunction)
	mustSet(t, tbl, "n", Join(mod, "f")+".n", Join(mod, "f"), KindVariable)
	mustSet(t, tbl, "f", Join(mod, "f"), mod, KindFunction)
	if _, ok := tbl.GetLocal("n", Join(mod, "f")); !ok {
		t.Fatal("redeclaration dropped nested names")
	}
}

func TestResolveCreatesAndFollowsAttributes(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")

	// module util with a function helper
	if err := tbl.InitRoot("src:util", KindFile); err != nil {
		t.Fatal(err)
	}
	umod := Join("src:util", "module")
	mustSet(t, tbl, "module", umod, "src:util", KindModule)
	mustSet(t, tbl, "helper", Join(umod, "helper"), umod, KindFunction)

	// from util import helper as h
	if err := tbl.SetAlias("h", umod, "helper", mod); err != nil {
		t.Fatal(err)
	}
	// import util as u
	mustSet(t, tbl, "u", umod, mod, KindModule)

	direct, err := tbl.Resolve([]string{"helper"}, umod, ResolveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	viaAlias, err := tbl.Resolve([]string{"h"}, mod, ResolveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	viaAttr, err := tbl.Resolve([]string{"u", "helper"}, mod, ResolveOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if viaAlias.Target != direct.Target || viaAttr.Target != direct.Target {
		t.Fatalf("targets differ: %q %q %q", direct.Target, viaAlias.Target, viaAttr.Target)
	}
	if viaAlias.Name != "helper" || viaAlias.Scope != umod {
		t.Fatalf("alias leaf = %+v", viaAlias)
	}

	created, err := tbl.Resolve([]string{"y"}, mod, ResolveOptions{Create: true, Kind: KindVariable})
	if err != nil {
		t.Fatal(err)
	}
	if created.Target != Join(mod, "y") || created.Symbol.Kind != KindVariable {
		t.Fatalf("created = %+v", created)
	}
	if _, err := tbl.Resolve([]string{"z"}, mod, ResolveOptions{}); err == nil {
		t.Fatal("expected error without Create")
	}
}

func TestResolveAliasCycle(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")
	if err := tbl.SetAlias("a", mod, "b", mod); err != nil {
		t.Fatal(err)
	}
	if err := tbl.SetAlias("b", mod, "a", mod); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.Resolve([]string{"a"}, mod, ResolveOptions{})
	var ce *AliasCycleError
	if !errors.As(err, &ce) {
		t.Fatalf("expected AliasCycleError, got %v", err)
	}
	if len(ce.Chain) != 3 {
		t.Fatalf("chain = %v", ce.Chain)
	}
}

func TestTempsAndLeaks(t *testing.T) {
	tbl := newTable(t)
	f := Join(root, "module", "f")
	tbl.InitTemp(f)
	tbl.PushTemp(f, "t1")
	tbl.PushTemp(f, "t2")
	if got := tbl.Temps(f); len(got) != 2 || got[0] != "t1" {
		t.Fatalf("Temps = %v", got)
	}
	if !tbl.PopTemp(f, "t1") || tbl.PopTemp(f, "t1") {
		t.Fatal("PopTemp mismatch")
	}
	leaks := tbl.Leaks()
	if len(leaks) != 1 || leaks[0].Scope != f || leaks[0].Regs[0] != "t2" {
		t.Fatalf("Leaks = %+v", leaks)
	}
	tbl.PopTemp(f, "t2")
	if len(tbl.Leaks()) != 0 {
		t.Fatal("expected no leaks")
	}
}

func TestStoreLocalOrder(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")
	f := Join(mod, "f")
	mustSet(t, tbl, "f", f, mod, KindFunction)
	mustSet(t, tbl, "g", mod+".g", f, KindVariable) // global alias, not owned
	codec := scoreboard.NewCodec("Py.Flags")
	for _, n := range []string{"a", "b", "c"} {
		mustSet(t, tbl, n, f+"."+n, f, KindVariable)
		codec.ResolveOrAllocate(f+"."+n, "Py.Vars")
	}
	codec.ResolveOrAllocate(mod+".g", "Py.Vars")
	tbl.InitTemp(f)
	tbl.PushTemp(f, f+".*BinOp1")
	codec.ResolveOrAllocate(f+".*BinOp1", "Py.Temp")

	st := Storage{
		Root: "mcfc:runtime", Temp: "Temp", LocalVars: "LocalVars", LocalTemp: "LocalTemp",
		VarsBank: "Py.Vars", TempBank: "Py.Temp",
	}
	store, load, err := tbl.StoreLocal(f, codec, st)
	if err != nil {
		t.Fatal(err)
	}

	storeLines := strings.Split(strings.TrimSpace(store), "\n")
	loadLines := strings.Split(strings.TrimSpace(load), "\n")
	if len(storeLines) != 8 || len(loadLines) != 8 {
		t.Fatalf("expected 4 registers spilled:\n%s\n--\n%s", store, load)
	}
	wantStore := []string{"0x1 Py.Vars", "0x2 Py.Vars", "0x3 Py.Vars", "0x5 Py.Temp"}
	for i, w := range wantStore {
		if !strings.HasSuffix(storeLines[2*i], w) {
			t.Errorf("store[%d] = %q, want suffix %q", i, storeLines[2*i], w)
		}
	}
	if !strings.Contains(storeLines[7], "LocalTemp append") {
		t.Errorf("temp spilled to wrong list: %q", storeLines[7])
	}
	wantLoad := []string{"0x5 Py.Temp", "0x3 Py.Vars", "0x2 Py.Vars", "0x1 Py.Vars"}
	for i, w := range wantLoad {
		if !strings.HasPrefix(loadLines[2*i], "execute store result score "+w) {
			t.Errorf("load[%d] = %q, want %q", i, loadLines[2*i], w)
		}
	}
	if loadLines[1] != "data remove storage mcfc:runtime LocalTemp[-1]" {
		t.Errorf("load[1] = %q", loadLines[1])
	}
}

func TestSnapshotOrder(t *testing.T) {
	tbl := newTable(t)
	mod := Join(root, "module")
	mustSet(t, tbl, "b", mod+".b", mod, KindVariable)
	mustSet(t, tbl, "a", mod+".a", mod, KindVariable)
	snap := tbl.Snapshot()
	if len(snap) != 1 || snap[0].Name != root {
		t.Fatalf("roots = %+v", snap)
	}
	kids := snap[0].Children[0].Children
	if len(kids) != 2 || kids[0].Name != "b" || kids[1].Kind != "variable" {
		t.Fatalf("children = %+v", kids)
	}
}

func TestPathHelpers(t *testing.T) {
	p := Join("src:main", "module", "f")
	if parent, name := Split(p); parent != `src:main\module` || name != "f" {
		t.Fatalf("Split = %q %q", parent, name)
	}
	if Base(p) != "src" || Module(p) != "main" {
		t.Fatalf("Base/Module = %q %q", Base(p), Module(p))
	}
}
