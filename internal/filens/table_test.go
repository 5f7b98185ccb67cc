package filens

import (
	"errors"
	"testing"
)

func buildTree(t *testing.T) *Table {
	t.Helper()
	tbl := NewTable()
	if _, err := tbl.InitRoot("main", LevelNone, TypeFolder, "src:main"); err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		name, parent string
		level        Level
		typ          Type
	}{
		{"module.mcfunction", "main", LevelModule, TypeMCFunction},
		{"module", "main", LevelModule, TypeFolder},
		{"f", `main\module`, LevelFunction, TypeFolder},
		{"f.mcfunction", `main\module`, LevelFunction, TypeMCFunction},
		{".if", `main\module\f`, LevelIf, TypeFolder},
	}
	for _, s := range steps {
		if _, err := tbl.Set(s.name, Join(s.parent, s.name), s.parent, s.level, s.typ, "src:main"); err != nil {
			t.Fatalf("Set %s: %v", s.name, err)
		}
	}
	return tbl
}

func TestSetAndNode(t *testing.T) {
	tbl := buildTree(t)
	n, err := tbl.Node(`main\module\f\.if`)
	if err != nil {
		t.Fatal(err)
	}
	if n.Level != LevelIf || n.Type != TypeFolder || n.Path != `main\module\f\.if` {
		t.Fatalf("node = %+v", n)
	}
	_, err = tbl.Set("x", "x", `main\nope`, LevelNone, TypeFolder, "")
	var le *LookupError
	if !errors.As(err, &le) {
		t.Fatalf("expected LookupError, got %v", err)
	}
}

func TestGetDeepestWins(t *testing.T) {
	tbl := buildTree(t)
	// "f.mcfunction" exists only under module
	n, where, err := tbl.Get("f.mcfunction", `main\module\f\.if`)
	if err != nil {
		t.Fatal(err)
	}
	if where != `main\module` || n.Level != LevelFunction {
		t.Fatalf("Get = %+v at %q", n, where)
	}
	if _, _, err := tbl.Get("g", `main\module`); err == nil {
		t.Fatal("expected miss")
	}
}

func TestLinksAndRecords(t *testing.T) {
	tbl := buildTree(t)
	arm := func() {
		t.Helper()
		if _, err := tbl.Set("f.mcfunction"+LinkSuffix, `main\module\f`, `main\module`, LevelFunction, TypeLink, "src:main"); err != nil {
			t.Fatal(err)
		}
	}
	arm()
	links, err := tbl.DrainLinks(`main\module`)
	if err != nil {
		t.Fatal(err)
	}
	if len(links) != 1 || links[0].Target != `main\module\f` {
		t.Fatalf("links = %+v", links)
	}
	if again, _ := tbl.DrainLinks(`main\module`); len(again) != 0 {
		t.Fatalf("drained link returned again: %+v", again)
	}
	arm()
	if again, _ := tbl.DrainLinks(`main\module`); len(again) != 1 {
		t.Fatalf("second call site not armed: %+v", again)
	}

	for i := uint64(1); i <= 3; i++ {
		if err := tbl.Raise(`main\module\f`, Record{ID: i, Tag: "return"}); err != nil {
			t.Fatal(err)
		}
	}
	// same record from a second file of the block
	if err := tbl.Raise(`main\module\f`, Record{ID: 2, Tag: "return"}); err != nil {
		t.Fatal(err)
	}
	if tbl.Pending(`main\module\f`) != 3 {
		t.Fatal("expected 3 pending")
	}
	copied, err := tbl.Records(`main\module\f`)
	if err != nil {
		t.Fatal(err)
	}
	copied[0].Tag = "changed"
	if tbl.Pending(`main\module\f`) != 3 {
		t.Fatal("Records cleared the node")
	}
	recs, err := tbl.Take(`main\module\f`)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 || recs[0].ID != 1 || recs[2].ID != 3 || recs[0].Tag != "return" {
		t.Fatalf("records out of order: %+v", recs)
	}
	if again, _ := tbl.Take(`main\module\f`); len(again) != 0 {
		t.Fatal("Take did not clear records")
	}
}

func TestRaiseKeepsUnnumberedRecords(t *testing.T) {
	tbl := buildTree(t)
	for range 2 {
		if err := tbl.Raise(`main\module`, Record{Tag: "return"}); err != nil {
			t.Fatal(err)
		}
	}
	if got := tbl.Pending(`main\module`); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
}

func TestFunctionPath(t *testing.T) {
	if got := FunctionPath("src", `main\module\.if\3-else.mcfunction`); got != "src:main/module/.if/3-else" {
		t.Fatalf("FunctionPath = %q", got)
	}
	if Parent(`main\module\f`) != `main\module` || Parent("main") != "" {
		t.Fatal("Parent")
	}
}

func TestSnapshot(t *testing.T) {
	tbl := buildTree(t)
	snap := tbl.Snapshot()
	if len(snap) != 1 || len(snap[0].Children) != 2 {
		t.Fatalf("snapshot = %+v", snap)
	}
	if snap[0].Children[1].Children[0].Level != "function" {
		t.Fatalf("level lost: %+v", snap[0].Children[1])
	}
}
