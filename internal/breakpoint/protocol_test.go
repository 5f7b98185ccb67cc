package breakpoint

import (
	"strings"
	"testing"

	"mcfc/internal/filens"
	"mcfc/internal/scoreboard"
)

type manualProc struct{}

func (manualProc) Split(_ Context, _ filens.Record, cont string) (Split, error) {
	return Split{Code: "tellraw @a \"continue: " + cont + "\"\n", Manual: true}, nil
}

func (manualProc) Raise(ctx Context, _ filens.Record) (string, bool, error) {
	return "", ctx.Level != filens.LevelModule, nil
}

type fixture struct {
	files *filens.Table
	codec *scoreboard.Codec
	proto *Protocol
	ctx   Context
	warns []filens.Record
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{files: filens.NewTable(), codec: scoreboard.NewCodec("Py.Flags")}
	if _, err := f.files.InitRoot("main", filens.LevelNone, filens.TypeFolder, "src:main"); err != nil {
		t.Fatal(err)
	}
	for _, s := range []struct {
		name, parent string
		level        filens.Level
	}{
		{"module", "main", filens.LevelModule},
		{"f", `main\module`, filens.LevelFunction},
		{".if", `main\module\f`, filens.LevelIf},
		{"1.mcfunction", `main\module\f\.if`, filens.LevelIf},
	} {
		if _, err := f.files.Set(s.name, filens.Join(s.parent, s.name), s.parent, s.level, filens.TypeFolder, "src:main"); err != nil {
			t.Fatal(err)
		}
	}
	f.proto = &Protocol{
		Files:     f.files,
		Registry:  Default(),
		OnUnknown: func(rec filens.Record) { f.warns = append(f.warns, rec) },
	}
	f.ctx = Context{Codec: f.codec, FlagsBank: "Py.Flags", True: "True"}
	return f
}

func (f *fixture) flag(name string) filens.Record {
	f.codec.ResolveOrAllocate(name, "Py.Temp")
	return filens.Record{Tag: ReturnTag, Name: name, Objective: "Py.Temp"}
}

func TestReturnAbsorbedAtFunction(t *testing.T) {
	f := newFixture(t)
	rec := f.flag("bp1")
	code, err := f.proto.Finalize(f.ctx, []filens.Record{rec}, filens.LevelFunction, `main\module`)
	if err != nil {
		t.Fatal(err)
	}
	if code != "scoreboard players reset 0x1 Py.Temp\n" {
		t.Fatalf("code = %q", code)
	}
	if f.files.Pending(`main\module`) != 0 {
		t.Fatal("absorbed record propagated")
	}
}

func TestReturnRaisedFromIf(t *testing.T) {
	f := newFixture(t)
	rec := f.flag("bp1")
	branch := `main\module\f\.if\1.mcfunction`
	if err := f.files.Raise(branch, rec); err != nil {
		t.Fatal(err)
	}
	recs, err := f.proto.Pending(branch)
	if err != nil || len(recs) != 1 {
		t.Fatalf("Pending = %v, %v", recs, err)
	}
	code, err := f.proto.Finalize(f.ctx, recs, filens.LevelIf, `main\module\f`)
	if err != nil {
		t.Fatal(err)
	}
	if code != "" {
		t.Fatalf("if level emitted %q", code)
	}
	if f.files.Pending(`main\module\f`) != 1 {
		t.Fatal("record did not reach the function block")
	}
}

func TestDispatchCombinesGuards(t *testing.T) {
	f := newFixture(t)
	recs := []filens.Record{f.flag("a"), f.flag("b"), {Tag: "mystery"}}
	code, kept, err := f.proto.Dispatch(f.ctx, recs, "src:main/module-1")
	if err != nil || len(kept) != 2 {
		t.Fatalf("Dispatch: %v %v", kept, err)
	}
	want := "execute unless score 0x1 Py.Temp = True Py.Flags unless score 0x2 Py.Temp = True Py.Flags run function src:main/module-1\n"
	if code != want {
		t.Fatalf("code:\n got %q\nwant %q", code, want)
	}
	if len(f.warns) != 1 || f.warns[0].Tag != "mystery" {
		t.Fatalf("warns = %+v", f.warns)
	}

	if code, kept, _ := f.proto.Dispatch(f.ctx, []filens.Record{{Tag: "mystery"}}, "x"); code != "" || kept != nil {
		t.Fatal("dispatch with only unknown tags must not split")
	}
}

func TestManualProcessorSuppressesDispatch(t *testing.T) {
	f := newFixture(t)
	if replaced := f.proto.Registry.Register("breakpoint", manualProc{}); replaced {
		t.Fatal("fresh tag reported as replaced")
	}
	if replaced := f.proto.Registry.Register("breakpoint", manualProc{}); !replaced {
		t.Fatal("re-registration not reported")
	}
	recs := []filens.Record{f.flag("a"), {Tag: "breakpoint"}}
	code, kept, err := f.proto.Dispatch(f.ctx, recs, "src:main/module-2")
	if err != nil || len(kept) != 2 {
		t.Fatalf("Dispatch: %v %v", kept, err)
	}
	if strings.Contains(code, "run function") {
		t.Fatalf("manual split still dispatched: %q", code)
	}
	if !strings.Contains(code, "continue: src:main/module-2") {
		t.Fatalf("manual code missing: %q", code)
	}
}

func TestPendingFollowsLinks(t *testing.T) {
	f := newFixture(t)
	if _, err := f.files.Set("f.mcfunction"+filens.LinkSuffix, `main\module\f`, `main\module`,
		filens.LevelFunction, filens.TypeLink, "src:main"); err != nil {
		t.Fatal(err)
	}
	if err := f.files.Raise(`main\module\f`, filens.Record{ID: 2, Tag: "breakpoint"}); err != nil {
		t.Fatal(err)
	}
	if err := f.files.Raise(`main\module`, filens.Record{ID: 1, Tag: ReturnTag}); err != nil {
		t.Fatal(err)
	}
	recs, err := f.proto.Pending(`main\module`)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 || recs[0].ID != 1 || recs[1].ID != 2 {
		t.Fatalf("Pending = %+v", recs)
	}
	if f.files.Pending(`main\module\f`) != 1 {
		t.Fatal("function records taken by the first call site")
	}
	if f.files.Pending(`main\module`) != 0 {
		t.Fatal("block records not removed")
	}
	recs, err = f.proto.Pending(`main\module`)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 0 {
		t.Fatalf("drained link followed again: %+v", recs)
	}
	if _, err := f.files.Set("f.mcfunction"+filens.LinkSuffix, `main\module\f`, `main\module`,
		filens.LevelFunction, filens.TypeLink, "src:main"); err != nil {
		t.Fatal(err)
	}
	recs, err = f.proto.Pending(`main\module`)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 || recs[0].ID != 2 {
		t.Fatalf("second call site = %+v", recs)
	}
}
