package buildpipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/hashicorp/go-multierror"

	"mcfc/internal/codegen"
	"mcfc/internal/mcvm"
)

func mapFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func request(files map[string]string, entries ...string) CompileRequest {
	cfg := codegen.DefaultConfig()
	cfg.Comments = false
	return CompileRequest{
		Entries:   entries,
		SourceDir: "src",
		Source:    mapFS(files),
		Config:    cfg,
		Jobs:      2,
	}
}

func TestCompileMergesEntries(t *testing.T) {
	rec := &Recorder{}
	req := request(map[string]string{
		"a.py": "x = 1\n",
		"b.py": "y = 2\n",
	}, "a", "b")
	req.Progress = rec
	res, err := Compile(context.Background(), &req)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	for _, name := range []string{
		"data/source_code/function/a/module.mcfunction",
		"data/source_code/function/b/module.mcfunction",
		"data/source_code/function/mcfc/init.mcfunction",
		"pack.mcmeta",
	} {
		if _, ok := res.Pack.Read(name); !ok {
			t.Errorf("%s missing from the merged pack", name)
		}
	}
	if res.Units[0].Entry != "a" || res.Units[1].Entry != "b" {
		t.Errorf("units out of entry order")
	}
	var done []string
	for _, ev := range rec.Events() {
		if ev.Stage == StageWrite && ev.Status == StatusDone {
			done = append(done, ev.File)
		}
	}
	slices.Sort(done)
	if !slices.Equal(done, []string{"a", "b"}) {
		t.Errorf("write done for %v", done)
	}
	if !res.Timings.Has(StageGenerate) {
		t.Errorf("no generate timing")
	}
}

func TestEntriesKeepSeparateRegisters(t *testing.T) {
	req := request(map[string]string{
		"a.py": "x = 1\n",
		"b.py": "y = 2\n",
	}, "a", "b")
	res, err := Compile(context.Background(), &req)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	m, err := mcvm.New(res.Pack.Functions(), mcvm.Options{})
	if err != nil {
		t.Fatal(err)
	}
	rt := res.Units[0].State.Config.Runtime()
	for _, fn := range []string{rt.InitFunction(), EntryFunction(rt.Base, "a"), EntryFunction(rt.Base, "b")} {
		if _, err := m.Run(fn); err != nil {
			t.Fatalf("run %s: %v", fn, err)
		}
	}
	for i, want := range []struct {
		name  string
		value int32
	}{{`source_code:a\module.x`, 1}, {`source_code:b\module.y`, 2}} {
		st := res.Units[i].State
		code, err := st.Codec.Lookup(want.name, st.Config.Banks.Vars)
		if err != nil {
			t.Fatal(err)
		}
		if v, ok := m.Score(code, st.Config.Banks.Vars); !ok || v != want.value {
			t.Errorf("%s (%s) = %d %v, want %d", want.name, code, v, ok, want.value)
		}
	}
	ca := res.Units[0].State.Codec.Snapshot()
	cb := res.Units[1].State.Codec.Snapshot()
	if ca.Prefix == cb.Prefix {
		t.Errorf("entries share code prefix %q", ca.Prefix)
	}
}

func TestSingleEntryHasNoCodePrefix(t *testing.T) {
	req := request(map[string]string{"main.py": "x = 1\n"}, "main")
	res, err := Compile(context.Background(), &req)
	if err != nil {
		t.Fatal(err)
	}
	if p := res.Units[0].State.Codec.Snapshot().Prefix; p != "" {
		t.Errorf("prefix = %q", p)
	}
}

func TestCompileAggregatesFailures(t *testing.T) {
	req := request(map[string]string{
		"ok.py":  "x = 1\n",
		"bad.py": "y = nope\n",
		"syn.py": "def (\n",
	}, "bad", "ok", "syn")
	res, err := Compile(context.Background(), &req)
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		t.Fatalf("err = %v", err)
	}
	if len(merr.Errors) != 2 {
		t.Errorf("%d errors, want 2: %v", len(merr.Errors), merr)
	}
	if !strings.Contains(merr.Errors[0].Error(), "bad:") || !strings.Contains(merr.Errors[1].Error(), "syn:") {
		t.Errorf("errors = %v", merr.Errors)
	}
	if _, ok := res.Pack.Read("data/source_code/function/ok/module.mcfunction"); !ok {
		t.Errorf("healthy entry was not merged")
	}
}

func TestCompileDetectsConflicts(t *testing.T) {
	// both entries compile lib with their own registers
	req := request(map[string]string{
		"a.py":   "p = 1\nimport lib\n",
		"b.py":   "import lib\n",
		"lib.py": "v = 3\n",
	}, "a", "b")
	res, err := Compile(context.Background(), &req)
	if err == nil || !strings.Contains(err.Error(), "generated differently") {
		t.Fatalf("err = %v", err)
	}
	if !res.Units[1].Bag.HasErrors() {
		t.Errorf("conflict not reported on the second entry")
	}
}

func TestBuildWritesDir(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "data", "source_code", "function", "old.mcfunction")
	if err := os.MkdirAll(filepath.Dir(stale), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(stale, []byte("say old\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	res, err := Build(context.Background(), &BuildRequest{
		CompileRequest: request(map[string]string{"main.py": "x = 1\n"}, "main"),
		OutputDir:      out,
		Clean:          true,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if res.Files != 4 {
		t.Errorf("wrote %d files", res.Files)
	}
	if _, err := os.Stat(filepath.Join(out, "data", "source_code", "function", "main", "module.mcfunction")); err != nil {
		t.Errorf("module not written: %v", err)
	}
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Errorf("stale function kept: %v", err)
	}
}

func TestRun(t *testing.T) {
	_, err := Run(context.Background(), &RunRequest{
		CompileRequest: request(map[string]string{
			"game/main.py": "from builtin import tprint\ndef sq(n):\n    return n * n\ntprint(\"sq\", sq(7))\n",
		}, "game.main"),
	})
	if err == nil {
		t.Fatalf("template call with a call argument compiled")
	}
	res, err := Run(context.Background(), &RunRequest{
		CompileRequest: request(map[string]string{
			"game/main.py": "from builtin import tprint\ndef sq(n):\n    return n * n\nr = sq(7)\ntprint(\"sq\", r)\n",
		}, "game.main"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if chat := res.Machine.Chat(); !slices.Equal(chat, []string{"sq 49"}) {
		t.Errorf("chat = %q", chat)
	}
	if res.Stats.Calls["source_code:game.main/module/sq"] != 1 {
		t.Errorf("calls = %v", res.Stats.Calls)
	}
}

func TestEntryFunction(t *testing.T) {
	if got := EntryFunction("ns", "pkg.mod"); got != "ns:pkg.mod/module" {
		t.Errorf("EntryFunction = %s", got)
	}
}
