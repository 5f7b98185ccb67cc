package driver

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"mcfc/internal/codegen"
	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/trace"
)

func testFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func compile(t *testing.T, files map[string]string, obs PhaseObserver) *Unit {
	t.Helper()
	u, err := CompileUnit(context.Background(), Request{
		Entry:     "main",
		SourceDir: "src",
		Source:    testFS(files),
		Observer:  obs,
	})
	if err != nil {
		t.Fatalf("CompileUnit: %v", err)
	}
	return u
}

func TestCompileUnitWritesPack(t *testing.T) {
	var phases []string
	u := compile(t, map[string]string{
		"main.py": "import lib\nx = lib.inc(1)\n",
		"lib.py":  "def inc(n):\n    return n + 1\n",
	}, func(ev PhaseEvent) {
		if ev.Status == PhaseEnd {
			phases = append(phases, ev.Name)
		}
	})
	if u.Failed() {
		t.Fatalf("unit failed: %v %v", u.Err, u.Bag.Items())
	}
	if want := []string{PhaseParse, PhaseGenerate, PhaseWrite}; !slices.Equal(phases, want) {
		t.Errorf("phases = %v, want %v", phases, want)
	}
	mem := u.Sink.(*datapack.MemSink)
	for _, name := range []string{
		"pack.mcmeta",
		"data/minecraft/tags/function/load.json",
		"data/source_code/function/mcfc/init.mcfunction",
		"data/source_code/function/main/module.mcfunction",
		"data/source_code/function/lib/module/inc.mcfunction",
	} {
		if _, ok := mem.Read(name); !ok {
			t.Errorf("%s missing; have %v", name, mem.Files())
		}
	}
	if got := len(u.Timer.Report().Phases); got != 3 {
		t.Errorf("timer has %d phases", got)
	}
}

func TestCompileUnitFailures(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  diag.Code
	}{
		{"missing entry", map[string]string{}, diag.IOLoadFileError},
		{"syntax", map[string]string{"main.py": "x = (1\n"}, 0},
		{"generate", map[string]string{"main.py": "y = x\n"}, diag.GenUnresolved},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := compile(t, tt.files, nil)
			if u.Err == nil || !u.Failed() {
				t.Fatalf("unit did not fail")
			}
			found := tt.code == 0 && u.Bag.HasErrors()
			for _, d := range u.Bag.Items() {
				if d.Code == tt.code {
					found = true
					if help, ok := codeHelp[d.Code]; ok && d.Help != help {
						t.Errorf("help = %q", d.Help)
					}
				}
			}
			if !found {
				t.Errorf("no %s in %v", tt.code.ID(), u.Bag.Items())
			}
		})
	}
}

type recordTracer struct{ events []trace.Event }

func (r *recordTracer) Emit(ev *trace.Event) { r.events = append(r.events, *ev) }
func (r *recordTracer) Flush() error         { return nil }
func (r *recordTracer) Close() error         { return nil }
func (r *recordTracer) Level() trace.Level   { return trace.LevelDebug }
func (r *recordTracer) Enabled() bool        { return true }

func TestDiagnosticsReachTrace(t *testing.T) {
	rec := &recordTracer{}
	ctx := trace.WithTracer(context.Background(), rec)
	root := trace.Begin(rec, trace.ScopeDriver, "compile", 0)
	ctx = trace.WithParent(ctx, root)

	u, err := CompileUnit(ctx, Request{Entry: "main", Source: testFS(map[string]string{"main.py": "y = x\n"})})
	if err != nil {
		t.Fatal(err)
	}
	root.End("")
	if u.Err == nil {
		t.Fatal("expected generate failure")
	}

	var unitID uint64
	sawDiag := false
	for _, ev := range rec.events {
		if ev.Kind == trace.KindSpanBegin && ev.Name == "unit:main" {
			if ev.ParentID != root.ID() {
				t.Errorf("unit span parent = %d, want %d", ev.ParentID, root.ID())
			}
			unitID = ev.SpanID
		}
		if ev.Kind == trace.KindPoint && ev.Name == "diag:error" {
			sawDiag = true
			if ev.ParentID != unitID {
				t.Errorf("diag point parent = %d, want %d", ev.ParentID, unitID)
			}
		}
	}
	if unitID == 0 || !sawDiag {
		t.Fatalf("missing unit span or diag point in %d events", len(rec.events))
	}
}

func TestCompileErrorKeepsFrames(t *testing.T) {
	u := compile(t, map[string]string{"main.py": "def f():\n    return y\n"}, nil)
	var ce *codegen.CompileError
	if !errors.As(u.Err, &ce) || len(ce.Frames) < 3 {
		t.Fatalf("err = %v", u.Err)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	u := compile(t, map[string]string{
		"main.py": "from builtin import tprint\ndef f(a, b=2):\n    return a + b\nr = f(1)\ntprint(r)\n",
	}, nil)
	if u.Failed() {
		t.Fatalf("unit failed: %v", u.Err)
	}
	snap := TakeSnapshot(u)
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		t.Fatalf("encode: %v", err)
	}
	got, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Entry != "main" || got.Digest != snap.Digest || got.Digest.IsZero() {
		t.Errorf("header = %s %s", got.Entry, got.DigestHex())
	}
	if len(got.Functions) != 1 || got.Functions[0].Path != "source_code:main/module/f" {
		t.Errorf("functions = %+v", got.Functions)
	}
	if p := got.Functions[0].Params; len(p) != 2 || p[1].Default != 2 {
		t.Errorf("params = %+v", p)
	}
	if len(got.Modules) != 2 || got.Modules[1].Kind != "template" {
		t.Errorf("modules = %+v", got.Modules)
	}
	if got.Codec.Next != snap.Codec.Next || len(got.Names) != len(snap.Names) {
		t.Errorf("codec/names differ after round trip")
	}
}

func TestDecodeSnapshotSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, &Snapshot{Schema: 99}); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(&buf); !errors.Is(err, ErrSnapshotSchema) {
		t.Errorf("err = %v", err)
	}
}

func TestModuleName(t *testing.T) {
	tests := []struct {
		dir, path, want string
		fail            bool
	}{
		{"src", "src/main.py", "main", false},
		{"src", "src/game/loop.py", "game.loop", false},
		{"src", "other/x.py", "", true},
	}
	for _, tt := range tests {
		got, err := ModuleName(tt.dir, tt.path)
		if (err != nil) != tt.fail || got != tt.want {
			t.Errorf("ModuleName(%s, %s) = %q, %v", tt.dir, tt.path, got, err)
		}
	}
}
