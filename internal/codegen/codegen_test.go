package codegen

import (
	"errors"
	"io"
	"regexp"
	"slices"
	"strings"
	"testing"
	"testing/fstest"

	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/mcvm"
)

type compiled struct {
	st   *State
	sink *datapack.MemSink
	bag  *diag.Bag
}

func compileFiles(t *testing.T, files map[string]string) (*compiled, error) {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	cfg := DefaultConfig()
	cfg.Comments = false
	sink := datapack.NewMemSink()
	bag := diag.NewBag(64)
	st := NewState(Options{
		Config:    cfg,
		Sink:      sink,
		Reporter:  diag.BagReporter{Bag: bag},
		Source:    fsys,
		SourceDir: "src",
	})
	_, err := NewGenerator().CompileModule(st, "main")
	return &compiled{st: st, sink: sink, bag: bag}, err
}

func mustCompile(t *testing.T, files map[string]string) *compiled {
	t.Helper()
	c, err := compileFiles(t, files)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return c
}

func (c *compiled) file(t *testing.T, fnsPath string) string {
	t.Helper()
	b, ok := c.sink.Read(datapack.FunctionFile(c.st.Config.Base, fnsPath))
	if !ok {
		t.Fatalf("%s was not written; have %v", fnsPath, c.sink.Files())
	}
	return string(b)
}

// run bootstraps the runtime and executes the main module.
func (c *compiled) run(t *testing.T) (*mcvm.Machine, mcvm.Stats) {
	t.Helper()
	rt := c.st.Config.Runtime()
	if err := datapack.Bootstrap(c.sink, rt); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	m, err := mcvm.New(c.sink.Functions(), mcvm.Options{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := m.Run(rt.InitFunction()); err != nil {
		t.Fatalf("init: %v", err)
	}
	stats, err := m.Run(c.st.Config.Base + ":main/module")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return m, stats
}

// value reads a variable after a run.
func (c *compiled) value(t *testing.T, m *mcvm.Machine, target string) int32 {
	t.Helper()
	code, err := c.st.Codec.Lookup(target, c.st.Config.Banks.Vars)
	if err != nil {
		t.Fatalf("%s has no register: %v", target, err)
	}
	v, ok := m.Score(code, c.st.Config.Banks.Vars)
	if !ok {
		t.Fatalf("%s (%s) is unset", target, code)
	}
	return v
}

// clean checks that no temporaries leaked at compile time or run time.
func (c *compiled) clean(t *testing.T, m *mcvm.Machine) {
	t.Helper()
	if leaks := c.st.Leaks(); len(leaks) != 0 {
		t.Errorf("temp lists not empty: %+v", leaks)
	}
	cfg := c.st.Config
	if left := m.Holders(cfg.Banks.Temp); len(left) != 0 {
		t.Errorf("temp registers still set: %v", left)
	}
	for _, l := range []string{cfg.Storage.LocalVars, cfg.Storage.LocalTemp} {
		if got, _ := m.List(cfg.Storage.Root, l); len(got) != 0 {
			t.Errorf("storage %s not empty: %v", l, got)
		}
	}
}

const mainScope = `source_code:main\module`

func TestBinOpKeepsLeftOperandInTemp(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": "x = 3 + 4 * 2\n"})
	want := strings.Join([]string{
		"scoreboard players set 0x1 Py.Temp 3",
		"scoreboard players operation 0x2 Py.Temp = 0x1 Py.Temp",
		"scoreboard players reset 0x1 Py.Temp",
		"scoreboard players set 0x1 Py.Temp 4",
		"scoreboard players operation 0x3 Py.Temp = 0x1 Py.Temp",
		"scoreboard players reset 0x1 Py.Temp",
		"scoreboard players set 0x1 Py.Temp 2",
		"scoreboard players operation 0x3 Py.Temp *= 0x1 Py.Temp",
		"scoreboard players reset 0x1 Py.Temp",
		"scoreboard players operation 0x1 Py.Temp = 0x3 Py.Temp",
		"scoreboard players reset 0x3 Py.Temp",
		"scoreboard players operation 0x2 Py.Temp += 0x1 Py.Temp",
		"scoreboard players reset 0x1 Py.Temp",
		"scoreboard players operation 0x1 Py.Temp = 0x2 Py.Temp",
		"scoreboard players reset 0x2 Py.Temp",
		"scoreboard players operation 0x4 Py.Vars = 0x1 Py.Temp",
		"scoreboard players reset 0x1 Py.Temp",
	}, "\n") + "\n"
	if got := c.file(t, `main\module.mcfunction`); got != want {
		t.Errorf("module body:\n%s\nwant:\n%s", got, want)
	}
	m, _ := c.run(t)
	if x := c.value(t, m, mainScope+".x"); x != 11 {
		t.Errorf("x = %d, want 11", x)
	}
	c.clean(t, m)
}

func TestFactorial(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
def fact(n):
    if n <= 1:
        return 1
    return n * fact(n - 1)

r = fact(5)
`})
	m, stats := c.run(t)
	if r := c.value(t, m, mainScope+".r"); r != 120 {
		t.Errorf("fact(5) = %d, want 120", r)
	}
	if n := stats.Calls["source_code:main/module/fact"]; n != 5 {
		t.Errorf("fact entered %d times, want 5", n)
	}
	c.clean(t, m)

	body := c.file(t, `main\module\fact.mcfunction`)
	if !strings.Contains(body, "run function source_code:main/module/fact-2") {
		t.Errorf("no guarded continuation after the if:\n%s", body)
	}
	cont := c.file(t, `main\module\fact-2.mcfunction`)
	if !strings.Contains(cont, "append from storage mcfc:runtime Temp") {
		t.Errorf("recursive call does not spill locals:\n%s", cont)
	}
}

func TestSpillRestoresLocals(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
def one():
    return 1

def f(a):
    b = a + 10
    c = one()
    return a + b + c

r = f(5)
`})
	m, _ := c.run(t)
	if r := c.value(t, m, mainScope+".r"); r != 21 {
		t.Errorf("f(5) = %d, want 21", r)
	}
	c.clean(t, m)
	body := c.file(t, `main\module\f.mcfunction`)
	if strings.Count(body, "append from storage") != 2 || strings.Count(body, "data remove storage") != 2 {
		t.Errorf("want a and b spilled around the call:\n%s", body)
	}
}

func TestEarlyReturns(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
def sign(n):
    if n < 0:
        return -1
    if n == 0:
        return 0
    return 1

a = sign(-4)
b = sign(0)
c = sign(9)
`})
	m, _ := c.run(t)
	for name, want := range map[string]int32{"a": -1, "b": 0, "c": 1} {
		if got := c.value(t, m, mainScope+"."+name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	c.clean(t, m)
}

func TestConditionsAndBoolOps(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
x = 7
if x > 5:
    y = 1
else:
    y = 2
if not x == 7 or x < 0:
    z = 1
elif x >= 7 and x != 8:
    z = 2
else:
    z = 3
w = -x % 3
`})
	m, _ := c.run(t)
	for name, want := range map[string]int32{"y": 1, "z": 2, "w": 2} {
		if got := c.value(t, m, mainScope+"."+name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	c.clean(t, m)
}

func TestCallBinding(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
def g(a, b=3, c=None):
    return a * b

r1 = g(2)
r2 = g(2, b=5)
r3 = g(b=4, a=g(1, 2))
`})
	m, _ := c.run(t)
	for name, want := range map[string]int32{"r1": 6, "r2": 10, "r3": 8} {
		if got := c.value(t, m, mainScope+"."+name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	c.clean(t, m)

	info := c.st.FuncArgs[mainScope+`\g`]
	if info == nil || len(info.Params) != 3 {
		t.Fatalf("g params = %+v", info)
	}
	if b := info.Params[1]; b.Binding != DefaultValue || b.Default != 3 {
		t.Errorf("b = %+v", b)
	}
	if info.Params[2].Binding != DefaultOmit {
		t.Errorf("c = %+v", info.Params[2])
	}
}

func TestCallBindingErrors(t *testing.T) {
	const def = "def g(a, b=3):\n    return a\n"
	tests := []struct {
		call string
		code diag.Code
		msg  string
	}{
		{"g()", diag.GenMissingArg, "'a'"},
		{"g(1, a=2)", diag.GenDuplicateArg, "'a'"},
		{"g(1, d=2)", diag.GenUnknownKeyword, "'d'"},
		{"g(1, 2, 3)", diag.GenTooManyArgs, "unexpected Constant(value=3)"},
		{"g(1, 2, x + 1)", diag.GenTooManyArgs, "unexpected BinOp("},
		{"h(1)", diag.GenUnresolved, ""},
		{"x = 1\nx()", diag.GenUnregisteredFunction, ""},
	}
	for _, tt := range tests {
		_, err := compileFiles(t, map[string]string{"main.py": def + tt.call + "\n"})
		if err == nil {
			t.Errorf("%s: compiled", tt.call)
			continue
		}
		if got := CodeOf(err); got != tt.code {
			t.Errorf("%s: code %s, want %s (%v)", tt.call, got.ID(), tt.code.ID(), err)
		}
		if !strings.Contains(err.Error(), tt.msg) {
			t.Errorf("%s: message %q does not mention %s", tt.call, err.Error(), tt.msg)
		}
	}
}

func TestCompileErrorFrames(t *testing.T) {
	_, err := compileFiles(t, map[string]string{"main.py": `
def f(n):
    if n > missing:
        return 1
    return 0
`})
	var ce *CompileError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v", err)
	}
	var nodes []string
	for _, fr := range ce.Frames {
		nodes = append(nodes, fr.Node)
	}
	want := []string{"Name", "Compare", "If", "FunctionDef", "Module"}
	if !slices.Equal(nodes, want) {
		t.Errorf("frames = %v, want %v", nodes, want)
	}
	if ce.Frames[2].Namespace != mainScope+`\f` {
		t.Errorf("If frame namespace = %s", ce.Frames[2].Namespace)
	}
	if CodeOf(err) != diag.GenUnresolved || SpanOf(err).Empty() {
		t.Errorf("code %s span %v", CodeOf(err).ID(), SpanOf(err))
	}
}

type brokenSink struct{}

func (brokenSink) MkdirAll(string) error                 { return nil }
func (brokenSink) Create(string) (io.WriteCloser, error) { return nil, errors.New("disk full") }

func TestFailedBlockKeepsPartialOutput(t *testing.T) {
	c, err := compileFiles(t, map[string]string{"main.py": "x = 1\ny = missing\n"})
	if CodeOf(err) != diag.GenUnresolved {
		t.Fatalf("err = %v", err)
	}
	if body := c.file(t, `main\module.mcfunction`); !strings.Contains(body, "scoreboard players set") {
		t.Errorf("statement before the error was not written:\n%s", body)
	}

	st := NewState(Options{
		Config:   DefaultConfig(),
		Sink:     brokenSink{},
		Reporter: diag.NopReporter{},
		Source:   fstest.MapFS{"main.py": &fstest.MapFile{Data: []byte("y = missing\n")}},
	})
	_, err = NewGenerator().CompileModule(st, "main")
	if CodeOf(err) != diag.GenUnresolved {
		t.Errorf("code = %s, want the statement error first", CodeOf(err).ID())
	}
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("write failure dropped: %v", err)
	}
}

func TestReturnOutsideFunction(t *testing.T) {
	_, err := compileFiles(t, map[string]string{"main.py": "x = 1\nreturn x\n"})
	if CodeOf(err) != diag.GenReturnOutsideFunction {
		t.Fatalf("err = %v", err)
	}
}

func TestGlobal(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
counter = 0
def bump():
    global counter
    counter += 1
bump()
bump()
`})
	m, _ := c.run(t)
	if got := c.value(t, m, mainScope+".counter"); got != 2 {
		t.Errorf("counter = %d, want 2", got)
	}
}

func TestModuleImports(t *testing.T) {
	c := mustCompile(t, map[string]string{
		"main.py": `
import util as u
from util import double
import util
import pkg.mod
from pkg import mod as m2
r1 = u.double(4)
r2 = double(5)
s = u.base
p = pkg.mod.triple(2) + m2.triple(1)
`,
		"util.py": "base = 100\ndef double(n):\n    return n * 2\n",
		"pkg/mod.py": "def triple(n):\n    return n * 3\n",
	})
	m, stats := c.run(t)
	for name, want := range map[string]int32{"r1": 8, "r2": 10, "s": 100, "p": 9} {
		if got := c.value(t, m, mainScope+"."+name); got != want {
			t.Errorf("%s = %d, want %d", name, got, want)
		}
	}
	if n := stats.Calls["source_code:util/module"]; n != 1 {
		t.Errorf("util body ran %d times, want 1", n)
	}
	if got := c.st.ModuleNames(); !slices.Equal(got, []string{"main", "util", "pkg.mod", "pkg"}) {
		t.Errorf("modules = %v", got)
	}
	cached := 0
	for _, d := range c.bag.Items() {
		if d.Code == diag.ImpAlreadyCompiled {
			cached++
		}
	}
	if cached != 3 {
		t.Errorf("%d already-compiled notes, want 3", cached)
	}
}

func TestImportErrors(t *testing.T) {
	tests := []struct {
		src  string
		code diag.Code
	}{
		{"import nothing\n", diag.ImpNotFound},
		{"from . import x\n", diag.ImpRelativeNotAllow},
		{"from util import nope\n", diag.ImpNameNotFound},
		{"import broken\n", diag.ImpSyntaxErrors},
		{"import marked\n", diag.ImpUnknownTemplate},
	}
	for _, tt := range tests {
		_, err := compileFiles(t, map[string]string{
			"main.py":   tt.src,
			"util.py":   "x = 1\n",
			"broken.py": "def (:\n",
			"marked.py": "# MCFC: Template no_such_module\n",
		})
		if got := CodeOf(err); got != tt.code {
			t.Errorf("%q: code %s, want %s (%v)", tt.src, got.ID(), tt.code.ID(), err)
		}
	}
}

func TestTemplatePrint(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
from builtin import tprint
x = 5
tprint("x =", x)
tprint("no newline", end="")
tprint(True)
`})
	m, _ := c.run(t)
	want := []string{"x = 5", "no newline↴", "↳True"}
	if got := m.Chat(); !slices.Equal(got, want) {
		t.Errorf("chat = %q, want %q", got, want)
	}
	c.clean(t, m)
}

func TestBreakpointSplitsModule(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
from builtin import tbreakpoint, tprint
tprint("a")
tbreakpoint()
tprint("b")
`})
	m, _ := c.run(t)
	chat := m.Chat()
	if len(chat) != 2 || chat[0] != "a" || !strings.Contains(chat[1], "source_code:main/module-1") {
		t.Fatalf("chat before continuing = %q", chat)
	}
	if _, err := m.Run("source_code:main/module-1"); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if chat = m.Chat(); chat[len(chat)-1] != "b" {
		t.Errorf("chat after continuing = %q", chat)
	}
	if c.bag.HasErrors() {
		t.Errorf("diagnostics: %v", c.bag.Items())
	}
}

var moduleCont = regexp.MustCompile(`source_code:main/module-[0-9a-f]+`)

// lastModuleCont returns the module continuation named by the newest link.
func lastModuleCont(t *testing.T, chat []string) string {
	t.Helper()
	for i := len(chat) - 1; i >= 0; i-- {
		if id := moduleCont.FindString(chat[i]); id != "" {
			return id
		}
	}
	t.Fatalf("no module continuation in %q", chat)
	return ""
}

func TestBreakpointInFunctionStopsEveryCaller(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": `
from builtin import tbreakpoint, tprint
def f():
    tbreakpoint()
    tprint("in f")
f()
tprint("after first")
f()
tprint("after second")
`})
	m, _ := c.run(t)
	if chat := m.Chat(); slices.Contains(chat, "after first") {
		t.Fatalf("first call did not stop: %q", chat)
	}
	first := lastModuleCont(t, m.Chat())
	if _, err := m.Run(first); err != nil {
		t.Fatalf("continue %s: %v", first, err)
	}
	chat := m.Chat()
	if !slices.Contains(chat, "after first") {
		t.Fatalf("%s did not resume: %q", first, chat)
	}
	if slices.Contains(chat, "after second") {
		t.Fatalf("second call did not stop: %q", chat)
	}
	second := lastModuleCont(t, chat)
	if second == first {
		t.Fatalf("second stop reuses %s", first)
	}
	if _, err := m.Run(second); err != nil {
		t.Fatalf("continue %s: %v", second, err)
	}
	if chat = m.Chat(); chat[len(chat)-1] != "after second" {
		t.Errorf("chat after second continue = %q", chat)
	}
	if c.bag.HasErrors() {
		t.Errorf("diagnostics: %v", c.bag.Items())
	}
}

func TestUnsupportedNodeKeepsGoing(t *testing.T) {
	c := mustCompile(t, map[string]string{"main.py": "x = 1\nwhile x:\n    pass\ny = [1]\n"})
	body := c.file(t, `main\module.mcfunction`)
	if !strings.Contains(body, `"text":"unsupported node: source_code:main\\module.While"`) {
		t.Errorf("no notice for While:\n%s", body)
	}
	warned := 0
	for _, d := range c.bag.Items() {
		if d.Code == diag.GenUnsupportedNode {
			warned++
		}
	}
	if warned != 2 {
		t.Errorf("%d unsupported-node warnings, want 2", warned)
	}
}

func TestModuleScopeOf(t *testing.T) {
	for in, want := range map[string]string{
		`b:m\module`:     `b:m\module`,
		`b:m\module\f\g`: `b:m\module`,
		`b:m`:            `b:m\module`,
	} {
		if got := moduleScopeOf(in); got != want {
			t.Errorf("moduleScopeOf(%s) = %s, want %s", in, got, want)
		}
	}
}
