package template

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"mcfc/internal/breakpoint"
	"mcfc/internal/diag"
	"mcfc/internal/filens"
	"mcfc/internal/scoreboard"
)

type raised struct{ tag, name, objective string }

func testEnv(t *testing.T) (*Env, *[]raised) {
	t.Helper()
	var recs []raised
	n := 0
	env := &Env{
		Codec:     scoreboard.NewCodec("Py.Flags"),
		Namespace: `src:main\module`,
		Result:    `src:main\module.?Result`,
		TempBank:  "Py.Temp",
		VarsBank:  "Py.Vars",
		FlagsBank: "Py.Flags",
		True:      "True",
		Unique: func(kind string) string {
			n++
			return `src:main\module.*` + kind + string(rune('0'+n))
		},
		Raise: func(tag, name, objective string) error {
			recs = append(recs, raised{tag, name, objective})
			return nil
		},
		State: make(map[string]string),
	}
	return env, &recs
}

func call(t *testing.T, env *Env, mod *Module, fn string, args ...Argument) (string, *Call) {
	t.Helper()
	f, ok := mod.Func(fn)
	if !ok {
		t.Fatalf("%s.%s missing", mod.Name, fn)
	}
	code, c, err := f.Invoke(env, args)
	if err != nil {
		t.Fatalf("%s: %v", fn, err)
	}
	return code, c
}

func pos(vs ...Value) []Argument {
	out := make([]Argument, len(vs))
	for i, v := range vs {
		out[i] = Argument{Value: v}
	}
	return out
}

func codeOf(err error) diag.Code {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return diag.UnknownCode
}

func TestBindLikePython(t *testing.T) {
	f := &Func{
		Name:     "f",
		Params:   []Param{req("a"), opt("b", Int(2))},
		Variadic: "rest",
		KwOnly:   []Param{opt("kw", String("x"))},
		Fn:       func(*Call) (string, error) { return "", nil },
	}
	env, _ := testEnv(t)
	c, err := f.Bind(env, append(pos(Int(1), Int(5), Int(6), Int(7)), Argument{Name: "kw", Value: String("y")}))
	if err != nil {
		t.Fatal(err)
	}
	if c.Arg("a").Int != 1 || c.Arg("b").Int != 5 || len(c.Rest()) != 2 || c.Arg("kw").Str != "y" {
		t.Fatalf("bound %+v rest %+v", c.args, c.Rest())
	}

	cases := []struct {
		name string
		args []Argument
		code diag.Code
	}{
		{"missing", nil, diag.TplArity},
		{"unknown keyword", append(pos(Int(1)), Argument{Name: "zz", Value: Int(1)}), diag.TplUnknownOption},
		{"duplicate", append(pos(Int(1)), Argument{Name: "a", Value: Int(1)}), diag.TplArity},
	}
	for _, tc := range cases {
		if _, err := f.Bind(env, tc.args); codeOf(err) != tc.code {
			t.Errorf("%s: err = %v, want code %s", tc.name, err, tc.code)
		}
	}

	noRest := &Func{Name: "g", Params: []Param{req("a")}}
	if _, err := noRest.Bind(env, pos(Int(1), Int(2))); codeOf(err) != diag.TplArity {
		t.Errorf("too many positionals: %v", err)
	}
}

func TestTprint(t *testing.T) {
	env, _ := testEnv(t)
	ref := Name(Ref{Name: "x", Code: "0x4", Bank: "Py.Vars"})
	code, c := call(t, env, Builtin(), "tprint", pos(String("x ="), ref)...)
	if c.WroteResult() {
		t.Fatal("tprint has no result")
	}
	want := `tellraw @a {"text":"","extra":[{"text":"x ="},{"text":" "},{"score":{"name":"0x4","objective":"Py.Vars"}}]}` + "\n"
	if code != want {
		t.Fatalf("code:\n got %s\nwant %s", code, want)
	}

	code, _ = call(t, env, Builtin(), "tprint", append(pos(Int(1)), Argument{Name: "end", Value: String("")})...)
	if !strings.Contains(code, "↴") {
		t.Fatalf("open line not marked: %s", code)
	}
	code, _ = call(t, env, Builtin(), "tprint", pos(Bool(true))...)
	if !strings.Contains(code, `{"text":"↳"},{"text":"True"}`) {
		t.Fatalf("continued line not marked: %s", code)
	}

	var parsed rawText
	body := strings.TrimSuffix(strings.TrimPrefix(code, "tellraw @a "), "\n")
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		t.Fatalf("tellraw payload is not JSON: %v", err)
	}
}

func TestTbreakpointRaisesRecord(t *testing.T) {
	env, recs := testEnv(t)
	env.Comments = true
	code, _ := call(t, env, Builtin(), "tbreakpoint")
	if !strings.HasPrefix(code, "# BP:breakpoint.Enable\n") {
		t.Fatalf("code = %q", code)
	}
	if !strings.Contains(code, "scoreboard players operation 0x1 Py.Temp = True Py.Flags\n") {
		t.Fatalf("flag not set: %q", code)
	}
	if len(*recs) != 1 || (*recs)[0].tag != BreakpointTag || (*recs)[0].objective != "Py.Temp" {
		t.Fatalf("records = %+v", *recs)
	}

	ctx := breakpoint.Context{Codec: env.Codec, FlagsBank: "Py.Flags", True: "True"}
	rec := filens.Record{Tag: BreakpointTag, Name: (*recs)[0].name, Objective: "Py.Temp"}
	split, err := Breakpoint{}.Split(ctx, rec, "src:main/module-1")
	if err != nil {
		t.Fatal(err)
	}
	if split.Guard != "unless score 0x1 Py.Temp = True Py.Flags" {
		t.Fatalf("guard = %q", split.Guard)
	}
	if !strings.HasPrefix(split.Code, "execute if score 0x1 Py.Temp = True Py.Flags run tellraw @a ") ||
		!strings.Contains(split.Code, `"/function src:main/module-1"`) {
		t.Fatalf("split code = %q", split.Code)
	}

	ctx.Level = filens.LevelFunction
	if _, keep, _ := (Breakpoint{}).Raise(ctx, rec); !keep {
		t.Fatal("function level must keep the breakpoint")
	}
	ctx.Level = filens.LevelModule
	code, keep, err := Breakpoint{}.Raise(ctx, rec)
	if err != nil || keep || code != "scoreboard players reset 0x1 Py.Temp\n" {
		t.Fatalf("module raise = %q %v %v", code, keep, err)
	}
}

func TestScoreTemplates(t *testing.T) {
	env, _ := testEnv(t)
	code, c := call(t, env, Scoreboard(), "get_score", pos(String("player"), String("points"))...)
	if !c.WroteResult() || code != "scoreboard players operation 0x1 Py.Temp = player points\n" {
		t.Fatalf("get_score = %q", code)
	}
	code, _ = call(t, env, Scoreboard(), "write_score",
		pos(String("x"), String("points"), Name(Ref{Code: "0x7", Bank: "Py.Vars"}))...)
	if code != "scoreboard players operation x points = 0x7 Py.Vars\n" {
		t.Fatalf("write_score = %q", code)
	}
	code, _ = call(t, env, EnvBuild(), "build_scoreboard",
		pos(String("bossbar"), Dict(Entry{"value", Int(50)}, Entry{"remove", Bool(false)}))...)
	want := "scoreboard objectives add bossbar dummy\n" +
		"scoreboard players set value bossbar 50\n" +
		"scoreboard players set remove bossbar 0\n"
	if code != want {
		t.Fatalf("build_scoreboard = %q", code)
	}
}

func TestBossbar(t *testing.T) {
	env, _ := testEnv(t)
	m := Bossbar()
	cases := []struct {
		fn   string
		args []Value
		want string
	}{
		{"add", []Value{String("test"), Dict(Entry{"text", String("Test")}, Entry{"color", String("gold")})},
			`bossbar add minecraft:test {"text":"Test","color":"gold"}` + "\n"},
		{"set_players", []Value{String("mcfc:hp")}, "bossbar set mcfc:hp players @a\n"},
		{"set_value", []Value{String("hp"), Name(Ref{Code: "0x2", Bank: "Py.Vars"})},
			"execute store result bossbar minecraft:hp value run scoreboard players get 0x2 Py.Vars\n"},
		{"set_max", []Value{String("hp"), Int(100)}, "bossbar set minecraft:hp max 100\n"},
		{"set_visible", []Value{String("hp"), Bool(false)}, "bossbar set minecraft:hp visible false\n"},
		{"set_style", []Value{String("hp"), Int(10)}, "bossbar set minecraft:hp style notched_10\n"},
		{"set_color", []Value{String("hp"), String("red")}, "bossbar set minecraft:hp color red\n"},
	}
	for _, tc := range cases {
		code, _ := call(t, env, m, tc.fn, pos(tc.args...)...)
		if code != tc.want {
			t.Errorf("%s:\n got %q\nwant %q", tc.fn, code, tc.want)
		}
	}

	f, _ := m.Func("set_color")
	if _, _, err := f.Invoke(env, pos(String("hp"), String("gold"))); codeOf(err) != diag.TplUnknownOption {
		t.Errorf("bad color: %v", err)
	}
	f, _ = m.Func("set_value")
	if _, _, err := f.Invoke(env, pos(String("hp"), String("lots"))); codeOf(err) != diag.TplBadArgument {
		t.Errorf("bad value: %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := Standard()
	if _, ok := r.Module("template.MinecraftSupport.bossbar"); !ok {
		t.Fatal("alias not registered")
	}
	if !r.IsPackage("template.MinecraftSupport") || r.IsPackage("builtin") {
		t.Fatal("IsPackage")
	}
	m, _ := r.Module("builtin")
	f, _ := m.Func("tprint")
	r.Bind(`src:builtin\module\tprint`, f)
	if got, ok := r.Lookup(`src:builtin\module\tprint`); !ok || got != f {
		t.Fatal("Lookup after Bind")
	}
	if b := r.Bound(); len(b) != 1 {
		t.Fatalf("Bound = %v", b)
	}
}
