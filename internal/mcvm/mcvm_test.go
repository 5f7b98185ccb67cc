package mcvm

import (
	"errors"
	"slices"
	"strconv"
	"testing"
)

func newMachine(t *testing.T, funcs map[string]string) *Machine {
	t.Helper()
	m, err := New(funcs, Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func run(t *testing.T, m *Machine, id string) Stats {
	t.Helper()
	st, err := m.Run(id)
	if err != nil {
		t.Fatalf("Run(%s): %v", id, err)
	}
	return st
}

const setup = `scoreboard objectives add T dummy
scoreboard objectives add F dummy
scoreboard players set True F 1
scoreboard players set False F 0
scoreboard players set Neg F -1
`

func TestArithmeticFloors(t *testing.T) {
	tests := []struct {
		a, b int32
		op   string
		want int32
	}{
		{7, 2, "/=", 3},
		{-7, 2, "/=", -4},
		{7, -2, "/=", -4},
		{-7, 2, "%=", 1},
		{7, -2, "%=", -1},
		{5, 3, "-=", 2},
		{5, 3, "*=", 15},
		{5, 3, "<", 3},
		{5, 3, ">", 5},
		{5, 0, "/=", 5},
	}
	for _, tt := range tests {
		m := newMachine(t, map[string]string{
			"t:main": setup +
				"scoreboard players set a T " + strconv.Itoa(int(tt.a)) + "\n" +
				"scoreboard players set b T " + strconv.Itoa(int(tt.b)) + "\n" +
				"scoreboard players operation a T " + tt.op + " b T\n",
		})
		run(t, m, "t:main")
		if got, _ := m.Score("a", "T"); got != tt.want {
			t.Errorf("%d %s %d = %d, want %d", tt.a, tt.op, tt.b, got, tt.want)
		}
	}
}

func TestUnsetScores(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": setup + `scoreboard players set a T 4
scoreboard players operation a T = missing T
execute if score missing T = True F run scoreboard players set hit T 1
execute unless score missing T = True F run scoreboard players set miss T 1
`,
	})
	run(t, m, "t:main")
	if a, _ := m.Score("a", "T"); a != 4 {
		t.Errorf("a = %d, unset source must leave the target", a)
	}
	if _, ok := m.Score("hit", "T"); ok {
		t.Errorf("if on an unset score ran")
	}
	if v, _ := m.Score("miss", "T"); v != 1 {
		t.Errorf("unless on an unset score did not run")
	}
}

func TestExecuteChainsAndStore(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": setup + `scoreboard players set x T 5
execute if score x T > False F unless score x T matches 6.. store result score y T run scoreboard players get x T
execute if score x T matches ..4 run scoreboard players set z T 1
`,
	})
	run(t, m, "t:main")
	if y, _ := m.Score("y", "T"); y != 5 {
		t.Errorf("y = %d, want 5", y)
	}
	if _, ok := m.Score("z", "T"); ok {
		t.Errorf("matches ..4 held for 5")
	}
}

func TestStorageRoundTrip(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": setup + `data modify storage r:s L set value []
scoreboard players set a T 11
scoreboard players set b T -3
execute store result storage r:s Tmp int 1 run scoreboard players get a T
data modify storage r:s L append from storage r:s Tmp
execute store result storage r:s Tmp int 1 run scoreboard players get b T
data modify storage r:s L append from storage r:s Tmp
scoreboard players set a T 0
scoreboard players set b T 0
execute store result score b T run data get storage r:s L[-1] 1
data remove storage r:s L[-1]
execute store result score a T run data get storage r:s L[-1] 1
data remove storage r:s L[-1]
`,
	})
	run(t, m, "t:main")
	a, _ := m.Score("a", "T")
	b, _ := m.Score("b", "T")
	if a != 11 || b != -3 {
		t.Errorf("restored a=%d b=%d, want 11 -3", a, b)
	}
	if l, ok := m.List("r:s", "L"); !ok || len(l) != 0 {
		t.Errorf("list after pops = %v, %v", l, ok)
	}
}

func TestEmptyListRead(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": "scoreboard objectives add T dummy\ndata modify storage r:s L set value []\n" +
			"execute store result score a T run data get storage r:s L[-1] 1\n",
	})
	_, err := m.Run("t:main")
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrEmptyList {
		t.Fatalf("err = %v, want %s", err, ErrEmptyList)
	}
	if e.Function != "t:main" || e.Line != 3 {
		t.Errorf("location = %s:%d", e.Function, e.Line)
	}
}

func TestCallsAndDepth(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": "function t:a\nfunction t:a\n",
		"t:a":    "function t:b\n",
		"t:b":    "# leaf\n",
	})
	st := run(t, m, "t:main")
	if st.Calls["t:a"] != 2 || st.Calls["t:b"] != 2 || st.MaxDepth != 3 {
		t.Errorf("stats = %+v", st)
	}

	loop, err := New(map[string]string{"t:loop": "function t:loop\n"}, Options{MaxDepth: 16})
	if err != nil {
		t.Fatal(err)
	}
	_, err = loop.Run("t:loop")
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrDepth {
		t.Fatalf("err = %v, want %s", err, ErrDepth)
	}
	if len(e.Backtrace) != 16 {
		t.Errorf("backtrace has %d frames", len(e.Backtrace))
	}
}

func TestTellrawRendersScores(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": `scoreboard objectives add V dummy
scoreboard players set 0x1 V 42
tellraw @a {"text":"","extra":[{"text":"x ="},{"text":" "},{"score":{"name":"0x1","objective":"V"}},{"score":{"name":"0x2","objective":"V"}}]}
`,
	})
	run(t, m, "t:main")
	if got := m.Chat(); !slices.Equal(got, []string{"x = 42"}) {
		t.Errorf("chat = %q", got)
	}
}

func TestBossbar(t *testing.T) {
	m := newMachine(t, map[string]string{
		"t:main": `scoreboard objectives add V dummy
scoreboard players set 0x1 V 30
bossbar add minecraft:hp {"text":"HP"}
bossbar set minecraft:hp max 50
execute store result bossbar minecraft:hp value run scoreboard players get 0x1 V
bossbar set minecraft:hp color red
execute store result score 0x2 V run bossbar get minecraft:hp max
`,
	})
	run(t, m, "t:main")
	b, ok := m.Bossbar("minecraft:hp")
	if !ok || b.Name != "HP" || b.Value != 30 || b.Max != 50 || b.Color != "red" {
		t.Errorf("bossbar = %+v", b)
	}
	if v, _ := m.Score("0x2", "V"); v != 50 {
		t.Errorf("bossbar get max = %d", v)
	}
}

func TestMalformedCommands(t *testing.T) {
	for _, body := range []string{
		"scoreboard players operation a T ?= b T\n",
		"execute if score a T = b T\n",
		"summon minecraft:pig\n",
		"scoreboard players set a T lots\n",
	} {
		_, err := New(map[string]string{"t:bad": body}, Options{})
		var e *Error
		if !errors.As(err, &e) {
			t.Errorf("%q: err = %v", body, err)
			continue
		}
		if e.Function != "t:bad" || e.Line != 1 {
			t.Errorf("%q: location %s:%d", body, e.Function, e.Line)
		}
	}
}
