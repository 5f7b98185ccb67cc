package template

import (
	"strings"

	"mcfc/internal/breakpoint"
	"mcfc/internal/filens"
	"mcfc/internal/scoreboard"
)

// BreakpointTag is the record tag raised by tbreakpoint.
const BreakpointTag = "breakpoint"

const printEndKey = "builtin.print_end"

// Builtin is the module with tprint and tbreakpoint.
func Builtin() *Module {
	return &Module{
		Name:    "builtin",
		Aliases: []string{"template.MinecraftSupport.builtin"},
		Funcs: []*Func{
			{
				Name:     "tprint",
				Variadic: "objects",
				KwOnly:   []Param{opt("sep", String(" ")), opt("end", String("\n"))},
				Fn:       tprint,
			},
			{Name: "tbreakpoint", Fn: tbreakpoint},
		},
		Processors: map[string]breakpoint.Processor{BreakpointTag: Breakpoint{}},
	}
}

type rawText struct {
	Text  string `json:"text"`
	Extra []any  `json:"extra"`
}

// tprint renders its arguments as one chat line. An end without a newline
// marks the line as continued and the next tprint starts with ↳.
func tprint(c *Call) (string, error) {
	sep, err := c.String("sep")
	if err != nil {
		return "", err
	}
	end, err := c.String("end")
	if err != nil {
		return "", err
	}
	sep = strings.ReplaceAll(sep, "\n", "")

	var parts []any
	if c.Env.State[printEndKey] == "open" {
		parts = append(parts, text{Text: "↳"})
	}
	for i, obj := range c.Rest() {
		if i > 0 && sep != "" {
			parts = append(parts, text{Text: sep})
		}
		if obj.Kind == KindName {
			parts = append(parts, scoreComponent(obj.Ref))
			continue
		}
		parts = append(parts, text{Text: obj.String()})
	}
	if strings.Contains(end, "\n") {
		if tail := strings.ReplaceAll(end, "\n", ""); tail != "" {
			parts = append(parts, text{Text: tail})
		}
		delete(c.Env.State, printEndKey)
	} else {
		parts = append(parts, text{Text: end + "↴"})
		c.Env.State[printEndKey] = "open"
	}
	if parts == nil {
		parts = []any{}
	}
	b, err := marshal(rawText{Extra: parts})
	if err != nil {
		return "", err
	}
	return "tellraw @a " + string(b) + "\n", nil
}

// tbreakpoint stops the current function chain until the player clicks the
// continuation link.
func tbreakpoint(c *Call) (string, error) {
	env := c.Env
	flag := env.Unique("BreakPoint")
	set, err := env.Codec.Assign(flag, env.TempBank, env.True, env.FlagsBank)
	if err != nil {
		return "", err
	}
	if err := env.Raise(BreakpointTag, flag, env.TempBank); err != nil {
		return "", err
	}
	return env.Comment("BP:breakpoint.Enable") + set, nil
}

// Breakpoint processes tbreakpoint records: the rest of the block runs only
// once the player continues, and the flag is cleared at module level.
type Breakpoint struct{}

type clickEvent struct {
	Action string `json:"action"`
	Value  string `json:"value"`
}

type hoverEvent struct {
	Action string `json:"action"`
	Value  text   `json:"value"`
}

type continueLink struct {
	Text       string     `json:"text"`
	Color      string     `json:"color"`
	HoverEvent hoverEvent `json:"hoverEvent"`
	ClickEvent clickEvent `json:"clickEvent"`
}

type styledText struct {
	Text       string `json:"text"`
	Color      string `json:"color"`
	Italic     bool   `json:"italic"`
	Underlined bool   `json:"underlined"`
}

func (Breakpoint) Split(ctx breakpoint.Context, rec filens.Record, cont string) (breakpoint.Split, error) {
	guard, err := ctx.Codec.Guard(scoreboard.CheckUnless, rec.Name, rec.Objective,
		scoreboard.CmpEqual, ctx.True, ctx.FlagsBank)
	if err != nil {
		return breakpoint.Split{}, err
	}
	msg := rawText{Extra: []any{
		text{Text: "[mcfc]", Color: "aqua"},
		text{Text: " "},
		styledText{Text: "[call stack]", Color: "gray", Italic: true, Underlined: true},
		text{Text: " "},
		continueLink{
			Text:       cont,
			Color:      "green",
			HoverEvent: hoverEvent{Action: "show_text", Value: text{Text: "click to continue", Color: "green"}},
			ClickEvent: clickEvent{Action: "run_command", Value: "/function " + cont},
		},
	}}
	b, err := marshal(msg)
	if err != nil {
		return breakpoint.Split{}, err
	}
	// сообщение только если точка останова действительно сработала
	code, err := ctx.Codec.Conditional(scoreboard.CheckIf, rec.Name, rec.Objective,
		scoreboard.CmpEqual, ctx.True, ctx.FlagsBank, "tellraw @a "+string(b))
	if err != nil {
		return breakpoint.Split{}, err
	}
	if ctx.Comments {
		code = "# BP:breakpoint.Split\n" + code
	}
	return breakpoint.Split{Guard: guard, Code: code}, nil
}

func (Breakpoint) Raise(ctx breakpoint.Context, rec filens.Record) (string, bool, error) {
	if ctx.Level != filens.LevelModule {
		return "", true, nil
	}
	reset, err := ctx.Codec.Reset(rec.Name, rec.Objective)
	if err != nil {
		return "", false, err
	}
	if ctx.Comments {
		reset = "# BP:breakpoint.Reset\n" + reset
	}
	return reset, false, nil
}
