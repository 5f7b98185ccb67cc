package breakpoint

import (
	"mcfc/internal/filens"
	"mcfc/internal/scoreboard"
)

// Context is what a processor may use while rendering.
type Context struct {
	Codec     *scoreboard.Codec
	FlagsBank string
	True      string // name of the true constant in FlagsBank
	Level     filens.Level
	Comments  bool
}

// Split is the dispatch a record contributes at a continuation point.
type Split struct {
	Guard  string // execute sub-condition, e.g. "unless score 0x3 Py.Temp = True Py.Flags"
	Code   string // commands emitted before the dispatch
	Manual bool   // the continuation is started by the player, not dispatched
}

// Processor handles the records of one tag.
type Processor interface {
	// Split renders the dispatch into the continuation function cont.
	Split(ctx Context, rec filens.Record, cont string) (Split, error)
	// Raise runs when the block that holds rec ends. keep=true moves rec to
	// the enclosing block.
	Raise(ctx Context, rec filens.Record) (code string, keep bool, err error)
}

// ReturnTag is the tag of records raised by return statements.
const ReturnTag = "return"

// Return skips the rest of the enclosing blocks once the function returned.
type Return struct{}

func (Return) Split(ctx Context, rec filens.Record, _ string) (Split, error) {
	guard, err := ctx.Codec.Guard(scoreboard.CheckUnless, rec.Name, rec.Objective,
		scoreboard.CmpEqual, ctx.True, ctx.FlagsBank)
	if err != nil {
		return Split{}, err
	}
	s := Split{Guard: guard}
	if ctx.Comments {
		s.Code = "# BP:Return.Split\n"
	}
	return s, nil
}

// Raise absorbs at module and function level by resetting the flag. Inside
// an if block the flag stays set and the record moves up.
func (Return) Raise(ctx Context, rec filens.Record) (string, bool, error) {
	if ctx.Level != filens.LevelModule && ctx.Level != filens.LevelFunction {
		return "", true, nil
	}
	reset, err := ctx.Codec.Reset(rec.Name, rec.Objective)
	if err != nil {
		return "", false, err
	}
	if ctx.Comments {
		reset = "# BP:Return.Reset\n" + reset
	}
	return reset, false, nil
}
