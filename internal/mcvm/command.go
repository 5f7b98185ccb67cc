package mcvm

import (
	"strconv"
	"strings"

	"fortio.org/safecast"
)

type cmdKind uint8

const (
	cmdObjectiveAdd cmdKind = iota + 1
	cmdPlayersSet
	cmdPlayersAdd
	cmdPlayersRemove
	cmdPlayersOperation
	cmdPlayersReset
	cmdPlayersGet
	cmdExecute
	cmdDataAppend
	cmdDataSetList
	cmdDataSetValue
	cmdDataGet
	cmdDataRemove
	cmdFunction
	cmdTellraw
	cmdBossbarAdd
	cmdBossbarRemove
	cmdBossbarSet
	cmdBossbarGet
)

// score is a (holder, objective) pair.
type score struct {
	holder    string
	objective string
}

// storagePath is `<root> <path>`; index is set for `path[-1]`.
type storagePath struct {
	root  string
	path  string
	last  bool
	scale float64
}

type condition struct {
	unless bool
	lhs    score
	op     string // "=", "<", ... or "matches"
	rhs    score
	lo, hi *int32 // matches range
}

type storeTarget struct {
	kind    string // "score" | "storage" | "bossbar"
	score   score
	storage storagePath
	bossbar string
	field   string
}

type command struct {
	kind  cmdKind
	line  int
	text  string // source line
	score score
	other score
	op    string
	value int32

	storage storagePath
	from    storagePath

	name    string // function id, bossbar id
	field   string // bossbar field
	payload string // JSON text or bossbar value word

	conds []condition
	store *storeTarget
	run   *command
}

// reader splits a command into words while keeping access to the raw rest.
type reader struct {
	s string
}

func (r *reader) word() string {
	r.s = strings.TrimLeft(r.s, " ")
	i := strings.IndexByte(r.s, ' ')
	if i < 0 {
		w := r.s
		r.s = ""
		return w
	}
	w := r.s[:i]
	r.s = r.s[i+1:]
	return w
}

func (r *reader) rest() string {
	s := strings.TrimSpace(r.s)
	r.s = ""
	return s
}

func (r *reader) done() bool { return strings.TrimSpace(r.s) == "" }

func malformed(text, format string, args ...any) *Error {
	e := errorf(ErrMalformed, format, args...)
	e.Message += ": " + text
	return e
}

func parseInt32(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return safecast.Convert[int32](n)
}

// parseCommand parses one non-comment line.
func parseCommand(text string) (*command, error) {
	r := &reader{s: text}
	c := &command{text: text}
	switch head := r.word(); head {
	case "scoreboard":
		return parseScoreboard(r, c)
	case "execute":
		return parseExecute(r, c)
	case "data":
		return parseData(r, c)
	case "function":
		c.kind, c.name = cmdFunction, r.word()
		if c.name == "" || !r.done() {
			return nil, malformed(text, "function takes one id")
		}
		return c, nil
	case "tellraw":
		if r.word() == "" {
			return nil, malformed(text, "tellraw needs a target")
		}
		c.kind, c.payload = cmdTellraw, r.rest()
		return c, nil
	case "bossbar":
		return parseBossbar(r, c)
	default:
		e := errorf(ErrUnsupported, "unsupported command %q", head)
		return nil, e
	}
}

func parseScore(r *reader) (score, bool) {
	s := score{holder: r.word(), objective: r.word()}
	return s, s.holder != "" && s.objective != ""
}

func parseScoreboard(r *reader, c *command) (*command, error) {
	group, verb := r.word(), r.word()
	if group == "objectives" && verb == "add" {
		c.kind, c.name = cmdObjectiveAdd, r.word()
		r.rest()
		if c.name == "" {
			return nil, malformed(c.text, "objective name missing")
		}
		return c, nil
	}
	if group != "players" {
		return nil, errorf(ErrUnsupported, "unsupported scoreboard command: %s", c.text)
	}
	var ok bool
	switch verb {
	case "set", "add", "remove":
		c.kind = map[string]cmdKind{"set": cmdPlayersSet, "add": cmdPlayersAdd, "remove": cmdPlayersRemove}[verb]
		if c.score, ok = parseScore(r); !ok {
			return nil, malformed(c.text, "score missing")
		}
		v, err := parseInt32(r.word())
		if err != nil {
			return nil, malformed(c.text, "bad value")
		}
		c.value = v
	case "operation":
		c.kind = cmdPlayersOperation
		if c.score, ok = parseScore(r); !ok {
			return nil, malformed(c.text, "target missing")
		}
		c.op = r.word()
		if c.other, ok = parseScore(r); !ok {
			return nil, malformed(c.text, "source missing")
		}
		switch c.op {
		case "=", "+=", "-=", "*=", "/=", "%=", "<", ">", "><":
		default:
			return nil, malformed(c.text, "unknown operation %q", c.op)
		}
	case "reset":
		c.kind = cmdPlayersReset
		c.score.holder = r.word()
		c.score.objective = r.word()
		if c.score.holder == "" {
			return nil, malformed(c.text, "holder missing")
		}
	case "get":
		c.kind = cmdPlayersGet
		if c.score, ok = parseScore(r); !ok {
			return nil, malformed(c.text, "score missing")
		}
	default:
		return nil, errorf(ErrUnsupported, "unsupported scoreboard command: %s", c.text)
	}
	if !r.done() {
		return nil, malformed(c.text, "trailing arguments")
	}
	return c, nil
}

func parseRange(s string) (lo, hi *int32, err error) {
	a, b, isRange := strings.Cut(s, "..")
	if !isRange {
		v, err := parseInt32(s)
		if err != nil {
			return nil, nil, err
		}
		return &v, &v, nil
	}
	if a != "" {
		v, err := parseInt32(a)
		if err != nil {
			return nil, nil, err
		}
		lo = &v
	}
	if b != "" {
		v, err := parseInt32(b)
		if err != nil {
			return nil, nil, err
		}
		hi = &v
	}
	return lo, hi, nil
}

func parseStorage(r *reader) (storagePath, bool) {
	p := storagePath{root: r.word(), path: r.word(), scale: 1}
	if p.root == "" || p.path == "" {
		return p, false
	}
	if base, ok := strings.CutSuffix(p.path, "[-1]"); ok {
		p.path, p.last = base, true
	}
	return p, true
}

func parseExecute(r *reader, c *command) (*command, error) {
	c.kind = cmdExecute
	for {
		switch sub := r.word(); sub {
		case "if", "unless":
			if r.word() != "score" {
				return nil, errorf(ErrUnsupported, "only score conditions are supported: %s", c.text)
			}
			cond := condition{unless: sub == "unless"}
			var ok bool
			if cond.lhs, ok = parseScore(r); !ok {
				return nil, malformed(c.text, "condition score missing")
			}
			cond.op = r.word()
			switch cond.op {
			case "matches":
				lo, hi, err := parseRange(r.word())
				if err != nil {
					return nil, malformed(c.text, "bad range")
				}
				cond.lo, cond.hi = lo, hi
			case "=", "<", "<=", ">", ">=":
				if cond.rhs, ok = parseScore(r); !ok {
					return nil, malformed(c.text, "condition source missing")
				}
			default:
				return nil, malformed(c.text, "unknown comparison %q", cond.op)
			}
			c.conds = append(c.conds, cond)
		case "store":
			if r.word() != "result" {
				return nil, errorf(ErrUnsupported, "only store result is supported: %s", c.text)
			}
			st := &storeTarget{kind: r.word()}
			switch st.kind {
			case "score":
				var ok bool
				if st.score, ok = parseScore(r); !ok {
					return nil, malformed(c.text, "store score missing")
				}
			case "storage":
				p, ok := parseStorage(r)
				if !ok {
					return nil, malformed(c.text, "store storage missing")
				}
				if typ := r.word(); typ != "int" {
					return nil, errorf(ErrUnsupported, "storage type %q: %s", typ, c.text)
				}
				scale, err := strconv.ParseFloat(r.word(), 64)
				if err != nil {
					return nil, malformed(c.text, "bad scale")
				}
				p.scale = scale
				st.storage = p
			case "bossbar":
				st.bossbar, st.field = r.word(), r.word()
				if st.field != "value" && st.field != "max" {
					return nil, malformed(c.text, "bossbar store field must be value or max")
				}
			default:
				return nil, errorf(ErrUnsupported, "store result %s: %s", st.kind, c.text)
			}
			c.store = st
		case "run":
			run, err := parseCommand(r.rest())
			if err != nil {
				return nil, err
			}
			c.run = run
			return c, nil
		case "":
			return nil, malformed(c.text, "execute without run")
		default:
			return nil, errorf(ErrUnsupported, "execute %s: %s", sub, c.text)
		}
	}
}

func parseData(r *reader, c *command) (*command, error) {
	verb, kind := r.word(), r.word()
	if kind != "storage" {
		return nil, errorf(ErrUnsupported, "only storage data is supported: %s", c.text)
	}
	p, ok := parseStorage(r)
	if !ok {
		return nil, malformed(c.text, "storage path missing")
	}
	c.storage = p
	switch verb {
	case "modify":
		switch mode := r.word(); mode {
		case "append":
			if r.word() != "from" || r.word() != "storage" {
				return nil, errorf(ErrUnsupported, "append only from storage: %s", c.text)
			}
			if c.from, ok = parseStorage(r); !ok {
				return nil, malformed(c.text, "source path missing")
			}
			c.kind = cmdDataAppend
		case "set":
			if r.word() != "value" {
				return nil, errorf(ErrUnsupported, "set only from value: %s", c.text)
			}
			v := r.rest()
			if v == "[]" {
				c.kind = cmdDataSetList
				return c, nil
			}
			n, err := parseInt32(v)
			if err != nil {
				return nil, errorf(ErrUnsupported, "only [] and int values are supported: %s", c.text)
			}
			c.kind, c.value = cmdDataSetValue, n
		default:
			return nil, errorf(ErrUnsupported, "data modify %s: %s", mode, c.text)
		}
	case "get":
		c.kind = cmdDataGet
		if s := r.word(); s != "" {
			scale, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, malformed(c.text, "bad scale")
			}
			c.storage.scale = scale
		}
	case "remove":
		c.kind = cmdDataRemove
	default:
		return nil, errorf(ErrUnsupported, "data %s: %s", verb, c.text)
	}
	if !r.done() {
		return nil, malformed(c.text, "trailing arguments")
	}
	return c, nil
}

func parseBossbar(r *reader, c *command) (*command, error) {
	verb := r.word()
	c.name = r.word()
	if c.name == "" {
		return nil, malformed(c.text, "bossbar id missing")
	}
	switch verb {
	case "add":
		c.kind, c.payload = cmdBossbarAdd, r.rest()
	case "remove":
		c.kind = cmdBossbarRemove
	case "set":
		c.kind, c.field, c.payload = cmdBossbarSet, r.word(), r.rest()
		if c.field == "" || c.payload == "" {
			return nil, malformed(c.text, "bossbar set needs a field and a value")
		}
	case "get":
		c.kind, c.field = cmdBossbarGet, r.word()
	default:
		return nil, errorf(ErrUnsupported, "bossbar %s: %s", verb, c.text)
	}
	return c, nil
}
