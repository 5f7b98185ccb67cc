package mcvm

import (
	"errors"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"fortio.org/safecast"
)

// Options limit a machine.
type Options struct {
	MaxDepth    int // nested function calls, default 512
	MaxCommands int // commands per Run, default 1<<20
}

// Stats describe one Run.
type Stats struct {
	Calls    map[string]int // function id -> times entered
	MaxDepth int
	Commands int
}

// Bossbar is the state of one boss bar.
type Bossbar struct {
	Name    string
	Value   int32
	Max     int32
	Players string
	Visible bool
	Color   string
	Style   string
}

type function struct {
	id   string
	cmds []*command
}

// Machine holds the world state the commands act on.
type Machine struct {
	opts       Options
	functions  map[string]*function
	objectives map[string]map[string]int32
	storage    map[string]map[string]*entry
	bossbars   map[string]*Bossbar
	chat       []string

	stack []string
	stats Stats
}

// New parses funcs (function id -> body) into a machine.
func New(funcs map[string]string, opts Options) (*Machine, error) {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 512
	}
	if opts.MaxCommands <= 0 {
		opts.MaxCommands = 1 << 20
	}
	m := &Machine{
		opts:       opts,
		functions:  make(map[string]*function, len(funcs)),
		objectives: make(map[string]map[string]int32),
		storage:    make(map[string]map[string]*entry),
		bossbars:   make(map[string]*Bossbar),
	}
	for _, id := range slices.Sorted(maps.Keys(funcs)) {
		fn := &function{id: id}
		for i, line := range strings.Split(funcs[id], "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			c, err := parseCommand(line)
			if err != nil {
				var e *Error
				if errors.As(err, &e) {
					e.Function, e.Line = id, i+1
				}
				return nil, err
			}
			c.line = i + 1
			fn.cmds = append(fn.cmds, c)
		}
		m.functions[id] = fn
	}
	return m, nil
}

// Run executes the function id.
func (m *Machine) Run(id string) (Stats, error) {
	m.stats = Stats{Calls: make(map[string]int)}
	m.stack = m.stack[:0]
	err := m.call(id)
	return m.stats, err
}

func (m *Machine) call(id string) error {
	fn, ok := m.functions[id]
	if !ok {
		return m.fail(errorf(ErrUnknownFunction, "unknown function %s", id), nil)
	}
	if len(m.stack) >= m.opts.MaxDepth {
		return m.fail(errorf(ErrDepth, "function nesting deeper than %d", m.opts.MaxDepth), nil)
	}
	m.stack = append(m.stack, id)
	m.stats.Calls[id]++
	m.stats.MaxDepth = max(m.stats.MaxDepth, len(m.stack))
	for _, c := range fn.cmds {
		if _, _, err := m.exec(c); err != nil {
			return err
		}
	}
	m.stack = m.stack[:len(m.stack)-1]
	return nil
}

// fail fills in the location of err once, at the innermost frame.
func (m *Machine) fail(err *Error, c *command) error {
	if err.Function == "" && len(m.stack) > 0 {
		err.Function = m.stack[len(m.stack)-1]
		if c != nil {
			err.Line = c.line
		}
		for i := len(m.stack) - 1; i >= 0; i-- {
			err.Backtrace = append(err.Backtrace, m.stack[i])
		}
	}
	return err
}

// exec runs c and returns its result value; ok=false when the command
// failed softly (false condition, unset score).
func (m *Machine) exec(c *command) (int32, bool, error) {
	m.stats.Commands++
	if m.stats.Commands > m.opts.MaxCommands {
		return 0, false, m.fail(errorf(ErrBudget, "more than %d commands", m.opts.MaxCommands), c)
	}
	switch c.kind {
	case cmdObjectiveAdd:
		if _, ok := m.objectives[c.name]; !ok {
			m.objectives[c.name] = make(map[string]int32)
		}
		return 0, true, nil
	case cmdPlayersSet:
		return m.set(c, c.score, c.value)
	case cmdPlayersAdd, cmdPlayersRemove:
		v, _ := m.get(c.score)
		d := c.value
		if c.kind == cmdPlayersRemove {
			d = -d
		}
		return m.set(c, c.score, v+d)
	case cmdPlayersOperation:
		return m.operation(c)
	case cmdPlayersReset:
		m.reset(c.score)
		return 0, true, nil
	case cmdPlayersGet:
		v, ok := m.get(c.score)
		return v, ok, nil
	case cmdExecute:
		return m.execute(c)
	case cmdDataAppend, cmdDataSetList, cmdDataSetValue, cmdDataGet, cmdDataRemove:
		return m.data(c)
	case cmdFunction:
		if err := m.call(c.name); err != nil {
			return 0, false, err
		}
		return 1, true, nil
	case cmdTellraw:
		line, err := m.render(c.payload)
		if err != nil {
			return 0, false, m.fail(malformed(c.text, "bad text component: %v", err), c)
		}
		m.chat = append(m.chat, line)
		return 1, true, nil
	case cmdBossbarAdd, cmdBossbarRemove, cmdBossbarSet, cmdBossbarGet:
		return m.bossbar(c)
	}
	return 0, false, m.fail(errorf(ErrUnsupported, "unsupported command %s", c.text), c)
}

func (m *Machine) objective(c *command, name string) (map[string]int32, error) {
	obj, ok := m.objectives[name]
	if !ok {
		return nil, m.fail(errorf(ErrUnknownTarget, "unknown scoreboard objective %s", name), c)
	}
	return obj, nil
}

func (m *Machine) get(s score) (int32, bool) {
	v, ok := m.objectives[s.objective][s.holder]
	return v, ok
}

func (m *Machine) set(c *command, s score, v int32) (int32, bool, error) {
	obj, err := m.objective(c, s.objective)
	if err != nil {
		return 0, false, err
	}
	obj[s.holder] = v
	return v, true, nil
}

func (m *Machine) reset(s score) {
	if s.objective == "" {
		for _, obj := range m.objectives {
			delete(obj, s.holder)
		}
		return
	}
	delete(m.objectives[s.objective], s.holder)
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int32) int32 {
	r := a % b
	if r != 0 && ((r < 0) != (b < 0)) {
		r += b
	}
	return r
}

func (m *Machine) operation(c *command) (int32, bool, error) {
	if _, err := m.objective(c, c.score.objective); err != nil {
		return 0, false, err
	}
	if _, err := m.objective(c, c.other.objective); err != nil {
		return 0, false, err
	}
	src, ok := m.get(c.other)
	if !ok {
		// источник не задан: цель не меняется
		return 0, false, nil
	}
	dst, hasDst := m.get(c.score)
	var v int32
	switch c.op {
	case "=":
		v = src
	case "+=":
		v = dst + src
	case "-=":
		v = dst - src
	case "*=":
		v = dst * src
	case "/=":
		if src == 0 {
			return dst, hasDst, nil
		}
		v = floorDiv(dst, src)
	case "%=":
		if src == 0 {
			return dst, hasDst, nil
		}
		v = floorMod(dst, src)
	case "<":
		v = dst
		if !hasDst || src < dst {
			v = src
		}
	case ">":
		v = dst
		if !hasDst || src > dst {
			v = src
		}
	case "><":
		m.objectives[c.other.objective][c.other.holder] = dst
		if !hasDst {
			delete(m.objectives[c.other.objective], c.other.holder)
		}
		v = src
	}
	return m.set(c, c.score, v)
}

func (cond condition) holds(m *Machine) bool {
	l, ok := m.get(cond.lhs)
	if !ok {
		// незаданный счёт: if ложно, unless истинно
		return cond.unless
	}
	var res bool
	if cond.op == "matches" {
		res = (cond.lo == nil || l >= *cond.lo) && (cond.hi == nil || l <= *cond.hi)
	} else {
		r, ok := m.get(cond.rhs)
		if !ok {
			return cond.unless
		}
		switch cond.op {
		case "=":
			res = l == r
		case "<":
			res = l < r
		case "<=":
			res = l <= r
		case ">":
			res = l > r
		case ">=":
			res = l >= r
		}
	}
	return res != cond.unless
}

func (m *Machine) execute(c *command) (int32, bool, error) {
	for _, cond := range c.conds {
		if !cond.holds(m) {
			return 0, false, nil
		}
	}
	if c.run == nil {
		return 1, true, nil
	}
	c.run.line = c.line
	v, ok, err := m.exec(c.run)
	if err != nil || c.store == nil {
		return v, ok, err
	}
	if !ok {
		v = 0
	}
	switch st := c.store; st.kind {
	case "score":
		if _, _, err := m.set(c, st.score, v); err != nil {
			return 0, false, err
		}
	case "storage":
		scaled := math.Trunc(float64(v) * st.storage.scale)
		n, err := safecast.Convert[int32](int64(scaled))
		if err != nil {
			return 0, false, m.fail(errorf(ErrUnsupported, "stored value %v does not fit int", scaled), c)
		}
		m.put(st.storage, &entry{num: n})
	case "bossbar":
		b, err := m.bar(c, st.bossbar)
		if err != nil {
			return 0, false, err
		}
		if st.field == "value" {
			b.Value = v
		} else {
			b.Max = v
		}
	}
	return v, ok, nil
}

func (m *Machine) bar(c *command, id string) (*Bossbar, error) {
	b, ok := m.bossbars[id]
	if !ok {
		return nil, m.fail(errorf(ErrUnknownTarget, "unknown bossbar %s", id), c)
	}
	return b, nil
}

func (m *Machine) bossbar(c *command) (int32, bool, error) {
	if c.kind == cmdBossbarAdd {
		name, err := m.render(c.payload)
		if err != nil {
			return 0, false, m.fail(malformed(c.text, "bad bossbar name: %v", err), c)
		}
		m.bossbars[c.name] = &Bossbar{Name: name, Max: 100, Visible: true, Color: "white", Style: "progress"}
		return 1, true, nil
	}
	b, err := m.bar(c, c.name)
	if err != nil {
		return 0, false, err
	}
	switch c.kind {
	case cmdBossbarRemove:
		delete(m.bossbars, c.name)
		return 1, true, nil
	case cmdBossbarGet:
		switch c.field {
		case "value":
			return b.Value, true, nil
		case "max":
			return b.Max, true, nil
		case "visible":
			if b.Visible {
				return 1, true, nil
			}
			return 0, true, nil
		case "players":
			return 0, true, nil
		}
		return 0, false, m.fail(malformed(c.text, "unknown bossbar field %q", c.field), c)
	}

	switch c.field {
	case "value", "max":
		n, err := parseInt32(c.payload)
		if err != nil {
			return 0, false, m.fail(malformed(c.text, "bad number"), c)
		}
		if c.field == "value" {
			b.Value = n
		} else {
			b.Max = n
		}
	case "visible":
		v, err := strconv.ParseBool(c.payload)
		if err != nil {
			return 0, false, m.fail(malformed(c.text, "bad bool"), c)
		}
		b.Visible = v
	case "name":
		name, err := m.render(c.payload)
		if err != nil {
			return 0, false, m.fail(malformed(c.text, "bad bossbar name: %v", err), c)
		}
		b.Name = name
	case "players":
		b.Players = c.payload
	case "color":
		b.Color = c.payload
	case "style":
		b.Style = c.payload
	default:
		return 0, false, m.fail(malformed(c.text, "unknown bossbar field %q", c.field), c)
	}
	return 1, true, nil
}

// Chat returns the lines printed by tellraw so far.
func (m *Machine) Chat() []string { return slices.Clone(m.chat) }

// Score returns the value of holder in objective.
func (m *Machine) Score(holder, objective string) (int32, bool) {
	return m.get(score{holder: holder, objective: objective})
}

// SetScore writes a score, creating the objective when needed.
func (m *Machine) SetScore(holder, objective string, v int32) {
	obj, ok := m.objectives[objective]
	if !ok {
		obj = make(map[string]int32)
		m.objectives[objective] = obj
	}
	obj[holder] = v
}

// Holders returns a copy of the scores of objective.
func (m *Machine) Holders(objective string) map[string]int32 {
	return maps.Clone(m.objectives[objective])
}

// Bossbar returns a copy of a boss bar.
func (m *Machine) Bossbar(id string) (Bossbar, bool) {
	b, ok := m.bossbars[id]
	if !ok {
		return Bossbar{}, false
	}
	return *b, true
}
