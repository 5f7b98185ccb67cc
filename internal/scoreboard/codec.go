package scoreboard

import (
	"fmt"
	"maps"
	"strconv"
	"strings"
)

type bankMaps struct {
	byName map[string]string // имя -> код
	byCode map[string]string // код -> имя
}

// Codec allocates register codes and emits commands over them.
// One Codec belongs to one compile unit. Units merged into one pack need
// distinct prefixes or their codes collide.
type Codec struct {
	flags  string
	prefix string
	next   uint64
	banks  map[string]*bankMaps
}

// NewCodec returns an empty codec; flagsBank is the identity-mapped bank.
func NewCodec(flagsBank string) *Codec {
	return &Codec{
		flags: flagsBank,
		banks: make(map[string]*bankMaps),
	}
}

// SetPrefix puts p in front of every code allocated from now on.
// Codes already handed out keep their old form.
func (c *Codec) SetPrefix(p string) { c.prefix = p }

// FlagsBank returns the bank whose names are never encoded.
func (c *Codec) FlagsBank() string { return c.flags }

func (c *Codec) bank(name string) *bankMaps {
	b, ok := c.banks[name]
	if !ok {
		b = &bankMaps{
			byName: make(map[string]string),
			byCode: make(map[string]string),
		}
		c.banks[name] = b
	}
	return b
}

// ResolveOrAllocate returns the code of (name, bank), allocating the next
// sequential code when the pair is new.
func (c *Codec) ResolveOrAllocate(name, bank string) string {
	b := c.bank(bank)
	if code, ok := b.byName[name]; ok {
		return code
	}
	code := name
	if bank != c.flags {
		c.next++
		code = c.prefix + "0x" + strconv.FormatUint(c.next, 16)
	}
	b.byName[name] = code
	b.byCode[code] = name
	return code
}

// Lookup returns the code of an already registered pair.
// Flags bank names are registered on first read.
func (c *Codec) Lookup(name, bank string) (string, error) {
	if bank == c.flags {
		return c.ResolveOrAllocate(name, bank), nil
	}
	if b, ok := c.banks[bank]; ok {
		if code, ok := b.byName[name]; ok {
			return code, nil
		}
	}
	return "", &LookupError{Name: name, Bank: bank}
}

// Has reports whether (name, bank) has a code.
func (c *Codec) Has(name, bank string) bool {
	if bank == c.flags {
		return true
	}
	b, ok := c.banks[bank]
	if !ok {
		return false
	}
	_, ok = b.byName[name]
	return ok
}

// NameOf is the reverse lookup used by dumps and the emulator.
func (c *Codec) NameOf(code, bank string) (string, bool) {
	b, ok := c.banks[bank]
	if !ok {
		return "", false
	}
	name, ok := b.byCode[code]
	return name, ok
}

// Assign copies from into to: `scoreboard players operation <to> = <from>`.
func (c *Codec) Assign(to, toBank, from, fromBank string, opts ...Option) (string, error) {
	return c.Op(OpAssign, to, toBank, from, fromBank, opts...)
}

// Op applies op with rhs to the register to, allocating to when needed.
func (c *Codec) Op(op Operation, to, toBank, rhs, rhsBank string, opts ...Option) (string, error) {
	if !op.Valid() {
		return "", &EmitError{Command: "operation", Msg: fmt.Sprintf("unknown operator %q", op)}
	}
	src, err := c.Lookup(rhs, rhsBank)
	if err != nil {
		return "", err
	}
	dst := c.ResolveOrAllocate(to, toBank)
	return fmt.Sprintf("scoreboard players operation %s %s %s %s %s%s",
		dst, toBank, op, src, rhsBank, lineEnd(opts)), nil
}

// Reset clears a register.
func (c *Codec) Reset(name, bank string, opts ...Option) (string, error) {
	code, err := c.Lookup(name, bank)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("scoreboard players reset %s %s%s", code, bank, lineEnd(opts)), nil
}

// Constant sets a register to a literal value.
func (c *Codec) Constant(name, bank string, value int32, opts ...Option) (string, error) {
	code := c.ResolveOrAllocate(name, bank)
	return fmt.Sprintf("scoreboard players set %s %s %d%s", code, bank, value, lineEnd(opts)), nil
}

// Conditional runs body when the comparison holds (check=if) or fails
// (check=unless). body must be a single command.
func (c *Codec) Conditional(check Check, lhs, lhsBank string, cmp Compare, rhs, rhsBank, body string, opts ...Option) (string, error) {
	if check != CheckIf && check != CheckUnless {
		return "", &EmitError{Command: "execute", Msg: fmt.Sprintf("unknown check %q", check)}
	}
	if !cmp.Valid() {
		return "", &EmitError{Command: "execute", Msg: fmt.Sprintf("unknown comparison %q", cmp)}
	}
	body = strings.TrimSuffix(body, "\n")
	if body == "" || strings.Contains(body, "\n") {
		return "", &EmitError{Command: "execute", Msg: "conditional body must be exactly one command"}
	}
	l, err := c.Lookup(lhs, lhsBank)
	if err != nil {
		return "", err
	}
	r, err := c.Lookup(rhs, rhsBank)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("execute %s score %s %s %s %s %s run %s%s",
		check, l, lhsBank, cmp, r, rhsBank, body, lineEnd(opts)), nil
}

// Guard renders only the condition part ("unless score <code> <bank> = <code> <bank>")
// so several of them can share one execute.
func (c *Codec) Guard(check Check, lhs, lhsBank string, cmp Compare, rhs, rhsBank string) (string, error) {
	if (check != CheckIf && check != CheckUnless) || !cmp.Valid() {
		return "", &EmitError{Command: "execute", Msg: fmt.Sprintf("bad condition %s %s", check, cmp)}
	}
	l, err := c.Lookup(lhs, lhsBank)
	if err != nil {
		return "", err
	}
	r, err := c.Lookup(rhs, rhsBank)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s score %s %s %s %s %s", check, l, lhsBank, cmp, r, rhsBank), nil
}

// Snapshot is a read-only copy of the allocation maps.
type Snapshot struct {
	Prefix string                       `msgpack:"prefix,omitempty" json:"prefix,omitempty"`
	Next   uint64                       `msgpack:"next" json:"next"`
	Banks  map[string]map[string]string `msgpack:"banks" json:"banks"` // bank -> name -> code
}

// Snapshot copies the current maps.
func (c *Codec) Snapshot() Snapshot {
	s := Snapshot{Prefix: c.prefix, Next: c.next, Banks: make(map[string]map[string]string, len(c.banks))}
	for bank, b := range c.banks {
		s.Banks[bank] = maps.Clone(b.byName)
	}
	return s
}
