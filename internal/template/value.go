package template

import (
	"strconv"
	"strings"
)

// Kind classifies a template argument.
type Kind uint8

const (
	KindInt Kind = iota
	KindBool
	KindString
	KindDict
	KindName
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindBool:
		return "bool"
	case KindString:
		return "str"
	case KindDict:
		return "dict"
	case KindName:
		return "name"
	}
	return "value?"
}

// Ref points at a register holding a runtime value.
type Ref struct {
	Name string // source-level name, for messages
	Code string
	Bank string
}

// Entry is one key of a dict value.
type Entry struct {
	Key   string
	Value Value
}

// Value is an evaluated template argument.
type Value struct {
	Kind Kind
	Int  int32
	Bool bool
	Str  string
	Dict []Entry // порядок как в исходнике
	Ref  Ref
}

func Int(v int32) Value     { return Value{Kind: KindInt, Int: v} }
func Bool(v bool) Value     { return Value{Kind: KindBool, Bool: v} }
func String(v string) Value { return Value{Kind: KindString, Str: v} }
func Name(r Ref) Value      { return Value{Kind: KindName, Ref: r} }

func Dict(entries ...Entry) Value {
	return Value{Kind: KindDict, Dict: entries}
}

// Lookup returns the value of key in a dict.
func (v Value) Lookup(key string) (Value, bool) {
	for _, e := range v.Dict {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Score reports the value as a number: ints as is, bools as 1/0.
func (v Value) Score() (int32, bool) {
	switch v.Kind {
	case KindInt:
		return v.Int, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// String renders the value the way print would show it.
func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(int64(v.Int), 10)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindString:
		return v.Str
	case KindName:
		return v.Ref.Name
	case KindDict:
		var sb strings.Builder
		sb.WriteByte('{')
		for i, e := range v.Dict {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteString(": ")
			if e.Value.Kind == KindString {
				sb.WriteString(strconv.Quote(e.Value.Str))
			} else {
				sb.WriteString(e.Value.String())
			}
		}
		sb.WriteByte('}')
		return sb.String()
	}
	return ""
}

// JSON converts the value into something encoding/json renders as a text
// component field.
func (v Value) JSON() any {
	switch v.Kind {
	case KindInt:
		return v.Int
	case KindBool:
		return v.Bool
	case KindString:
		return v.Str
	case KindName:
		return scoreComponent(v.Ref)
	case KindDict:
		return orderedObject(v.Dict)
	}
	return nil
}
