package namespace

import "strings"

// Kind classifies what a symbol names.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVariable
	KindFunction
	KindModule
	KindPackage
	KindAttribute // alias to (AliasScope, AliasName)
	KindFile
)

func (k Kind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindFunction:
		return "function"
	case KindModule:
		return "module"
	case KindPackage:
		return "package"
	case KindAttribute:
		return "attribute"
	case KindFile:
		return "file"
	default:
		return "invalid"
	}
}

// Symbol is one declared name.
type Symbol struct {
	Name   string
	Target string // fully-qualified path
	Kind   Kind

	// только для KindAttribute
	AliasScope string
	AliasName  string
}

// AliasTarget renders an attribute alias as `scope|name`.
func AliasTarget(scope, name string) string {
	return scope + "|" + name
}

// Sep separates scope segments.
const Sep = `\`

// Join appends segments to a scope path.
func Join(path string, segs ...string) string {
	if len(segs) == 0 {
		return path
	}
	return path + Sep + strings.Join(segs, Sep)
}

// Split returns the parent path and the last segment.
func Split(path string) (parent, name string) {
	i := strings.LastIndex(path, Sep)
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}

// Base returns the `<base>` part of `<base>:<module>\...`.
func Base(path string) string {
	base, _, _ := strings.Cut(path, ":")
	return base
}

// Module returns the `<module>` part of `<base>:<module>\...`.
func Module(path string) string {
	_, rest, ok := strings.Cut(path, ":")
	if !ok {
		return ""
	}
	mod, _, _ := strings.Cut(rest, Sep)
	return mod
}
