package filens

import (
	"strings"
)

// Level is the kind of block a node was produced by.
type Level uint8

const (
	LevelNone Level = iota
	LevelModule
	LevelFunction
	LevelIf
)

func (l Level) String() string {
	switch l {
	case LevelModule:
		return "module"
	case LevelFunction:
		return "function"
	case LevelIf:
		return "if"
	default:
		return "none"
	}
}

// Type is the kind of entry in the output tree.
type Type uint8

const (
	TypeFolder Type = iota
	TypeMCFunction
	TypeLink
	TypePackage
)

func (t Type) String() string {
	switch t {
	case TypeMCFunction:
		return "mcfunction"
	case TypeLink:
		return "$link"
	case TypePackage:
		return "package"
	default:
		return "folder"
	}
}

// LinkSuffix marks the names of link entries.
const LinkSuffix = "$link"

// Sep separates path segments.
const Sep = `\`

// Record is a pending breakpoint.
type Record struct {
	ID        uint64 `msgpack:"id" json:"id"`
	Tag       string `msgpack:"tag" json:"tag"`
	Name      string `msgpack:"name,omitempty" json:"name,omitempty"`           // flag register
	Objective string `msgpack:"objective,omitempty" json:"objective,omitempty"` // flag bank
}

// Node is one entry of the file-namespace tree.
type Node struct {
	Name        string
	Path        string
	Level       Level
	Type        Type
	Namespace   string
	Target      string // for links: the linked node
	Breakpoints []Record
	// Drained is set once a link's records were handed to its block.
	// Setting the link again re-arms it.
	Drained bool

	children map[string]*Node
	order    []string
}

func newNode(name, path string, level Level, typ Type, ns, target string) *Node {
	return &Node{
		Name:      name,
		Path:      path,
		Level:     level,
		Type:      typ,
		Namespace: ns,
		Target:    target,
		children:  make(map[string]*Node),
	}
}

// Children returns child nodes in insertion order.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.order))
	for _, name := range n.order {
		out = append(out, n.children[name])
	}
	return out
}

// Child returns the named child.
func (n *Node) Child(name string) (*Node, bool) {
	c, ok := n.children[name]
	return c, ok
}

// Join appends segments to a path.
func Join(path string, segs ...string) string {
	if len(segs) == 0 {
		return path
	}
	return path + Sep + strings.Join(segs, Sep)
}

// Parent strips the last segment of path.
func Parent(path string) string {
	i := strings.LastIndex(path, Sep)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// FunctionPath turns a file node path into a function id:
// `main\module\f.mcfunction` with base `src` becomes `src:main/module/f`.
func FunctionPath(base, path string) string {
	path = strings.TrimSuffix(path, ".mcfunction")
	return base + ":" + strings.ReplaceAll(path, Sep, "/")
}
