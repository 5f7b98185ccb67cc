package trace

import "time"

// Kind tells span boundaries from instant points.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	}
	return "unknown"
}

// Scope is how fine-grained an event is; lower is coarser.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // compile, unit:<entry>, run
	ScopePass                    // parse, generate, diagnostics
	ScopeModule                  // one module being generated
	ScopeNode                    // one statement or expression
)

var scopeNames = [...]string{ScopeDriver: "driver", ScopePass: "pass", ScopeModule: "module", ScopeNode: "node"}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one record in the trace stream.
type Event struct {
	Time     time.Time
	Seq      uint64 // assigned by the stream tracer
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string
	Detail   string
	Extra    map[string]string
}
