package scoreboard

// Operation is the operator of `scoreboard players operation`.
type Operation string

const (
	OpAdd      Operation = "+="
	OpSubtract Operation = "-="
	OpMultiply Operation = "*="
	OpDivide   Operation = "/="
	OpModulo   Operation = "%="
	OpAssign   Operation = "="
	OpMin      Operation = "<"
	OpMax      Operation = ">"
	OpSwap     Operation = "><"
)

// Valid reports whether op is one of the target's operators.
func (op Operation) Valid() bool {
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide, OpModulo, OpAssign, OpMin, OpMax, OpSwap:
		return true
	}
	return false
}

// Check is the leading keyword of an execute condition.
type Check string

const (
	CheckIf     Check = "if"
	CheckUnless Check = "unless"
)

// Compare is the relation of `execute if score`.
type Compare string

const (
	CmpEqual     Compare = "="
	CmpLess      Compare = "<"
	CmpLessEq    Compare = "<="
	CmpGreater   Compare = ">"
	CmpGreaterEq Compare = ">="
)

func (c Compare) Valid() bool {
	switch c {
	case CmpEqual, CmpLess, CmpLessEq, CmpGreater, CmpGreaterEq:
		return true
	}
	return false
}

// Option tweaks emitted text.
type Option uint8

const (
	// NoBreak omits the trailing newline; used for conditional bodies.
	NoBreak Option = 1 << iota
)

func lineEnd(opts []Option) string {
	for _, o := range opts {
		if o&NoBreak != 0 {
			return ""
		}
	}
	return "\n"
}
