package ast

// BinaryOp is an arithmetic operator of BinOp and AugAssign.
type BinaryOp uint8

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMult
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
)

var binaryOpNames = [...]string{
	OpAdd: "Add", OpSub: "Sub", OpMult: "Mult", OpDiv: "Div",
	OpFloorDiv: "FloorDiv", OpMod: "Mod", OpPow: "Pow",
}

func (op BinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "BinaryOp?"
}

type UnaryOp uint8

const (
	OpNot UnaryOp = iota
	OpUSub
	OpUAdd
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "Not"
	case OpUSub:
		return "USub"
	case OpUAdd:
		return "UAdd"
	}
	return "UnaryOp?"
}

type BoolOp uint8

const (
	OpAnd BoolOp = iota
	OpOr
)

func (op BoolOp) String() string {
	if op == OpAnd {
		return "And"
	}
	return "Or"
}

// CmpOp is a comparison operator.
type CmpOp uint8

const (
	CmpEq CmpOp = iota
	CmpNotEq
	CmpLt
	CmpLtE
	CmpGt
	CmpGtE
)

var cmpOpNames = [...]string{
	CmpEq: "Eq", CmpNotEq: "NotEq", CmpLt: "Lt", CmpLtE: "LtE", CmpGt: "Gt", CmpGtE: "GtE",
}

func (op CmpOp) String() string {
	if int(op) < len(cmpOpNames) {
		return cmpOpNames[op]
	}
	return "CmpOp?"
}
