package ast

import (
	"mcfc/internal/source"
)

type ExprKind uint8

const (
	ExprName ExprKind = iota
	ExprAttribute
	ExprConstant
	ExprBinOp
	ExprUnaryOp
	ExprBoolOp
	ExprCompare
	ExprCall
	ExprDict
	ExprList
)

var exprKindNames = [...]string{
	ExprName: "Name", ExprAttribute: "Attribute", ExprConstant: "Constant",
	ExprBinOp: "BinOp", ExprUnaryOp: "UnaryOp", ExprBoolOp: "BoolOp",
	ExprCompare: "Compare", ExprCall: "Call", ExprDict: "Dict", ExprList: "List",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Expr?"
}

type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

type ConstKind uint8

const (
	ConstInt ConstKind = iota
	ConstBool
	ConstNone
	ConstStr
)

func (k ConstKind) String() string {
	switch k {
	case ConstInt:
		return "int"
	case ConstBool:
		return "bool"
	case ConstNone:
		return "None"
	case ConstStr:
		return "str"
	}
	return "const?"
}

type NameData struct {
	Name string
}

type AttributeData struct {
	Value ExprID
	Attr  string
}

// ConstantData keeps the literal text: digits for ints, "True"/"False",
// "None", or the unescaped string value.
type ConstantData struct {
	Kind ConstKind
	Text string
}

type BinOpData struct {
	Op    BinaryOp
	Left  ExprID
	Right ExprID
}

type UnaryOpData struct {
	Op      UnaryOp
	Operand ExprID
}

type BoolOpData struct {
	Op     BoolOp
	Values []ExprID
}

type CompareData struct {
	Left        ExprID
	Ops         []CmpOp
	Comparators []ExprID
}

type Keyword struct {
	Name  string
	Value ExprID
	Span  source.Span
}

type CallData struct {
	Func     ExprID
	Args     []ExprID
	Keywords []Keyword
}

type DictData struct {
	Keys   []ExprID
	Values []ExprID
}

type ListData struct {
	Elts []ExprID
}

// Exprs manages allocation of expressions.
type Exprs struct {
	Arena      *Arena[Expr]
	Names      *Arena[NameData]
	Attributes *Arena[AttributeData]
	Constants  *Arena[ConstantData]
	BinOps     *Arena[BinOpData]
	UnaryOps   *Arena[UnaryOpData]
	BoolOps    *Arena[BoolOpData]
	Compares   *Arena[CompareData]
	Calls      *Arena[CallData]
	Dicts      *Arena[DictData]
	Lists      *Arena[ListData]
}

func NewExprs(capHint uint) *Exprs {
	small := capHint/4 + 1
	return &Exprs{
		Arena:      NewArena[Expr](capHint),
		Names:      NewArena[NameData](capHint),
		Attributes: NewArena[AttributeData](small),
		Constants:  NewArena[ConstantData](capHint),
		BinOps:     NewArena[BinOpData](small),
		UnaryOps:   NewArena[UnaryOpData](small),
		BoolOps:    NewArena[BoolOpData](small),
		Compares:   NewArena[CompareData](small),
		Calls:      NewArena[CallData](small),
		Dicts:      NewArena[DictData](small),
		Lists:      NewArena[ListData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

func (e *Exprs) payload(id ExprID, kind ExprKind) (uint32, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != kind {
		return 0, false
	}
	return uint32(ex.Payload), true
}

func (e *Exprs) NewName(span source.Span, name string) ExprID {
	return e.new(ExprName, span, e.Names.Allocate(NameData{Name: name}))
}

func (e *Exprs) Name(id ExprID) (*NameData, bool) {
	p, ok := e.payload(id, ExprName)
	if !ok {
		return nil, false
	}
	return e.Names.Get(p), true
}

func (e *Exprs) NewAttribute(span source.Span, value ExprID, attr string) ExprID {
	return e.new(ExprAttribute, span, e.Attributes.Allocate(AttributeData{Value: value, Attr: attr}))
}

func (e *Exprs) Attribute(id ExprID) (*AttributeData, bool) {
	p, ok := e.payload(id, ExprAttribute)
	if !ok {
		return nil, false
	}
	return e.Attributes.Get(p), true
}

func (e *Exprs) NewConstant(span source.Span, kind ConstKind, text string) ExprID {
	return e.new(ExprConstant, span, e.Constants.Allocate(ConstantData{Kind: kind, Text: text}))
}

func (e *Exprs) Constant(id ExprID) (*ConstantData, bool) {
	p, ok := e.payload(id, ExprConstant)
	if !ok {
		return nil, false
	}
	return e.Constants.Get(p), true
}

func (e *Exprs) NewBinOp(span source.Span, op BinaryOp, left, right ExprID) ExprID {
	return e.new(ExprBinOp, span, e.BinOps.Allocate(BinOpData{Op: op, Left: left, Right: right}))
}

func (e *Exprs) BinOp(id ExprID) (*BinOpData, bool) {
	p, ok := e.payload(id, ExprBinOp)
	if !ok {
		return nil, false
	}
	return e.BinOps.Get(p), true
}

func (e *Exprs) NewUnaryOp(span source.Span, op UnaryOp, operand ExprID) ExprID {
	return e.new(ExprUnaryOp, span, e.UnaryOps.Allocate(UnaryOpData{Op: op, Operand: operand}))
}

func (e *Exprs) UnaryOp(id ExprID) (*UnaryOpData, bool) {
	p, ok := e.payload(id, ExprUnaryOp)
	if !ok {
		return nil, false
	}
	return e.UnaryOps.Get(p), true
}

func (e *Exprs) NewBoolOp(span source.Span, op BoolOp, values []ExprID) ExprID {
	return e.new(ExprBoolOp, span, e.BoolOps.Allocate(BoolOpData{Op: op, Values: values}))
}

func (e *Exprs) BoolOp(id ExprID) (*BoolOpData, bool) {
	p, ok := e.payload(id, ExprBoolOp)
	if !ok {
		return nil, false
	}
	return e.BoolOps.Get(p), true
}

func (e *Exprs) NewCompare(span source.Span, left ExprID, ops []CmpOp, comparators []ExprID) ExprID {
	return e.new(ExprCompare, span, e.Compares.Allocate(CompareData{Left: left, Ops: ops, Comparators: comparators}))
}

func (e *Exprs) Compare(id ExprID) (*CompareData, bool) {
	p, ok := e.payload(id, ExprCompare)
	if !ok {
		return nil, false
	}
	return e.Compares.Get(p), true
}

func (e *Exprs) NewCall(span source.Span, fn ExprID, args []ExprID, keywords []Keyword) ExprID {
	return e.new(ExprCall, span, e.Calls.Allocate(CallData{Func: fn, Args: args, Keywords: keywords}))
}

func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	p, ok := e.payload(id, ExprCall)
	if !ok {
		return nil, false
	}
	return e.Calls.Get(p), true
}

func (e *Exprs) NewDict(span source.Span, keys, values []ExprID) ExprID {
	return e.new(ExprDict, span, e.Dicts.Allocate(DictData{Keys: keys, Values: values}))
}

func (e *Exprs) Dict(id ExprID) (*DictData, bool) {
	p, ok := e.payload(id, ExprDict)
	if !ok {
		return nil, false
	}
	return e.Dicts.Get(p), true
}

func (e *Exprs) NewList(span source.Span, elts []ExprID) ExprID {
	return e.new(ExprList, span, e.Lists.Allocate(ListData{Elts: elts}))
}

func (e *Exprs) List(id ExprID) (*ListData, bool) {
	p, ok := e.payload(id, ExprList)
	if !ok {
		return nil, false
	}
	return e.Lists.Get(p), true
}
