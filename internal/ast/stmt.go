package ast

import (
	"mcfc/internal/source"
)

type StmtKind uint8

const (
	StmtFunctionDef StmtKind = iota
	StmtReturn
	StmtIf
	StmtAssign
	StmtAugAssign
	StmtExpr
	StmtImport
	StmtImportFrom
	StmtGlobal
	StmtPass
	StmtWhile
	StmtFor
	StmtBreak
	StmtContinue
)

var stmtKindNames = [...]string{
	StmtFunctionDef: "FunctionDef", StmtReturn: "Return", StmtIf: "If",
	StmtAssign: "Assign", StmtAugAssign: "AugAssign", StmtExpr: "Expr",
	StmtImport: "Import", StmtImportFrom: "ImportFrom", StmtGlobal: "Global",
	StmtPass: "Pass", StmtWhile: "While", StmtFor: "For",
	StmtBreak: "Break", StmtContinue: "Continue",
}

func (k StmtKind) String() string {
	if int(k) < len(stmtKindNames) {
		return stmtKindNames[k]
	}
	return "Stmt?"
}

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type ParamKind uint8

const (
	ParamPositional ParamKind = iota
	ParamVarPositional
	ParamKeywordOnly
	ParamVarKeyword
)

// Param is one formal parameter; Default is NoExprID when absent.
type Param struct {
	Name    string
	Span    source.Span
	Kind    ParamKind
	Default ExprID
}

type FunctionDefData struct {
	Name     string
	NameSpan source.Span
	Params   []Param
	// ArgsSpan covers the parenthesised parameter list.
	ArgsSpan source.Span
	Body     []StmtID
}

type ReturnData struct {
	Value ExprID // NoExprID for bare return
}

type IfData struct {
	Test ExprID
	Body []StmtID
	Else []StmtID // elif is a single nested If here
}

type AssignData struct {
	Targets []ExprID
	Value   ExprID
}

type AugAssignData struct {
	Target ExprID
	Op     BinaryOp
	Value  ExprID
}

type ExprStmtData struct {
	Value ExprID
}

// Alias is one "name as asname" entry of an import.
type Alias struct {
	Name   string // dotted for Import
	AsName string
	Span   source.Span
}

// Bound returns the name the alias introduces into the importing scope.
func (a Alias) Bound() string {
	if a.AsName != "" {
		return a.AsName
	}
	return a.Name
}

type ImportData struct {
	Names []Alias
}

type ImportFromData struct {
	Module string
	Level  int // leading dots
	Names  []Alias
}

type GlobalData struct {
	Names []string
}

type WhileData struct {
	Test ExprID
	Body []StmtID
	Else []StmtID
}

type ForData struct {
	Target ExprID
	Iter   ExprID
	Body   []StmtID
}

type Stmts struct {
	Arena       *Arena[Stmt]
	FuncDefs    *Arena[FunctionDefData]
	Returns     *Arena[ReturnData]
	Ifs         *Arena[IfData]
	Assigns     *Arena[AssignData]
	AugAssigns  *Arena[AugAssignData]
	ExprStmts   *Arena[ExprStmtData]
	Imports     *Arena[ImportData]
	ImportFroms *Arena[ImportFromData]
	Globals     *Arena[GlobalData]
	Whiles      *Arena[WhileData]
	Fors        *Arena[ForData]
}

func NewStmts(capHint uint) *Stmts {
	small := capHint/4 + 1
	return &Stmts{
		Arena:       NewArena[Stmt](capHint),
		FuncDefs:    NewArena[FunctionDefData](small),
		Returns:     NewArena[ReturnData](small),
		Ifs:         NewArena[IfData](small),
		Assigns:     NewArena[AssignData](small),
		AugAssigns:  NewArena[AugAssignData](small),
		ExprStmts:   NewArena[ExprStmtData](small),
		Imports:     NewArena[ImportData](small),
		ImportFroms: NewArena[ImportFromData](small),
		Globals:     NewArena[GlobalData](small),
		Whiles:      NewArena[WhileData](small),
		Fors:        NewArena[ForData](small),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func (s *Stmts) payload(id StmtID, kind StmtKind) (uint32, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != kind {
		return 0, false
	}
	return uint32(st.Payload), true
}

func (s *Stmts) NewFunctionDef(span source.Span, data FunctionDefData) StmtID {
	return s.new(StmtFunctionDef, span, s.FuncDefs.Allocate(data))
}

func (s *Stmts) FunctionDef(id StmtID) (*FunctionDefData, bool) {
	p, ok := s.payload(id, StmtFunctionDef)
	if !ok {
		return nil, false
	}
	return s.FuncDefs.Get(p), true
}

func (s *Stmts) NewReturn(span source.Span, value ExprID) StmtID {
	return s.new(StmtReturn, span, s.Returns.Allocate(ReturnData{Value: value}))
}

func (s *Stmts) Return(id StmtID) (*ReturnData, bool) {
	p, ok := s.payload(id, StmtReturn)
	if !ok {
		return nil, false
	}
	return s.Returns.Get(p), true
}

func (s *Stmts) NewIf(span source.Span, test ExprID, body, orelse []StmtID) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(IfData{Test: test, Body: body, Else: orelse}))
}

func (s *Stmts) If(id StmtID) (*IfData, bool) {
	p, ok := s.payload(id, StmtIf)
	if !ok {
		return nil, false
	}
	return s.Ifs.Get(p), true
}

func (s *Stmts) NewAssign(span source.Span, targets []ExprID, value ExprID) StmtID {
	return s.new(StmtAssign, span, s.Assigns.Allocate(AssignData{Targets: targets, Value: value}))
}

func (s *Stmts) Assign(id StmtID) (*AssignData, bool) {
	p, ok := s.payload(id, StmtAssign)
	if !ok {
		return nil, false
	}
	return s.Assigns.Get(p), true
}

func (s *Stmts) NewAugAssign(span source.Span, target ExprID, op BinaryOp, value ExprID) StmtID {
	return s.new(StmtAugAssign, span, s.AugAssigns.Allocate(AugAssignData{Target: target, Op: op, Value: value}))
}

func (s *Stmts) AugAssign(id StmtID) (*AugAssignData, bool) {
	p, ok := s.payload(id, StmtAugAssign)
	if !ok {
		return nil, false
	}
	return s.AugAssigns.Get(p), true
}

func (s *Stmts) NewExprStmt(span source.Span, value ExprID) StmtID {
	return s.new(StmtExpr, span, s.ExprStmts.Allocate(ExprStmtData{Value: value}))
}

func (s *Stmts) ExprStmt(id StmtID) (*ExprStmtData, bool) {
	p, ok := s.payload(id, StmtExpr)
	if !ok {
		return nil, false
	}
	return s.ExprStmts.Get(p), true
}

func (s *Stmts) NewImport(span source.Span, names []Alias) StmtID {
	return s.new(StmtImport, span, s.Imports.Allocate(ImportData{Names: names}))
}

func (s *Stmts) Import(id StmtID) (*ImportData, bool) {
	p, ok := s.payload(id, StmtImport)
	if !ok {
		return nil, false
	}
	return s.Imports.Get(p), true
}

func (s *Stmts) NewImportFrom(span source.Span, data ImportFromData) StmtID {
	return s.new(StmtImportFrom, span, s.ImportFroms.Allocate(data))
}

func (s *Stmts) ImportFrom(id StmtID) (*ImportFromData, bool) {
	p, ok := s.payload(id, StmtImportFrom)
	if !ok {
		return nil, false
	}
	return s.ImportFroms.Get(p), true
}

func (s *Stmts) NewGlobal(span source.Span, names []string) StmtID {
	return s.new(StmtGlobal, span, s.Globals.Allocate(GlobalData{Names: names}))
}

func (s *Stmts) Global(id StmtID) (*GlobalData, bool) {
	p, ok := s.payload(id, StmtGlobal)
	if !ok {
		return nil, false
	}
	return s.Globals.Get(p), true
}

func (s *Stmts) NewWhile(span source.Span, test ExprID, body, orelse []StmtID) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(WhileData{Test: test, Body: body, Else: orelse}))
}

func (s *Stmts) While(id StmtID) (*WhileData, bool) {
	p, ok := s.payload(id, StmtWhile)
	if !ok {
		return nil, false
	}
	return s.Whiles.Get(p), true
}

func (s *Stmts) NewFor(span source.Span, target, iter ExprID, body []StmtID) StmtID {
	return s.new(StmtFor, span, s.Fors.Allocate(ForData{Target: target, Iter: iter, Body: body}))
}

func (s *Stmts) For(id StmtID) (*ForData, bool) {
	p, ok := s.payload(id, StmtFor)
	if !ok {
		return nil, false
	}
	return s.Fors.Get(p), true
}

// NewSimple allocates a payload-less statement (pass, break, continue).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, 0)
}
