package codegen

import (
	"encoding/json"
	"fmt"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/source"
	"mcfc/internal/trace"
)

// NodeKind selects which part of the AST a Node points at.
type NodeKind uint8

const (
	NodeNone NodeKind = iota
	NodeModule
	NodeStmt
	NodeExpr
	NodeArguments // parameter list of the FunctionDef in Stmt
)

// Node is an AST node of any kind.
type Node struct {
	Kind NodeKind
	File ast.FileID
	Stmt ast.StmtID
	Expr ast.ExprID
}

func StmtNode(id ast.StmtID) Node { return Node{Kind: NodeStmt, Stmt: id} }
func ExprNode(id ast.ExprID) Node { return Node{Kind: NodeExpr, Expr: id} }

// GenContext is the input of one Generate call.
type GenContext struct {
	Node          Node
	Namespace     string
	FileNamespace string
	State         *State
	Config        *Config
	// Span is the trace span of the enclosing node.
	Span uint64
}

func (c GenContext) with(n Node) GenContext {
	c.Node = n
	return c
}

// Handler generates the commands of one node kind.
type Handler func(g *Generator, ctx GenContext) (string, error)

// Generator dispatches nodes to handlers by kind.
type Generator struct {
	stmts map[ast.StmtKind]Handler
	exprs map[ast.ExprKind]Handler
}

// NewGenerator returns a generator with the standard handlers.
func NewGenerator() *Generator {
	g := &Generator{
		stmts: map[ast.StmtKind]Handler{
			ast.StmtFunctionDef: genFunctionDef,
			ast.StmtReturn:      genReturn,
			ast.StmtIf:          genIf,
			ast.StmtAssign:      genAssign,
			ast.StmtAugAssign:   genAugAssign,
			ast.StmtExpr:        genExprStmt,
			ast.StmtImport:      genImport,
			ast.StmtImportFrom:  genImportFrom,
			ast.StmtGlobal:      genGlobal,
			ast.StmtPass:        genPass,
		},
		exprs: map[ast.ExprKind]Handler{
			ast.ExprName:      genName,
			ast.ExprAttribute: genName,
			ast.ExprConstant:  genConstant,
			ast.ExprBinOp:     genBinOp,
			ast.ExprUnaryOp:   genUnaryOp,
			ast.ExprBoolOp:    genBoolOp,
			ast.ExprCompare:   genCompare,
			ast.ExprCall:      genCall,
		},
	}
	return g
}

// HandleStmt replaces the handler of a statement kind.
func (g *Generator) HandleStmt(kind ast.StmtKind, h Handler) { g.stmts[kind] = h }

// HandleExpr replaces the handler of an expression kind.
func (g *Generator) HandleExpr(kind ast.ExprKind, h Handler) { g.exprs[kind] = h }

// Generate renders ctx.Node. Errors come back as *CompileError with a
// frame for this node appended.
func (g *Generator) Generate(ctx GenContext) (string, error) {
	name, sp, h := g.lookup(ctx)
	span := trace.Begin(ctx.State.Tracer, trace.ScopeNode, "gen:"+name, ctx.Span)
	ctx.Span = span.ID()
	var (
		code string
		err  error
	)
	if h == nil {
		code, err = g.unsupported(ctx, name, sp)
	} else {
		code, err = h(g, ctx)
	}
	if err != nil {
		span.End("error")
		return "", wrap(err, Frame{Span: sp, Node: name, Namespace: ctx.Namespace, FileNamespace: ctx.FileNamespace})
	}
	span.End("")
	return code, nil
}

func (g *Generator) lookup(ctx GenContext) (string, source.Span, Handler) {
	b := ctx.State.AST
	switch ctx.Node.Kind {
	case NodeModule:
		f := b.Files.Get(ctx.Node.File)
		if f == nil {
			return "Module", source.Span{}, nil
		}
		return "Module", f.Span, genModule
	case NodeArguments:
		st := b.Stmts.Get(ctx.Node.Stmt)
		if fd, ok := b.Stmts.FunctionDef(ctx.Node.Stmt); ok {
			return "arguments", fd.ArgsSpan, genArguments
		}
		if st != nil {
			return "arguments", st.Span, nil
		}
	case NodeStmt:
		if st := b.Stmts.Get(ctx.Node.Stmt); st != nil {
			return st.Kind.String(), st.Span, g.stmts[st.Kind]
		}
	case NodeExpr:
		if ex := b.Exprs.Get(ctx.Node.Expr); ex != nil {
			return ex.Kind.String(), ex.Span, g.exprs[ex.Kind]
		}
	}
	return "None", source.Span{}, nil
}

type tellrawText struct {
	Text  string `json:"text"`
	Color string `json:"color"`
}

// unsupported keeps going: the player sees a red notice, the file keeps a
// dump of the node.
func (g *Generator) unsupported(ctx GenContext, name string, sp source.Span) (string, error) {
	st := ctx.State
	diag.ReportWarning(st.Reporter, diag.GenUnsupportedNode, sp,
		fmt.Sprintf("%s is not supported here, emitting a placeholder", name)).Emit()
	msg, err := json.Marshal(tellrawText{Text: fmt.Sprintf("unsupported node: %s.%s", ctx.Namespace, name), Color: "red"})
	if err != nil {
		return "", err
	}
	code := "tellraw @a " + string(msg) + "\n"
	switch ctx.Node.Kind {
	case NodeStmt:
		code += "# " + ast.DumpStmt(st.AST, ctx.Node.Stmt) + "\n"
	case NodeExpr:
		code += "# " + ast.DumpExpr(st.AST, ctx.Node.Expr) + "\n"
		none, err := st.setNone(ctx.Namespace)
		if err != nil {
			return "", err
		}
		code += none
	}
	return code, nil
}

func (g *Generator) stmt(ctx GenContext, id ast.StmtID) (string, error) {
	return g.Generate(ctx.with(StmtNode(id)))
}

func (g *Generator) expr(ctx GenContext, id ast.ExprID) (string, error) {
	return g.Generate(ctx.with(ExprNode(id)))
}
