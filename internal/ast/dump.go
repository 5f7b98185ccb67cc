package ast

import (
	"strconv"
	"strings"
)

// dumper renders nodes in the familiar Kind(field=value, ...) form.
// With indent > 0 every list element starts on its own line.
type dumper struct {
	b      *Builder
	sb     strings.Builder
	indent int
	depth  int
}

// DumpStmt renders one statement on a single line.
func DumpStmt(b *Builder, id StmtID) string {
	d := &dumper{b: b}
	d.stmt(id)
	return d.sb.String()
}

// DumpExpr renders one expression on a single line.
func DumpExpr(b *Builder, id ExprID) string {
	d := &dumper{b: b}
	d.expr(id)
	return d.sb.String()
}

// DumpFile renders a module; indent is the width of one nesting level.
func DumpFile(b *Builder, id FileID, indent int) string {
	d := &dumper{b: b, indent: indent}
	f := b.Files.Get(id)
	if f == nil {
		return "Module()"
	}
	d.sb.WriteString("Module(body=")
	d.stmts(f.Body)
	d.sb.WriteString(")")
	return d.sb.String()
}

func (d *dumper) w(parts ...string) {
	for _, p := range parts {
		d.sb.WriteString(p)
	}
}

func (d *dumper) list(n int, item func(i int)) {
	d.w("[")
	d.depth++
	for i := range n {
		if i > 0 {
			d.w(",")
			if d.indent == 0 {
				d.w(" ")
			}
		}
		if d.indent > 0 {
			d.w("\n", strings.Repeat(" ", d.depth*d.indent))
		}
		item(i)
	}
	d.depth--
	if d.indent > 0 && n > 0 {
		d.w("\n", strings.Repeat(" ", d.depth*d.indent))
	}
	d.w("]")
}

func (d *dumper) stmts(ids []StmtID) {
	d.list(len(ids), func(i int) { d.stmt(ids[i]) })
}

func (d *dumper) exprs(ids []ExprID) {
	d.list(len(ids), func(i int) { d.expr(ids[i]) })
}

func (d *dumper) aliases(names []Alias) {
	d.list(len(names), func(i int) {
		d.w("alias(name=", strconv.Quote(names[i].Name))
		if names[i].AsName != "" {
			d.w(", asname=", strconv.Quote(names[i].AsName))
		}
		d.w(")")
	})
}

func (d *dumper) stmt(id StmtID) {
	s := d.b.Stmts.Get(id)
	if s == nil {
		d.w("<nil>")
		return
	}
	d.w(s.Kind.String(), "(")
	switch s.Kind {
	case StmtFunctionDef:
		fn, _ := d.b.Stmts.FunctionDef(id)
		d.w("name=", strconv.Quote(fn.Name), ", args=")
		d.list(len(fn.Params), func(i int) {
			p := fn.Params[i]
			d.w("arg(", strconv.Quote(p.Name))
			switch p.Kind {
			case ParamVarPositional:
				d.w(", vararg")
			case ParamKeywordOnly:
				d.w(", kwonly")
			case ParamVarKeyword:
				d.w(", kwarg")
			}
			if p.Default.IsValid() {
				d.w(", default=")
				d.expr(p.Default)
			}
			d.w(")")
		})
		d.w(", body=")
		d.stmts(fn.Body)
	case StmtReturn:
		r, _ := d.b.Stmts.Return(id)
		if r.Value.IsValid() {
			d.w("value=")
			d.expr(r.Value)
		}
	case StmtIf:
		n, _ := d.b.Stmts.If(id)
		d.w("test=")
		d.expr(n.Test)
		d.w(", body=")
		d.stmts(n.Body)
		d.w(", orelse=")
		d.stmts(n.Else)
	case StmtAssign:
		n, _ := d.b.Stmts.Assign(id)
		d.w("targets=")
		d.exprs(n.Targets)
		d.w(", value=")
		d.expr(n.Value)
	case StmtAugAssign:
		n, _ := d.b.Stmts.AugAssign(id)
		d.w("target=")
		d.expr(n.Target)
		d.w(", op=", n.Op.String(), ", value=")
		d.expr(n.Value)
	case StmtExpr:
		n, _ := d.b.Stmts.ExprStmt(id)
		d.w("value=")
		d.expr(n.Value)
	case StmtImport:
		n, _ := d.b.Stmts.Import(id)
		d.w("names=")
		d.aliases(n.Names)
	case StmtImportFrom:
		n, _ := d.b.Stmts.ImportFrom(id)
		d.w("module=", strconv.Quote(n.Module), ", names=")
		d.aliases(n.Names)
		if n.Level > 0 {
			d.w(", level=", strconv.Itoa(n.Level))
		}
	case StmtGlobal:
		n, _ := d.b.Stmts.Global(id)
		d.w("names=")
		d.list(len(n.Names), func(i int) { d.w(strconv.Quote(n.Names[i])) })
	case StmtWhile:
		n, _ := d.b.Stmts.While(id)
		d.w("test=")
		d.expr(n.Test)
		d.w(", body=")
		d.stmts(n.Body)
		if len(n.Else) > 0 {
			d.w(", orelse=")
			d.stmts(n.Else)
		}
	case StmtFor:
		n, _ := d.b.Stmts.For(id)
		d.w("target=")
		d.expr(n.Target)
		d.w(", iter=")
		d.expr(n.Iter)
		d.w(", body=")
		d.stmts(n.Body)
	}
	d.w(")")
}

func (d *dumper) expr(id ExprID) {
	e := d.b.Exprs.Get(id)
	if e == nil {
		d.w("<nil>")
		return
	}
	d.w(e.Kind.String(), "(")
	switch e.Kind {
	case ExprName:
		n, _ := d.b.Exprs.Name(id)
		d.w("id=", strconv.Quote(n.Name))
	case ExprAttribute:
		n, _ := d.b.Exprs.Attribute(id)
		d.w("value=")
		d.expr(n.Value)
		d.w(", attr=", strconv.Quote(n.Attr))
	case ExprConstant:
		n, _ := d.b.Exprs.Constant(id)
		d.w("value=")
		if n.Kind == ConstStr {
			d.w(strconv.Quote(n.Text))
		} else {
			d.w(n.Text)
		}
	case ExprBinOp:
		n, _ := d.b.Exprs.BinOp(id)
		d.w("left=")
		d.expr(n.Left)
		d.w(", op=", n.Op.String(), ", right=")
		d.expr(n.Right)
	case ExprUnaryOp:
		n, _ := d.b.Exprs.UnaryOp(id)
		d.w("op=", n.Op.String(), ", operand=")
		d.expr(n.Operand)
	case ExprBoolOp:
		n, _ := d.b.Exprs.BoolOp(id)
		d.w("op=", n.Op.String(), ", values=")
		d.exprs(n.Values)
	case ExprCompare:
		n, _ := d.b.Exprs.Compare(id)
		d.w("left=")
		d.expr(n.Left)
		d.w(", ops=")
		d.list(len(n.Ops), func(i int) { d.w(n.Ops[i].String()) })
		d.w(", comparators=")
		d.exprs(n.Comparators)
	case ExprCall:
		n, _ := d.b.Exprs.Call(id)
		d.w("func=")
		d.expr(n.Func)
		d.w(", args=")
		d.exprs(n.Args)
		if len(n.Keywords) > 0 {
			d.w(", keywords=")
			d.list(len(n.Keywords), func(i int) {
				d.w("keyword(arg=", strconv.Quote(n.Keywords[i].Name), ", value=")
				d.expr(n.Keywords[i].Value)
				d.w(")")
			})
		}
	case ExprDict:
		n, _ := d.b.Exprs.Dict(id)
		d.w("keys=")
		d.exprs(n.Keys)
		d.w(", values=")
		d.exprs(n.Values)
	case ExprList:
		n, _ := d.b.Exprs.List(id)
		d.w("elts=")
		d.exprs(n.Elts)
	}
	d.w(")")
}
