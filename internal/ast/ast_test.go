package ast

import (
	"testing"

	"mcfc/internal/source"
)

func TestPayloadAccessorsCheckKind(t *testing.T) {
	b := NewBuilder(Hints{})
	n := b.Exprs.NewName(source.Span{}, "x")
	if _, ok := b.Exprs.Call(n); ok {
		t.Fatalf("Call accessor accepted a Name")
	}
	if d, ok := b.Exprs.Name(n); !ok || d.Name != "x" {
		t.Fatalf("Name accessor: %v %v", d, ok)
	}
	if b.Exprs.Get(NoExprID) != nil {
		t.Fatalf("NoExprID must resolve to nil")
	}
}

func TestDump(t *testing.T) {
	b := NewBuilder(Hints{})
	sp := source.Span{}
	three := b.Exprs.NewConstant(sp, ConstInt, "3")
	four := b.Exprs.NewConstant(sp, ConstInt, "4")
	two := b.Exprs.NewConstant(sp, ConstInt, "2")
	mul := b.Exprs.NewBinOp(sp, OpMult, four, two)
	add := b.Exprs.NewBinOp(sp, OpAdd, three, mul)
	x := b.Exprs.NewName(sp, "x")
	st := b.Stmts.NewAssign(sp, []ExprID{x}, add)

	want := `Assign(targets=[Name(id="x")], value=BinOp(left=Constant(value=3), op=Add, right=BinOp(left=Constant(value=4), op=Mult, right=Constant(value=2))))`
	if got := DumpStmt(b, st); got != want {
		t.Fatalf("dump:\nwant %s\ngot  %s", want, got)
	}

	f := b.NewFile(sp)
	b.PushStmt(f, st)
	b.PushStmt(f, b.Stmts.NewSimple(StmtPass, sp))
	tree := DumpFile(b, f, 2)
	if tree[:13] != "Module(body=[" || tree[len(tree)-2:] != "])" {
		t.Fatalf("indented dump: %s", tree)
	}
}

func TestAliasBound(t *testing.T) {
	if (Alias{Name: "a.b"}).Bound() != "a.b" {
		t.Fatalf("bound without asname")
	}
	if (Alias{Name: "a.b", AsName: "c"}).Bound() != "c" {
		t.Fatalf("bound with asname")
	}
}
