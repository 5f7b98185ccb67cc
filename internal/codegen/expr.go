package codegen

import (
	"errors"
	"strconv"
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/namespace"
	"mcfc/internal/scoreboard"
	"mcfc/internal/source"
)

var arithOps = map[ast.BinaryOp]scoreboard.Operation{
	ast.OpAdd:      scoreboard.OpAdd,
	ast.OpSub:      scoreboard.OpSubtract,
	ast.OpMult:     scoreboard.OpMultiply,
	ast.OpDiv:      scoreboard.OpDivide, // целочисленное деление
	ast.OpFloorDiv: scoreboard.OpDivide,
	ast.OpMod:      scoreboard.OpModulo,
}

func arithOp(op ast.BinaryOp, sp source.Span) (scoreboard.Operation, error) {
	if o, ok := arithOps[op]; ok {
		return o, nil
	}
	return "", errorf(diag.GenUnsupportedOp, sp, "operator %s is not supported", op)
}

var compares = map[ast.CmpOp]struct {
	check scoreboard.Check
	cmp   scoreboard.Compare
}{
	ast.CmpEq:    {scoreboard.CheckIf, scoreboard.CmpEqual},
	ast.CmpNotEq: {scoreboard.CheckUnless, scoreboard.CmpEqual},
	ast.CmpLt:    {scoreboard.CheckIf, scoreboard.CmpLess},
	ast.CmpLtE:   {scoreboard.CheckIf, scoreboard.CmpLessEq},
	ast.CmpGt:    {scoreboard.CheckIf, scoreboard.CmpGreater},
	ast.CmpGtE:   {scoreboard.CheckIf, scoreboard.CmpGreaterEq},
}

// refChain flattens `a.b.c` into its names.
func refChain(st *State, id ast.ExprID) ([]string, error) {
	ex := st.AST.Exprs.Get(id)
	if ex == nil {
		return nil, errorf(diag.GenUnresolved, source.Span{}, "missing expression")
	}
	switch ex.Kind {
	case ast.ExprName:
		n, _ := st.AST.Exprs.Name(id)
		return []string{n.Name}, nil
	case ast.ExprAttribute:
		a, _ := st.AST.Exprs.Attribute(id)
		head, err := refChain(st, a.Value)
		if err != nil {
			return nil, err
		}
		return append(head, a.Attr), nil
	}
	return nil, errorf(diag.GenUnresolved, ex.Span, "%s is not a name", ex.Kind)
}

// resolveRef resolves a name or attribute expression without declaring
// anything. Lookup failures become GenUnresolved with the expression span.
func resolveRef(ctx GenContext, id ast.ExprID) (namespace.Resolved, []string, error) {
	st := ctx.State
	ref, err := refChain(st, id)
	if err != nil {
		return namespace.Resolved{}, nil, err
	}
	res, err := st.Names.Resolve(ref, ctx.Namespace, namespace.ResolveOptions{})
	if err != nil {
		var cycle *namespace.AliasCycleError
		if errors.As(err, &cycle) {
			return namespace.Resolved{}, nil, err
		}
		return namespace.Resolved{}, nil, errorf(diag.GenUnresolved, st.AST.Exprs.Get(id).Span,
			"name %s is not defined", strings.Join(ref, "."))
	}
	return res, ref, nil
}

// setNone stores None (the false flag) in the result register of scope.
func (st *State) setNone(scope string) (string, error) {
	return st.Codec.Assign(st.Config.result(scope), st.Config.Banks.Temp, st.Config.Flags.False, st.Config.Banks.Flags)
}

func genName(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	res, ref, err := resolveRef(ctx, ctx.Node.Expr)
	if err != nil {
		return "", err
	}
	if res.Symbol.Kind != namespace.KindVariable {
		return "", errorf(diag.GenUnresolved, st.AST.Exprs.Get(ctx.Node.Expr).Span,
			"%s is a %s, not a value", strings.Join(ref, "."), res.Symbol.Kind)
	}
	st.Codec.ResolveOrAllocate(res.Target, cfg.Banks.Vars)
	return st.Codec.Assign(cfg.result(ctx.Namespace), cfg.Banks.Temp, res.Target, cfg.Banks.Vars)
}

// constValue converts an int or bool literal.
func constValue(c *ast.ConstantData, sp source.Span) (int32, error) {
	switch c.Kind {
	case ast.ConstBool:
		if c.Text == "True" {
			return 1, nil
		}
		return 0, nil
	case ast.ConstInt:
		text := strings.ReplaceAll(c.Text, "_", "")
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return 0, errorf(diag.GenBadConstant, sp, "integer %s does not fit a score", c.Text)
		}
		return int32(v), nil
	}
	return 0, errorf(diag.GenBadConstant, sp, "%s constants have no score value", c.Kind)
}

func genConstant(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	ex := st.AST.Exprs.Get(ctx.Node.Expr)
	c, _ := st.AST.Exprs.Constant(ctx.Node.Expr)
	if c.Kind == ast.ConstNone {
		return st.setNone(ctx.Namespace)
	}
	v, err := constValue(c, ex.Span)
	if err != nil {
		return "", err
	}
	return st.Codec.Constant(st.Config.result(ctx.Namespace), st.Config.Banks.Temp, v)
}

// genBinOp keeps the left operand in a pushed temporary while the right
// one is evaluated.
func genBinOp(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	bin, _ := st.AST.Exprs.BinOp(ctx.Node.Expr)
	op, err := arithOp(bin.Op, st.AST.Exprs.Get(ctx.Node.Expr).Span)
	if err != nil {
		return "", err
	}
	result := cfg.result(ctx.Namespace)
	tmp := st.unique(ctx.Namespace, "BinOp")

	var sb strings.Builder
	left, err := g.expr(ctx, bin.Left)
	if err != nil {
		return "", err
	}
	sb.WriteString(left)
	if err := emit(&sb,
		func() (string, error) { return st.Codec.Assign(tmp, cfg.Banks.Temp, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
	); err != nil {
		return "", err
	}
	st.Names.PushTemp(ctx.Namespace, tmp)
	right, err := g.expr(ctx, bin.Right)
	if err != nil {
		st.Names.PopTemp(ctx.Namespace, tmp)
		return "", err
	}
	sb.WriteString(right)
	err = emit(&sb,
		func() (string, error) { return st.Codec.Op(op, tmp, cfg.Banks.Temp, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Assign(result, cfg.Banks.Temp, tmp, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(tmp, cfg.Banks.Temp) },
	)
	st.Names.PopTemp(ctx.Namespace, tmp)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func genUnaryOp(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	un, _ := st.AST.Exprs.UnaryOp(ctx.Node.Expr)
	operand, err := g.expr(ctx, un.Operand)
	if err != nil {
		return "", err
	}
	result := cfg.result(ctx.Namespace)
	var sb strings.Builder
	sb.WriteString(operand)

	switch un.Op {
	case ast.OpUAdd:
		return sb.String(), nil
	case ast.OpUSub:
		neg, err := st.Codec.Op(scoreboard.OpMultiply, result, cfg.Banks.Temp, cfg.Flags.Neg, cfg.Banks.Flags)
		if err != nil {
			return "", err
		}
		sb.WriteString(neg)
		return sb.String(), nil
	}

	// not: 0 -> 1, всё остальное -> 0
	u := st.unique(ctx.Namespace, "UnaryOp")
	setFalse, err := st.Codec.Assign(u, cfg.Banks.Temp, cfg.Flags.False, cfg.Banks.Flags, scoreboard.NoBreak)
	if err != nil {
		return "", err
	}
	setTrue, err := st.Codec.Assign(u, cfg.Banks.Temp, cfg.Flags.True, cfg.Banks.Flags, scoreboard.NoBreak)
	if err != nil {
		return "", err
	}
	err = emit(&sb,
		func() (string, error) {
			return st.Codec.Conditional(scoreboard.CheckUnless, result, cfg.Banks.Temp, scoreboard.CmpEqual,
				cfg.Flags.False, cfg.Banks.Flags, setFalse)
		},
		func() (string, error) {
			return st.Codec.Conditional(scoreboard.CheckIf, result, cfg.Banks.Temp, scoreboard.CmpEqual,
				cfg.Flags.False, cfg.Banks.Flags, setTrue)
		},
		func() (string, error) { return st.Codec.Assign(result, cfg.Banks.Temp, u, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(u, cfg.Banks.Temp) },
	)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// genBoolOp evaluates every operand; there is no short circuit.
func genBoolOp(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	bo, _ := st.AST.Exprs.BoolOp(ctx.Node.Expr)
	result := cfg.result(ctx.Namespace)
	acc := st.unique(ctx.Namespace, "BoolOp")

	start, check, flip := cfg.Flags.True, scoreboard.CheckIf, cfg.Flags.False
	if bo.Op == ast.OpOr {
		start, check, flip = cfg.Flags.False, scoreboard.CheckUnless, cfg.Flags.True
	}
	var sb strings.Builder
	init, err := st.Codec.Assign(acc, cfg.Banks.Temp, start, cfg.Banks.Flags)
	if err != nil {
		return "", err
	}
	sb.WriteString(init)
	st.Names.PushTemp(ctx.Namespace, acc)
	set, err := st.Codec.Assign(acc, cfg.Banks.Temp, flip, cfg.Banks.Flags, scoreboard.NoBreak)
	if err != nil {
		st.Names.PopTemp(ctx.Namespace, acc)
		return "", err
	}
	for _, v := range bo.Values {
		code, err := g.expr(ctx, v)
		if err != nil {
			st.Names.PopTemp(ctx.Namespace, acc)
			return "", err
		}
		sb.WriteString(code)
		err = emit(&sb,
			func() (string, error) {
				return st.Codec.Conditional(check, result, cfg.Banks.Temp, scoreboard.CmpEqual,
					cfg.Flags.False, cfg.Banks.Flags, set)
			},
			func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
		)
		if err != nil {
			st.Names.PopTemp(ctx.Namespace, acc)
			return "", err
		}
	}
	err = emit(&sb,
		func() (string, error) { return st.Codec.Assign(result, cfg.Banks.Temp, acc, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(acc, cfg.Banks.Temp) },
	)
	st.Names.PopTemp(ctx.Namespace, acc)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func genCompare(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	ex := st.AST.Exprs.Get(ctx.Node.Expr)
	cmp, _ := st.AST.Exprs.Compare(ctx.Node.Expr)
	if len(cmp.Ops) != 1 || len(cmp.Comparators) != 1 {
		return "", errorf(diag.GenChainedCompare, ex.Span, "chained comparisons are not supported")
	}
	rel, ok := compares[cmp.Ops[0]]
	if !ok {
		return "", errorf(diag.GenUnsupportedOp, ex.Span, "comparison %s is not supported", cmp.Ops[0])
	}
	result := cfg.result(ctx.Namespace)
	l := st.unique(ctx.Namespace, "CompareL")
	r := st.unique(ctx.Namespace, "CompareR")

	var sb strings.Builder
	left, err := g.expr(ctx, cmp.Left)
	if err != nil {
		return "", err
	}
	sb.WriteString(left)
	if err := emit(&sb,
		func() (string, error) { return st.Codec.Assign(l, cfg.Banks.Temp, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
	); err != nil {
		return "", err
	}
	st.Names.PushTemp(ctx.Namespace, l)
	right, err := g.expr(ctx, cmp.Comparators[0])
	if err != nil {
		st.Names.PopTemp(ctx.Namespace, l)
		return "", err
	}
	sb.WriteString(right)
	setTrue, err := st.Codec.Assign(r, cfg.Banks.Temp, cfg.Flags.True, cfg.Banks.Flags, scoreboard.NoBreak)
	if err != nil {
		st.Names.PopTemp(ctx.Namespace, l)
		return "", err
	}
	err = emit(&sb,
		func() (string, error) { return st.Codec.Assign(r, cfg.Banks.Temp, cfg.Flags.False, cfg.Banks.Flags) },
		func() (string, error) {
			return st.Codec.Conditional(rel.check, l, cfg.Banks.Temp, rel.cmp, result, cfg.Banks.Temp, setTrue)
		},
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(l, cfg.Banks.Temp) },
	)
	st.Names.PopTemp(ctx.Namespace, l)
	if err != nil {
		return "", err
	}
	err = emit(&sb,
		func() (string, error) { return st.Codec.Assign(result, cfg.Banks.Temp, r, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(r, cfg.Banks.Temp) },
	)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}
