package codegen

import (
	"fmt"
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/breakpoint"
	"mcfc/internal/diag"
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
	"mcfc/internal/scoreboard"
)

func genPass(*Generator, GenContext) (string, error) { return "", nil }

func genFunctionDef(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	fd, _ := st.AST.Stmts.FunctionDef(ctx.Node.Stmt)
	target := namespace.Join(ctx.Namespace, fd.Name)
	if _, dup := st.FuncArgs[target]; dup {
		diag.ReportWarning(st.Reporter, diag.GenRedeclared, fd.NameSpan,
			fmt.Sprintf("function %s redefined, later calls use the new body", fd.Name)).Emit()
	}
	if err := st.Names.Set(fd.Name, target, ctx.Namespace, namespace.KindFunction); err != nil {
		return "", err
	}
	st.Names.InitTemp(target)

	enclosing, err := st.Files.Node(ctx.FileNamespace)
	if err != nil {
		return "", err
	}
	dir := dirOf(enclosing)
	folder := filens.Join(dir, fd.Name)
	if _, err := st.Files.Set(fd.Name, folder, dir, filens.LevelFunction, filens.TypeFolder, target); err != nil {
		return "", err
	}
	st.FuncArgs[target] = &FuncInfo{
		Target: target,
		Path:   st.functionID(filens.Join(dir, fd.Name+".mcfunction")),
		Node:   folder,
	}
	// функция может ничего не вернуть, регистр всё равно нужен вызывающему
	st.Codec.ResolveOrAllocate(target, st.Config.Banks.FuncResult)

	inner := ctx
	inner.Namespace = target
	inner.FileNamespace = folder
	prelude, err := g.Generate(inner.with(Node{Kind: NodeArguments, Stmt: ctx.Node.Stmt}))
	if err != nil {
		return "", err
	}
	err = g.writeBlock(ctx, blockWriter{
		node:   folder,
		dir:    dir,
		name:   fd.Name,
		level:  filens.LevelFunction,
		parent: folder,
		ns:     target,
	}, st.comment("def %s", target)+prelude, fd.Body)
	return "", err
}

// genArguments records the parameters of the function at ctx.Namespace and
// moves the argument registers into its variables.
func genArguments(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	fd, _ := st.AST.Stmts.FunctionDef(ctx.Node.Stmt)
	info := st.FuncArgs[ctx.Namespace]
	info.Params = info.Params[:0]

	var sb strings.Builder
	for _, p := range fd.Params {
		if p.Kind != ast.ParamPositional {
			return "", errorf(diag.GenUnsupportedParam, p.Span,
				"parameter %s: only positional parameters are supported", p.Name)
		}
		pi := ParamInfo{Name: p.Name}
		if p.Default.IsValid() {
			c, ok := st.AST.Exprs.Constant(p.Default)
			if !ok {
				return "", errorf(diag.GenBadDefault, st.AST.Exprs.Get(p.Default).Span,
					"default of %s must be a constant", p.Name)
			}
			switch c.Kind {
			case ast.ConstNone:
				pi.Binding = DefaultOmit
			case ast.ConstInt, ast.ConstBool:
				v, err := constValue(c, st.AST.Exprs.Get(p.Default).Span)
				if err != nil {
					return "", err
				}
				pi.Binding, pi.Default = DefaultValue, v
			default:
				return "", errorf(diag.GenBadDefault, st.AST.Exprs.Get(p.Default).Span,
					"default of %s must be int, bool or None", p.Name)
			}
		}
		info.Params = append(info.Params, pi)

		arg := ctx.Namespace + "." + p.Name
		st.Codec.ResolveOrAllocate(arg, cfg.Banks.Args)
		if err := st.Names.Set(p.Name, arg, ctx.Namespace, namespace.KindVariable); err != nil {
			return "", err
		}
		mov, err := st.Codec.Assign(arg, cfg.Banks.Vars, arg, cfg.Banks.Args)
		if err != nil {
			return "", err
		}
		reset, err := st.Codec.Reset(arg, cfg.Banks.Args)
		if err != nil {
			return "", err
		}
		sb.WriteString(mov)
		sb.WriteString(reset)
	}
	return sb.String(), nil
}

func genReturn(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	s := st.AST.Stmts.Get(ctx.Node.Stmt)
	ret, _ := st.AST.Stmts.Return(ctx.Node.Stmt)
	fn, ok := st.Names.Symbol(ctx.Namespace)
	if !ok || fn.Kind != namespace.KindFunction {
		return "", errorf(diag.GenReturnOutsideFunction, s.Span, "'return' outside function")
	}
	result := cfg.result(ctx.Namespace)

	var sb strings.Builder
	sb.WriteString(st.comment("return"))
	if ret.Value.IsValid() {
		code, err := g.expr(ctx, ret.Value)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
	} else {
		code, err := st.setNone(ctx.Namespace)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
	}
	if err := emit(&sb,
		func() (string, error) { return st.Codec.Assign(fn.Target, cfg.Banks.FuncResult, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
	); err != nil {
		return "", err
	}

	flag := st.unique(ctx.Namespace, "Return")
	set, err := st.Codec.Assign(flag, cfg.Banks.Temp, cfg.Flags.True, cfg.Banks.Flags)
	if err != nil {
		return "", err
	}
	sb.WriteString(set)
	rec := filens.Record{ID: st.nextRecord(), Tag: breakpoint.ReturnTag, Name: flag, Objective: cfg.Banks.Temp}
	if err := st.Files.Raise(ctx.FileNamespace, rec); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// assignTarget returns the variable register a target expression names,
// declaring it when needed.
func assignTarget(ctx GenContext, id ast.ExprID) (string, error) {
	st := ctx.State
	ex := st.AST.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprName:
		n, _ := st.AST.Exprs.Name(id)
		if sym, ok := st.Names.GetLocal(n.Name, ctx.Namespace); ok && sym.Kind == namespace.KindVariable {
			return sym.Target, nil
		}
		target := ctx.Namespace + "." + n.Name
		return target, st.Names.Set(n.Name, target, ctx.Namespace, namespace.KindVariable)
	case ast.ExprAttribute:
		a, _ := st.AST.Exprs.Attribute(id)
		ref, err := refChain(st, a.Value)
		if err != nil {
			return "", err
		}
		owner, err := st.Names.Resolve(ref, ctx.Namespace, namespace.ResolveOptions{})
		if err != nil {
			return "", err
		}
		if sym, ok := st.Names.GetLocal(a.Attr, owner.Target); ok && sym.Kind == namespace.KindVariable {
			return sym.Target, nil
		}
		target := owner.Target + "." + a.Attr
		return target, st.Names.Set(a.Attr, target, owner.Target, namespace.KindVariable)
	}
	return "", errorf(diag.SynBadAssignTarget, ex.Span, "cannot assign to %s", ex.Kind)
}

func genAssign(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	as, _ := st.AST.Stmts.Assign(ctx.Node.Stmt)
	code, err := g.expr(ctx, as.Value)
	if err != nil {
		return "", err
	}
	result := cfg.result(ctx.Namespace)
	var sb strings.Builder
	sb.WriteString(code)
	for _, t := range as.Targets {
		target, err := assignTarget(ctx, t)
		if err != nil {
			return "", err
		}
		mov, err := st.Codec.Assign(target, cfg.Banks.Vars, result, cfg.Banks.Temp)
		if err != nil {
			return "", err
		}
		sb.WriteString(mov)
	}
	reset, err := st.Codec.Reset(result, cfg.Banks.Temp)
	if err != nil {
		return "", err
	}
	sb.WriteString(reset)
	return sb.String(), nil
}

func genAugAssign(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	aug, _ := st.AST.Stmts.AugAssign(ctx.Node.Stmt)
	op, err := arithOp(aug.Op, st.AST.Stmts.Get(ctx.Node.Stmt).Span)
	if err != nil {
		return "", err
	}
	ref, err := refChain(st, aug.Target)
	if err != nil {
		return "", err
	}
	res, err := st.Names.Resolve(ref, ctx.Namespace, namespace.ResolveOptions{})
	if err != nil {
		return "", err
	}
	if res.Symbol.Kind != namespace.KindVariable {
		return "", errorf(diag.GenUnresolved, st.AST.Exprs.Get(aug.Target).Span,
			"%s is a %s, not a variable", strings.Join(ref, "."), res.Symbol.Kind)
	}

	var sb strings.Builder
	tmp := st.unique(ctx.Namespace, "AugAssign")
	load, err := st.Codec.Assign(tmp, cfg.Banks.Temp, res.Target, cfg.Banks.Vars)
	if err != nil {
		return "", err
	}
	sb.WriteString(load)
	st.Names.PushTemp(ctx.Namespace, tmp)
	value, err := g.expr(ctx, aug.Value)
	if err != nil {
		return "", err
	}
	sb.WriteString(value)
	result := cfg.result(ctx.Namespace)
	err = emit(&sb,
		func() (string, error) { return st.Codec.Op(op, tmp, cfg.Banks.Temp, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Assign(res.Target, cfg.Banks.Vars, tmp, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(tmp, cfg.Banks.Temp) },
	)
	st.Names.PopTemp(ctx.Namespace, tmp)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

func genExprStmt(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	es, _ := st.AST.Stmts.ExprStmt(ctx.Node.Stmt)
	code, err := g.expr(ctx, es.Value)
	if err != nil {
		return "", err
	}
	result := st.Config.result(ctx.Namespace)
	if !st.Codec.Has(result, st.Config.Banks.Temp) {
		diag.ReportWarning(st.Reporter, diag.GenResultUnconsumed, st.AST.Stmts.Get(ctx.Node.Stmt).Span,
			"expression left no result register to reset").Emit()
		return code, nil
	}
	reset, err := st.Codec.Reset(result, st.Config.Banks.Temp)
	if err != nil {
		return "", err
	}
	return code + reset, nil
}

// genGlobal binds module level variables into the current scope.
func genGlobal(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	gl, _ := st.AST.Stmts.Global(ctx.Node.Stmt)
	modScope := moduleScopeOf(ctx.Namespace)
	for _, name := range gl.Names {
		if ctx.Namespace == modScope {
			continue
		}
		target := modScope + "." + name
		if sym, ok := st.Names.GetLocal(name, modScope); ok && sym.Kind == namespace.KindVariable {
			target = sym.Target
		} else if err := st.Names.Set(name, target, modScope, namespace.KindVariable); err != nil {
			return "", err
		}
		if err := st.Names.Set(name, target, ctx.Namespace, namespace.KindVariable); err != nil {
			return "", err
		}
	}
	return "", nil
}

// moduleScopeOf cuts a scope path down to `<root>\module`.
func moduleScopeOf(scope string) string {
	segs := strings.SplitN(scope, namespace.Sep, 3)
	if len(segs) < 2 {
		return namespace.Join(scope, "module")
	}
	return segs[0] + namespace.Sep + segs[1]
}

func genIf(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	cfg := st.Config
	data, _ := st.AST.Stmts.If(ctx.Node.Stmt)

	enclosing, err := st.Files.Node(ctx.FileNamespace)
	if err != nil {
		return "", err
	}
	dir := dirOf(enclosing)
	if enclosing.Level != filens.LevelIf {
		if _, err := st.Files.Set(".if", filens.Join(dir, ".if"), dir, filens.LevelIf, filens.TypeFolder, ctx.Namespace); err != nil {
			return "", err
		}
		dir = filens.Join(dir, ".if")
	}
	uid := st.next("block")

	var sb strings.Builder
	test, err := g.expr(ctx, data.Test)
	if err != nil {
		return "", err
	}
	sb.WriteString(test)
	result := cfg.result(ctx.Namespace)
	cond := st.unique(ctx.Namespace, "If")
	if err := emit(&sb,
		func() (string, error) { return st.Codec.Assign(cond, cfg.Banks.Temp, result, cfg.Banks.Temp) },
		func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
	); err != nil {
		return "", err
	}
	st.Names.PushTemp(ctx.Namespace, cond)

	branches := []struct {
		name string
		body []ast.StmtID
	}{{uid, data.Body}, {uid + "-else", data.Else}}
	ids := make([]string, 2)
	for i, br := range branches {
		node := filens.Join(dir, br.name+".mcfunction")
		ids[i] = st.functionID(node)
		err := g.writeBlock(ctx, blockWriter{
			node:   node,
			dir:    dir,
			name:   br.name,
			level:  filens.LevelIf,
			parent: ctx.FileNamespace,
			ns:     ctx.Namespace,
		}, "", br.body)
		if err != nil {
			st.Names.PopTemp(ctx.Namespace, cond)
			return "", err
		}
	}

	err = emit(&sb,
		func() (string, error) {
			return st.Codec.Conditional(scoreboard.CheckIf, cond, cfg.Banks.Temp, scoreboard.CmpEqual,
				cfg.Flags.False, cfg.Banks.Flags, "function "+ids[1])
		},
		func() (string, error) {
			return st.Codec.Conditional(scoreboard.CheckUnless, cond, cfg.Banks.Temp, scoreboard.CmpEqual,
				cfg.Flags.False, cfg.Banks.Flags, "function "+ids[0])
		},
		func() (string, error) { return st.Codec.Reset(cond, cfg.Banks.Temp) },
	)
	st.Names.PopTemp(ctx.Namespace, cond)
	if err != nil {
		return "", err
	}
	return sb.String(), nil
}

// emit appends the output of each step until one fails.
func emit(sb *strings.Builder, steps ...func() (string, error)) error {
	for _, step := range steps {
		s, err := step()
		if err != nil {
			return err
		}
		sb.WriteString(s)
	}
	return nil
}
