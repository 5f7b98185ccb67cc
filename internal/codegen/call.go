package codegen

import (
	"slices"
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
	"mcfc/internal/source"
	"mcfc/internal/template"
)

func genCall(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	call, _ := st.AST.Exprs.Call(ctx.Node.Expr)
	res, ref, err := resolveRef(ctx, call.Func)
	if err != nil {
		return "", err
	}
	if f, ok := st.Templates.Lookup(res.Target); ok {
		return genTemplateCall(g, ctx, f, call)
	}
	info, ok := st.FuncArgs[res.Target]
	if !ok {
		return "", errorf(diag.GenUnregisteredFunction, st.AST.Exprs.Get(call.Func).Span,
			"%s is not a compiled function", strings.Join(ref, "."))
	}
	return genFuncCall(g, ctx, info, call)
}

// boundArg is the source of one parameter at a call site.
type boundArg struct {
	param ParamInfo
	expr  ast.ExprID // NoExprID when the default applies
	order int        // position in the source, for evaluation order
}

func bindArgs(st *State, info *FuncInfo, call *ast.CallData, at source.Span) ([]boundArg, error) {
	out := make([]boundArg, len(info.Params))
	for i, p := range info.Params {
		out[i] = boundArg{param: p, order: -1}
	}
	_, name := namespace.Split(info.Target)
	if len(call.Args) > len(info.Params) {
		extra := call.Args[len(info.Params)]
		return nil, errorf(diag.GenTooManyArgs, st.AST.Exprs.Get(extra).Span,
			"%s() takes %d positional arguments but %d were given: unexpected %s",
			name, len(info.Params), len(call.Args), ast.DumpExpr(st.AST, extra))
	}
	for i, a := range call.Args {
		out[i].expr, out[i].order = a, i
	}
	for k, kw := range call.Keywords {
		idx := -1
		for i, p := range info.Params {
			if p.Name == kw.Name {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, errorf(diag.GenUnknownKeyword, kw.Span,
				"%s() got an unexpected keyword argument '%s'", name, kw.Name)
		}
		if out[idx].expr.IsValid() {
			return nil, errorf(diag.GenDuplicateArg, kw.Span,
				"%s() got multiple values for argument '%s'", name, kw.Name)
		}
		out[idx].expr, out[idx].order = kw.Value, len(call.Args)+k
	}
	for _, b := range out {
		if !b.expr.IsValid() && b.param.Binding == Required {
			return nil, errorf(diag.GenMissingArg, at,
				"%s() missing required argument: '%s'", name, b.param.Name)
		}
	}
	return out, nil
}

// genFuncCall moves the arguments into the callee's argument registers,
// spills the caller's locals around the call when the caller is itself a
// function and leaves the return value in the result register.
func genFuncCall(g *Generator, ctx GenContext, info *FuncInfo, call *ast.CallData) (string, error) {
	st := ctx.State
	cfg := st.Config
	binds, err := bindArgs(st, info, call, st.AST.Exprs.Get(ctx.Node.Expr).Span)
	if err != nil {
		return "", err
	}
	result := cfg.result(ctx.Namespace)
	var sb strings.Builder
	sb.WriteString(st.comment("call %s", info.Path))

	// источник аргументов в порядке исходника
	evaluated := make([]int, 0, len(binds))
	for i, b := range binds {
		if b.expr.IsValid() {
			evaluated = append(evaluated, i)
		}
	}
	slices.SortStableFunc(evaluated, func(a, b int) int { return binds[a].order - binds[b].order })

	argReg := func(b boundArg) string { return info.Target + "." + b.param.Name }
	if len(evaluated) == 1 {
		b := binds[evaluated[0]]
		code, err := g.expr(ctx, b.expr)
		if err != nil {
			return "", err
		}
		sb.WriteString(code)
		if err := emit(&sb,
			func() (string, error) { return st.Codec.Assign(argReg(b), cfg.Banks.Args, result, cfg.Banks.Temp) },
			func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
		); err != nil {
			return "", err
		}
	} else if len(evaluated) > 1 {
		// следующий аргумент может вызвать ту же функцию и затереть Args
		temps := make([]string, len(evaluated))
		release := func() {
			for i := len(temps) - 1; i >= 0; i-- {
				if temps[i] != "" {
					st.Names.PopTemp(ctx.Namespace, temps[i])
				}
			}
		}
		for k, i := range evaluated {
			code, err := g.expr(ctx, binds[i].expr)
			if err != nil {
				release()
				return "", err
			}
			sb.WriteString(code)
			tmp := st.unique(ctx.Namespace, "Arg")
			if err := emit(&sb,
				func() (string, error) { return st.Codec.Assign(tmp, cfg.Banks.Temp, result, cfg.Banks.Temp) },
				func() (string, error) { return st.Codec.Reset(result, cfg.Banks.Temp) },
			); err != nil {
				release()
				return "", err
			}
			temps[k] = tmp
			st.Names.PushTemp(ctx.Namespace, tmp)
		}
		for k, i := range evaluated {
			tmp := temps[k]
			if err := emit(&sb,
				func() (string, error) { return st.Codec.Assign(argReg(binds[i]), cfg.Banks.Args, tmp, cfg.Banks.Temp) },
				func() (string, error) { return st.Codec.Reset(tmp, cfg.Banks.Temp) },
			); err != nil {
				release()
				return "", err
			}
		}
		release()
	}
	for _, b := range binds {
		if b.expr.IsValid() || b.param.Binding != DefaultValue {
			continue
		}
		set, err := st.Codec.Constant(argReg(b), cfg.Banks.Args, b.param.Default)
		if err != nil {
			return "", err
		}
		sb.WriteString(set)
	}

	if _, err := st.Files.Set(info.Path+filens.LinkSuffix, info.Node, ctx.FileNamespace,
		filens.LevelNone, filens.TypeLink, ctx.Namespace); err != nil {
		return "", err
	}

	var store, load string
	if sym, ok := st.Names.Symbol(ctx.Namespace); ok && sym.Kind == namespace.KindFunction {
		store, load, err = st.Names.StoreLocal(ctx.Namespace, st.Codec, cfg.spill())
		if err != nil {
			return "", err
		}
	}
	sb.WriteString(store)
	sb.WriteString("function " + info.Path + "\n")
	sb.WriteString(load)
	st.Codec.ResolveOrAllocate(info.Target, cfg.Banks.FuncResult)
	if err := emit(&sb,
		func() (string, error) { return st.Codec.Assign(result, cfg.Banks.Temp, info.Target, cfg.Banks.FuncResult) },
		func() (string, error) { return st.Codec.Reset(info.Target, cfg.Banks.FuncResult) },
	); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func genTemplateCall(g *Generator, ctx GenContext, f *template.Func, call *ast.CallData) (string, error) {
	st := ctx.State
	args := make([]template.Argument, 0, len(call.Args)+len(call.Keywords))
	for _, a := range call.Args {
		v, err := templateValue(ctx, a)
		if err != nil {
			return "", err
		}
		args = append(args, template.Argument{Value: v})
	}
	for _, kw := range call.Keywords {
		v, err := templateValue(ctx, kw.Value)
		if err != nil {
			return "", err
		}
		args = append(args, template.Argument{Name: kw.Name, Value: v})
	}
	code, c, err := f.Invoke(templateEnv(ctx), args)
	if err != nil {
		return "", err
	}
	if c.WroteResult() {
		return code, nil
	}
	none, err := st.setNone(ctx.Namespace)
	if err != nil {
		return "", err
	}
	return code + none, nil
}

func templateEnv(ctx GenContext) *template.Env {
	st := ctx.State
	cfg := st.Config
	return &template.Env{
		Codec:         st.Codec,
		Namespace:     ctx.Namespace,
		FileNamespace: ctx.FileNamespace,
		Result:        cfg.result(ctx.Namespace),
		TempBank:      cfg.Banks.Temp,
		VarsBank:      cfg.Banks.Vars,
		FlagsBank:     cfg.Banks.Flags,
		True:          cfg.Flags.True,
		Comments:      cfg.Comments,
		Unique:        func(kind string) string { return st.unique(ctx.Namespace, kind) },
		Raise: func(tag, name, objective string) error {
			return st.Files.Raise(ctx.FileNamespace, filens.Record{
				ID: st.nextRecord(), Tag: tag, Name: name, Objective: objective,
			})
		},
		State: st.tplState,
	}
}

// templateValue converts a call argument into a compile-time value.
func templateValue(ctx GenContext, id ast.ExprID) (template.Value, error) {
	st := ctx.State
	ex := st.AST.Exprs.Get(id)
	switch ex.Kind {
	case ast.ExprConstant:
		c, _ := st.AST.Exprs.Constant(id)
		switch c.Kind {
		case ast.ConstStr:
			return template.String(c.Text), nil
		case ast.ConstBool:
			return template.Bool(c.Text == "True"), nil
		case ast.ConstInt:
			v, err := constValue(c, ex.Span)
			if err != nil {
				return template.Value{}, err
			}
			return template.Int(v), nil
		}
	case ast.ExprName, ast.ExprAttribute:
		res, ref, err := resolveRef(ctx, id)
		if err != nil {
			return template.Value{}, err
		}
		if res.Symbol.Kind == namespace.KindVariable {
			code := st.Codec.ResolveOrAllocate(res.Target, st.Config.Banks.Vars)
			return template.Name(template.Ref{
				Name: strings.Join(ref, "."),
				Code: code,
				Bank: st.Config.Banks.Vars,
			}), nil
		}
	case ast.ExprDict:
		d, _ := st.AST.Exprs.Dict(id)
		entries := make([]template.Entry, 0, len(d.Keys))
		for i, k := range d.Keys {
			kc, ok := st.AST.Exprs.Constant(k)
			if !ok || kc.Kind != ast.ConstStr {
				return template.Value{}, errorf(diag.TplBadArgument, st.AST.Exprs.Get(k).Span,
					"dict keys passed to templates must be string literals")
			}
			v, err := templateValue(ctx, d.Values[i])
			if err != nil {
				return template.Value{}, err
			}
			entries = append(entries, template.Entry{Key: kc.Text, Value: v})
		}
		return template.Dict(entries...), nil
	}
	return template.Value{}, errorf(diag.TplBadArgument, ex.Span,
		"%s cannot be passed to a template function", ex.Kind)
}
