package codegen

import (
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/namespace"
	"mcfc/internal/parser"
	"mcfc/internal/source"
	"mcfc/internal/template"
	"mcfc/internal/trace"
)

// TemplateMarker in the leading comment block turns a module into a
// template module. An optional name after it selects the registry module.
const TemplateMarker = "MCFC: Template"

// located is where a dotted module name was found.
type located struct {
	kind     ModuleKind
	file     string // source path inside the read root
	template *template.Module
}

func modulePath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

// templateMarker returns the registry name named by the marker, or
// ok=false when the content carries none.
func templateMarker(content []byte, dotted string) (string, bool) {
	for _, line := range (&source.File{Content: content}).FirstComment() {
		rest, found := strings.CutPrefix(line, TemplateMarker)
		if !found {
			continue
		}
		if name := strings.TrimSpace(rest); name != "" {
			return name, true
		}
		return dotted, true
	}
	return "", false
}

func (st *State) markedTemplate(fsys fs.FS, file, dotted string, sp source.Span) (located, bool, error) {
	data, err := fs.ReadFile(fsys, file)
	if err != nil {
		return located{}, false, nil
	}
	name, ok := templateMarker(data, dotted)
	if !ok {
		return located{}, false, nil
	}
	m, found := st.Templates.Module(name)
	if !found {
		return located{}, false, errorf(diag.ImpUnknownTemplate, sp,
			"%s is marked as template %q, which is not registered", file, name)
	}
	return located{kind: ModuleTemplate, file: file, template: m}, true, nil
}

// locate looks for dotted in the read root, then in the template
// registry, then in the extra template root.
func (st *State) locate(dotted string, sp source.Span) (located, error) {
	p := modulePath(dotted)
	if st.Source != nil {
		if info, err := fs.Stat(st.Source, p+".py"); err == nil && !info.IsDir() {
			tpl, ok, err := st.markedTemplate(st.Source, p+".py", dotted, sp)
			if err != nil {
				return located{}, err
			}
			if ok {
				return tpl, nil
			}
			return located{kind: ModuleSource, file: p + ".py"}, nil
		}
		if info, err := fs.Stat(st.Source, p); err == nil && info.IsDir() {
			return located{kind: ModulePackage, file: p}, nil
		}
	}
	if m, ok := st.Templates.Module(dotted); ok {
		return located{kind: ModuleTemplate, template: m}, nil
	}
	if st.Templates.IsPackage(dotted) {
		return located{kind: ModulePackage}, nil
	}
	if st.TplFS != nil {
		tpl, ok, err := st.markedTemplate(st.TplFS, p+".py", dotted, sp)
		if err != nil {
			return located{}, err
		}
		if ok {
			return tpl, nil
		}
	}
	return located{}, errorf(diag.ImpNotFound, sp, "no module named '%s'", dotted)
}

// load returns the module called dotted, compiling or initialising it on
// first use. first is false for modules this state already knows.
func (g *Generator) load(ctx GenContext, dotted string, sp source.Span) (*LoadedModule, bool, error) {
	st := ctx.State
	if m, ok := st.Modules[dotted]; ok {
		return m, false, nil
	}
	loc, err := st.locate(dotted, sp)
	if err != nil {
		return nil, false, err
	}
	switch loc.kind {
	case ModulePackage:
		m := &LoadedModule{Name: dotted, Kind: ModulePackage, Path: loc.file, Scope: st.root(dotted)}
		if !st.Names.HasRoot(m.Scope) {
			if err := st.Names.InitRoot(m.Scope, namespace.KindPackage); err != nil {
				return nil, false, err
			}
		}
		st.addModule(m)
		return m, true, nil
	case ModuleTemplate:
		m, err := st.initTemplate(dotted, loc.template, sp)
		if err != nil {
			return nil, false, err
		}
		m.Path = loc.file
		return m, true, nil
	}

	display := path.Join(st.SourceDir, loc.file)
	fid, err := st.FileSet.LoadFS(st.Source, loc.file, display)
	if err != nil {
		return nil, false, errorf(diag.IOLoadFileError, sp, "load %s: %v", display, err)
	}
	res := parser.ParseSource(st.FileSet, fid, st.AST, parser.Options{
		MaxErrors: st.Config.MaxErrors,
		Reporter:  st.Reporter,
	})
	if res.Errors > 0 {
		return nil, false, errorf(diag.ImpSyntaxErrors, sp, "%s has %d syntax errors", display, res.Errors)
	}
	m, err := g.compile(ctx, dotted, display, fid, res.File)
	return m, true, err
}

// compile generates an already parsed source module.
func (g *Generator) compile(ctx GenContext, dotted, display string, fid source.FileID, tree ast.FileID) (*LoadedModule, error) {
	st := ctx.State
	m := &LoadedModule{
		Name:  dotted,
		Kind:  ModuleSource,
		Path:  display,
		File:  fid,
		AST:   tree,
		Scope: st.moduleScope(dotted),
	}
	// до генерации, чтобы циклический импорт увидел модуль
	st.addModule(m)

	span := trace.Begin(st.Tracer, trace.ScopeModule, "module:"+dotted, ctx.Span)
	inner := ctx
	inner.Span = span.ID()
	inner.Namespace = st.root(dotted)
	inner.FileNamespace = dotted
	_, err := g.Generate(inner.with(Node{Kind: NodeModule, File: tree}))
	if err != nil {
		span.End("error")
		return m, err
	}
	span.End("")
	return m, nil
}

func (st *State) initTemplate(dotted string, tm *template.Module, sp source.Span) (*LoadedModule, error) {
	root := st.root(dotted)
	scope := st.moduleScope(dotted)
	if err := st.Names.InitRoot(root, namespace.KindFile); err != nil {
		return nil, err
	}
	if err := st.Names.Set("module", scope, root, namespace.KindModule); err != nil {
		return nil, err
	}
	for _, f := range tm.Funcs {
		target := namespace.Join(scope, f.Name)
		if err := st.Names.Set(f.Name, target, scope, namespace.KindFunction); err != nil {
			return nil, err
		}
		st.Templates.Bind(target, f)
	}
	for _, tag := range slices.Sorted(maps.Keys(tm.Processors)) {
		if st.Breakpoints.Register(tag, tm.Processors[tag]) {
			diag.ReportWarning(st.Reporter, diag.GenProcessorReplaced, sp,
				fmt.Sprintf("template %s replaces the breakpoint processor for %q", tm.Name, tag)).Emit()
		}
	}
	m := &LoadedModule{Name: dotted, Kind: ModuleTemplate, Scope: scope}
	st.addModule(m)
	return m, nil
}

// bindTarget is what a name bound to m points at.
func bindTarget(m *LoadedModule) (string, namespace.Kind) {
	if m.Kind == ModulePackage {
		return m.Scope, namespace.KindPackage
	}
	return m.Scope, namespace.KindModule
}

// runModule is the code an import statement emits: the module body runs
// once, at its first import.
func (st *State) runModule(m *LoadedModule, first bool, sp source.Span, parent uint64) string {
	if m.Kind != ModuleSource {
		return ""
	}
	if !first {
		diag.ReportInfo(st.Reporter, diag.ImpAlreadyCompiled, sp,
			fmt.Sprintf("module %s is already compiled, not running it again", m.Name)).Emit()
		trace.Point(st.Tracer, trace.ScopeModule, "import:cached", m.Name, parent)
		return ""
	}
	return "function " + st.functionID(namespace.Join(m.Name, "module.mcfunction")) + "\n"
}

func genImport(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	imp, _ := st.AST.Stmts.Import(ctx.Node.Stmt)
	var sb strings.Builder
	for _, a := range imp.Names {
		m, first, err := g.load(ctx, a.Name, a.Span)
		if err != nil {
			return "", err
		}
		sb.WriteString(st.runModule(m, first, a.Span, ctx.Span))

		target, kind := bindTarget(m)
		if a.AsName != "" || !strings.Contains(a.Name, ".") {
			if err := st.Names.Set(a.Bound(), target, ctx.Namespace, kind); err != nil {
				return "", err
			}
			continue
		}
		// import x.y.z: x в текущей области, дальше по цепочке пакетов
		segs := strings.Split(a.Name, ".")
		for i := range segs {
			var (
				name  = segs[i]
				scope = ctx.Namespace
			)
			if i > 0 {
				scope = st.root(strings.Join(segs[:i], "."))
			}
			if i == len(segs)-1 {
				if err := st.Names.Set(name, target, scope, kind); err != nil {
					return "", err
				}
				break
			}
			pkg := st.root(strings.Join(segs[:i+1], "."))
			if !st.Names.HasRoot(pkg) {
				if err := st.Names.InitRoot(pkg, namespace.KindPackage); err != nil {
					return "", err
				}
			}
			if err := st.Names.Set(name, pkg, scope, namespace.KindPackage); err != nil {
				return "", err
			}
		}
	}
	return sb.String(), nil
}

func genImportFrom(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	s := st.AST.Stmts.Get(ctx.Node.Stmt)
	imp, _ := st.AST.Stmts.ImportFrom(ctx.Node.Stmt)
	if imp.Level > 0 {
		return "", errorf(diag.ImpRelativeNotAllow, s.Span, "relative imports are not supported")
	}
	m, first, err := g.load(ctx, imp.Module, s.Span)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.WriteString(st.runModule(m, first, s.Span, ctx.Span))

	for _, a := range imp.Names {
		if m.Kind == ModulePackage {
			sub, first, err := g.load(ctx, imp.Module+"."+a.Name, a.Span)
			if err != nil {
				return "", err
			}
			sb.WriteString(st.runModule(sub, first, a.Span, ctx.Span))
			target, kind := bindTarget(sub)
			if err := st.Names.Set(a.Bound(), target, ctx.Namespace, kind); err != nil {
				return "", err
			}
			continue
		}
		if _, ok := st.Names.GetLocal(a.Name, m.Scope); !ok {
			return "", errorf(diag.ImpNameNotFound, a.Span, "cannot import name '%s' from '%s'", a.Name, imp.Module)
		}
		if err := st.Names.SetAlias(a.Bound(), m.Scope, a.Name, ctx.Namespace); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// CompileModule locates, parses and generates the module called name as a
// compile root.
func (g *Generator) CompileModule(st *State, name string) (*LoadedModule, error) {
	ctx := GenContext{State: st, Config: &st.Config}
	m, _, err := g.load(ctx, name, source.Span{})
	return m, err
}

// CompileParsed generates an entry module that was parsed by the caller.
func (g *Generator) CompileParsed(st *State, name string, file source.FileID, tree ast.FileID) (*LoadedModule, error) {
	ctx := GenContext{State: st, Config: &st.Config}
	display := name
	if f := st.FileSet.Get(file); f != nil {
		display = f.Path
	}
	return g.compile(ctx, name, display, file, tree)
}
