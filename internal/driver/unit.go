package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fortio.org/safecast"

	"mcfc/internal/ast"
	"mcfc/internal/codegen"
	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/observ"
	"mcfc/internal/parser"
	"mcfc/internal/source"
	"mcfc/internal/trace"
)

// Request describes one compile unit: an entry module and where its
// imports come from.
type Request struct {
	Entry          string // dotted module name, e.g. "main" or "game.loop"
	SourceDir      string // read root
	Source         fs.FS  // overrides SourceDir for reading
	TemplateDir    string // optional extra template root
	Config         codegen.Config
	Sink           datapack.Sink // defaults to a MemSink
	MaxDiagnostics int
	Observer       PhaseObserver
}

// Unit is the outcome of CompileUnit. Bag and State are set even when the
// unit failed.
type Unit struct {
	Entry   string
	State   *codegen.State
	Module  *codegen.LoadedModule
	Bag     *diag.Bag
	FileSet *source.FileSet
	Sink    datapack.Sink
	Timer   *observ.Timer
	// Err is the generation failure, a *codegen.CompileError when it came
	// from a node handler.
	Err error
}

// Failed reports whether the unit produced no usable output.
func (u *Unit) Failed() bool {
	return u.Err != nil || u.Bag.HasErrors()
}

// ModuleName maps a source path to its dotted module name relative to dir.
func ModuleName(dir, path string) (string, error) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if strings.HasPrefix(rel, "../") || rel == ".." {
		return "", fmt.Errorf("%s is outside of %s", path, dir)
	}
	rel = strings.TrimSuffix(rel, ".py")
	return strings.ReplaceAll(rel, "/", "."), nil
}

// CompileUnit parses the entry module, generates it with everything it
// imports and writes the bootstrap files into the sink.
func CompileUnit(ctx context.Context, req Request) (*Unit, error) {
	if req.Entry == "" {
		return nil, errors.New("missing entry module")
	}
	if req.MaxDiagnostics <= 0 {
		req.MaxDiagnostics = 100
	}
	maxErrors, err := safecast.Conv[uint](req.MaxDiagnostics)
	if err != nil {
		return nil, err
	}
	if req.Config.ResultExt == "" {
		req.Config = codegen.DefaultConfig()
	}
	req.Config.MaxErrors = maxErrors
	srcFS := req.Source
	if srcFS == nil {
		srcFS = os.DirFS(req.SourceDir)
	}
	var tplFS fs.FS
	if req.TemplateDir != "" {
		tplFS = os.DirFS(req.TemplateDir)
	}
	sink := req.Sink
	if sink == nil {
		sink = datapack.NewMemSink()
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "unit:"+req.Entry, trace.Parent(ctx))
	defer span.End("")

	bag := diag.NewBag(req.MaxDiagnostics)
	reporter := diag.MultiReporter{
		diag.NewDedupReporter(diag.BagReporter{Bag: bag}),
		traceReporter{tracer: tracer, parent: span.ID()},
	}
	files := source.NewFileSetWithBase(req.SourceDir)
	st := codegen.NewState(codegen.Options{
		Config:    req.Config,
		Sink:      sink,
		Reporter:  reporter,
		Source:    srcFS,
		SourceDir: req.SourceDir,
		Templates: tplFS,
		FileSet:   files,
		AST:       ast.NewBuilder(ast.Hints{}),
		Tracer:    tracer,
	})
	u := &Unit{Entry: req.Entry, State: st, Bag: bag, FileSet: files, Sink: sink, Timer: observ.NewTimer()}
	gen := codegen.NewGenerator()

	// entry: parse separately so its syntax errors show up as a phase of
	// their own; imports are parsed while generating
	var (
		fileID source.FileID
		tree   ast.FileID
	)
	entryFile := strings.ReplaceAll(req.Entry, ".", "/") + ".py"
	if phaseErr := u.phase(req.Observer, PhaseParse, func() error {
		p := trace.Begin(tracer, trace.ScopePass, "parse", span.ID())
		defer p.End("")
		fileID, err = files.LoadFS(srcFS, entryFile, filepath.Join(req.SourceDir, entryFile))
		if err != nil {
			diag.ReportError(st.Reporter, diag.IOLoadFileError, source.Span{}, err.Error()).Emit()
			return err
		}
		res := parser.ParseSource(files, fileID, st.AST, parser.Options{MaxErrors: maxErrors, Reporter: st.Reporter})
		if res.Errors > 0 {
			return fmt.Errorf("%s: %d syntax errors", entryFile, res.Errors)
		}
		tree = res.File
		return nil
	}); phaseErr != nil {
		u.Err = phaseErr
		return u, nil
	}

	if phaseErr := u.phase(req.Observer, PhaseGenerate, func() error {
		p := trace.Begin(tracer, trace.ScopePass, "generate", span.ID())
		defer p.End("")
		m, err := gen.CompileParsed(st, req.Entry, fileID, tree)
		if err != nil {
			code := codegen.CodeOf(err)
			diag.ReportError(st.Reporter, code, codegen.SpanOf(err), err.Error()).WithHelp(codeHelp[code]).Emit()
			return err
		}
		u.Module = m
		for _, l := range st.Leaks() {
			diag.ReportWarning(st.Reporter, diag.GenTempLeak, source.Span{},
				fmt.Sprintf("scope %s still holds temporaries %s", l.Scope, strings.Join(l.Regs, ", "))).Emit()
		}
		return nil
	}); phaseErr != nil {
		u.Err = phaseErr
		return u, nil
	}

	if phaseErr := u.phase(req.Observer, PhaseWrite, func() error {
		rt := st.Config.Runtime()
		if err := datapack.WriteMeta(sink, rt); err != nil {
			return err
		}
		return datapack.Bootstrap(sink, rt)
	}); phaseErr != nil {
		diag.ReportError(st.Reporter, diag.IOWriteError, source.Span{}, phaseErr.Error()).Emit()
		u.Err = phaseErr
	}
	return u, nil
}

// traceReporter mirrors diagnostics into the trace as point events.
type traceReporter struct {
	tracer trace.Tracer
	parent uint64
}

func (r traceReporter) Report(d diag.Diagnostic) {
	trace.Point(r.tracer, trace.ScopePass, "diag:"+d.Severity.String(), d.Code.ID()+" "+d.Message, r.parent)
}

var codeHelp = map[diag.Code]string{
	diag.GenChainedCompare:        "split it: a < b and b < c",
	diag.GenReturnOutsideFunction: "move the code into a function",
	diag.GenUnresolved:            "assign the name first; inside a function use global for module variables",
	diag.GenUnsupportedParam:      "only positional parameters with optional defaults are supported",
	diag.ImpRelativeNotAllow:      "import by dotted path from the source root",
	diag.TplBadArgument:           "store the value in a variable and pass the name",
}

func (u *Unit) phase(obs PhaseObserver, name string, fn func() error) error {
	obs.start(name)
	began := time.Now()
	done := u.Timer.Track(name)
	err := fn()
	note := ""
	if err != nil {
		note = "failed"
	}
	done(note)
	obs.end(name, began, err)
	return err
}
