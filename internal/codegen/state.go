package codegen

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"strconv"

	"mcfc/internal/ast"
	"mcfc/internal/breakpoint"
	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
	"mcfc/internal/scoreboard"
	"mcfc/internal/source"
	"mcfc/internal/template"
	"mcfc/internal/trace"
)

// Binding says how a missing argument is filled.
type Binding uint8

const (
	Required Binding = iota
	DefaultValue
	// DefaultOmit leaves the argument register untouched.
	DefaultOmit
)

func (b Binding) String() string {
	switch b {
	case DefaultValue:
		return "default"
	case DefaultOmit:
		return "omit"
	}
	return "required"
}

// ParamInfo is one parameter of a compiled function.
type ParamInfo struct {
	Name    string  `msgpack:"name" json:"name"`
	Binding Binding `msgpack:"binding" json:"binding"`
	Default int32   `msgpack:"default,omitempty" json:"default,omitempty"`
}

// FuncInfo is what a call site needs to know about a compiled function.
type FuncInfo struct {
	Target string      `msgpack:"target" json:"target"` // namespace symbol
	Path   string      `msgpack:"path" json:"path"`     // function id
	Node   string      `msgpack:"node" json:"node"`     // file-namespace folder holding its records
	Params []ParamInfo `msgpack:"params" json:"params"`
}

// ModuleKind tells how an imported module was produced.
type ModuleKind uint8

const (
	ModuleSource ModuleKind = iota
	ModulePackage
	ModuleTemplate
)

func (k ModuleKind) String() string {
	switch k {
	case ModulePackage:
		return "package"
	case ModuleTemplate:
		return "template"
	}
	return "source"
}

// LoadedModule is a module compiled or initialised by this state.
type LoadedModule struct {
	Name  string
	Kind  ModuleKind
	Path  string // file path shown in diagnostics
	File  source.FileID
	AST   ast.FileID
	Scope string // namespace scope of the module body
}

// Options configure a new State.
type Options struct {
	Config    Config
	Sink      datapack.Sink
	Reporter  diag.Reporter
	Source    fs.FS  // read root of source modules
	SourceDir string // shown in diagnostics in front of module paths
	Templates fs.FS  // optional extra template root
	Registry  *template.Registry
	FileSet   *source.FileSet
	AST       *ast.Builder
	Tracer    trace.Tracer
}

// State is everything one compile unit shares.
type State struct {
	Config      Config
	Codec       *scoreboard.Codec
	Names       *namespace.Table
	Files       *filens.Table
	Breakpoints *breakpoint.Registry
	Protocol    *breakpoint.Protocol
	Templates   *template.Registry
	FuncArgs    map[string]*FuncInfo
	Modules     map[string]*LoadedModule

	Sink      datapack.Sink
	Reporter  diag.Reporter
	Source    fs.FS
	SourceDir string
	TplFS     fs.FS
	FileSet   *source.FileSet
	AST       *ast.Builder
	Tracer    trace.Tracer

	tplState   map[string]string
	ids        map[string]uint64
	recordID   uint64
	moduleList []string
	unknownAt  source.Span
}

// NewState returns a fresh compile unit.
func NewState(opts Options) *State {
	cfg := opts.Config
	if cfg.ResultExt == "" {
		cfg = DefaultConfig()
	}
	codec := scoreboard.NewCodec(cfg.Banks.Flags)
	codec.SetPrefix(cfg.CodePrefix)
	st := &State{
		Config:      cfg,
		Codec:       codec,
		Names:       namespace.NewTable(),
		Files:       filens.NewTable(),
		Breakpoints: breakpoint.Default(),
		Templates:   opts.Registry,
		FuncArgs:    make(map[string]*FuncInfo),
		Modules:     make(map[string]*LoadedModule),
		Sink:        opts.Sink,
		Reporter:    opts.Reporter,
		Source:      opts.Source,
		SourceDir:   opts.SourceDir,
		TplFS:       opts.Templates,
		FileSet:     opts.FileSet,
		AST:         opts.AST,
		Tracer:      opts.Tracer,
		tplState:    make(map[string]string),
		ids:         make(map[string]uint64),
	}
	if st.Templates == nil {
		st.Templates = template.Standard()
	}
	if st.Sink == nil {
		st.Sink = datapack.NewMemSink()
	}
	if st.Reporter == nil {
		st.Reporter = diag.NopReporter{}
	}
	if st.FileSet == nil {
		st.FileSet = source.NewFileSet()
	}
	if st.AST == nil {
		st.AST = ast.NewBuilder(ast.Hints{})
	}
	if st.Tracer == nil {
		st.Tracer = trace.Nop
	}
	st.Protocol = &breakpoint.Protocol{
		Files:     st.Files,
		Registry:  st.Breakpoints,
		OnUnknown: st.unknownRecord,
	}
	return st
}

// next returns the next id of kind, formatted in hex.
func (st *State) next(kind string) string {
	st.ids[kind]++
	return strconv.FormatUint(st.ids[kind], 16)
}

// unique returns a fresh register name in scope.
func (st *State) unique(scope, kind string) string {
	return scope + ".*" + kind + st.next(kind)
}

func (st *State) nextRecord() uint64 {
	st.recordID++
	return st.recordID
}

func (st *State) unknownRecord(rec filens.Record) {
	diag.ReportWarning(st.Reporter, diag.GenUnknownBreakpoint, st.unknownAt,
		fmt.Sprintf("no breakpoint processor for tag %q (record %d), skipped", rec.Tag, rec.ID)).Emit()
}

func (st *State) bpContext() breakpoint.Context {
	return breakpoint.Context{
		Codec:     st.Codec,
		FlagsBank: st.Config.Banks.Flags,
		True:      st.Config.Flags.True,
		Comments:  st.Config.Comments,
	}
}

func (st *State) comment(format string, args ...any) string {
	if !st.Config.Comments {
		return ""
	}
	return "# " + fmt.Sprintf(format, args...) + "\n"
}

// functionID turns a file-namespace path into a function id.
func (st *State) functionID(fnsPath string) string {
	return filens.FunctionPath(st.Config.Base, fnsPath)
}

// root is the namespace root of a dotted module name.
func (st *State) root(module string) string {
	return st.Config.Base + ":" + module
}

// moduleScope is the scope of a module body.
func (st *State) moduleScope(module string) string {
	return namespace.Join(st.root(module), "module")
}

// ModuleNames lists loaded modules in load order.
func (st *State) ModuleNames() []string {
	return slices.Clone(st.moduleList)
}

func (st *State) addModule(m *LoadedModule) {
	if _, ok := st.Modules[m.Name]; !ok {
		st.moduleList = append(st.moduleList, m.Name)
	}
	st.Modules[m.Name] = m
}

// Functions lists compiled functions sorted by target.
func (st *State) Functions() []*FuncInfo {
	keys := slices.Sorted(maps.Keys(st.FuncArgs))
	out := make([]*FuncInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, st.FuncArgs[k])
	}
	return out
}

// Leaks reports temporaries still on a temp list.
func (st *State) Leaks() []namespace.Leak {
	return st.Names.Leaks()
}
