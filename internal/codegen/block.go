package codegen

import (
	"errors"
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/datapack"
	"mcfc/internal/diag"
	"mcfc/internal/filens"
)

// blockWriter describes where one block (module body, function body or
// if branch) is written.
type blockWriter struct {
	node   string // collects the records raised inside the block
	dir    string // folder of the block's files
	name   string // first file, without extension
	level  filens.Level
	parent string // kept records move here; "" drops them
	ns     string
}

type blockFile struct {
	path string
	buf  strings.Builder
	kept []filens.Record // records this file dispatched on
}

// writeBlock generates body into the block's files. After every statement
// but the last, pending records split the block: the rest goes into a
// continuation file that the processors decide whether to enter. At the end
// the raise phase runs per file: each file that dispatched closes with the
// code for its own records, the last file with the code for the rest.
func (g *Generator) writeBlock(ctx GenContext, b blockWriter, prelude string, body []ast.StmtID) error {
	st := ctx.State
	first := &blockFile{path: filens.Join(b.dir, b.name+".mcfunction")}
	if _, err := st.Files.Set(b.name+".mcfunction", first.path, b.dir, b.level, filens.TypeMCFunction, b.ns); err != nil {
		return err
	}
	files := []*blockFile{first}
	cur := first
	cur.buf.WriteString(prelude)

	inner := ctx
	inner.Namespace = b.ns
	inner.FileNamespace = b.node
	bctx := st.bpContext()

	// уже сгенерированное остаётся на диске
	fail := func(err error) error {
		if ferr := st.flush(files); ferr != nil {
			return errors.Join(err, ferr)
		}
		return err
	}

	for i, id := range body {
		code, err := g.stmt(inner, id)
		if err != nil {
			return fail(err)
		}
		cur.buf.WriteString(code)
		if i == len(body)-1 {
			break
		}
		recs, err := st.Protocol.Pending(b.node)
		if err != nil {
			return fail(err)
		}
		if len(recs) == 0 {
			continue
		}
		contName := b.name + "-" + st.next("block")
		contPath := filens.Join(b.dir, contName+".mcfunction")
		st.unknownAt = st.AST.Stmts.Get(id).Span
		dispatch, kept, err := st.Protocol.Dispatch(bctx, recs, st.functionID(contPath))
		if err != nil {
			return fail(err)
		}
		if len(kept) == 0 {
			continue
		}
		if _, err := st.Files.Set(contName+".mcfunction", contPath, b.dir, b.level, filens.TypeMCFunction, b.ns); err != nil {
			return fail(err)
		}
		cur.buf.WriteString(dispatch)
		cur.kept = kept
		cur = &blockFile{path: contPath}
		files = append(files, cur)
	}

	rest, err := st.Protocol.Pending(b.node)
	if err != nil {
		return fail(err)
	}
	if len(body) > 0 {
		st.unknownAt = st.AST.Stmts.Get(body[len(body)-1]).Span
	}
	cur.kept = append(cur.kept, rest...)
	for _, f := range files {
		if len(f.kept) == 0 {
			continue
		}
		absorb, err := st.Protocol.Finalize(bctx, f.kept, b.level, b.parent)
		if err != nil {
			return fail(err)
		}
		f.buf.WriteString(absorb)
	}
	return st.flush(files)
}

func (st *State) flush(files []*blockFile) error {
	for _, f := range files {
		name := datapack.FunctionFile(st.Config.Base, f.path)
		if err := datapack.WriteFile(st.Sink, name, f.buf.String()); err != nil {
			return &Error{Code: diag.IOWriteError, Msg: err.Error()}
		}
	}
	return nil
}

// dirOf is the folder a node's files live in.
func dirOf(n *filens.Node) string {
	if n.Type == filens.TypeFolder {
		return n.Path
	}
	return filens.Parent(n.Path)
}
