package codegen

import (
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
)

// genModule expects ctx.Namespace to be the module root (`<base>:<name>`)
// and ctx.FileNamespace the root of its files (`<name>`).
func genModule(g *Generator, ctx GenContext) (string, error) {
	st := ctx.State
	f := st.AST.Files.Get(ctx.Node.File)
	root := ctx.Namespace
	if err := st.Names.InitRoot(root, namespace.KindFile); err != nil {
		return "", err
	}
	scope := namespace.Join(root, "module")
	if err := st.Names.Set("module", scope, root, namespace.KindModule); err != nil {
		return "", err
	}
	st.Names.InitTemp(scope)

	fnsRoot := ctx.FileNamespace
	if _, err := st.Files.InitRoot(fnsRoot, filens.LevelModule, filens.TypeFolder, root); err != nil {
		return "", err
	}
	node := filens.Join(fnsRoot, "module")
	if _, err := st.Files.Set("module", node, fnsRoot, filens.LevelModule, filens.TypeFolder, scope); err != nil {
		return "", err
	}
	err := g.writeBlock(ctx, blockWriter{
		node:  node,
		dir:   fnsRoot,
		name:  "module",
		level: filens.LevelModule,
		ns:    scope,
	}, st.comment("module %s", namespace.Module(root)), f.Body)
	return "", err
}
