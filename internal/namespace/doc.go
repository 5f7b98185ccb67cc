// Package namespace is the scoped symbol table of a compile unit.
//
// Scopes are addressed by paths of the form `root:seg\seg\...`, where the
// root is `<base>:<module>`. Every symbol doubles as the scope reached by its
// name, so `source_code:main\module\fact` is the scope that holds the locals
// of function `fact` declared in the module body of `main`.
//
// The package also owns the per-scope temporary register lists and renders
// the spill/restore commands that give recursive calls their own locals on a
// target without a call stack.
package namespace
