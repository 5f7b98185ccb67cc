// Package codegen turns parsed modules into mcfunction files.
//
// Every expression leaves its value in the result register of the current
// scope (`<scope>.?Result` in the temp bank); the consumer copies it and
// resets it. Blocks are written by a blockWriter, which splits a block into
// continuation files whenever a statement left breakpoint records behind.
//
// Fatal problems surface as *CompileError carrying one Frame per enclosing
// node. Recoverable ones are reported through the State's diag.Reporter and
// generation goes on.
package codegen
