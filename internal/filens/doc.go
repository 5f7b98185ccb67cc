// Package filens tracks the physical layout of the generated functions.
//
// The tree runs parallel to the namespace table: folders and .mcfunction
// files, each tagged with the block level that produced it and with the
// namespace it was compiled in. `$link` entries record that a block calls
// into another block. Nodes also hold the pending breakpoint records that
// the continuation protocol consumes.
package filens
