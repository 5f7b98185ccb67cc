// Package ast holds the arena based syntax tree of the Python subset.
//
// Nodes live in per-kind arenas owned by a Builder and are addressed by
// typed 1-based IDs; zero means "absent". Statement and expression kinds
// are named after their Python counterparts so that dumps read familiar.
package ast
