// Package datapack writes compiled functions into a datapack tree.
//
// A Sink abstracts the file system: DirSink writes to disk, MemSink keeps
// everything in memory for tests and the emulator. Paths handed to a sink
// are slash separated and relative to the pack root.
package datapack
