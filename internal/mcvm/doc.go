// Package mcvm executes the subset of Minecraft commands the compiler
// emits: scoreboards, execute conditions and stores, storage lists used by
// spills, function calls, tellraw and bossbars. It exists so compiled
// datapacks can be run and checked without a game server.
package mcvm
