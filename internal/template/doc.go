// Package template holds functions implemented by the compiler itself.
//
// A template function is called like a compiled function but its body is
// Go code that renders commands from the call's arguments. Arguments are
// literal values or references to registers; anything the generator cannot
// turn into a Value is rejected before the function runs.
//
// Modules group template functions under an importable name. The standard
// set is builtin, scoreboard, envbuild and bossbar.
package template
