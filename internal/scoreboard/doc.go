// Package scoreboard maps logical register names to short scoreboard holder
// codes and renders the primitive scoreboard commands over them.
//
// A register is a (name, bank) pair. Names are long and structured
// ("source_code:main\module\fact.n") so they are never written out; each pair
// gets a sequential hex code ("0x1", "0x2", ...) from a counter shared by all
// banks. The flags bank is the exception: its names are compile-time
// constants ("True", "False", "Neg") and map to themselves.
package scoreboard
