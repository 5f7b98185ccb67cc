// Package breakpoint implements suspend points on a target that can only
// start a function from its first command.
//
// A statement that may cut the rest of its block short (return, a debugger
// stop) raises a filens.Record against the block it was compiled in. After
// every statement the block asks the Protocol for pending records; when
// there are some and more statements follow, the rest of the block is moved
// into a continuation function and the records' processors render the
// dispatch into it. When the block ends, each processor decides whether the
// record is absorbed here or raised further up.
package breakpoint
