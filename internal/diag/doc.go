// Package diag defines the diagnostic model shared by every compiler phase.
//
// A Diagnostic carries a Severity, a numeric Code with a stable string ID
// (LEX/SYN/GEN/IMP/TPL/IO ranges), a message, the primary source span, notes
// and an optional help line. Phases emit through a Reporter; BagReporter
// collects into a size-limited Bag.
//
// Formatting lives in internal/diagfmt. Fatal code generation failures are
// not diagnostics: they travel as errors and are rendered as a compile
// traceback by the CLI.
package diag
