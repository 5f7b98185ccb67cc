package lexer

import (
	"mcfc/internal/diag"
	"mcfc/internal/source"
)

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда ошибки игнорируем (но продолжаем лексить)
	// TabSize is the column width of a tab in indentation; zero means 8.
	TabSize int
}

// errLex starts an error report; the caller adds details and calls Emit.
func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) *diag.ReportBuilder {
	return diag.ReportError(lx.opts.Reporter, code, sp, msg)
}
