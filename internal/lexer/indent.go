package lexer

import (
	"mcfc/internal/diag"
	"mcfc/internal/source"
	"mcfc/internal/token"
)

// scanIndentation измеряет отступ строки, не сдвигая курсор.
// Пустые строки и строки из одного комментария на блоки не влияют.
// Возвращает true, если строка значимая и отступ обработан.
func (lx *Lexer) scanIndentation() bool {
	content := lx.file.Content
	off := lx.cursor.Off
	limit := lx.cursor.limit()
	col := 0
	sawTab, sawSpace := false, false
measure:
	for off < limit {
		switch content[off] {
		case ' ':
			col++
			sawSpace = true
		case '\t':
			col = (col/lx.opts.TabSize + 1) * lx.opts.TabSize
			sawTab = true
		default:
			break measure
		}
		off++
	}
	if off >= limit || content[off] == '\n' || content[off] == '#' {
		return false
	}
	lx.lineStart = false
	sp := source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: off}
	if sawTab && sawSpace {
		lx.errLex(diag.LexTabsMixed, sp, "inconsistent use of tabs and spaces in indentation").WithHelp("indent with spaces only").Emit()
	}

	top := lx.indents[len(lx.indents)-1]
	switch {
	case col > top:
		lx.indents = append(lx.indents, col)
		lx.queue = append(lx.queue, token.Token{Kind: token.Indent, Span: sp})
	case col < top:
		for len(lx.indents) > 1 && col < lx.indents[len(lx.indents)-1] {
			lx.indents = lx.indents[:len(lx.indents)-1]
			lx.queue = append(lx.queue, token.Token{Kind: token.Dedent, Span: sp})
		}
		if col != lx.indents[len(lx.indents)-1] {
			lx.errLex(diag.LexBadDedent, sp, "unindent does not match any outer indentation level").Emit()
		}
	}
	return true
}
