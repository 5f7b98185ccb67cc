package lexer

import (
	"strings"

	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// '...' или "..." с escape \n \t \r \\ \' \" \0.
// Token.Text — уже раскрытое значение без кавычек.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	quote := lx.cursor.Bump()
	var sb strings.Builder
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch b {
		case quote:
			lx.cursor.Bump()
			return token.Token{Kind: token.StringLit, Span: lx.cursor.SpanFrom(start), Text: sb.String()}
		case '\n':
			sp := lx.cursor.SpanFrom(start)
			lx.errLex(diag.LexUnterminatedString, sp, "newline in string literal").Emit()
			return token.Token{Kind: token.Invalid, Span: sp, Text: sb.String()}
		case '\\':
			escStart := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				continue
			}
			e := lx.cursor.Bump()
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 't':
				sb.WriteByte('\t')
			case 'r':
				sb.WriteByte('\r')
			case '0':
				sb.WriteByte(0)
			case '\\', '\'', '"':
				sb.WriteByte(e)
			case '\n':
				// продолжение строки
			default:
				lx.errLex(diag.LexBadEscape, lx.cursor.SpanFrom(escStart), "unknown escape sequence \\"+string(e)).WithHelp(`supported escapes: \n \t \\ \" \'`).Emit()
				sb.WriteByte('\\')
				sb.WriteByte(e)
			}
		default:
			r, sz := lx.cursor.PeekRune()
			if sz == 0 {
				lx.cursor.Bump()
				continue
			}
			sb.WriteRune(r)
			lx.cursor.BumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal").Emit()
	return token.Token{Kind: token.Invalid, Span: sp, Text: sb.String()}
}
