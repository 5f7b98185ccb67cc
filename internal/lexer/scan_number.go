package lexer

import (
	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// Поддержка: 0, 123, 1_000, 0b..., 0o..., 0x...
// Дробных чисел в целевой среде нет: "1.5" репортим как LexBadNumber.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	digits := isDec
	prefixed := false
	if lx.cursor.Peek() == '0' {
		lx.cursor.Bump()
		switch lx.cursor.Peek() {
		case 'b', 'B':
			lx.cursor.Bump()
			digits, prefixed = func(b byte) bool { return b == '0' || b == '1' }, true
		case 'o', 'O':
			lx.cursor.Bump()
			digits, prefixed = func(b byte) bool { return b >= '0' && b <= '7' }, true
		case 'x', 'X':
			lx.cursor.Bump()
			digits, prefixed = isHex, true
		}
	}
	for digits(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	bad := false
	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '.' && isDec(b1) {
		lx.cursor.Bump()
		for isDec(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		bad = true
	}
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
		bad = true
	}

	sp := lx.cursor.SpanFrom(start)
	text := string(lx.file.Content[sp.Start:sp.End])
	if bad || text[len(text)-1] == '_' || (prefixed && len(text) == 2) {
		lx.errLex(diag.LexBadNumber, sp, "invalid integer literal "+text).Emit()
		return token.Token{Kind: token.Invalid, Span: sp, Text: text}
	}
	return token.Token{Kind: token.IntLit, Span: sp, Text: text}
}
