package lexer

import (
	"mcfc/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
// - ' ' и '\t' коалесцируются в один TriviaSpace
// - # ... до \n -> TriviaComment
// - '\' перед \n склеивает строки
// Перевод строки сам по себе не trivia: его решает Next.
func (lx *Lexer) collectLeadingTrivia() {
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t':
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
		case b == '#':
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			lx.hold = append(lx.hold, lx.trivia(token.TriviaComment, start))
		case b == '\\':
			b0, b1, ok := lx.cursor.Peek2()
			if !ok || b0 != '\\' || b1 != '\n' {
				return
			}
			lx.cursor.Bump()
			lx.cursor.Bump()
			lx.hold = append(lx.hold, lx.trivia(token.TriviaSpace, start))
		default:
			return
		}
	}
}

func (lx *Lexer) trivia(kind token.TriviaKind, start Mark) token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	return token.Trivia{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
