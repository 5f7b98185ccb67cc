package lexer

import (
	"mcfc/internal/source"
	"mcfc/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia

	queue     []token.Token // синтетические NEWLINE/INDENT/DEDENT
	indents   []int         // стек отступов, всегда начинается с 0
	depth     int           // глубина вложенности скобок
	lineStart bool          // курсор стоит в начале логической строки
	lineHasTk bool          // на текущей строке уже был значимый токен
	done      bool
}

func New(file *source.File, opts Options) *Lexer {
	if opts.TabSize <= 0 {
		opts.TabSize = 8
	}
	return &Lexer{
		file:      file,
		cursor:    NewCursor(file),
		opts:      opts,
		indents:   []int{0},
		lineStart: true,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// Отступы превращаются в INDENT/DEDENT, конец логической строки в NEWLINE.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}
	if tok, ok := lx.dequeue(); ok {
		return tok
	}
	if lx.done {
		return token.Token{Kind: token.EOF, Span: lx.emptySpan()}
	}

	for {
		if lx.lineStart && lx.depth == 0 {
			if lx.scanIndentation() {
				if tok, ok := lx.dequeue(); ok {
					return tok
				}
			}
		}

		lx.collectLeadingTrivia()

		if lx.cursor.EOF() {
			lx.finish()
			tok, _ := lx.dequeue()
			return tok
		}

		ch := lx.cursor.Peek()
		if ch == '\n' {
			m := lx.cursor.Mark()
			lx.cursor.Bump()
			if lx.depth > 0 || !lx.lineHasTk {
				continue
			}
			sp := lx.cursor.SpanFrom(m)
			lx.lineStart = true
			lx.lineHasTk = false
			return lx.attach(token.Token{Kind: token.Newline, Span: sp, Text: "\n"})
		}

		var tok token.Token
		switch {
		case isIdentStartByte(ch), ch >= utf8RuneSelf:
			tok = lx.scanIdentOrKeyword()
		case isDec(ch):
			tok = lx.scanNumber()
		case ch == '"' || ch == '\'':
			tok = lx.scanString()
		default:
			tok = lx.scanOperatorOrPunct()
		}
		lx.lineHasTk = true
		lx.trackDepth(tok)
		return lx.attach(tok)
	}
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) attach(tok token.Token) token.Token {
	if len(lx.hold) > 0 {
		tok.Leading = append([]token.Trivia(nil), lx.hold...)
		lx.hold = lx.hold[:0]
	}
	return tok
}

func (lx *Lexer) dequeue() (token.Token, bool) {
	if len(lx.queue) == 0 {
		return token.Token{}, false
	}
	tok := lx.queue[0]
	lx.queue = lx.queue[1:]
	return tok, true
}

// finish закрывает последнюю строку и все открытые блоки.
func (lx *Lexer) finish() {
	sp := lx.emptySpan()
	if lx.lineHasTk {
		lx.queue = append(lx.queue, token.Token{Kind: token.Newline, Span: sp})
		lx.lineHasTk = false
	}
	for len(lx.indents) > 1 {
		lx.indents = lx.indents[:len(lx.indents)-1]
		lx.queue = append(lx.queue, token.Token{Kind: token.Dedent, Span: sp})
	}
	lx.queue = append(lx.queue, token.Token{Kind: token.EOF, Span: sp})
	lx.done = true
}

func (lx *Lexer) trackDepth(tok token.Token) {
	switch tok.Kind {
	case token.LParen, token.LBracket, token.LBrace:
		lx.depth++
	case token.RParen, token.RBracket, token.RBrace:
		if lx.depth > 0 {
			lx.depth--
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
