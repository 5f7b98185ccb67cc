package parser

import (
	"mcfc/internal/diag"
	"mcfc/internal/source"
	"mcfc/internal/token"
)

// advance — съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.lx.Next()
	if tok.Kind != token.EOF && !tok.IsLayout() {
		p.lastSpan = tok.Span
	}
	return tok
}

// getDiagnosticSpan — возвращает лучший span для диагностики.
// На синтетических токенах (EOF, NEWLINE, DEDENT) указываем сразу за lastSpan.
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.lx.Peek()
	if peek.Kind == token.EOF || peek.IsLayout() {
		return p.lastSpan.At()
	}
	return peek.Span
}

// expect — ожидаем конкретный токен. Если нет — репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.lx.Peek().Text}, false
}

// eat съедает токен, если он совпадает.
func (p *Parser) eat(k token.Kind) bool {
	if p.at(k) {
		p.advance()
		return true
	}
	return false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

func (p *Parser) errAt(code diag.Code, sp source.Span, msg string) bool {
	return p.report(code, diag.SevError, sp, msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if sev == diag.SevError {
		if p.opts.Enough() {
			p.opts.CurrentErrors++
			return false // достигли максимального количества ошибок
		}
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil {
		return false
	}
	p.opts.Reporter.Report(diag.New(sev, code, sp, msg))
	return true
}

// resyncLine прокручивает до конца логической строки.
// NEWLINE съедается; DEDENT и EOF остаются для вызывающего.
func (p *Parser) resyncLine() {
	depth := 0
	for {
		switch p.lx.Peek().Kind {
		case token.EOF:
			return
		case token.Dedent:
			if depth == 0 {
				return
			}
			depth--
			p.advance()
			if depth == 0 {
				return
			}
			continue
		case token.Indent:
			depth++
		case token.Newline:
			p.advance()
			if depth == 0 && !p.at(token.Indent) {
				return
			}
			continue
		}
		p.advance()
	}
}

// spanFrom покрывает от start до последнего съеденного токена.
func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}
