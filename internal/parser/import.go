package parser

import (
	"strings"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// import a.b [as c], d
func (p *Parser) parseImport() (ast.StmtID, bool) {
	start := p.advance().Span
	var names []ast.Alias
	for {
		alias, ok := p.parseAlias(true)
		if !ok {
			return ast.NoStmtID, false
		}
		names = append(names, alias)
		if !p.eat(token.Comma) {
			break
		}
	}
	return p.arenas.Stmts.NewImport(p.spanFrom(start), names), true
}

// from [.]*a.b import x [as y], ... | from a import (x, y)
func (p *Parser) parseImportFrom() (ast.StmtID, bool) {
	start := p.advance().Span
	level := 0
	for p.eat(token.Dot) {
		level++
	}
	module := ""
	if !p.at(token.KwImport) {
		m, ok := p.parseDotted()
		if !ok {
			return ast.NoStmtID, false
		}
		module = m
	}
	if _, ok := p.expect(token.KwImport, diag.SynUnexpectedToken, "expected 'import'"); !ok {
		return ast.NoStmtID, false
	}
	if p.at(token.Star) {
		p.err(diag.SynUnsupportedSyntax, "wildcard import is not supported")
		return ast.NoStmtID, false
	}
	paren := p.eat(token.LParen)
	var names []ast.Alias
	for {
		if paren && p.at(token.RParen) {
			break
		}
		alias, ok := p.parseAlias(false)
		if !ok {
			return ast.NoStmtID, false
		}
		names = append(names, alias)
		if !p.eat(token.Comma) {
			break
		}
	}
	if paren {
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' after imported names"); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewImportFrom(p.spanFrom(start), ast.ImportFromData{
		Module: module,
		Level:  level,
		Names:  names,
	}), true
}

func (p *Parser) parseAlias(dotted bool) (ast.Alias, bool) {
	start := p.lx.Peek().Span
	var name string
	if dotted {
		n, ok := p.parseDotted()
		if !ok {
			return ast.Alias{}, false
		}
		name = n
	} else {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected imported name")
		if !ok {
			return ast.Alias{}, false
		}
		name = tok.Text
	}
	alias := ast.Alias{Name: name}
	if p.eat(token.KwAs) {
		tok, ok := p.expect(token.Ident, diag.SynExpectIdentAfterAs, "expected identifier after 'as'")
		if !ok {
			return ast.Alias{}, false
		}
		alias.AsName = tok.Text
	}
	alias.Span = p.spanFrom(start)
	return alias, true
}

func (p *Parser) parseDotted() (string, bool) {
	var segs []string
	for {
		tok, ok := p.expect(token.Ident, diag.SynExpectModuleSeg, "expected module name")
		if !ok {
			return "", false
		}
		segs = append(segs, tok.Text)
		if !p.eat(token.Dot) {
			break
		}
	}
	return strings.Join(segs, "."), true
}
