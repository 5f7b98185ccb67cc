package parser

import (
	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// parseStmt разбирает один оператор. При ошибке строка пропускается и
// возвращается пустой срез.
func (p *Parser) parseStmt() []ast.StmtID {
	var (
		id ast.StmtID
		ok bool
	)
	switch p.lx.Peek().Kind {
	case token.KwDef:
		id, ok = p.parseFunctionDef()
	case token.KwIf:
		id, ok = p.parseIf()
	case token.KwWhile:
		id, ok = p.parseWhile()
	case token.KwFor:
		id, ok = p.parseFor()
	default:
		id, ok = p.parseSimpleStmt()
		if ok && !p.endOfLine() {
			ok = false
		}
	}
	if !ok {
		p.resyncLine()
		return nil
	}
	return []ast.StmtID{id}
}

// endOfLine ожидает NEWLINE (или EOF/DEDENT после последней строки).
func (p *Parser) endOfLine() bool {
	if p.eat(token.Newline) || p.atOr(token.EOF, token.Dedent) {
		return true
	}
	p.err(diag.SynExpectNewline, "expected end of line, got \""+p.lx.Peek().Text+"\"")
	return false
}

func (p *Parser) parseSimpleStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	switch p.lx.Peek().Kind {
	case token.KwPass:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtPass, start), true
	case token.KwBreak:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtBreak, start), true
	case token.KwContinue:
		p.advance()
		return p.arenas.Stmts.NewSimple(ast.StmtContinue, start), true
	case token.KwReturn:
		p.advance()
		value := ast.NoExprID
		if !p.atOr(token.Newline, token.EOF, token.Dedent) {
			v, ok := p.parseExpr()
			if !ok {
				return ast.NoStmtID, false
			}
			value = v
		}
		return p.arenas.Stmts.NewReturn(p.spanFrom(start), value), true
	case token.KwGlobal:
		p.advance()
		var names []string
		for {
			tok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected name after 'global'")
			if !ok {
				return ast.NoStmtID, false
			}
			names = append(names, tok.Text)
			if !p.eat(token.Comma) {
				break
			}
		}
		return p.arenas.Stmts.NewGlobal(p.spanFrom(start), names), true
	case token.KwImport:
		return p.parseImport()
	case token.KwFrom:
		return p.parseImportFrom()
	}
	return p.parseExprStmt()
}

// parseExprStmt: выражение, присваивание (в том числе цепочкой) или x op= v.
func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	start := p.lx.Peek().Span
	first, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}

	if op, aug := augAssignOp(p.lx.Peek().Kind); aug {
		p.advance()
		if !p.checkTarget(first) {
			return ast.NoStmtID, false
		}
		value, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		return p.arenas.Stmts.NewAugAssign(p.spanFrom(start), first, op, value), true
	}

	if !p.at(token.Assign) {
		return p.arenas.Stmts.NewExprStmt(p.spanFrom(start), first), true
	}

	// a = b = value: все кроме последнего — цели
	exprs := []ast.ExprID{first}
	for p.eat(token.Assign) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoStmtID, false
		}
		exprs = append(exprs, e)
	}
	targets := exprs[:len(exprs)-1]
	for _, t := range targets {
		if !p.checkTarget(t) {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewAssign(p.spanFrom(start), targets, exprs[len(exprs)-1]), true
}

func (p *Parser) checkTarget(id ast.ExprID) bool {
	e := p.arenas.Exprs.Get(id)
	if e != nil && (e.Kind == ast.ExprName || e.Kind == ast.ExprAttribute) {
		return true
	}
	sp := p.lastSpan
	if e != nil {
		sp = e.Span
	}
	p.errAt(diag.SynBadAssignTarget, sp, "cannot assign to "+kindOf(e))
	return false
}

func kindOf(e *ast.Expr) string {
	if e == nil {
		return "expression"
	}
	return e.Kind.String()
}

// parseBlock: ':' NEWLINE INDENT stmt+ DEDENT либо ':' simple_stmt в той же строке.
func (p *Parser) parseBlock(what string) ([]ast.StmtID, bool) {
	if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' after "+what); !ok {
		return nil, false
	}
	if !p.eat(token.Newline) {
		id, ok := p.parseSimpleStmt()
		if !ok || !p.endOfLine() {
			return nil, false
		}
		return []ast.StmtID{id}, true
	}
	if _, ok := p.expect(token.Indent, diag.SynExpectIndent, "expected an indented block after "+what); !ok {
		return nil, false
	}
	var body []ast.StmtID
	for !p.atOr(token.Dedent, token.EOF) {
		if p.eat(token.Newline) {
			continue
		}
		body = append(body, p.parseStmt()...)
	}
	p.eat(token.Dedent)
	return body, true
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	start := p.advance().Span // if / elif
	test, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock("'if' condition")
	if !ok {
		return ast.NoStmtID, false
	}
	var orelse []ast.StmtID
	switch p.lx.Peek().Kind {
	case token.KwElif:
		nested, ok := p.parseIf()
		if !ok {
			return ast.NoStmtID, false
		}
		orelse = []ast.StmtID{nested}
	case token.KwElse:
		p.advance()
		orelse, ok = p.parseBlock("'else'")
		if !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(start), test, body, orelse), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	start := p.advance().Span
	test, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock("'while' condition")
	if !ok {
		return ast.NoStmtID, false
	}
	var orelse []ast.StmtID
	if p.eat(token.KwElse) {
		if orelse, ok = p.parseBlock("'else'"); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(start), test, body, orelse), true
}

func (p *Parser) parseFor() (ast.StmtID, bool) {
	start := p.advance().Span
	target, ok := p.parsePrimary()
	if !ok || !p.checkTarget(target) {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in for statement"); !ok {
		return ast.NoStmtID, false
	}
	iter, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseBlock("'for' header")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFor(p.spanFrom(start), target, iter, body), true
}

func augAssignOp(k token.Kind) (ast.BinaryOp, bool) {
	switch k {
	case token.PlusAssign:
		return ast.OpAdd, true
	case token.MinusAssign:
		return ast.OpSub, true
	case token.StarAssign:
		return ast.OpMult, true
	case token.SlashAssign:
		return ast.OpDiv, true
	case token.PercentAssign:
		return ast.OpMod, true
	}
	return 0, false
}
