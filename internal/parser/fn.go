package parser

import (
	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// def name(params) [-> expr]: block
func (p *Parser) parseFunctionDef() (ast.StmtID, bool) {
	start := p.advance().Span // def
	nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected function name after 'def'")
	if !ok {
		return ast.NoStmtID, false
	}
	lparen, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after function name")
	if !ok {
		return ast.NoStmtID, false
	}
	params, ok := p.parseParams()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close parameter list"); !ok {
		return ast.NoStmtID, false
	}
	argsSpan := p.spanFrom(lparen.Span)
	if p.eat(token.Arrow) {
		// аннотация возвращаемого значения разбирается и отбрасывается
		if _, ok := p.parseExpr(); !ok {
			return ast.NoStmtID, false
		}
	}
	body, ok := p.parseBlock("function signature")
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewFunctionDef(p.spanFrom(start), ast.FunctionDefData{
		Name:     nameTok.Text,
		NameSpan: nameTok.Span,
		Params:   params,
		ArgsSpan: argsSpan,
		Body:     body,
	}), true
}

// parseParams: a, b=1, *args, c, **kw. Аннотации ': T' допускаются и игнорируются.
func (p *Parser) parseParams() ([]ast.Param, bool) {
	var params []ast.Param
	kwOnly := false
	sawDefault := false
	for !p.at(token.RParen) {
		kind := ast.ParamPositional
		if kwOnly {
			kind = ast.ParamKeywordOnly
		}
		star := p.lx.Peek()
		switch {
		case p.eat(token.StarStar):
			kind = ast.ParamVarKeyword
		case p.eat(token.Star):
			kwOnly = true
			if p.at(token.Comma) {
				// голая '*': дальше только keyword-only
				p.advance()
				continue
			}
			kind = ast.ParamVarPositional
		}
		nameTok, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected parameter name")
		if !ok {
			return nil, false
		}
		param := ast.Param{Name: nameTok.Text, Span: star.Span.Cover(nameTok.Span), Kind: kind}
		if p.eat(token.Colon) {
			if _, ok := p.parseExpr(); !ok {
				return nil, false
			}
		}
		if p.eat(token.Assign) {
			def, ok := p.parseExpr()
			if !ok {
				return nil, false
			}
			param.Default = def
			if kind == ast.ParamPositional {
				sawDefault = true
			}
		} else if kind == ast.ParamPositional && sawDefault {
			p.errAt(diag.SynDefaultOrder, nameTok.Span, "non-default parameter '"+nameTok.Text+"' follows default parameter")
		}
		param.Span = p.spanFrom(param.Span)
		params = append(params, param)
		if !p.eat(token.Comma) {
			break
		}
	}
	return params, true
}
