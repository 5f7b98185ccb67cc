package parser

import (
	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/token"
)

// parseExpr — вход в разбор выражения (уровень 'or').
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	return p.parseBoolOp(ast.OpOr)
}

// parseBoolOp собирает a or b or c в один BoolOp, как это делает Python.
func (p *Parser) parseBoolOp(op ast.BoolOp) (ast.ExprID, bool) {
	kw, next := token.KwOr, func() (ast.ExprID, bool) { return p.parseBoolOp(ast.OpAnd) }
	if op == ast.OpAnd {
		kw, next = token.KwAnd, p.parseNot
	}
	start := p.lx.Peek().Span
	first, ok := next()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(kw) {
		return first, true
	}
	values := []ast.ExprID{first}
	for p.eat(kw) {
		v, ok := next()
		if !ok {
			return ast.NoExprID, false
		}
		values = append(values, v)
	}
	return p.arenas.Exprs.NewBoolOp(p.spanFrom(start), op, values), true
}

func (p *Parser) parseNot() (ast.ExprID, bool) {
	if p.at(token.KwNot) {
		start := p.advance().Span
		operand, ok := p.parseNot()
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewUnaryOp(p.spanFrom(start), ast.OpNot, operand), true
	}
	return p.parseComparison()
}

// parseComparison: a < b < c даёт один Compare с двумя операторами.
func (p *Parser) parseComparison() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	left, ok := p.parseBinary(precAdditive)
	if !ok {
		return ast.NoExprID, false
	}
	var (
		ops   []ast.CmpOp
		comps []ast.ExprID
	)
	for {
		op, isCmp := compareOp(p.lx.Peek().Kind)
		if !isCmp {
			break
		}
		p.advance()
		right, ok := p.parseBinary(precAdditive)
		if !ok {
			return ast.NoExprID, false
		}
		ops = append(ops, op)
		comps = append(comps, right)
	}
	if len(ops) == 0 {
		return left, true
	}
	return p.arenas.Exprs.NewCompare(p.spanFrom(start), left, ops, comps), true
}

// parseBinary — precedence climbing для левоассоциативных + - * / // %.
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		kind := p.lx.Peek().Kind
		prec := binaryPrec(kind)
		if prec < minPrec {
			return left, true
		}
		p.advance()
		right, ok := p.parseBinary(prec + 1)
		if !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewBinOp(p.spanFrom(start), binaryOp(kind), left, right)
	}
}

func (p *Parser) parseUnary() (ast.ExprID, bool) {
	var op ast.UnaryOp
	switch p.lx.Peek().Kind {
	case token.Minus:
		op = ast.OpUSub
	case token.Plus:
		op = ast.OpUAdd
	default:
		return p.parsePower()
	}
	start := p.advance().Span
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnaryOp(p.spanFrom(start), op, operand), true
}

// parsePower: primary ['**' unary], правоассоциативно.
func (p *Parser) parsePower() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	base, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.eat(token.StarStar) {
		return base, true
	}
	exp, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBinOp(p.spanFrom(start), ast.OpPow, base, exp), true
}

// parsePrimary: atom с хвостами вызовов и атрибутов.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	start := p.lx.Peek().Span
	expr, ok := p.parseAtom()
	if !ok {
		return ast.NoExprID, false
	}
	for {
		switch p.lx.Peek().Kind {
		case token.Dot:
			p.advance()
			attr, ok := p.expect(token.Ident, diag.SynExpectIdentifier, "expected attribute name after '.'")
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewAttribute(p.spanFrom(start), expr, attr.Text)
		case token.LParen:
			p.advance()
			args, kws, ok := p.parseCallArgs()
			if !ok {
				return ast.NoExprID, false
			}
			expr = p.arenas.Exprs.NewCall(p.spanFrom(start), expr, args, kws)
		case token.LBracket:
			p.err(diag.SynUnsupportedSyntax, "subscription is not supported")
			return ast.NoExprID, false
		default:
			return expr, true
		}
	}
}

func (p *Parser) parseCallArgs() ([]ast.ExprID, []ast.Keyword, bool) {
	var (
		args []ast.ExprID
		kws  []ast.Keyword
	)
	for !p.at(token.RParen) {
		if p.atOr(token.Star, token.StarStar) {
			p.err(diag.SynUnsupportedSyntax, "argument unpacking is not supported")
			return nil, nil, false
		}
		start := p.lx.Peek().Span
		value, ok := p.parseExpr()
		if !ok {
			return nil, nil, false
		}
		if p.at(token.Assign) {
			name, isName := p.arenas.Exprs.Name(value)
			if !isName {
				p.err(diag.SynUnexpectedToken, "keyword argument must be a name")
				return nil, nil, false
			}
			p.advance()
			kwValue, ok := p.parseExpr()
			if !ok {
				return nil, nil, false
			}
			kws = append(kws, ast.Keyword{Name: name.Name, Value: kwValue, Span: p.spanFrom(start)})
		} else {
			if len(kws) > 0 {
				p.errAt(diag.SynPositionalAfterKw, p.spanFrom(start), "positional argument follows keyword argument")
				return nil, nil, false
			}
			args = append(args, value)
		}
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')' to close call"); !ok {
		return nil, nil, false
	}
	return args, kws, true
}

func (p *Parser) parseAtom() (ast.ExprID, bool) {
	tok := p.lx.Peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return p.arenas.Exprs.NewName(tok.Span, tok.Text), true
	case token.IntLit:
		p.advance()
		return p.arenas.Exprs.NewConstant(tok.Span, ast.ConstInt, tok.Text), true
	case token.KwTrue, token.KwFalse:
		p.advance()
		return p.arenas.Exprs.NewConstant(tok.Span, ast.ConstBool, tok.Text), true
	case token.KwNone:
		p.advance()
		return p.arenas.Exprs.NewConstant(tok.Span, ast.ConstNone, tok.Text), true
	case token.StringLit:
		// соседние литералы склеиваются: "a" "b"
		p.advance()
		text, sp := tok.Text, tok.Span
		for p.at(token.StringLit) {
			next := p.advance()
			text += next.Text
			sp = sp.Cover(next.Span)
		}
		return p.arenas.Exprs.NewConstant(sp, ast.ConstStr, text), true
	case token.LParen:
		p.advance()
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if p.at(token.Comma) {
			p.err(diag.SynUnsupportedSyntax, "tuples are not supported")
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.RParen, diag.SynUnclosedParen, "expected ')'"); !ok {
			return ast.NoExprID, false
		}
		return inner, true
	case token.LBracket:
		return p.parseList()
	case token.LBrace:
		return p.parseDict()
	}
	p.err(diag.SynExpectExpression, "expected expression, got \""+describe(tok)+"\"")
	return ast.NoExprID, false
}

func (p *Parser) parseList() (ast.ExprID, bool) {
	start := p.advance().Span
	var elts []ast.ExprID
	for !p.at(token.RBracket) {
		e, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		elts = append(elts, e)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBracket, diag.SynUnclosedBracket, "expected ']'"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewList(p.spanFrom(start), elts), true
}

func (p *Parser) parseDict() (ast.ExprID, bool) {
	start := p.advance().Span
	var keys, values []ast.ExprID
	for !p.at(token.RBrace) {
		k, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.expect(token.Colon, diag.SynExpectColon, "expected ':' in dict literal"); !ok {
			return ast.NoExprID, false
		}
		v, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		keys = append(keys, k)
		values = append(values, v)
		if !p.eat(token.Comma) {
			break
		}
	}
	if _, ok := p.expect(token.RBrace, diag.SynUnclosedBrace, "expected '}'"); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewDict(p.spanFrom(start), keys, values), true
}

func describe(tok token.Token) string {
	if tok.Text != "" && !tok.IsLayout() {
		return tok.Text
	}
	return tok.Kind.String()
}
