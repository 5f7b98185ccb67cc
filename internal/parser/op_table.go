package parser

import (
	"mcfc/internal/ast"
	"mcfc/internal/token"
)

// Таблица приоритетов для бинарных арифметических операторов.
// Чем больше число, тем выше приоритет. Логика и сравнения разбираются
// отдельными уровнями (or < and < not < сравнение).
const (
	precAdditive       = 1 // + -
	precMultiplicative = 2 // * / // %
)

func binaryPrec(kind token.Kind) int {
	switch kind {
	case token.Plus, token.Minus:
		return precAdditive
	case token.Star, token.Slash, token.SlashSlash, token.Percent:
		return precMultiplicative
	default:
		return -1 // не бинарный оператор
	}
}

func binaryOp(kind token.Kind) ast.BinaryOp {
	switch kind {
	case token.Plus:
		return ast.OpAdd
	case token.Minus:
		return ast.OpSub
	case token.Star:
		return ast.OpMult
	case token.Slash:
		return ast.OpDiv
	case token.SlashSlash:
		return ast.OpFloorDiv
	case token.Percent:
		return ast.OpMod
	}
	return ast.OpPow
}

func compareOp(kind token.Kind) (ast.CmpOp, bool) {
	switch kind {
	case token.EqEq:
		return ast.CmpEq, true
	case token.BangEq:
		return ast.CmpNotEq, true
	case token.Lt:
		return ast.CmpLt, true
	case token.LtEq:
		return ast.CmpLtE, true
	case token.Gt:
		return ast.CmpGt, true
	case token.GtEq:
		return ast.CmpGtE, true
	}
	return 0, false
}
