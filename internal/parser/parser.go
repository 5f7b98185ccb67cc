package parser

import (
	"slices"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/lexer"
	"mcfc/internal/source"
	"mcfc/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File   ast.FileID
	Errors uint
}

// Parser — состояние парсера на один файл
type Parser struct {
	lx       *lexer.Lexer // поток токенов (Peek/Next)
	arenas   *ast.Builder // построитель аренных узлов
	file     ast.FileID   // текущий FileID (в AST)
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики
}

// ParseFile — входная точка для разбора одного файла.
// Требует уже созданный lexer (на основе source.File).
func ParseFile(lx *lexer.Lexer, arenas *ast.Builder, opts Options) Result {
	first := lx.Peek().Span
	p := Parser{
		lx:       lx,
		arenas:   arenas,
		file:     arenas.NewFile(first),
		opts:     opts,
		lastSpan: source.Span{File: first.File},
	}
	p.parseModule()
	return Result{File: p.file, Errors: p.opts.CurrentErrors}
}

// ParseSource lexes and parses one file of fs; lexer diagnostics go to the same reporter.
func ParseSource(fs *source.FileSet, id source.FileID, arenas *ast.Builder, opts Options) Result {
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: opts.Reporter})
	return ParseFile(lx, arenas, opts)
}

func (p *Parser) at(k token.Kind) bool {
	return p.lx.Peek().Kind == k
}

func (p *Parser) atOr(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.lx.Peek().Kind)
}

// parseModule — основной цикл: пока не EOF — parseStmt.
func (p *Parser) parseModule() {
	startSpan := p.lx.Peek().Span
	for !p.at(token.EOF) {
		if p.atOr(token.Newline, token.Indent, token.Dedent) {
			if p.at(token.Indent) {
				p.err(diag.SynUnexpectedToken, "unexpected indent")
			}
			p.advance()
			continue
		}
		for _, id := range p.parseStmt() {
			p.arenas.PushStmt(p.file, id)
		}
	}
	p.arenas.Files.Get(p.file).Span = startSpan.Cover(p.lastSpan)
}
