package driver

import (
	"fmt"

	"fortio.org/safecast"

	"mcfc/internal/ast"
	"mcfc/internal/diag"
	"mcfc/internal/lexer"
	"mcfc/internal/parser"
	"mcfc/internal/source"
	"mcfc/internal/token"
)

// SingleFile is one source file loaded outside a project, for the tokenize
// and parse commands. No imports are followed.
type SingleFile struct {
	FileSet *source.FileSet
	File    *source.File
	Bag     *diag.Bag
}

type TokenizeResult struct {
	SingleFile
	Tokens []token.Token
}

type ParseResult struct {
	SingleFile
	Builder *ast.Builder
	FileID  ast.FileID
}

func loadSingle(path string, maxDiagnostics int) (SingleFile, diag.Reporter, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return SingleFile{}, nil, fmt.Errorf("load %s: %w", path, err)
	}
	bag := diag.NewBag(maxDiagnostics)
	return SingleFile{FileSet: fs, File: fs.Get(id), Bag: bag}, diag.NewDedupReporter(diag.BagReporter{Bag: bag}), nil
}

// Tokenize lexes path up to and including EOF.
func Tokenize(path string, maxDiagnostics int) (*TokenizeResult, error) {
	sf, rep, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	res := &TokenizeResult{SingleFile: sf}
	lx := lexer.New(sf.File, lexer.Options{Reporter: rep})
	for {
		tok := lx.Next()
		res.Tokens = append(res.Tokens, tok)
		if tok.Kind == token.EOF {
			return res, nil
		}
	}
}

func Parse(path string, maxDiagnostics int) (*ParseResult, error) {
	maxErrors, err := safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, fmt.Errorf("max diagnostics: %w", err)
	}
	sf, rep, err := loadSingle(path, maxDiagnostics)
	if err != nil {
		return nil, err
	}
	b := ast.NewBuilder(ast.Hints{})
	pr := parser.ParseSource(sf.FileSet, sf.File.ID, b, parser.Options{Reporter: rep, MaxErrors: maxErrors})
	return &ParseResult{SingleFile: sf, Builder: b, FileID: pr.File}, nil
}
