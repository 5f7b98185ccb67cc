package lexer_test

import (
	"strings"
	"testing"

	"mcfc/internal/diag"
	"mcfc/internal/lexer"
	"mcfc/internal/source"
	"mcfc/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(d diag.Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
}

func (r *testReporter) has(code diag.Code) bool {
	for _, d := range r.diagnostics {
		if d.Code == code {
			return true
		}
	}
	return false
}

func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.py", []byte(input))
	rep := &testReporter{}
	lx := lexer.New(fs.Get(id), lexer.Options{Reporter: rep})
	var out []token.Token
	for range 10000 {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out, rep
		}
	}
	t.Fatalf("lexer did not reach EOF")
	return nil, nil
}

func kinds(toks []token.Token) string {
	parts := make([]string, 0, len(toks))
	for _, tok := range toks {
		parts = append(parts, tok.Kind.String())
	}
	return strings.Join(parts, " ")
}

func TestIndentDedent(t *testing.T) {
	src := "def f(n):\n    if n == 0:\n        return 1\n    return n\nx = f(3)\n"
	toks, rep := lexAll(t, src)
	want := "def Ident ( Ident ) : NEWLINE " +
		"INDENT if Ident == IntLit : NEWLINE " +
		"INDENT return IntLit NEWLINE " +
		"DEDENT return Ident NEWLINE " +
		"DEDENT Ident = Ident ( IntLit ) NEWLINE EOF"
	if got := kinds(toks); got != want {
		t.Fatalf("tokens:\nwant %s\ngot  %s", want, got)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
}

func TestBlankAndCommentLinesIgnored(t *testing.T) {
	src := "# MCFC: Template\n\nx = 1\n\n    # indented comment\n\ny = 2"
	toks, _ := lexAll(t, src)
	want := "Ident = IntLit NEWLINE Ident = IntLit NEWLINE EOF"
	if got := kinds(toks); got != want {
		t.Fatalf("want %s\ngot  %s", want, got)
	}
	if len(toks[0].Leading) == 0 || toks[0].Leading[0].Kind != token.TriviaComment {
		t.Fatalf("leading comment lost: %+v", toks[0].Leading)
	}
}

func TestNewlinesInsideBrackets(t *testing.T) {
	src := "build_scoreboard(\"num\", {\n    \"value\": 5,\n})\n"
	toks, _ := lexAll(t, src)
	want := "Ident ( StringLit , { StringLit : IntLit , } ) NEWLINE EOF"
	if got := kinds(toks); got != want {
		t.Fatalf("want %s\ngot  %s", want, got)
	}
}

func TestDedentToEOF(t *testing.T) {
	toks, _ := lexAll(t, "if a:\n  if b:\n    pass")
	want := "if Ident : NEWLINE INDENT if Ident : NEWLINE INDENT pass NEWLINE DEDENT DEDENT EOF"
	if got := kinds(toks); got != want {
		t.Fatalf("want %s\ngot  %s", want, got)
	}
}

func TestIndentedBlankLineAtEOF(t *testing.T) {
	toks, rep := lexAll(t, "if a:\n    x = 1\n    ")
	want := "if Ident : NEWLINE INDENT Ident = IntLit NEWLINE DEDENT EOF"
	if got := kinds(toks); got != want {
		t.Fatalf("want %s\ngot  %s", want, got)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}
}

func TestBadDedent(t *testing.T) {
	_, rep := lexAll(t, "if a:\n    x = 1\n  y = 2\n")
	if !rep.has(diag.LexBadDedent) {
		t.Fatalf("expected LexBadDedent, got %v", rep.diagnostics)
	}
}

func TestTabsMixedCarriesHelp(t *testing.T) {
	_, rep := lexAll(t, "if a:\n \tx = 1\n")
	for _, d := range rep.diagnostics {
		if d.Code == diag.LexTabsMixed {
			if d.Help == "" {
				t.Fatalf("LexTabsMixed without help")
			}
			return
		}
	}
	t.Fatalf("expected LexTabsMixed, got %v", rep.diagnostics)
}

func TestOperators(t *testing.T) {
	toks, _ := lexAll(t, "a //= b")
	if toks[1].Kind != token.SlashSlash || toks[2].Kind != token.Assign {
		t.Fatalf("got %s", kinds(toks))
	}
	toks, _ = lexAll(t, "x += 1; y")
	if toks[1].Kind != token.PlusAssign {
		t.Fatalf("got %s", kinds(toks))
	}
	cases := map[string]token.Kind{
		"==": token.EqEq, "!=": token.BangEq, "<=": token.LtEq, ">=": token.GtEq,
		"//": token.SlashSlash, "%": token.Percent, "->": token.Arrow, "**": token.StarStar,
	}
	for src, want := range cases {
		toks, _ := lexAll(t, src)
		if toks[0].Kind != want {
			t.Errorf("%q: want %s, got %s", src, want, toks[0].Kind)
		}
	}
}

func TestStrings(t *testing.T) {
	toks, rep := lexAll(t, `s = '的阶乘是: ' + "a\"b\n"`)
	if toks[2].Kind != token.StringLit || toks[2].Text != "的阶乘是: " {
		t.Fatalf("single quoted: %+v", toks[2])
	}
	if toks[4].Text != "a\"b\n" {
		t.Fatalf("escapes: %q", toks[4].Text)
	}
	if len(rep.diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", rep.diagnostics)
	}

	_, rep = lexAll(t, "s = 'open\n")
	if !rep.has(diag.LexUnterminatedString) {
		t.Fatalf("expected unterminated string")
	}
}

func TestNumbers(t *testing.T) {
	for _, src := range []string{"0", "42", "1_000", "0x1F", "0b101", "0o17"} {
		toks, rep := lexAll(t, src)
		if toks[0].Kind != token.IntLit || toks[0].Text != src || len(rep.diagnostics) != 0 {
			t.Errorf("%q: got %+v %v", src, toks[0], rep.diagnostics)
		}
	}
	for _, src := range []string{"1.5", "12abc", "0x", "1_"} {
		toks, rep := lexAll(t, src)
		if toks[0].Kind != token.Invalid || !rep.has(diag.LexBadNumber) {
			t.Errorf("%q: expected bad number, got %+v", src, toks[0])
		}
	}
}

func TestUnicodeIdent(t *testing.T) {
	toks, _ := lexAll(t, "значение_1 = 1")
	if toks[0].Kind != token.Ident || toks[0].Text != "значение_1" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestUnknownChar(t *testing.T) {
	toks, rep := lexAll(t, "a = $")
	if toks[2].Kind != token.Invalid || !rep.has(diag.LexUnknownChar) {
		t.Fatalf("got %s %v", kinds(toks), rep.diagnostics)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("p.py", []byte("a b"))
	lx := lexer.New(fs.Get(id), lexer.Options{})
	if p := lx.Peek(); p.Text != "a" {
		t.Fatalf("peek: %+v", p)
	}
	if n := lx.Next(); n.Text != "a" {
		t.Fatalf("next after peek: %+v", n)
	}
	if n := lx.Next(); n.Text != "b" {
		t.Fatalf("second: %+v", n)
	}
}
