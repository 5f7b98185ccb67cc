package token_test

import (
	"testing"

	"mcfc/internal/source"
	"mcfc/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestClassifiers(t *testing.T) {
	lits := []token.Kind{token.IntLit, token.StringLit, token.KwTrue, token.KwFalse, token.KwNone}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.KwDef, token.KwElif, token.KwContinue} {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
	for _, k := range []token.Kind{token.LParen, token.SlashSlash, token.GtEq, token.Arrow} {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	if tok(token.Ident).IsKeyword() || tok(token.Ident).IsPunctOrOp() {
		t.Fatal("Ident misclassified")
	}
	if !tok(token.Dedent).IsLayout() || tok(token.Colon).IsLayout() {
		t.Fatal("layout classification wrong")
	}
}

func TestLookupKeyword(t *testing.T) {
	tests := map[string]token.Kind{
		"def": token.KwDef, "elif": token.KwElif, "True": token.KwTrue, "None": token.KwNone,
	}
	for text, want := range tests {
		got, ok := token.LookupKeyword(text)
		if !ok || got != want {
			t.Errorf("LookupKeyword(%q) = %v, %v", text, got, ok)
		}
	}
	// регистр важен
	for _, text := range []string{"true", "none", "Def", "print"} {
		if _, ok := token.LookupKeyword(text); ok {
			t.Errorf("%q must not be a keyword", text)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.SlashSlash.String() != "//" || token.Indent.String() != "INDENT" {
		t.Errorf("unexpected names %q %q", token.SlashSlash, token.Indent)
	}
}
