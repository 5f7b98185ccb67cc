package driver

import (
	"os"
	"path/filepath"
	"testing"

	"mcfc/internal/token"
)

func writeTemp(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "one.py")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTokenizeStopsAtEOF(t *testing.T) {
	res, err := Tokenize(writeTemp(t, "if x:\n    y = 1\n"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if res.Bag.HasErrors() {
		t.Fatalf("diagnostics: %v", res.Bag.Items())
	}
	last := res.Tokens[len(res.Tokens)-1]
	if last.Kind != token.EOF {
		t.Fatalf("last token %s", last.Kind)
	}
	sawIndent := false
	for _, tok := range res.Tokens {
		sawIndent = sawIndent || tok.Kind == token.Indent
	}
	if !sawIndent {
		t.Error("no INDENT token")
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	res, err := Parse(writeTemp(t, "x = (1\n"), 10)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Bag.HasErrors() {
		t.Fatal("expected a syntax error")
	}
	if _, err := Parse(filepath.Join(t.TempDir(), "missing.py"), 10); err == nil {
		t.Fatal("missing file accepted")
	}
	if _, err := Parse("x.py", -1); err == nil {
		t.Fatal("negative limit accepted")
	}
}
