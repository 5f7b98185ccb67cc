package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"mcfc/internal/source"
	"mcfc/internal/token"
)

func sampleTokens() ([]token.Token, *source.FileSet) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("t.py", []byte("# hi\nx\n"))
	sp := func(a, b uint32) source.Span { return source.Span{File: id, Start: a, End: b} }
	return []token.Token{
		{Kind: token.Ident, Span: sp(5, 6), Text: "x", Leading: []token.Trivia{{Kind: token.TriviaComment, Span: sp(0, 4), Text: "# hi"}}},
		{Kind: token.Newline, Span: sp(6, 7), Text: "\n"},
		{Kind: token.EOF, Span: sp(7, 7)},
		{Kind: token.Ident, Span: sp(7, 7), Text: "after"},
	}, fs
}

func TestFormatTokensPretty(t *testing.T) {
	toks, fs := sampleTokens()
	var buf bytes.Buffer
	if err := FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 rows up to EOF, got:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[0], "2:1-2:2") || !strings.Contains(lines[0], `"x"`) || !strings.Contains(lines[0], "# hi") {
		t.Errorf("ident row = %q", lines[0])
	}
	if strings.Contains(lines[1], `"\n"`) {
		t.Errorf("newline row carries text: %q", lines[1])
	}
}

func TestFormatTokensJSON(t *testing.T) {
	toks, fs := sampleTokens()
	var buf bytes.Buffer
	if err := FormatTokensJSON(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	var got []TokenJSON
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Line != 2 || got[0].Col != 1 || len(got[0].Comments) != 1 || got[2].Kind != "EOF" {
		t.Fatalf("tokens = %+v", got)
	}
}
