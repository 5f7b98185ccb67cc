package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mcfc/internal/source"
	"mcfc/internal/token"
)

// TokenJSON is one token of `mcfc tokenize --format json`.
type TokenJSON struct {
	Kind     string   `json:"kind"`
	Text     string   `json:"text,omitempty"`
	Line     uint32   `json:"line"`
	Col      uint32   `json:"col"`
	EndLine  uint32   `json:"end_line"`
	EndCol   uint32   `json:"end_col"`
	Comments []string `json:"comments,omitempty"`
}

// tokens up to and including EOF
func untilEOF(tokens []token.Token) []token.Token {
	for i, tok := range tokens {
		if tok.Kind == token.EOF {
			return tokens[:i+1]
		}
	}
	return tokens
}

func comments(tok token.Token) []string {
	var out []string
	for _, tr := range tok.Leading {
		if tr.Kind == token.TriviaComment {
			out = append(out, tr.Text)
		}
	}
	return out
}

// FormatTokensPretty prints one token per row: position, kind, text.
// Layout tokens (NEWLINE, INDENT, DEDENT) have no text column.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, tok := range untilEOF(tokens) {
		start, end := fs.Resolve(tok.Span)
		text := ""
		if tok.Text != "" && tok.Kind != token.Newline {
			text = fmt.Sprintf("%q", tok.Text)
		}
		fmt.Fprintf(tw, "%d:%d-%d:%d\t%s\t%s", start.Line, start.Col, end.Line, end.Col, tok.Kind, text)
		if cs := comments(tok); len(cs) > 0 {
			fmt.Fprintf(tw, "\t%s", strings.Join(cs, " "))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	toks := untilEOF(tokens)
	out := make([]TokenJSON, 0, len(toks))
	for _, tok := range toks {
		start, end := fs.Resolve(tok.Span)
		out = append(out, TokenJSON{
			Kind:     tok.Kind.String(),
			Text:     tok.Text,
			Line:     start.Line,
			Col:      start.Col,
			EndLine:  end.Line,
			EndCol:   end.Col,
			Comments: comments(tok),
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
