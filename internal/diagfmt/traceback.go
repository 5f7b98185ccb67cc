package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"mcfc/internal/source"
)

// TraceFrame is one enclosing construct of a failed compilation.
type TraceFrame struct {
	Span          source.Span
	Namespace     string
	FileNamespace string
}

// Traceback prints the compile traceback, most recent compile first,
// followed by the failure itself.
func Traceback(w io.Writer, fs *source.FileSet, frames []TraceFrame, cause error, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	fmt.Fprintln(w, pal.bold.Sprint("compile traceback (most recent compile first):"))
	for _, fr := range frames {
		path := "<unknown>"
		var start, end source.LineCol
		var f *source.File
		if fs != nil {
			if f = fs.Get(fr.Span.File); f != nil {
				path = formatPath(f, fs, opts.PathMode)
				start, end = fs.Resolve(fr.Span)
			}
		}
		lines := fmt.Sprintf("line %d", start.Line)
		if end.Line > start.Line {
			lines = fmt.Sprintf("lines %d-%d", start.Line, end.Line)
		}
		fmt.Fprintf(w, "  File %q, %s, col %d\n", path, lines, start.Col)
		fmt.Fprintf(w, "    %s %s\n", pal.gutter.Sprint("namespace:"), fr.Namespace)
		fmt.Fprintf(w, "    %s %s\n", pal.gutter.Sprint("file namespace:"), fr.FileNamespace)
		if f == nil {
			continue
		}
		// одна строка на кадр: вложенные кадры покажут остальное
		if text := strings.TrimSpace(f.GetLine(start.Line)); text != "" {
			fmt.Fprintf(w, "      %s\n", text)
		}
	}
	if cause != nil {
		fmt.Fprintf(w, "%s %s\n", pal.err.Sprint("error:"), cause.Error())
	}
}
