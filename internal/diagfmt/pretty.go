package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"mcfc/internal/diag"
	"mcfc/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	gutter, caret, bold   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgGreen, color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		caret:  color.New(color.FgRed, color.Bold),
		bold:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.gutter, p.caret, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид
// (ожидается bag.Sort() заранее):
//
//	error[GEN3001]: message
//	  --> path:line:col
//	   |
//	 3 | source line
//	   |     ^~~~
//	help: suggestion
//
// Notes follow with the same layout when opts.ShowNotes is set.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s%s %s\n",
			pal.severity(d.Severity).Sprintf("%s[%s]", d.Severity, d.Code.ID()),
			pal.bold.Sprint(":"),
			pal.bold.Sprint(d.Message))
		snippet(w, fs, d.Primary, "", opts, pal, pal.caret)
		if d.Help != "" {
			fmt.Fprintf(w, "%s %s\n", pal.info.Sprint("help:"), d.Help)
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "%s %s\n", pal.note.Sprint("note:"), n.Msg)
			snippet(w, fs, n.Span, "", opts, pal, pal.note)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n%s\n", pal.bold.Sprintf("... %d more diagnostic(s) not shown (--max-diagnostics)", n))
	}
}

// snippet печатает место в исходнике с подчёркиванием.
func snippet(w io.Writer, fs *source.FileSet, sp source.Span, label string, opts PrettyOpts, pal palette, caretColor *color.Color) {
	if fs == nil {
		return
	}
	f := fs.Get(sp.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(sp)
	path := formatPath(f, fs, opts.PathMode)
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + uint32(max(opts.Context, 0))
	width := len(strconv.FormatUint(uint64(last), 10))
	pad := strings.Repeat(" ", width)

	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), path, start.Line, start.Col)
	fmt.Fprintf(w, "%s %s\n", pad, pal.gutter.Sprint("|"))
	for n := first; n <= last; n++ {
		line := f.GetLine(n)
		if n != start.Line && line == "" {
			continue
		}
		num := strconv.FormatUint(uint64(n), 10)
		fmt.Fprintf(w, "%s %s %s\n", pal.gutter.Sprintf("%*s", width, num), pal.gutter.Sprint("|"), expandTabs(line))
		if n != start.Line {
			continue
		}
		// колонки в байтах, ширина на экране — по runewidth
		lineBytes := []byte(line)
		col := min(int(start.Col)-1, len(lineBytes))
		endCol := len(lineBytes)
		if end.Line == start.Line {
			endCol = min(int(end.Col)-1, len(lineBytes))
		}
		lead := runewidth.StringWidth(expandTabs(string(lineBytes[:col])))
		span := max(runewidth.StringWidth(expandTabs(string(lineBytes[col:max(endCol, col)]))), 1)
		marks := "^" + strings.Repeat("~", span-1)
		if label != "" {
			marks += " " + label
		}
		fmt.Fprintf(w, "%s %s %s%s\n", pad, pal.gutter.Sprint("|"), strings.Repeat(" ", lead), caretColor.Sprint(marks))
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
