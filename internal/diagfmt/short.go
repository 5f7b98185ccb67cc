package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"mcfc/internal/diag"
	"mcfc/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// Short renders one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <message>".
// Output is sorted and stable, so it doubles as a golden format in tests.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if bag == nil || fs == nil {
		return
	}
	rendered := make([]shortDiagnostic, 0, bag.Len())
	for _, d := range bag.Items() {
		rendered = appendShort(rendered, d.Severity, d.Code, d.Primary, d.Message, fs)
		if includeNotes {
			for _, n := range d.Notes {
				rendered = appendShort(rendered, noteSeverity, d.Code, n.Span, n.Msg, fs)
			}
		}
	}
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})
	for _, d := range rendered {
		fmt.Fprintf(w, "%s %s %s:%d:%d %s\n", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
	}
}

// noteSeverity is outside the diag range and renders as "note".
const noteSeverity diag.Severity = 255

func appendShort(out []shortDiagnostic, sev diag.Severity, code diag.Code, sp source.Span, msg string, fs *source.FileSet) []shortDiagnostic {
	f := fs.Get(sp.File)
	if f == nil {
		return out
	}
	start, _ := fs.Resolve(sp)
	return append(out, shortDiagnostic{
		Severity: severityLabel(sev),
		Code:     code.ID(),
		Path:     filepath.ToSlash(f.FormatPath("relative", fs.BaseDir())),
		Line:     start.Line,
		Column:   start.Col,
		Message:  sanitizeMessage(msg),
	})
}

func severityLabel(sev diag.Severity) string {
	if sev == noteSeverity {
		return "note"
	}
	return sev.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
