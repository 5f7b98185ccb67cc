package source

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	// "a\nb\n" - LineIdx должен быть [1,3]
	id := fs.AddVirtual("a.py", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3}
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.py", []byte("x = 1\ny = 22\n"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{4, LineCol{Line: 1, Col: 5}},
		{5, LineCol{Line: 1, Col: 6}}, // сам '\n' принадлежит первой строке
		{6, LineCol{Line: 2, Col: 1}},
		{10, LineCol{Line: 2, Col: 5}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestGetLineAndLines(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("m.py", []byte("def f(n):\n    return n\nf(1)"))
	f := fs.Get(id)

	if got := f.GetLine(2); got != "    return n" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := f.GetLine(3); got != "f(1)" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := f.GetLine(9); got != "" {
		t.Errorf("GetLine(9) = %q, want empty", got)
	}
	lines := f.Lines(1, 2)
	if len(lines) != 2 || lines[0] != "def f(n):" {
		t.Errorf("Lines(1,2) = %q", lines)
	}
}

func TestLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.py")
	// BOM + CRLF + decomposed é (e + U+0301)
	content := []byte("\xEF\xBB\xBFcafe\u0301 = 1\r\nx = 2\r\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 || f.Flags&FileNormalizedNFC == 0 {
		t.Errorf("unexpected flags %08b", f.Flags)
	}
	if got := f.GetLine(1); got != "caf\u00e9 = 1" {
		t.Errorf("line 1 = %q", got)
	}
}

func TestFirstComment(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("t.py", []byte("# -*- coding: utf-8 -*-\n# MCFC: Template\n\nx = 1\n# not leading\n"))
	got := fs.Get(id).FirstComment()
	if len(got) != 2 || got[1] != "MCFC: Template" {
		t.Errorf("FirstComment = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Errorf("Cover = %v", got)
	}
	other := Span{File: 2, Start: 0, End: 100}
	if got := a.Cover(other); got != a {
		t.Errorf("Cover across files should keep receiver, got %v", got)
	}
}

func TestLoadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"pkg/mod.py": {Data: []byte("\xEF\xBB\xBFx = 1\r\ny = 2\r\n")},
	}
	set := NewFileSet()
	id, err := set.LoadFS(fsys, "pkg/mod.py", "src/pkg/mod.py")
	if err != nil {
		t.Fatal(err)
	}
	f := set.Get(id)
	if f.Path != "src/pkg/mod.py" {
		t.Errorf("path = %q", f.Path)
	}
	if string(f.Content) != "x = 1\ny = 2\n" {
		t.Errorf("content = %q", f.Content)
	}
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("flags = %b", f.Flags)
	}
	if _, err := set.LoadFS(fsys, "missing.py", ""); err == nil {
		t.Error("missing file loaded")
	}
}
