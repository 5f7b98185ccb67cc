package datapack

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// Sink receives the files of one datapack.
type Sink interface {
	MkdirAll(dir string) error
	Create(name string) (io.WriteCloser, error)
}

// DirSink writes under Root on disk.
type DirSink struct {
	Root string
}

func (s DirSink) MkdirAll(dir string) error {
	return os.MkdirAll(filepath.Join(s.Root, filepath.FromSlash(dir)), 0o755)
}

func (s DirSink) Create(name string) (io.WriteCloser, error) {
	// #nosec G304 -- path is built by the compiler under Root
	return os.Create(filepath.Join(s.Root, filepath.FromSlash(name)))
}

// MemSink keeps files in memory.
type MemSink struct {
	mu    sync.Mutex
	dirs  map[string]struct{}
	files map[string][]byte
	order []string
}

// NewMemSink returns an empty in-memory sink.
func NewMemSink() *MemSink {
	return &MemSink{
		dirs:  make(map[string]struct{}),
		files: make(map[string][]byte),
	}
}

func (s *MemSink) MkdirAll(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for d := path.Clean(dir); d != "." && d != "/"; d = path.Dir(d) {
		s.dirs[d] = struct{}{}
	}
	return nil
}

func (s *MemSink) Create(name string) (io.WriteCloser, error) {
	name = path.Clean(name)
	s.mu.Lock()
	defer s.mu.Unlock()
	if dir := path.Dir(name); dir != "." {
		if _, ok := s.dirs[dir]; !ok {
			return nil, fmt.Errorf("create %s: directory %s does not exist", name, dir)
		}
	}
	return &memFile{sink: s, name: name}, nil
}

// Files lists written files in creation order.
func (s *MemSink) Files() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.order)
}

// Read returns the content of name.
func (s *MemSink) Read(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.files[path.Clean(name)]
	return b, ok
}

// Functions returns function ids mapped to their bodies.
func (s *MemSink) Functions() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for name, b := range s.files {
		if id, ok := FunctionID(name); ok {
			out[id] = string(b)
		}
	}
	return out
}

func (s *MemSink) commit(name string, b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[name]; !ok {
		s.order = append(s.order, name)
	}
	s.files[name] = b
}

type memFile struct {
	sink   *MemSink
	name   string
	buf    bytes.Buffer
	closed bool
}

func (f *memFile) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.buf.Write(p)
}

func (f *memFile) Close() error {
	if f.closed {
		return os.ErrClosed
	}
	f.closed = true
	f.sink.commit(f.name, f.buf.Bytes())
	return nil
}

// FunctionFile maps a file-namespace path (`main\module\f.mcfunction`) to
// its location in the pack.
func FunctionFile(base, fnsPath string) string {
	p := strings.ReplaceAll(fnsPath, `\`, "/")
	if !strings.HasSuffix(p, ".mcfunction") {
		p += ".mcfunction"
	}
	return path.Join("data", base, "function", p)
}

// FunctionID is the reverse of FunctionFile.
func FunctionID(name string) (string, bool) {
	rest, ok := strings.CutPrefix(path.Clean(name), "data/")
	if !ok {
		return "", false
	}
	base, rest, ok := strings.Cut(rest, "/")
	if !ok {
		return "", false
	}
	rest, ok = strings.CutPrefix(rest, "function/")
	if !ok {
		return "", false
	}
	rest, ok = strings.CutSuffix(rest, ".mcfunction")
	if !ok {
		return "", false
	}
	return base + ":" + rest, true
}

// WriteFile creates name (and its directory) and writes content.
func WriteFile(s Sink, name, content string) error {
	if dir := path.Dir(name); dir != "." {
		if err := s.MkdirAll(dir); err != nil {
			return err
		}
	}
	w, err := s.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Close()
}
