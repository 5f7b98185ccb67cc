package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"

	"mcfc/internal/codegen"
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
	"mcfc/internal/project"
	"mcfc/internal/scoreboard"
)

// snapshotSchema is bumped whenever Snapshot changes shape.
const snapshotSchema uint16 = 1

// ErrSnapshotSchema is returned for snapshots written by another version.
var ErrSnapshotSchema = errors.New("snapshot schema mismatch")

// SnapshotModule is one loaded module of a snapshot.
type SnapshotModule struct {
	Name   string         `msgpack:"name" json:"name"`
	Kind   string         `msgpack:"kind" json:"kind"`
	Path   string         `msgpack:"path,omitempty" json:"path,omitempty"`
	Digest project.Digest `msgpack:"digest" json:"-"`
}

// Snapshot is the compile state of one unit after generation: enough to
// see which names, registers and files a build produced.
type Snapshot struct {
	Schema    uint16              `msgpack:"schema" json:"schema"`
	Entry     string              `msgpack:"entry" json:"entry"`
	Base      string              `msgpack:"base" json:"base"`
	Digest    project.Digest      `msgpack:"digest" json:"-"`
	Modules   []SnapshotModule    `msgpack:"modules" json:"modules"`
	Names     []namespace.Entry   `msgpack:"names" json:"names"`
	Files     []filens.Entry      `msgpack:"files" json:"files"`
	Codec     scoreboard.Snapshot `msgpack:"codec" json:"codec"`
	Functions []*codegen.FuncInfo `msgpack:"functions" json:"functions"`
	Templates []string            `msgpack:"templates" json:"templates"`
	Leaks     []namespace.Leak    `msgpack:"leaks,omitempty" json:"leaks,omitempty"`
}

// DigestHex is the unit digest in hex, for printing.
func (s *Snapshot) DigestHex() string {
	return s.Digest.String()
}

// TakeSnapshot copies the state of u. The unit digest combines the source
// hashes of every loaded module in load order.
func TakeSnapshot(u *Unit) *Snapshot {
	st := u.State
	snap := &Snapshot{
		Schema:    snapshotSchema,
		Entry:     u.Entry,
		Base:      st.Config.Base,
		Names:     st.Names.Snapshot(),
		Files:     st.Files.Snapshot(),
		Codec:     st.Codec.Snapshot(),
		Functions: st.Functions(),
		Templates: st.Templates.Bound(),
		Leaks:     st.Leaks(),
	}
	h := project.NewUnitHasher(st.Config.Base)
	for _, name := range st.ModuleNames() {
		m := st.Modules[name]
		sm := SnapshotModule{Name: m.Name, Kind: m.Kind.String(), Path: m.Path}
		if m.Kind == codegen.ModuleSource {
			if f := u.FileSet.Get(m.File); f != nil {
				sm.Digest = f.Hash
			}
		}
		h.Add(sm.Digest)
		snap.Modules = append(snap.Modules, sm)
	}
	snap.Digest = h.Sum()
	return snap
}

// EncodeSnapshot writes snap as msgpack.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	return msgpack.NewEncoder(w).Encode(snap)
}

// DecodeSnapshot reads a snapshot written by EncodeSnapshot.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := msgpack.NewDecoder(r).Decode(&snap); err != nil {
		return nil, err
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSnapshotSchema, snap.Schema, snapshotSchema)
	}
	return &snap, nil
}

// WriteSnapshot stores snap at path, replacing any previous file
// atomically.
func WriteSnapshot(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		_ = os.Remove(f.Name())
	}()
	if err := EncodeSnapshot(f, snap); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), path)
}

// ReadSnapshot loads a snapshot file.
func ReadSnapshot(path string) (*Snapshot, error) {
	// #nosec G304 -- path is provided by the caller
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeSnapshot(f)
}
