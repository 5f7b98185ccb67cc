package project

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/go-homedir"

	"mcfc/internal/codegen"
)

// Manifest is a loaded mcfc.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the sections of mcfc.toml.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Runtime RuntimeConfig `toml:"runtime"`
}

type PackageConfig struct {
	Name        string `toml:"name"`
	Namespace   string `toml:"namespace"`
	Description string `toml:"description"`
}

type BuildConfig struct {
	Source     string   `toml:"source"`
	Templates  string   `toml:"templates"`
	Entries    []string `toml:"entries"`
	Output     string   `toml:"output"`
	Comments   *bool    `toml:"comments"`
	PackFormat int      `toml:"pack_format"`
}

type RuntimeConfig struct {
	Storage string `toml:"storage"`
}

var (
	namespaceRe = regexp.MustCompile(`^[a-z0-9_.-]+$`)
	storageRe   = regexp.MustCompile(`^[a-z0-9_.-]+:[a-z0-9_./-]+$`)
)

// LoadManifest finds and loads the manifest above startDir.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses and validates one manifest file.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if ns := cfg.Package.Namespace; ns != "" && !namespaceRe.MatchString(ns) {
		return Config{}, fmt.Errorf("%s: [package].namespace %q is not a valid namespace", path, ns)
	}
	if st := cfg.Runtime.Storage; st != "" && !storageRe.MatchString(st) {
		return Config{}, fmt.Errorf("%s: [runtime].storage %q is not a resource location", path, st)
	}
	if cfg.Build.PackFormat < 0 {
		return Config{}, fmt.Errorf("%s: [build].pack_format must be positive", path)
	}
	return cfg, nil
}

// ExpandPath expands ~ and makes p absolute against root.
func ExpandPath(root, p string) (string, error) {
	if p == "" {
		return "", nil
	}
	p, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(p) {
		p = filepath.Join(root, filepath.FromSlash(p))
	}
	return filepath.Clean(p), nil
}

// SourceDir is the read root, "src" under the project root by default.
func (m *Manifest) SourceDir() (string, error) {
	src := m.Config.Build.Source
	if src == "" {
		src = "src"
	}
	return ExpandPath(m.Root, src)
}

// TemplateDir is the optional extra template root.
func (m *Manifest) TemplateDir() (string, error) {
	return ExpandPath(m.Root, m.Config.Build.Templates)
}

// OutputDir is where the datapack is written, "build/<name>" by default.
func (m *Manifest) OutputDir() (string, error) {
	out := m.Config.Build.Output
	if out == "" {
		out = filepath.Join("build", m.Config.Package.Name)
	}
	return ExpandPath(m.Root, out)
}

// Entries are the modules compiled as roots, "main" by default.
func (m *Manifest) Entries() []string {
	if len(m.Config.Build.Entries) == 0 {
		return []string{"main"}
	}
	return m.Config.Build.Entries
}

// Apply overrides the generator constants the manifest sets.
func (m *Manifest) Apply(cfg codegen.Config) codegen.Config {
	if m == nil {
		return cfg
	}
	c := m.Config
	if c.Package.Namespace != "" {
		cfg.Base = c.Package.Namespace
	}
	if c.Package.Description != "" {
		cfg.Description = c.Package.Description
	} else if cfg.Description == "" {
		cfg.Description = c.Package.Name
	}
	if c.Build.Comments != nil {
		cfg.Comments = *c.Build.Comments
	}
	if c.Build.PackFormat > 0 {
		cfg.PackFormat = c.Build.PackFormat
	}
	if c.Runtime.Storage != "" {
		cfg.Storage.Root = c.Runtime.Storage
	}
	return cfg
}

// Template is the manifest written by mcfc init.
func Template(name string) string {
	return fmt.Sprintf(`[package]
name = %q
namespace = "source_code"
description = "%s datapack"

[build]
source = "src"
entries = ["main"]
comments = true

[runtime]
storage = "mcfc:runtime"
`, name, name)
}
