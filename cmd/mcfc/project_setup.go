package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mcfc/internal/codegen"
	"mcfc/internal/driver"
	"mcfc/internal/project"
)

const noManifestMessage = "no mcfc.toml found\nplease name the entry file explicitly, e.g.:\n  mcfc build src/main.py --out build/pack"

// projectSetup is everything a build needs, merged from mcfc.toml and flags.
type projectSetup struct {
	manifest    *project.Manifest
	sourceDir   string
	templateDir string
	outputDir   string
	entries     []string
	config      codegen.Config
}

func addProjectFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "source root (overrides [build].source)")
	cmd.Flags().String("templates", "", "extra template root (overrides [build].templates)")
	cmd.Flags().String("namespace", "", "function namespace (overrides [package].namespace)")
	cmd.Flags().Bool("no-comments", false, "do not emit # comments")
}

// resolveProject loads the manifest (if any) and applies flag overrides.
// Arguments are dotted module names or .py paths.
func resolveProject(cmd *cobra.Command, args []string) (*projectSetup, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	manifest, found, err := project.LoadManifest(wd)
	if err != nil {
		return nil, err
	}
	setup := &projectSetup{manifest: manifest, config: codegen.DefaultConfig()}
	if found {
		setup.config = manifest.Apply(setup.config)
		if setup.sourceDir, err = manifest.SourceDir(); err != nil {
			return nil, err
		}
		if setup.templateDir, err = manifest.TemplateDir(); err != nil {
			return nil, err
		}
		if setup.outputDir, err = manifest.OutputDir(); err != nil {
			return nil, err
		}
		setup.entries = manifest.Entries()
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("source"); v != "" {
		if setup.sourceDir, err = project.ExpandPath(wd, v); err != nil {
			return nil, err
		}
	}
	if v, _ := flags.GetString("templates"); v != "" {
		if setup.templateDir, err = project.ExpandPath(wd, v); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("out") != nil {
		if v, _ := flags.GetString("out"); v != "" {
			if setup.outputDir, err = project.ExpandPath(wd, v); err != nil {
				return nil, err
			}
		}
	}
	if v, _ := flags.GetString("namespace"); v != "" {
		setup.config.Base = v
	}
	if v, _ := flags.GetBool("no-comments"); v {
		setup.config.Comments = false
	}

	if len(args) > 0 {
		setup.entries = nil
		for _, arg := range args {
			entry, err := setup.entryName(wd, arg)
			if err != nil {
				return nil, err
			}
			setup.entries = append(setup.entries, entry)
		}
	}
	if len(setup.entries) == 0 {
		return nil, fmt.Errorf("%s", noManifestMessage)
	}
	if setup.sourceDir == "" {
		setup.sourceDir = wd
	}
	return setup, nil
}

// entryName turns a .py path into a module name under the source root.
// Without a source root the file's own directory becomes one.
func (s *projectSetup) entryName(wd, arg string) (string, error) {
	if !strings.HasSuffix(arg, ".py") {
		return arg, nil
	}
	path, err := project.ExpandPath(wd, arg)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	if s.sourceDir == "" {
		s.sourceDir = filepath.Dir(path)
	}
	return driver.ModuleName(s.sourceDir, path)
}
