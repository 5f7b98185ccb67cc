package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"mcfc/internal/buildpipeline"
)

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	addProjectFlags(cmd)
	cmd.Flags().String("out", "", "")
	return cmd
}

func TestInitThenRun(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var out bytes.Buffer
	cmd := &cobra.Command{Use: "init"}
	cmd.SetOut(&out)
	if err := runInit(cmd, []string{"My Game"}); err != nil {
		t.Fatalf("init: %v", err)
	}
	root := filepath.Join(dir, "My Game")
	data, err := os.ReadFile(filepath.Join(root, "mcfc.toml"))
	if err != nil {
		t.Fatalf("manifest: %v", err)
	}
	if !strings.Contains(string(data), `name = "my_game"`) {
		t.Errorf("manifest name:\n%s", data)
	}
	if err := runInit(cmd, []string{"My Game"}); err == nil {
		t.Errorf("second init succeeded")
	}

	t.Chdir(root)
	setup, err := resolveProject(newProjectCmd(), nil)
	if err != nil {
		t.Fatalf("resolveProject: %v", err)
	}
	if !slices.Equal(setup.entries, []string{"main"}) {
		t.Errorf("entries = %v", setup.entries)
	}
	if setup.outputDir != filepath.Join(root, "build", "my_game") {
		t.Errorf("outputDir = %s", setup.outputDir)
	}
	res, err := buildpipeline.Run(context.Background(), &buildpipeline.RunRequest{
		CompileRequest: buildpipeline.CompileRequest{
			Entries:   setup.entries,
			SourceDir: setup.sourceDir,
			Config:    setup.config,
		},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if chat := res.Machine.Chat(); !slices.Equal(chat, []string{"5! = 120"}) {
		t.Errorf("chat = %q", chat)
	}
}

func TestResolveProjectFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll(filepath.Join(dir, "lib", "pkg"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "lib", "pkg", "mod.py"), []byte("x = 1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cmd := newProjectCmd()
	if _, err := resolveProject(cmd, nil); err == nil || !strings.Contains(err.Error(), "no mcfc.toml") {
		t.Fatalf("err = %v", err)
	}

	cmd = newProjectCmd()
	if err := cmd.Flags().Parse([]string{"--source", "lib", "--namespace", "demo", "--no-comments"}); err != nil {
		t.Fatal(err)
	}
	setup, err := resolveProject(cmd, []string{"lib/pkg/mod.py", "other"})
	if err != nil {
		t.Fatalf("resolveProject: %v", err)
	}
	if !slices.Equal(setup.entries, []string{"pkg.mod", "other"}) {
		t.Errorf("entries = %v", setup.entries)
	}
	if setup.config.Base != "demo" || setup.config.Comments {
		t.Errorf("config = %+v", setup.config)
	}
	if setup.sourceDir != filepath.Join(dir, "lib") {
		t.Errorf("sourceDir = %s", setup.sourceDir)
	}
}

func TestVersionJSON(t *testing.T) {
	var out bytes.Buffer
	if err := renderVersionJSON(&out, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), `"tool": "mcfc"`) || strings.Contains(out.String(), "git_commit") {
		t.Errorf("json = %s", out.String())
	}
}
