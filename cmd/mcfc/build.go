package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcfc/internal/buildpipeline"
	"mcfc/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [entries...]",
	Short: "Compile entry modules into a datapack",
	Long: `Build compiles every entry module (dotted names or .py files under the source
root) and writes one datapack. Without arguments the entries of mcfc.toml are built.`,
	RunE: runBuild,
}

func init() {
	addProjectFlags(buildCmd)
	buildCmd.Flags().String("out", "", "datapack output directory (overrides [build].output)")
	buildCmd.Flags().Bool("clean", false, "remove previously generated functions first")
	buildCmd.Flags().Int("jobs", 0, "max entries compiled at once (0=all)")
	buildCmd.Flags().String("snapshot", "", "write a compile snapshot per entry into this directory")
}

func runBuild(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	setup, err := resolveProject(cmd, args)
	if err != nil {
		return err
	}
	if setup.outputDir == "" {
		return fmt.Errorf("no output directory: pass --out or set [build].output")
	}
	clean, err := cmd.Flags().GetBool("clean")
	if err != nil {
		return fmt.Errorf("failed to get clean flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	snapshotDir, err := cmd.Flags().GetString("snapshot")
	if err != nil {
		return fmt.Errorf("failed to get snapshot flag: %w", err)
	}
	mode, err := readUIMode(g.ui)
	if err != nil {
		return err
	}

	req := &buildpipeline.BuildRequest{
		CompileRequest: buildpipeline.CompileRequest{
			Entries:        setup.entries,
			SourceDir:      setup.sourceDir,
			TemplateDir:    setup.templateDir,
			Config:         setup.config,
			MaxDiagnostics: g.maxDiagnostics,
			Jobs:           jobs,
		},
		OutputDir: setup.outputDir,
		Clean:     clean,
	}

	var res buildpipeline.BuildResult
	if shouldUseTUI(mode) && !g.quiet {
		res, err = runBuildWithUI(cmd.Context(), "build "+setup.config.Base, setup.entries, req)
	} else {
		res, err = buildpipeline.Build(cmd.Context(), req)
	}

	out := cmd.ErrOrStderr()
	if res.CompileResult != nil {
		for _, u := range res.Units {
			printUnit(out, u, g.quiet)
			if g.timings && u != nil {
				printTimings(out, u.Entry, u.Timer)
			}
			if snapshotDir != "" && u != nil && u.Module != nil {
				path := filepath.Join(snapshotDir, u.Entry+".mcfc-snap")
				if serr := driver.WriteSnapshot(path, driver.TakeSnapshot(u)); serr != nil {
					return fmt.Errorf("failed to write snapshot %s: %w", path, serr)
				}
			}
		}
	}
	if err != nil {
		return err
	}
	if !g.quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries, %d files -> %s\n",
			color.New(color.FgGreen, color.Bold).Sprint("built"), len(res.Units), res.Files, res.OutputDir)
	}
	return nil
}
