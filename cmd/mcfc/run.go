package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"mcfc/internal/buildpipeline"
	"mcfc/internal/driver"
	"mcfc/internal/mcvm"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] <entry>",
	Short: "Compile an entry module and run it in the emulator",
	Long: `Run compiles one entry module into memory, executes the bootstrap function and
then the module body (or --function) in the built-in command emulator. Chat output
is printed line by line.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	addProjectFlags(runCmd)
	runCmd.Flags().String("function", "", "function id to call instead of the module body")
	runCmd.Flags().Int("max-depth", 0, "maximum function nesting (0=default)")
	runCmd.Flags().Int("max-commands", 0, "command budget (0=default)")
	runCmd.Flags().Bool("dump-state", false, "print the compile snapshot as JSON")
	runCmd.Flags().Bool("stats", false, "print call counts after the run")
}

func runRun(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	setup, err := resolveProject(cmd, args)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	fn, _ := flags.GetString("function")
	maxDepth, _ := flags.GetInt("max-depth")
	maxCommands, _ := flags.GetInt("max-commands")
	dumpState, _ := flags.GetBool("dump-state")
	showStats, _ := flags.GetBool("stats")

	res, err := buildpipeline.Run(cmd.Context(), &buildpipeline.RunRequest{
		CompileRequest: buildpipeline.CompileRequest{
			Entries:        setup.entries,
			SourceDir:      setup.sourceDir,
			TemplateDir:    setup.templateDir,
			Config:         setup.config,
			MaxDiagnostics: g.maxDiagnostics,
		},
		Function: fn,
		Options:  mcvm.Options{MaxDepth: maxDepth, MaxCommands: maxCommands},
	})
	errOut := cmd.ErrOrStderr()
	var unit *driver.Unit
	if res.CompileResult != nil && len(res.Units) == 1 {
		unit = res.Units[0]
		printUnit(errOut, unit, g.quiet)
		if g.timings && unit != nil {
			printTimings(errOut, unit.Entry, unit.Timer)
		}
	}
	if dumpState && unit != nil && unit.Module != nil {
		if derr := dumpJSON(cmd.OutOrStdout(), driver.TakeSnapshot(unit)); derr != nil {
			return derr
		}
	}
	if res.Machine != nil {
		for _, line := range res.Machine.Chat() {
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}
	}
	if err != nil {
		return err
	}
	if showStats {
		printStats(errOut, res.Stats)
	}
	return nil
}

func printStats(w io.Writer, stats mcvm.Stats) {
	bold := color.New(color.Bold)
	fmt.Fprintf(w, "%s %d commands, max depth %d\n", bold.Sprint("stats:"), stats.Commands, stats.MaxDepth)
	for _, id := range sortedKeys(stats.Calls) {
		fmt.Fprintf(w, "  %6d  %s\n", stats.Calls[id], id)
	}
}

// dumpJSON prints v coloured when colour is on, plain indented otherwise.
func dumpJSON(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	if color.NoColor {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = prettyjson.Marshal(v)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
