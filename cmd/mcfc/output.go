package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"mcfc/internal/codegen"
	"mcfc/internal/diag"
	"mcfc/internal/diagfmt"
	"mcfc/internal/driver"
	"mcfc/internal/observ"
	"mcfc/internal/source"
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("compilation failed")

func errInvalidFlag(name, value, allowed string) error {
	return fmt.Errorf("invalid --%s value %q (expected %s)", name, value, allowed)
}

type globalFlags struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
	ui             string
}

func readGlobalFlags(cmd *cobra.Command) (globalFlags, error) {
	pf := cmd.Root().PersistentFlags()
	var (
		g   globalFlags
		err error
	)
	if g.quiet, err = pf.GetBool("quiet"); err != nil {
		return g, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if g.timings, err = pf.GetBool("timings"); err != nil {
		return g, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if g.maxDiagnostics, err = pf.GetInt("max-diagnostics"); err != nil {
		return g, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if g.ui, err = pf.GetString("ui"); err != nil {
		return g, fmt.Errorf("failed to get ui flag: %w", err)
	}
	return g, nil
}

func prettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:    !color.NoColor,
		Context:  2,
		PathMode: diagfmt.PathModeRelative,
	}
}

// printDiagnostics prints the bag sorted by position; quiet drops infos.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, quiet bool) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	if quiet {
		bag = bag.Filter(diag.SevWarning)
	}
	bag.Sort()
	bag.Dedup()
	diagfmt.Pretty(w, bag, fs, prettyOpts())
}

// printUnit reports one compile unit: diagnostics, then the compile
// traceback when generation failed.
func printUnit(w io.Writer, u *driver.Unit, quiet bool) {
	if u == nil {
		return
	}
	printDiagnostics(w, u.Bag, u.FileSet, quiet)
	var ce *codegen.CompileError
	if errors.As(u.Err, &ce) {
		diagfmt.Traceback(w, u.FileSet, traceFrames(ce), ce.Err, prettyOpts())
	}
}

func traceFrames(ce *codegen.CompileError) []diagfmt.TraceFrame {
	frames := make([]diagfmt.TraceFrame, 0, len(ce.Frames))
	for _, fr := range ce.Frames {
		frames = append(frames, diagfmt.TraceFrame{
			Span:          fr.Span,
			Namespace:     fr.Namespace,
			FileNamespace: fr.FileNamespace,
		})
	}
	return frames
}

func printTimings(w io.Writer, entry string, t *observ.Timer) {
	if t == nil {
		return
	}
	fmt.Fprintf(w, "%s ", color.New(color.Bold).Sprint(entry))
	fmt.Fprint(w, t.Summary())
}

// printError prints a top-level failure; aggregated entry failures get one
// line each.
func printError(w io.Writer, err error) {
	if errors.Is(err, errReported) {
		return
	}
	label := color.New(color.FgRed, color.Bold).Sprint("error:")
	var merr *multierror.Error
	if errors.As(err, &merr) {
		for _, e := range merr.Errors {
			fmt.Fprintf(w, "%s %v\n", label, e)
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", label, err)
}
