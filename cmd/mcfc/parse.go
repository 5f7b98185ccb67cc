package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcfc/internal/ast"
	"mcfc/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.py",
	Short: "Parse a source file and print its syntax tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, g.quiet)
	fmt.Fprint(cmd.OutOrStdout(), ast.DumpFile(result.Builder, result.FileID, 0))
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
