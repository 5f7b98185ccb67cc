package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mcfc/internal/diagfmt"
	"mcfc/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.py",
	Short: "Tokenize a source file",
	Long:  `Tokenize breaks a source file into tokens, including INDENT/DEDENT/NEWLINE`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	g, err := readGlobalFlags(cmd)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(args[0], g.maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	// диагностика в stderr, токены в stdout
	printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, g.quiet)

	switch format {
	case "pretty":
		err = diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		err = diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	default:
		return errInvalidFlag("format", format, "pretty|json")
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errReported
	}
	return nil
}
