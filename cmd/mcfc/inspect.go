package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mcfc/internal/codegen"
	"mcfc/internal/driver"
	"mcfc/internal/filens"
	"mcfc/internal/namespace"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [flags] <snapshot>",
	Short: "Show a compile snapshot written by build --snapshot",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

var inspectSections = []string{"modules", "names", "files", "registers", "functions"}

func init() {
	inspectCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	inspectCmd.Flags().StringSlice("section", nil, "sections to show ("+strings.Join(inspectSections, "|")+"), all by default")
}

func runInspect(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	sections, _ := cmd.Flags().GetStringSlice("section")
	if len(sections) == 0 {
		sections = inspectSections
	}

	snap, err := driver.ReadSnapshot(args[0])
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return dumpJSON(out, snap)
	case "pretty":
	default:
		return errInvalidFlag("format", format, "pretty|json")
	}

	head := color.New(color.Bold, color.FgCyan)
	fmt.Fprintf(out, "%s %s (namespace %s, digest %.12s)\n", head.Sprint("entry"), snap.Entry, snap.Base, snap.DigestHex())
	for _, sec := range sections {
		fmt.Fprintln(out)
		fmt.Fprintln(out, head.Sprint(sec))
		switch sec {
		case "modules":
			for _, m := range snap.Modules {
				fmt.Fprintf(out, "  %-24s %-8s %s\n", m.Name, m.Kind, m.Path)
			}
		case "names":
			for _, e := range snap.Names {
				printNameEntry(out, e, 1)
			}
		case "files":
			for _, e := range snap.Files {
				printFileEntry(out, e, 1)
			}
		case "registers":
			if snap.Codec.Prefix != "" {
				fmt.Fprintf(out, "  code prefix %s\n", snap.Codec.Prefix)
			}
			for _, bank := range sortedKeys(snap.Codec.Banks) {
				regs := snap.Codec.Banks[bank]
				fmt.Fprintf(out, "  %s (%d)\n", bank, len(regs))
				for _, name := range sortedKeys(regs) {
					fmt.Fprintf(out, "    %-8s %s\n", regs[name], name)
				}
			}
		case "functions":
			for _, f := range snap.Functions {
				params := make([]string, 0, len(f.Params))
				for _, p := range f.Params {
					s := p.Name
					switch p.Binding {
					case codegen.DefaultValue:
						s = fmt.Sprintf("%s=%d", p.Name, p.Default)
					case codegen.DefaultOmit:
						s += "=None"
					}
					params = append(params, s)
				}
				fmt.Fprintf(out, "  %s(%s)\n", f.Path, strings.Join(params, ", "))
			}
		default:
			return errInvalidFlag("section", sec, strings.Join(inspectSections, "|"))
		}
	}
	if len(snap.Leaks) > 0 {
		warn := color.New(color.FgYellow, color.Bold)
		fmt.Fprintln(out)
		for _, l := range snap.Leaks {
			fmt.Fprintf(out, "%s %s holds %s\n", warn.Sprint("leak:"), l.Scope, strings.Join(l.Regs, ", "))
		}
	}
	return nil
}

func printNameEntry(w io.Writer, e namespace.Entry, depth int) {
	fmt.Fprintf(w, "%s%s [%s]", strings.Repeat("  ", depth), e.Name, e.Kind)
	if e.Target != "" {
		fmt.Fprintf(w, " -> %s", e.Target)
	}
	fmt.Fprintln(w)
	for _, c := range e.Children {
		printNameEntry(w, c, depth+1)
	}
}

func printFileEntry(w io.Writer, e filens.Entry, depth int) {
	fmt.Fprintf(w, "%s%s [%s, %s]", strings.Repeat("  ", depth), e.Name, e.Type, e.Level)
	if e.Target != "" {
		fmt.Fprintf(w, " -> %s", e.Target)
	}
	if n := len(e.Breakpoints); n > 0 {
		fmt.Fprintf(w, " (%d pending records)", n)
	}
	fmt.Fprintln(w)
	for _, c := range e.Children {
		printFileEntry(w, c, depth+1)
	}
}
