package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"plan-editor/internal/catalog"
	"plan-editor/internal/plan"
	"plan-editor/internal/planfile"
)

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info <plan.json>",
		Short: "Show the content of a plan and check it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.setup(cmd); err != nil {
				return err
			}
			f, err := planfile.Load(args[0])
			if err != nil {
				return err
			}
			return printInfo(cmd.OutOrStdout(), f)
		},
	}
}

func printInfo(w io.Writer, f planfile.File) error {
	fmt.Fprintf(w, "Version: %d\n", f.Version)
	if err := f.CheckVersion(); err != nil {
		fmt.Fprintf(w, "  warning: %v\n", err)
	}
	if f.HasBackground() {
		fmt.Fprintf(w, "Plan image: %s (%dx%d)\n", abbreviate(f.BG.Src), f.BG.NaturalWidth, f.BG.NaturalHeight)
	} else {
		fmt.Fprintln(w, "Plan image: none")
	}
	if f.Snap != nil {
		fmt.Fprintf(w, "Grid step: %g\n", *f.Snap)
	}
	if f.Data == nil {
		fmt.Fprintln(w, "No document")
		return nil
	}

	doc := *f.Data
	st := doc.Stats()
	fmt.Fprintf(w, "Symbols: %d\n", st.Symbols)
	types := make([]string, 0, len(st.SymbolsByType))
	for t := range st.SymbolsByType {
		types = append(types, t)
	}
	sort.Strings(types)
	for _, t := range types {
		label := t
		if s, ok := catalog.LookupSymbol(t); ok {
			label = s.Label
		}
		fmt.Fprintf(w, "  %-20s %d\n", label, st.SymbolsByType[t])
	}
	fmt.Fprintf(w, "Wires: %d (%s)\n", st.Wires, plan.FormatDistance(st.WireLength))
	fmt.Fprintf(w, "Measurements: %d\n", st.Measurements)
	for _, m := range doc.Measures {
		fmt.Fprintf(w, "  %s\n", m.DisplayLabel())
	}

	if err := doc.Validate(); err != nil {
		fmt.Fprintln(w, "Problems:")
		for _, line := range problems(err) {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	return nil
}

// problems splits a joined validation error into its messages.
func problems(err error) []string {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, e.Error())
		}
		return out
	}
	return strings.Split(err.Error(), "\n")
}

func abbreviate(src string) string {
	if strings.HasPrefix(src, "data:") && len(src) > 40 {
		return src[:40] + "..."
	}
	return src
}
