package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"plan-editor/internal/background"
	"plan-editor/internal/planfile"
)

func newEmbedCmd(opts *options) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "embed <plan.json>",
		Short: "Store the plan image inside the plan file as a data: URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := opts.setup(cmd); err != nil {
				return err
			}
			path := args[0]
			if output == "" {
				output = strings.TrimSuffix(path, filepath.Ext(path)) + "-embedded.json"
			}
			if err := embedPlan(path, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output plan path (default <plan>-embedded.json)")
	return cmd
}

func embedPlan(path, output string) error {
	f, err := planfile.Load(path)
	if err != nil {
		return err
	}
	if !f.HasBackground() {
		return errors.New("plan has no image to embed")
	}
	src, err := background.Embed(background.Resolve(f.BG.Src, filepath.Dir(path)))
	if err != nil {
		return err
	}
	bg := *f.BG
	bg.Src = src
	f.BG = &bg
	f.Version = planfile.Version
	return planfile.Save(output, f)
}
