package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"plan-editor/internal/app"
	"plan-editor/internal/catalog"
)

type renderOptions struct {
	output  string
	svg     string
	dims    bool
	noImage bool
}

func newRenderCmd(opts *options) *cobra.Command {
	ro := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render <plan.json>",
		Short: "Render a plan to PNG and/or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, ro, args[0])
		},
	}
	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "PNG output path (default from config)")
	cmd.Flags().StringVar(&ro.svg, "svg", "", "also write an SVG drawing to this path")
	cmd.Flags().BoolVar(&ro.dims, "dims", false, "show the dimensions layer")
	cmd.Flags().BoolVar(&ro.noImage, "no-image", false, "hide the plan image")
	return cmd
}

func runRender(cmd *cobra.Command, opts *options, ro *renderOptions, path string) error {
	cfg, log, err := opts.setup(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	state := app.NewSession(cfg, log)
	bgDone, err := state.LoadPlan(ctx, path)
	if err != nil {
		return err
	}
	if bgDone != nil {
		if err := <-bgDone; err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: plan image not loaded: %v\n", err)
		}
	}

	e := state.Editor
	e.SetLayerVisible(catalog.LayerDims, ro.dims)
	e.SetLayerVisible(catalog.LayerBackground, !ro.noImage)

	out := ro.output
	if out == "" && ro.svg == "" {
		out = state.DefaultName("png")
	}
	if out != "" {
		if err := <-state.ExportPNG(ctx, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	}
	if ro.svg != "" {
		if err := state.ExportSVG(ro.svg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", ro.svg)
	}
	return nil
}
