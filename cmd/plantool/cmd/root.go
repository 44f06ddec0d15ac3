package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"plan-editor/internal/config"
	"plan-editor/internal/logging"
	"plan-editor/internal/version"
)

// options are the persistent flags shared by all subcommands.
type options struct {
	configDir string
	logLevel  string
}

// NewRootCmd builds the plantool command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "plantool",
		Short: "Render and inspect electrical plan files",
		Long: `Headless companion of the plan editor.

Examples:
  plantool render plan.json -o plan.png          # Rasterize a plan
  plantool render plan.json --svg plan.svg       # Write the vector drawing
  plantool info plan.json                        # Count symbols and check the file
  plantool embed plan.json -o portable.json      # Carry the plan image inside the file`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.configDir, "config", defaultConfigDir(), "directory holding "+config.FileName)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (TRACE, DEBUG, INFO, WARN, ERROR)")

	root.AddCommand(newRenderCmd(opts), newInfoCmd(opts), newEmbedCmd(opts), newVersionCmd())
	return root
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "plan-editor")
}

// setup loads the configuration and the logger for a subcommand.
func (o *options) setup(cmd *cobra.Command) (config.Config, zerolog.Logger, error) {
	if err := config.Load(o.configDir); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	cfg, err := config.Settings()
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	level := cfg.LogLevel
	if o.logLevel != "" {
		level = o.logLevel
	}
	return cfg, logging.Setup(level, cmd.ErrOrStderr()), nil
}
