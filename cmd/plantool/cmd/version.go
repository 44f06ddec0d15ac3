package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"plan-editor/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "plantool %s\nbuilt %s\ncommit %s\n",
				version.Version, version.BuildTime, version.GitCommit)
		},
	}
}
