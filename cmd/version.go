package cmd

import (
	"fmt"

	"github.com/smazurov/statusled/internal/version"
	"github.com/spf13/cobra"
)

// CreateVersionCmd creates the version command.
func CreateVersionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if !verbose {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return
			}
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "statusled %s\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit:   %s\n", info.GitCommit)
			fmt.Fprintf(cmd.OutOrStdout(), "  built:    %s\n", info.BuildDate)
			fmt.Fprintf(cmd.OutOrStdout(), "  go:       %s (%s)\n", info.GoVersion, info.Compiler)
			fmt.Fprintf(cmd.OutOrStdout(), "  platform: %s\n", info.Platform)
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print build metadata")
	return cmd
}
