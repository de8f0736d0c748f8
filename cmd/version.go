package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is injected at build time with -ldflags "-X .../cmd.Version=...".
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "tmux-persist", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
