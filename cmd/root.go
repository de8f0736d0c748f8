package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags.
	flagConfig    string
	flagMux       string
	flagOutputDir string
	flagLogLevel  string
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "tmux-persist",
	Short: "Save tmux session layouts as restore scripts",
	Long: `tmux-persist snapshots every running tmux session (windows, panes, sizes,
working directories and foreground commands) and writes one shell script
per session that rebuilds it.

Run without a subcommand to save all sessions. Restore a session by running
its script from a plain terminal, or pick one interactively with "browse".

Configuration is loaded from .tmux-persist.yaml, ~/.config/tmux-persist/config.yaml
or TMUX_PERSIST_* environment variables.`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, false)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: .tmux-persist.yaml or ~/.config/tmux-persist/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagMux, "mux", envOrDefault("TMUX_PERSIST_MUX", ""), "terminal multiplexer: tmux (default: auto-detect)")
	rootCmd.PersistentFlags().StringVarP(&flagOutputDir, "output-dir", "o", "", "directory for restore scripts (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "shorthand for --log-level=debug")
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
