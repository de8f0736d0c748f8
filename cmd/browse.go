package cmd

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-persist/internal/browser"
	"github.com/timvw/tmux-persist/internal/logging"
)

var flagTheme string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a saved restore script interactively",
	Long: `Launch a terminal UI over the saved restore scripts.

Sessions that are running now are marked. The selected script is shown
on the right. Press r to re-capture all sessions, Enter to run the
selected script (this process is replaced by it) and q to quit.

Restore scripts refuse to run inside tmux, so run browse from a plain
terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		theme := a.cfg.Theme
		if flagTheme != "" {
			theme = flagTheme
		}
		b := &browser.Browser{
			Store:     a.store,
			Saver:     a.saver,
			Sessions:  a.mux,
			ThemeName: theme,
			Logger:    logging.ForComponent(logging.CompUI),
		}
		script, err := b.Run(ctx)
		a.close(ctx)
		if err != nil {
			return err
		}
		if script == "" {
			return nil
		}
		return execScript(script)
	},
}

func init() {
	browseCmd.Flags().StringVar(&flagTheme, "theme", "", "color theme: dark, light (overrides config)")
	rootCmd.AddCommand(browseCmd)
}

// execScript replaces this process with /bin/sh running script. On success
// it never returns.
func execScript(script string) error {
	if os.Getenv("TMUX") != "" {
		return fmt.Errorf("already inside tmux; run %s from a plain terminal", script)
	}
	argv := []string{"sh", script}
	if err := syscall.Exec("/bin/sh", argv, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", script, err)
	}
	return nil
}
