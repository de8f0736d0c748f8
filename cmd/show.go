package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-persist/internal/persist"
)

var flagSaved bool

var showCmd = &cobra.Command{
	Use:   "show <session>",
	Short: "Print the restore script for a session",
	Long: `Capture one running session and print its restore script to stdout.

Nothing is written to the output directory. With --saved the script
already on disk is printed instead, which also works for sessions that
are no longer running.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		name := args[0]

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		if flagSaved {
			content, err := a.store.Read(name)
			if err != nil {
				return fmt.Errorf("no saved script for %q: %w", name, err)
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		}

		sess, err := a.saver.Capture(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to capture session %q: %w", name, err)
		}
		fmt.Fprint(cmd.OutOrStdout(), persist.Render(sess))
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&flagSaved, "saved", false, "print the script stored in the output directory")
	rootCmd.AddCommand(showCmd)
}
