package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/timvw/tmux-persist/internal/config"
	"github.com/timvw/tmux-persist/internal/persist"
)

var flagDryRun bool

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Write a restore script for every running session",
	Long: `Write one restore script per running tmux session into the output directory.

Scripts from earlier runs are removed first, so the directory always holds
exactly one script per live session. A session that cannot be captured is
reported and skipped; the others are still written. The exit status is
non-zero if any session failed.

With --dry-run the scripts are printed to stdout and the output directory is
left untouched.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSave(cmd, flagDryRun)
	},
}

func init() {
	saveCmd.Flags().BoolVarP(&flagDryRun, "dry-run", "n", false, "print scripts to stdout instead of writing files")
	rootCmd.AddCommand(saveCmd)
}

func runSave(cmd *cobra.Command, dryRun bool) error {
	ctx := cmd.Context()
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close(ctx)

	if dryRun {
		return printScripts(cmd, a)
	}

	report, err := a.saver.Save(ctx)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, w := range report.Written {
		fmt.Fprintf(out, "%s\t%s\n", w.Session, w.Path)
	}
	for _, f := range report.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Session, f.Err)
	}
	if report.HasFailures() {
		return fmt.Errorf("%d of %d sessions failed", len(report.Failed), len(report.Failed)+len(report.Written))
	}
	return nil
}

// printScripts renders every session's script to stdout without touching
// the output directory.
func printScripts(cmd *cobra.Command, a *app) error {
	ctx := cmd.Context()
	sessions, err := a.mux.ListSessions(ctx)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	failed := 0
	out := cmd.OutOrStdout()
	printed := 0
	for _, name := range sessions {
		if config.MatchesExcludeList(name, a.cfg.ExcludeSessions) {
			continue
		}
		sess, err := a.saver.Capture(ctx, name)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", name, err)
			failed++
			continue
		}
		if printed > 0 {
			fmt.Fprintln(out)
		}
		printed++
		fmt.Fprintf(out, "# ==> %s <==\n", a.store.Path(name))
		fmt.Fprint(out, persist.Render(sess))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sessions failed", failed, len(sessions))
	}
	return nil
}
