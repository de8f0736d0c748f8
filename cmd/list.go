package cmd

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/timvw/tmux-persist/internal/model"
)

var (
	flagFilter string
	flagJSON   bool
)

var (
	sessionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	targetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List sessions and the panes that would be captured",
	Long: `List every running tmux session with its panes as they would be captured:
window.pane, pane size, working directory and resolved command.

Optionally filter by session name using a regex pattern. With --json the
captured sessions are printed as a JSON array.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var filter *regexp.Regexp
		if flagFilter != "" {
			re, err := regexp.Compile(flagFilter)
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
			filter = re
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close(ctx)

		names, err := a.mux.ListSessions(ctx)
		if err != nil {
			return fmt.Errorf("failed to list sessions: %w", err)
		}

		sessions := make([]model.Session, 0, len(names))
		for _, name := range names {
			if filter != nil && !filter.MatchString(name) {
				continue
			}
			sess, err := a.saver.Capture(ctx, name)
			if err != nil {
				return fmt.Errorf("failed to capture %q: %w", name, err)
			}
			sessions = append(sessions, sess)
		}

		out := cmd.OutOrStdout()
		if flagJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(sessions)
		}
		for _, s := range sessions {
			fmt.Fprintln(out, sessionStyle.Render(s.Summary()))
			for _, p := range s.Panes {
				cmdLine := p.Command
				if cmdLine == "" {
					cmdLine = "-"
				}
				fmt.Fprintf(out, "  %s %s %s %s\n",
					targetStyle.Render(fmt.Sprintf("%d.%d", p.WindowIndex, p.PaneIndex)),
					dimStyle.Render(fmt.Sprintf("%dx%d", p.PaneWidth, p.PaneHeight)),
					p.CWD, cmdLine)
			}
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&flagFilter, "filter", "", "regex pattern to filter by session name")
	listCmd.Flags().BoolVar(&flagJSON, "json", false, "print captured sessions as JSON")
	rootCmd.AddCommand(listCmd)
}
