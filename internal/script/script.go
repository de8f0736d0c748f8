// Package script renders restore scripts: POSIX sh programs that rebuild a
// captured tmux session when run outside tmux.
//
// Output is deterministic for a given plan so repeated captures of an
// unchanged session produce identical files.
package script

import (
	"fmt"
	"strings"

	"github.com/timvw/tmux-persist/internal/layout"
)

const shebang = "#!/bin/sh"

// Render returns the restore script for session.
func Render(session string, actions []layout.Action) string {
	var b strings.Builder
	w := func(format string, args ...any) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	w(shebang)
	w("# Restore script for tmux session %s, generated by tmux-persist.", commentSafe(session))
	w("SESSION=%s", Quote(session))
	w("")
	w(`if [ -z "$TMUX" ]; then`)
	w("")
	w("  # if session already exists, attach")
	w(`  if tmux has-session -t "=$SESSION" 2>/dev/null; then`)
	w(`    echo "Session $SESSION already exists. Attaching..."`)
	w(`    tmux attach-session -t "=$SESSION"`)
	w("    exit 0")
	w("  fi")
	w("")
	size, sized := sessionSize(actions)
	w("  # make new session; its initial window is replaced or removed below")
	if sized {
		w(`  BOOTSTRAP=$(tmux new-session -d -P -F '#{window_id}' -s "$SESSION" -x %d -y %d)`, size.width, size.height)
	} else {
		w(`  BOOTSTRAP=$(tmux new-session -d -P -F '#{window_id}' -s "$SESSION")`)
	}

	var resized []int
	if len(actions) > 0 {
		w("")
		for _, a := range actions {
			if cw, ok := a.(layout.CreateWindow); ok && needsResize(cw, size) {
				resized = append(resized, cw.WindowIndex)
			}
			for _, line := range lines(a, size) {
				w("  %s", line)
			}
		}
		w("")
		w(`  tmux kill-window -t "$BOOTSTRAP" 2>/dev/null || true`)
	}
	for _, idx := range resized {
		w(`  tmux set-option -w -t "=$SESSION:%d" -u window-size`, idx)
	}

	w("")
	w("  # attach to new session")
	if first, ok := firstWindow(actions); ok {
		w(`  tmux select-window -t "=$SESSION:%d"`, first)
	}
	w(`  tmux attach-session -t "=$SESSION"`)
	w("")
	w("else")
	w(`  echo "Already inside tmux; run this script from a plain terminal." >&2`)
	w("  exit 1")
	w("fi")
	return b.String()
}

type windowSize struct {
	width, height int
}

// sessionSize is the size of the first captured window. Joins use absolute
// cell counts, so the session must start at the captured size rather than
// tmux's default-size.
func sessionSize(actions []layout.Action) (windowSize, bool) {
	for _, a := range actions {
		if cw, ok := a.(layout.CreateWindow); ok && cw.Width > 0 && cw.Height > 0 {
			return windowSize{cw.Width, cw.Height}, true
		}
	}
	return windowSize{}, false
}

// needsResize reports whether a window was captured at a size other than
// the session's. Such windows are pinned with resize-window while their
// panes are joined and released to follow the client afterwards.
func needsResize(cw layout.CreateWindow, session windowSize) bool {
	if cw.Width <= 0 || cw.Height <= 0 {
		return false
	}
	return cw.Width != session.width || cw.Height != session.height
}

func lines(a layout.Action, session windowSize) []string {
	switch a := a.(type) {
	case layout.CreateWindow:
		out := []string{newWindow(a.WindowIndex, a.Name, a.CWD, a.Command)}
		if needsResize(a, session) {
			out = append(out, fmt.Sprintf(`tmux resize-window -t "=$SESSION:%d" -x %d -y %d`, a.WindowIndex, a.Width, a.Height))
		}
		return out
	case layout.JoinPane:
		return []string{
			newWindow(a.Source.Window, "", a.CWD, a.Command),
			fmt.Sprintf(`tmux join-pane -d %s -l %d -s "=$SESSION:%d.%d" -t "=$SESSION:%d"`,
				a.Orientation.Flag(), a.Size, a.Source.Window, a.Source.Pane, a.Target.Window),
		}
	default:
		return nil
	}
}

// ShellCommand returns the command a restored pane runs: change into cwd,
// then run cmd. With no cmd there is nothing to chain, so it returns ""
// and the pane starts the default shell in cwd instead.
func ShellCommand(cwd, cmd string) string {
	if strings.TrimSpace(cmd) == "" {
		return ""
	}
	if cwd == "" {
		return cmd
	}
	return "cd " + Quote(cwd) + " && " + cmd
}

func newWindow(index int, name, cwd, cmd string) string {
	parts := []string{"tmux", "new-window", "-d", "-k", fmt.Sprintf(`-t "=$SESSION:%d"`, index)}
	if name != "" {
		parts = append(parts, "-n", Quote(name))
	}
	if cwd != "" {
		parts = append(parts, "-c", Quote(cwd))
	}
	if sc := ShellCommand(cwd, cmd); sc != "" {
		parts = append(parts, Quote(sc))
	}
	return strings.Join(parts, " ")
}

func firstWindow(actions []layout.Action) (int, bool) {
	first, ok := 0, false
	for _, a := range actions {
		cw, isWindow := a.(layout.CreateWindow)
		if !isWindow {
			continue
		}
		if !ok || cw.WindowIndex < first {
			first, ok = cw.WindowIndex, true
		}
	}
	return first, ok
}

func commentSafe(s string) string {
	return strings.NewReplacer("\n", " ", "\r", " ").Replace(s)
}
