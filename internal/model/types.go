package model

import (
	"fmt"
	"strings"
)

// Pane is a snapshot of one tmux pane as reported by list-panes.
type Pane struct {
	// WindowIndex is the index of the window owning this pane.
	WindowIndex int `json:"window_index"`
	// PaneIndex is the pane's index within its window (0 is the base pane).
	PaneIndex int `json:"pane_index"`
	// WindowWidth and WindowHeight are the enclosing window's size in cells.
	WindowWidth  int `json:"window_width"`
	WindowHeight int `json:"window_height"`
	// PaneWidth and PaneHeight are this pane's size in cells.
	PaneWidth  int `json:"pane_width"`
	PaneHeight int `json:"pane_height"`
	// WindowName is the window label. Not necessarily unique.
	WindowName string `json:"window_name"`
	// CWD is the pane's current working directory.
	CWD string `json:"cwd"`
	// PID is the pane's controlling shell process ID.
	PID int `json:"pid"`
	// Command is the resolved foreground command line. Empty when unresolvable.
	Command string `json:"command"`
}

// IsBase reports whether the pane is the first pane of its window.
func (p Pane) IsBase() bool {
	return p.PaneIndex == 0
}

// Target returns the tmux "session:window.pane" address of the pane.
func (p Pane) Target(session string) string {
	return fmt.Sprintf("%s:%d.%d", session, p.WindowIndex, p.PaneIndex)
}

// Session is a named tmux session with its panes in enumeration order
// (window-major, then pane-minor).
type Session struct {
	Name  string `json:"name"`
	Panes []Pane `json:"panes"`
}

// WindowCount returns the number of distinct windows in the session.
func (s Session) WindowCount() int {
	seen := map[int]bool{}
	for _, p := range s.Panes {
		seen[p.WindowIndex] = true
	}
	return len(seen)
}

// Summary returns a one-line description, e.g. "dev: 2 windows, 3 panes".
func (s Session) Summary() string {
	var b strings.Builder
	b.WriteString(s.Name)
	b.WriteString(": ")
	b.WriteString(plural(s.WindowCount(), "window"))
	b.WriteString(", ")
	b.WriteString(plural(len(s.Panes), "pane"))
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
