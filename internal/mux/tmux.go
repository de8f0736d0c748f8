package mux

import (
	"context"
	"strconv"
	"strings"

	perrors "github.com/timvw/tmux-persist/internal/errors"
	"github.com/timvw/tmux-persist/internal/model"
	"github.com/timvw/tmux-persist/internal/runner"
)

// paneFields is the list-panes format. Fields are tab-separated so that
// window names and paths containing spaces survive the split.
var paneFields = []string{
	"#{window_index}",
	"#{pane_index}",
	"#{window_width}",
	"#{window_height}",
	"#{pane_width}",
	"#{pane_height}",
	"#{window_name}",
	"#{pane_current_path}",
	"#{pane_pid}",
}

// PaneFormat is the -F argument passed to tmux list-panes.
var PaneFormat = strings.Join(paneFields, "\t")

// Tmux implements the Multiplexer interface for tmux.
type Tmux struct {
	runner runner.Runner
}

// NewTmux creates a tmux multiplexer that shells out to the tmux binary.
func NewTmux() *Tmux {
	return &Tmux{runner: runner.OSRunner{}}
}

// NewTmuxWithRunner creates a tmux multiplexer backed by r.
func NewTmuxWithRunner(r runner.Runner) *Tmux {
	return &Tmux{runner: r}
}

// Name returns "tmux".
func (t *Tmux) Name() string {
	return "tmux"
}

// ListSessions returns all tmux session names.
func (t *Tmux) ListSessions(ctx context.Context) ([]string, error) {
	out, err := t.runner.Run(ctx, "tmux", "list-sessions", "-F", "#{session_name}")
	if err != nil {
		return nil, perrors.Wrap(err, perrors.QueryFailure, "tmux list-sessions")
	}

	var sessions []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		sessions = append(sessions, line)
	}
	return sessions, nil
}

// ListPanes returns all panes across all windows of the session.
func (t *Tmux) ListPanes(ctx context.Context, session string) ([]model.Pane, error) {
	out, err := t.runner.Run(ctx, "tmux", "list-panes", "-s", "-t", exactTarget(session), "-F", PaneFormat)
	if err != nil {
		return nil, perrors.Wrap(err, perrors.QueryFailure, "tmux list-panes -t %s", session)
	}

	var panes []model.Pane
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		pane, err := ParsePaneLine(line)
		if err != nil {
			return nil, err
		}
		panes = append(panes, pane)
	}
	return panes, nil
}

// ParsePaneLine parses one list-panes record produced with PaneFormat.
// Lines with the wrong field count or non-numeric geometry are rejected.
func ParsePaneLine(line string) (model.Pane, error) {
	parts := strings.Split(line, "\t")
	if len(parts) != len(paneFields) {
		return model.Pane{}, perrors.New(perrors.ParseFailure,
			"invalid tmux list-panes line %q: got %d fields, want %d", line, len(parts), len(paneFields))
	}

	var ints [6]int
	for i := range ints {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			return model.Pane{}, perrors.New(perrors.ParseFailure,
				"invalid tmux list-panes line %q: field %s is not a non-negative integer", line, paneFields[i])
		}
		ints[i] = n
	}

	pid, err := strconv.Atoi(strings.TrimSpace(parts[8]))
	if err != nil || pid <= 0 {
		return model.Pane{}, perrors.New(perrors.ParseFailure,
			"invalid tmux list-panes line %q: invalid pane_pid %q", line, parts[8])
	}

	return model.Pane{
		WindowIndex:  ints[0],
		PaneIndex:    ints[1],
		WindowWidth:  ints[2],
		WindowHeight: ints[3],
		PaneWidth:    ints[4],
		PaneHeight:   ints[5],
		WindowName:   parts[6],
		CWD:          parts[7],
		PID:          pid,
	}, nil
}

// exactTarget prefixes a session name with "=" so tmux matches it exactly
// instead of by prefix.
func exactTarget(session string) string {
	return "=" + session
}
