// Package mux provides an abstraction over terminal multiplexers.
//
// This package is pure transport: it reports session topology as the
// multiplexer sees it and leaves layout decisions to internal/layout.
package mux

import (
	"context"

	"github.com/timvw/tmux-persist/internal/model"
)

// Multiplexer abstracts the multiplexer queries needed to snapshot sessions.
type Multiplexer interface {
	// Name returns the multiplexer name (e.g., "tmux").
	Name() string

	// ListSessions returns the names of all running sessions in the
	// order the multiplexer reports them.
	ListSessions(ctx context.Context) ([]string, error)

	// ListPanes returns every pane of every window in the session,
	// window-major then pane-minor. Command is left empty.
	ListPanes(ctx context.Context, session string) ([]model.Pane, error)
}
