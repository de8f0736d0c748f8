package proc

import (
	"context"
	"log/slog"
	"strings"

	perrors "github.com/timvw/tmux-persist/internal/errors"
)

// Resolver picks the command to re-run for a pane.
type Resolver struct {
	Table  ProcessTable
	Logger *slog.Logger
}

// NewResolver creates a Resolver over table.
func NewResolver(table ProcessTable, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{Table: table, Logger: logger}
}

// Lookup returns the pane's foreground command: a child of the pane shell
// if there is one, else the shell's own command line with a login-shell
// "-" prefix removed. When neither yields anything it returns "" and a
// RESOLUTION_MISS error.
func (r *Resolver) Lookup(ctx context.Context, pid int) (string, error) {
	if pid <= 0 {
		return "", perrors.New(perrors.ResolutionMiss, "invalid pid %d", pid)
	}

	child, err := r.Table.ChildCommand(ctx, pid)
	if child != "" {
		return child, nil
	}
	if err != nil {
		r.Logger.Debug("child lookup failed", "pid", pid, "error", err)
	}

	self, err := r.Table.Command(ctx, pid)
	if self != "" {
		return strings.TrimPrefix(self, "-"), nil
	}
	if err != nil {
		return "", perrors.Wrap(err, perrors.ResolutionMiss, "no command for pid %d", pid)
	}
	return "", perrors.New(perrors.ResolutionMiss, "no command for pid %d", pid)
}
