// Package proc resolves the command running in a pane from the process table.
//
// Resolution is best-effort: the foreground process may change between the
// snapshot and the restore, and any lookup failure degrades to an empty
// command instead of an error.
package proc

import (
	"context"
	"strconv"
	"strings"

	"github.com/timvw/tmux-persist/internal/runner"
)

// ProcessTable answers command-line lookups against the OS process table.
type ProcessTable interface {
	// ChildCommand returns the command line of a child of pid, or "" if none.
	ChildCommand(ctx context.Context, pid int) (string, error)
	// Command returns the command line of pid itself, or "" if it is gone.
	Command(ctx context.Context, pid int) (string, error)
}

// PS implements ProcessTable with procps ps.
type PS struct {
	runner runner.Runner
}

// NewPS creates a ProcessTable that shells out to ps.
func NewPS() *PS {
	return &PS{runner: runner.OSRunner{}}
}

// NewPSWithRunner creates a ProcessTable backed by r.
func NewPSWithRunner(r runner.Runner) *PS {
	return &PS{runner: r}
}

// ChildCommand runs "ps --no-headers -o cmd --ppid PID" and returns the
// first non-empty line.
func (p *PS) ChildCommand(ctx context.Context, pid int) (string, error) {
	out, err := p.runner.Run(ctx, "ps", "--no-headers", "-o", "cmd", "--ppid", strconv.Itoa(pid))
	if err != nil {
		// ps exits 1 when nothing matches.
		return firstLine(out), err
	}
	return firstLine(out), nil
}

// Command runs "ps --no-headers -o cmd PID".
func (p *PS) Command(ctx context.Context, pid int) (string, error) {
	out, err := p.runner.Run(ctx, "ps", "--no-headers", "-o", "cmd", strconv.Itoa(pid))
	if err != nil {
		return firstLine(out), err
	}
	return firstLine(out), nil
}

func firstLine(out []byte) string {
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			return line
		}
	}
	return ""
}
