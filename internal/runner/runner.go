// Package runner executes external commands behind an interface so that
// tmux and ps invocations can be replaced by fixtures in tests.
package runner

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Runner executes a command and returns its stdout.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// OSRunner runs commands with os/exec.
type OSRunner struct{}

// Run executes name with args. On a non-zero exit the returned error
// includes the command's stderr.
func (OSRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return out, err
	}
	return out, nil
}

// Timed bounds every call of the wrapped Runner by Timeout.
// A zero Timeout disables the bound.
type Timed struct {
	Runner  Runner
	Timeout time.Duration
}

// WithTimeout wraps r so each call runs under its own deadline.
func WithTimeout(r Runner, timeout time.Duration) *Timed {
	return &Timed{Runner: r, Timeout: timeout}
}

// Run executes the command under the configured deadline.
func (t *Timed) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	if t.Timeout <= 0 {
		return t.Runner.Run(ctx, name, args...)
	}
	runCtx, cancel := context.WithTimeout(ctx, t.Timeout)
	defer cancel()
	out, err := t.Runner.Run(runCtx, name, args...)
	if err != nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return out, fmt.Errorf("%s timed out after %s: %w", name, t.Timeout, err)
	}
	return out, err
}
