package mux

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/timvw/tmux-persist/internal/runner"
)

// Detect auto-detects the terminal multiplexer to snapshot.
// It checks environment variables first, then falls back to looking for
// the tmux binary on PATH. A nil runner uses runner.OSRunner.
func Detect(r runner.Runner) (Multiplexer, error) {
	if os.Getenv("TMUX") != "" {
		return newTmux(r), nil
	}
	if os.Getenv("ZELLIJ") != "" {
		return nil, fmt.Errorf("zellij is not supported")
	}

	if tmuxPath, err := exec.LookPath("tmux"); err == nil && tmuxPath != "" {
		return newTmux(r), nil
	}

	return nil, fmt.Errorf("no supported terminal multiplexer detected (set $TMUX or install tmux)")
}

// FromName creates a Multiplexer by name. A nil runner uses runner.OSRunner.
func FromName(name string, r runner.Runner) (Multiplexer, error) {
	switch name {
	case "tmux":
		return newTmux(r), nil
	case "zellij":
		return nil, fmt.Errorf("zellij is not supported")
	default:
		return nil, fmt.Errorf("unknown multiplexer: %q (supported: tmux)", name)
	}
}

func newTmux(r runner.Runner) *Tmux {
	if r == nil {
		return NewTmux()
	}
	return NewTmuxWithRunner(r)
}
