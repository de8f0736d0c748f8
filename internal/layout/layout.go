// Package layout turns a pane snapshot into an ordered list of actions
// that rebuild the session's windows and splits.
//
// Only one level of splitting is modelled: every non-base pane is joined
// into its window once, relative to the window as a whole.
package layout

import (
	"fmt"

	"github.com/timvw/tmux-persist/internal/model"
)

// Orientation is the direction of a split.
type Orientation int

const (
	// Horizontal places the new pane beside the existing ones.
	Horizontal Orientation = iota
	// Vertical places the new pane below the existing ones.
	Vertical
)

func (o Orientation) String() string {
	if o == Horizontal {
		return "horizontal"
	}
	return "vertical"
}

// Flag returns the tmux join-pane flag for the orientation.
func (o Orientation) Flag() string {
	if o == Horizontal {
		return "-h"
	}
	return "-v"
}

// Ref addresses a window, or a pane within it, relative to the session.
type Ref struct {
	Window int
	Pane   int
}

// Action is one step of a restore plan: CreateWindow or JoinPane.
type Action interface {
	action()
}

// CreateWindow creates a window with its base pane. Width and Height are
// the captured window size in cells; joins into the window are sized
// against it.
type CreateWindow struct {
	WindowIndex int
	Width       int
	Height      int
	Name        string
	CWD         string
	Command     string
}

// JoinPane spawns a pane at Source and moves it into the Target window.
type JoinPane struct {
	Orientation Orientation
	// Size is in columns for horizontal splits and rows for vertical ones.
	Size    int
	Source  Ref
	Target  Ref
	CWD     string
	Command string
}

func (CreateWindow) action() {}
func (JoinPane) action()     {}

// Plan returns one action per pane, in input order.
func Plan(panes []model.Pane) []Action {
	actions := make([]Action, 0, len(panes))
	for _, p := range panes {
		actions = append(actions, planPane(p))
	}
	return actions
}

func planPane(p model.Pane) Action {
	if p.IsBase() {
		return CreateWindow{
			WindowIndex: p.WindowIndex,
			Width:       p.WindowWidth,
			Height:      p.WindowHeight,
			Name:        p.WindowName,
			CWD:         p.CWD,
			Command:     p.Command,
		}
	}

	j := JoinPane{
		// The pane is spawned in the slot right after its window, which is
		// still free while that window's panes are being rebuilt.
		Source:  Ref{Window: p.WindowIndex + 1, Pane: 0},
		Target:  Ref{Window: p.WindowIndex},
		CWD:     p.CWD,
		Command: p.Command,
	}
	if p.PaneWidth < p.WindowWidth {
		j.Orientation = Horizontal
		j.Size = p.PaneWidth
	} else {
		j.Orientation = Vertical
		j.Size = p.PaneHeight
	}
	return j
}

// Describe renders an action as a short human-readable line.
func Describe(a Action) string {
	switch a := a.(type) {
	case CreateWindow:
		return fmt.Sprintf("window %d %q %dx%d in %s", a.WindowIndex, a.Name, a.Width, a.Height, a.CWD)
	case JoinPane:
		return fmt.Sprintf("%s split of %d into window %d in %s", a.Orientation, a.Size, a.Target.Window, a.CWD)
	default:
		return fmt.Sprintf("%T", a)
	}
}
