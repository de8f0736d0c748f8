package layout

import (
	"testing"

	"github.com/timvw/tmux-persist/internal/model"
)

func TestPlan_BasePaneCreatesWindow(t *testing.T) {
	panes := []model.Pane{
		{WindowIndex: 0, PaneIndex: 0, WindowWidth: 160, WindowHeight: 40, PaneWidth: 160, PaneHeight: 40,
			WindowName: "editor", CWD: "/src", Command: "vim"},
		{WindowIndex: 3, PaneIndex: 0, WindowWidth: 160, WindowHeight: 40, PaneWidth: 160, PaneHeight: 40,
			WindowName: "logs", CWD: "/var/log", Command: ""},
	}

	actions := Plan(panes)
	if len(actions) != 2 {
		t.Fatalf("got %d actions, want 2", len(actions))
	}
	for i, a := range actions {
		cw, ok := a.(CreateWindow)
		if !ok {
			t.Fatalf("actions[%d] is %T, want CreateWindow", i, a)
		}
		if cw.WindowIndex != panes[i].WindowIndex || cw.Name != panes[i].WindowName ||
			cw.CWD != panes[i].CWD || cw.Command != panes[i].Command ||
			cw.Width != panes[i].WindowWidth || cw.Height != panes[i].WindowHeight {
			t.Errorf("actions[%d] = %+v does not match pane %+v", i, cw, panes[i])
		}
	}
}

func TestPlan_SplitOrientation(t *testing.T) {
	tests := []struct {
		name     string
		pane     model.Pane
		wantOri  Orientation
		wantSize int
	}{
		{
			name:     "side by side",
			pane:     model.Pane{WindowIndex: 0, PaneIndex: 1, WindowWidth: 160, WindowHeight: 40, PaneWidth: 80, PaneHeight: 40},
			wantOri:  Horizontal,
			wantSize: 80,
		},
		{
			name:     "top and bottom",
			pane:     model.Pane{WindowIndex: 0, PaneIndex: 1, WindowWidth: 160, WindowHeight: 40, PaneWidth: 160, PaneHeight: 20},
			wantOri:  Vertical,
			wantSize: 20,
		},
		{
			name:     "narrower and shorter prefers horizontal",
			pane:     model.Pane{WindowIndex: 2, PaneIndex: 3, WindowWidth: 200, WindowHeight: 50, PaneWidth: 100, PaneHeight: 25},
			wantOri:  Horizontal,
			wantSize: 100,
		},
		{
			name:     "wider than window counts as full width",
			pane:     model.Pane{WindowIndex: 1, PaneIndex: 1, WindowWidth: 80, WindowHeight: 24, PaneWidth: 81, PaneHeight: 12},
			wantOri:  Vertical,
			wantSize: 12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := Plan([]model.Pane{tt.pane})
			if len(actions) != 1 {
				t.Fatalf("got %d actions, want 1", len(actions))
			}
			j, ok := actions[0].(JoinPane)
			if !ok {
				t.Fatalf("action is %T, want JoinPane", actions[0])
			}
			if j.Orientation != tt.wantOri {
				t.Errorf("Orientation = %s, want %s", j.Orientation, tt.wantOri)
			}
			if j.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", j.Size, tt.wantSize)
			}
			if j.Source != (Ref{Window: tt.pane.WindowIndex + 1, Pane: 0}) {
				t.Errorf("Source = %+v, want window %d pane 0", j.Source, tt.pane.WindowIndex+1)
			}
			if j.Target.Window != tt.pane.WindowIndex {
				t.Errorf("Target window = %d, want %d", j.Target.Window, tt.pane.WindowIndex)
			}
		})
	}
}

func TestPlan_OneActionPerPaneInOrder(t *testing.T) {
	panes := []model.Pane{
		{WindowIndex: 0, PaneIndex: 0, WindowWidth: 100, WindowHeight: 30, PaneWidth: 50, PaneHeight: 30},
		{WindowIndex: 0, PaneIndex: 1, WindowWidth: 100, WindowHeight: 30, PaneWidth: 49, PaneHeight: 30},
		{WindowIndex: 0, PaneIndex: 2, WindowWidth: 100, WindowHeight: 30, PaneWidth: 100, PaneHeight: 10},
		{WindowIndex: 1, PaneIndex: 0, WindowWidth: 100, WindowHeight: 30, PaneWidth: 100, PaneHeight: 30},
	}

	actions := Plan(panes)
	if len(actions) != len(panes) {
		t.Fatalf("got %d actions, want %d", len(actions), len(panes))
	}

	joins := 0
	for i, a := range actions {
		_, isJoin := a.(JoinPane)
		if panes[i].IsBase() == isJoin {
			t.Errorf("actions[%d] is %T for pane index %d", i, a, panes[i].PaneIndex)
		}
		if isJoin {
			joins++
		}
	}
	if joins != 2 {
		t.Errorf("got %d joins, want 2", joins)
	}
}

func TestOrientation_Flag(t *testing.T) {
	if Horizontal.Flag() != "-h" || Vertical.Flag() != "-v" {
		t.Errorf("flags = %s/%s, want -h/-v", Horizontal.Flag(), Vertical.Flag())
	}
}

func TestDescribe(t *testing.T) {
	got := Describe(JoinPane{Orientation: Vertical, Size: 20, Target: Ref{Window: 2}, CWD: "/tmp"})
	want := "vertical split of 20 into window 2 in /tmp"
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}

	got = Describe(CreateWindow{WindowIndex: 1, Width: 160, Height: 40, Name: "logs", CWD: "/var/log"})
	want = `window 1 "logs" 160x40 in /var/log`
	if got != want {
		t.Errorf("Describe() = %q, want %q", got, want)
	}
}
