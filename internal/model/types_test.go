package model

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPane_IsBase(t *testing.T) {
	if !(Pane{PaneIndex: 0}).IsBase() {
		t.Error("pane 0 should be the base pane")
	}
	if (Pane{PaneIndex: 2}).IsBase() {
		t.Error("pane 2 should not be the base pane")
	}
}

func TestPane_Target(t *testing.T) {
	p := Pane{WindowIndex: 3, PaneIndex: 1}
	if got := p.Target("dev"); got != "dev:3.1" {
		t.Errorf("Target() = %q, want %q", got, "dev:3.1")
	}
}

func TestSession_Summary(t *testing.T) {
	tests := []struct {
		name    string
		session Session
		want    string
	}{
		{
			name:    "empty",
			session: Session{Name: "empty"},
			want:    "empty: 0 windows, 0 panes",
		},
		{
			name: "single pane",
			session: Session{Name: "solo", Panes: []Pane{
				{WindowIndex: 0, PaneIndex: 0},
			}},
			want: "solo: 1 window, 1 pane",
		},
		{
			name: "split windows",
			session: Session{Name: "dev", Panes: []Pane{
				{WindowIndex: 0, PaneIndex: 0},
				{WindowIndex: 0, PaneIndex: 1},
				{WindowIndex: 1, PaneIndex: 0},
			}},
			want: "dev: 2 windows, 3 panes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.session.Summary(); got != tt.want {
				t.Errorf("Summary() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPane_EmptyCommandInJSON(t *testing.T) {
	// An unresolved command is still reported, as an empty string.
	data, err := json.Marshal(Pane{CWD: "/tmp", PID: 42})
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	if !strings.Contains(string(data), `"command":""`) {
		t.Errorf("JSON output missing empty command, got: %s", string(data))
	}
}
