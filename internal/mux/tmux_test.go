package mux

import (
	"context"
	"fmt"
	"strings"
	"testing"

	perrors "github.com/timvw/tmux-persist/internal/errors"
	"github.com/timvw/tmux-persist/internal/model"
)

// fakeRunner returns canned output keyed by the tmux subcommand.
type fakeRunner struct {
	outputs map[string]string
	errs    map[string]error
	calls   [][]string
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if len(args) == 0 {
		return nil, fmt.Errorf("no subcommand")
	}
	if err := r.errs[args[0]]; err != nil {
		return nil, err
	}
	return []byte(r.outputs[args[0]]), nil
}

func paneLine(fields ...string) string {
	return strings.Join(fields, "\t")
}

func TestListSessions(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"list-sessions": "dev\nmy work\n\nops\n",
	}}
	tm := NewTmuxWithRunner(r)

	got, err := tm.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	want := []string{"dev", "my work", "ops"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("ListSessions() = %q, want %q", got, want)
	}
}

func TestListSessions_Empty(t *testing.T) {
	tm := NewTmuxWithRunner(&fakeRunner{outputs: map[string]string{"list-sessions": ""}})

	got, err := tm.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListSessions() = %q, want none", got)
	}
}

func TestListSessions_QueryFailure(t *testing.T) {
	tm := NewTmuxWithRunner(&fakeRunner{errs: map[string]error{
		"list-sessions": fmt.Errorf("exit status 1: no server running on /tmp/tmux-1000/default"),
	}})

	_, err := tm.ListSessions(context.Background())
	if !perrors.Is(err, perrors.QueryFailure) {
		t.Fatalf("ListSessions() error = %v, want QUERY_FAILURE", err)
	}
}

func TestListPanes(t *testing.T) {
	r := &fakeRunner{outputs: map[string]string{
		"list-panes": paneLine("0", "0", "160", "40", "80", "40", "editor", "/home/me/src", "101") + "\n" +
			paneLine("0", "1", "160", "40", "79", "40", "editor", "/home/me/src", "102") + "\n" +
			paneLine("1", "0", "160", "40", "160", "40", "logs and more", "/var/log", "103") + "\n",
	}}
	tm := NewTmuxWithRunner(r)

	panes, err := tm.ListPanes(context.Background(), "dev")
	if err != nil {
		t.Fatalf("ListPanes() error: %v", err)
	}
	if len(panes) != 3 {
		t.Fatalf("got %d panes, want 3", len(panes))
	}

	want := model.Pane{
		WindowIndex: 0, PaneIndex: 1,
		WindowWidth: 160, WindowHeight: 40,
		PaneWidth: 79, PaneHeight: 40,
		WindowName: "editor", CWD: "/home/me/src", PID: 102,
	}
	if panes[1] != want {
		t.Errorf("panes[1] = %+v, want %+v", panes[1], want)
	}
	if panes[2].WindowName != "logs and more" {
		t.Errorf("window name with spaces = %q, want %q", panes[2].WindowName, "logs and more")
	}

	args := strings.Join(r.calls[0], " ")
	if !strings.Contains(args, "list-panes -s -t =dev -F") {
		t.Errorf("unexpected tmux invocation: %s", args)
	}
}

func TestListPanes_ParseFailureAbortsSession(t *testing.T) {
	tm := NewTmuxWithRunner(&fakeRunner{outputs: map[string]string{
		"list-panes": paneLine("0", "0", "160", "40", "160", "40", "sh", "/", "1") + "\n" +
			paneLine("0", "x", "160", "40", "160", "40", "sh", "/", "2") + "\n",
	}})

	_, err := tm.ListPanes(context.Background(), "dev")
	if !perrors.Is(err, perrors.ParseFailure) {
		t.Fatalf("ListPanes() error = %v, want PARSE_FAILURE", err)
	}
}

func TestListPanes_QueryFailure(t *testing.T) {
	tm := NewTmuxWithRunner(&fakeRunner{errs: map[string]error{
		"list-panes": fmt.Errorf("can't find session: gone"),
	}})

	_, err := tm.ListPanes(context.Background(), "gone")
	if !perrors.Is(err, perrors.QueryFailure) {
		t.Fatalf("ListPanes() error = %v, want QUERY_FAILURE", err)
	}
}

func TestParsePaneLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr bool
	}{
		{
			name: "valid",
			line: paneLine("2", "0", "200", "50", "200", "50", "zsh", "/tmp", "4242"),
		},
		{
			name: "empty window name is a field",
			line: paneLine("2", "0", "200", "50", "200", "50", "", "/tmp", "4242"),
		},
		{
			name:    "too few fields",
			line:    paneLine("2", "0", "200", "50", "200", "50", "zsh", "/tmp"),
			wantErr: true,
		},
		{
			name:    "too many fields",
			line:    paneLine("2", "0", "200", "50", "200", "50", "zsh", "/tmp", "4242", "extra"),
			wantErr: true,
		},
		{
			name:    "non-numeric width",
			line:    paneLine("2", "0", "wide", "50", "200", "50", "zsh", "/tmp", "4242"),
			wantErr: true,
		},
		{
			name:    "negative height",
			line:    paneLine("2", "0", "200", "50", "200", "-1", "zsh", "/tmp", "4242"),
			wantErr: true,
		},
		{
			name:    "non-numeric pid",
			line:    paneLine("2", "0", "200", "50", "200", "50", "zsh", "/tmp", "pid"),
			wantErr: true,
		},
		{
			name:    "space separated",
			line:    "2 0 200 50 200 50 zsh /tmp 4242",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePaneLine(tt.line)
			if tt.wantErr {
				if !perrors.Is(err, perrors.ParseFailure) {
					t.Errorf("ParsePaneLine() error = %v, want PARSE_FAILURE", err)
				}
				return
			}
			if err != nil {
				t.Errorf("ParsePaneLine() unexpected error: %v", err)
			}
		})
	}
}

func TestFromName(t *testing.T) {
	m, err := FromName("tmux", nil)
	if err != nil {
		t.Fatalf("FromName(tmux) error: %v", err)
	}
	if m.Name() != "tmux" {
		t.Errorf("Name() = %q, want tmux", m.Name())
	}
	if _, err := FromName("zellij", nil); err == nil {
		t.Error("FromName(zellij) should fail")
	}
	if _, err := FromName("screen", &fakeRunner{}); err == nil {
		t.Error("FromName(screen) should fail")
	}
}
