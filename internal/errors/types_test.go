package errors

import (
	"fmt"
	"testing"
)

func TestWrapAndIs(t *testing.T) {
	cause := fmt.Errorf("exit status 1")
	err := Wrap(cause, QueryFailure, "tmux list-sessions")

	if err.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}
	if !Is(err, QueryFailure) {
		t.Error("Is should match the wrapped code")
	}
	if Is(err, ParseFailure) {
		t.Error("Is should not match a different code")
	}
	want := "QUERY_FAILURE: tmux list-sessions: exit status 1"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestCodeOf_ThroughFmtWrapping(t *testing.T) {
	inner := New(ParseFailure, "line %d", 3)
	outer := fmt.Errorf("session dev: %w", inner)

	if got := CodeOf(outer); got != ParseFailure {
		t.Errorf("CodeOf() = %q, want %q", got, ParseFailure)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if got := CodeOf(nil); got != "" {
		t.Errorf("CodeOf(nil) = %q, want empty", got)
	}
}

func TestWithDetail(t *testing.T) {
	err := New(WriteFailure, "write failed").WithDetail("session", "dev")
	if err.Details["session"] != "dev" {
		t.Error("WithDetail should add details")
	}
}
