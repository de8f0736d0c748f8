// Package persist runs the capture pipeline: list sessions, snapshot their
// panes, resolve pane commands, plan the layout and write one restore
// script per session.
package persist

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/timvw/tmux-persist/internal/config"
	perrors "github.com/timvw/tmux-persist/internal/errors"
	"github.com/timvw/tmux-persist/internal/layout"
	"github.com/timvw/tmux-persist/internal/model"
	"github.com/timvw/tmux-persist/internal/mux"
	telem "github.com/timvw/tmux-persist/internal/otel"
	"github.com/timvw/tmux-persist/internal/proc"
	"github.com/timvw/tmux-persist/internal/script"
	"github.com/timvw/tmux-persist/internal/store"
)

// Saver captures sessions and writes their restore scripts.
type Saver struct {
	Mux      mux.Multiplexer
	Resolver *proc.Resolver
	Store    *store.Store

	// ExcludeSessions are config.MatchesExcludeList patterns of sessions
	// that are not captured.
	ExcludeSessions []string

	Tracer  trace.Tracer   // nil disables tracing
	Metrics *telem.Metrics // nil disables metrics
	Logger  *slog.Logger   // nil discards
}

// Written describes a restore script produced by Save.
type Written struct {
	Session string
	Path    string
	Panes   int
}

// Failure is a session that could not be saved.
type Failure struct {
	Session string
	Err     error
}

// Report summarizes a Save run.
type Report struct {
	Written []Written
	Failed  []Failure
	Skipped []string
	Removed []string
}

// HasFailures reports whether any session failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

func (s *Saver) tracer() trace.Tracer {
	if s.Tracer == nil {
		return noop.NewTracerProvider().Tracer("")
	}
	return s.Tracer
}

func (s *Saver) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

// Save captures every running session. Listing sessions is fatal on
// failure and happens before stale scripts are removed, so an unreachable
// server never wipes the output directory. Per-session failures are
// collected in the report and do not stop the run.
func (s *Saver) Save(ctx context.Context) (*Report, error) {
	ctx, span := s.tracer().Start(ctx, "persist.save")
	defer span.End()

	sessions, err := s.Mux.ListSessions(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "list sessions")
		return nil, err
	}
	span.SetAttributes(attribute.Int("sessions.count", len(sessions)))

	report := &Report{}
	removed, err := s.Store.Clean()
	report.Removed = removed
	s.Metrics.RecordRemoved(ctx, len(removed))
	if err != nil {
		s.logger().Warn("could not remove every stale restore script", "dir", s.Store.Dir, "error", err)
	}

	for _, name := range sessions {
		if config.MatchesExcludeList(name, s.ExcludeSessions) {
			s.logger().Debug("session excluded", "session", name)
			report.Skipped = append(report.Skipped, name)
			continue
		}

		w, err := s.saveSession(ctx, name)
		if err != nil {
			s.logger().Error("session not saved", "session", name, "error", err)
			s.Metrics.RecordFailed(ctx, string(perrors.CodeOf(err)))
			report.Failed = append(report.Failed, Failure{Session: name, Err: err})
			continue
		}
		s.logger().Info("session saved", "session", name, "path", w.Path, "panes", w.Panes)
		s.Metrics.RecordSaved(ctx, w.Panes)
		report.Written = append(report.Written, w)
	}

	if report.HasFailures() {
		span.SetStatus(codes.Error, fmt.Sprintf("%d sessions failed", len(report.Failed)))
	}
	return report, nil
}

func (s *Saver) saveSession(ctx context.Context, name string) (Written, error) {
	ctx, span := s.tracer().Start(ctx, "persist.session",
		trace.WithAttributes(attribute.String("tmux.session", name)))
	defer span.End()

	sess, err := s.Capture(ctx, name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "capture")
		return Written{}, err
	}

	plan := layout.Plan(sess.Panes)
	if s.logger().Enabled(ctx, slog.LevelDebug) {
		for _, a := range plan {
			s.logger().Debug("restore step", "session", name, "step", layout.Describe(a))
		}
	}

	path, err := s.Store.Write(name, script.Render(name, plan))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "write")
		return Written{}, err
	}
	span.SetAttributes(attribute.Int("tmux.panes", len(sess.Panes)))
	return Written{Session: name, Path: path, Panes: len(sess.Panes)}, nil
}

// Capture snapshots one session's panes and resolves their commands.
func (s *Saver) Capture(ctx context.Context, name string) (model.Session, error) {
	panes, err := s.Mux.ListPanes(ctx, name)
	if err != nil {
		return model.Session{}, err
	}

	for i := range panes {
		cmd, err := s.Resolver.Lookup(ctx, panes[i].PID)
		if err != nil {
			s.logger().Debug("pane command unresolved", "target", panes[i].Target(name), "error", err)
			s.Metrics.RecordUnresolved(ctx)
		}
		panes[i].Command = cmd
	}
	return model.Session{Name: name, Panes: panes}, nil
}

// Render returns the restore script for a captured session.
func Render(sess model.Session) string {
	return script.Render(sess.Name, layout.Plan(sess.Panes))
}
