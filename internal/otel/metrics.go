package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "tmux-persist"

// Metrics holds the capture counters. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	SessionsSaved      metric.Int64Counter
	SessionsFailed     metric.Int64Counter
	PanesCaptured      metric.Int64Counter
	CommandsUnresolved metric.Int64Counter
	ScriptsRemoved     metric.Int64Counter
}

// NewMetrics creates all metric instruments. Returns no-op instruments
// when no MeterProvider is registered.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.SessionsSaved, err = meter.Int64Counter("sessions.saved",
		metric.WithDescription("Restore scripts written"))
	if err != nil {
		return nil, err
	}

	m.SessionsFailed, err = meter.Int64Counter("sessions.failed",
		metric.WithDescription("Sessions skipped because of a query, parse or write failure"))
	if err != nil {
		return nil, err
	}

	m.PanesCaptured, err = meter.Int64Counter("panes.captured",
		metric.WithDescription("Panes included in restore scripts"),
		metric.WithUnit("{pane}"))
	if err != nil {
		return nil, err
	}

	m.CommandsUnresolved, err = meter.Int64Counter("commands.unresolved",
		metric.WithDescription("Panes whose running command could not be determined"))
	if err != nil {
		return nil, err
	}

	m.ScriptsRemoved, err = meter.Int64Counter("scripts.removed",
		metric.WithDescription("Stale restore scripts deleted before regeneration"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordSaved records a written restore script and its pane count.
func (m *Metrics) RecordSaved(ctx context.Context, panes int) {
	if m == nil {
		return
	}
	m.SessionsSaved.Add(ctx, 1)
	m.PanesCaptured.Add(ctx, int64(panes))
}

// RecordFailed records a failed session with the error code as attribute.
func (m *Metrics) RecordFailed(ctx context.Context, code string) {
	if m == nil {
		return
	}
	m.SessionsFailed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("error.code", code),
	))
}

// RecordUnresolved records a pane without a resolvable command.
func (m *Metrics) RecordUnresolved(ctx context.Context) {
	if m == nil {
		return
	}
	m.CommandsUnresolved.Add(ctx, 1)
}

// RecordRemoved records deleted stale scripts.
func (m *Metrics) RecordRemoved(ctx context.Context, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ScriptsRemoved.Add(ctx, int64(n))
}
