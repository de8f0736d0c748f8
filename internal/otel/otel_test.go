package otel

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" Authorization=Basic abc=, x-team = infra ,broken,=novalue")
	if len(got) != 2 {
		t.Fatalf("got %d headers, want 2: %v", len(got), got)
	}
	if got["Authorization"] != "Basic abc=" {
		t.Errorf("Authorization = %q", got["Authorization"])
	}
	if got["x-team"] != "infra" {
		t.Errorf("x-team = %q", got["x-team"])
	}
	if len(parseHeaders("")) != 0 {
		t.Error("empty input should yield no headers")
	}
}

func TestInit_NoEndpointIsNoop(t *testing.T) {
	ctx := context.Background()
	tel, err := Init(ctx, OTELConfig{})
	if err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	defer tel.Shutdown(ctx)

	if tel.Tracer == nil || tel.Metrics == nil {
		t.Fatal("expected tracer and metrics even without an endpoint")
	}
	_, span := tel.Tracer.Start(ctx, "test")
	span.End()
	tel.Metrics.RecordSaved(ctx, 3)
	tel.Metrics.RecordFailed(ctx, "PARSE_FAILURE")
}

func TestInit_InvalidEndpoint(t *testing.T) {
	if _, err := Init(context.Background(), OTELConfig{Endpoint: "http://[::1"}); err == nil {
		t.Error("expected error for malformed endpoint")
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordSaved(ctx, 1)
	m.RecordFailed(ctx, "WRITE_FAILURE")
	m.RecordUnresolved(ctx)
	m.RecordRemoved(ctx, 2)

	var tel *Telemetry
	tel.Shutdown(ctx)
}
