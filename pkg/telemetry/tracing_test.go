package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

func TestInjectTraceContext(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs := InjectTraceContext(ctx)

	tp, ok := attrs["traceparent"]
	if !ok || tp.StringValue == nil {
		t.Fatalf("traceparent attribute missing: %+v", attrs)
	}
	if want := "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"; *tp.StringValue != want {
		t.Errorf("traceparent = %s, want %s", *tp.StringValue, want)
	}
}

func TestUserIDContext(t *testing.T) {
	if got := GetUserIDFromContext(context.Background()); got != "" {
		t.Errorf("empty context returned %q", got)
	}
	if got := GetUserIDFromContext(WithUserID(context.Background(), "u-1")); got != "u-1" {
		t.Errorf("GetUserIDFromContext() = %q", got)
	}
}

func TestInitTracerNone(t *testing.T) {
	shutdown, err := InitTracer("presensi-test", ExporterNone, "")
	if err != nil {
		t.Fatalf("InitTracer() failed: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown failed: %v", err)
	}
	if _, err := InitTracer("presensi-test", "zipkin", ""); err == nil {
		t.Error("unknown exporter should fail")
	}
}
