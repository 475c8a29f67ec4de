package observe

import (
	"context"
	"errors"
	"testing"

	otelcodes "go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracer_StartEndSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tracer := NewTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), "fetch")
	tracer.EndSpan(span, nil)

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d ended spans, want 1", len(spans))
	}
	if got := spans[0].Name(); got != "resilience.exec.fetch" {
		t.Errorf("span name = %q, want %q", got, "resilience.exec.fetch")
	}
	if got := spans[0].Status().Code; got != otelcodes.Ok {
		t.Errorf("span status = %v, want Ok", got)
	}
}

func TestTracer_EndSpanRecordsError(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	tracer := NewTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), "fetch")
	tracer.EndSpan(span, errors.New("boom"))

	spans := recorder.Ended()
	if len(spans) != 1 {
		t.Fatalf("got %d ended spans, want 1", len(spans))
	}
	status := spans[0].Status()
	if status.Code != otelcodes.Error {
		t.Errorf("span status = %v, want Error", status.Code)
	}
	if status.Description != "boom" {
		t.Errorf("status description = %q, want %q", status.Description, "boom")
	}
	if len(spans[0].Events()) == 0 {
		t.Error("span has no events, want a recorded error")
	}
}

func TestNopTracer_DoesNotPanic(t *testing.T) {
	tracer := NopTracer()
	_, span := tracer.StartSpan(context.Background(), "fetch")
	tracer.EndSpan(span, errors.New("boom"))
}
