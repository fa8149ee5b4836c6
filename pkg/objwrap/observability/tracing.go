package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer uses the global OTel tracer provider.
var tracer = otel.Tracer("objwrap")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartCommandSpan starts a span for one CLI command.
	StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span)

	// StartSnapshotSpan starts a span for a snapshot store operation.
	StartSnapshotSpan(ctx context.Context, op, name string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return StartCommandSpan(ctx, command)
}

func (m *otelSpanManager) StartSnapshotSpan(ctx context.Context, op, name string) (context.Context, trace.Span) {
	return StartSnapshotSpan(ctx, op, name)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartCommandSpan starts a span for one CLI command.
// Uses the global OTel tracer.
func StartCommandSpan(ctx context.Context, command string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "objwrap.command."+command,
		trace.WithAttributes(
			attribute.String("command", command),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartSnapshotSpan starts a span for a snapshot store operation.
// Uses the global OTel tracer.
func StartSnapshotSpan(ctx context.Context, op, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "objwrap.snapshot."+op,
		trace.WithAttributes(
			attribute.String("snapshot.name", name),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
