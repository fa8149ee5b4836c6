package observability

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records objwrap metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSet records a Set call and whether the key was in the schema.
	RecordSet(ctx context.Context, name string, accepted bool)

	// RecordLookup records a read. op is "get" or "find"; matches is the
	// number of hits (0 or 1 for get).
	RecordLookup(ctx context.Context, name, op string, matches int)

	// RecordSnapshot records a persisted snapshot.
	RecordSnapshot(ctx context.Context, name string, sizeBytes int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	setCalls     metric.Int64Counter
	lookupCalls  metric.Int64Counter
	findMatches  metric.Int64Histogram
	snapshotSize metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily initializes the shared OTel metrics instance.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("objwrap")

	setCalls, err := meter.Int64Counter("objwrap.set.calls",
		metric.WithDescription("Number of Set calls"),
	)
	if err != nil {
		return nil, err
	}

	lookupCalls, err := meter.Int64Counter("objwrap.lookup.calls",
		metric.WithDescription("Number of Get and FindKeys calls"),
	)
	if err != nil {
		return nil, err
	}

	findMatches, err := meter.Int64Histogram("objwrap.find.matches",
		metric.WithDescription("Keys returned per FindKeys call"),
	)
	if err != nil {
		return nil, err
	}

	snapshotSize, err := meter.Int64Histogram("objwrap.snapshot.size_bytes",
		metric.WithDescription("Persisted snapshot size in bytes"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		setCalls:     setCalls,
		lookupCalls:  lookupCalls,
		findMatches:  findMatches,
		snapshotSize: snapshotSize,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordSet records a Set call.
func (m *otelMetrics) RecordSet(ctx context.Context, name string, accepted bool) {
	m.setCalls.Add(ctx, 1, metric.WithAttributes(
		attribute.String("wrapper", name),
		attribute.Bool("accepted", accepted),
	))
}

// RecordLookup records a Get or FindKeys call.
func (m *otelMetrics) RecordLookup(ctx context.Context, name, op string, matches int) {
	attrs := []attribute.KeyValue{
		attribute.String("wrapper", name),
		attribute.String("op", op),
	}
	m.lookupCalls.Add(ctx, 1, metric.WithAttributes(attrs...))
	if op == "find" {
		m.findMatches.Record(ctx, int64(matches), metric.WithAttributes(attrs...))
	}
}

// RecordSnapshot records a snapshot save.
func (m *otelMetrics) RecordSnapshot(ctx context.Context, name string, sizeBytes int64) {
	m.snapshotSize.Record(ctx, sizeBytes, metric.WithAttributes(
		attribute.String("wrapper", name),
	))
}
