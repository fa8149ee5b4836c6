package snapshot

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/objwrap/pkg/objwrap/observability"
)

// Archive stores and retrieves Records through a Store, reporting each
// operation to the configured logger, metrics and spans.
type Archive struct {
	store   Store
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*Archive)

// WithLogger sets the logger. Default: no logging.
func WithLogger(logger *slog.Logger) ArchiveOption {
	return func(a *Archive) {
		a.logger = logger
	}
}

// WithMetrics sets the metrics recorder. Default: no-op.
func WithMetrics(m observability.MetricsRecorder) ArchiveOption {
	return func(a *Archive) {
		if m != nil {
			a.metrics = m
		}
	}
}

// WithSpans sets the span manager. Default: no-op.
func WithSpans(s observability.SpanManager) ArchiveOption {
	return func(a *Archive) {
		if s != nil {
			a.spans = s
		}
	}
}

// NewArchive returns an Archive over store.
func NewArchive(store Store, opts ...ArchiveOption) *Archive {
	a := &Archive{
		store:   store,
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Store returns the underlying store.
func (a *Archive) Store() Store {
	return a.store
}

// Put persists r.
func (a *Archive) Put(ctx context.Context, r *Record) (err error) {
	done := observability.TimedOperation()
	ctx, span := a.spans.StartSnapshotSpan(ctx, "put", r.Name)
	defer func() { a.spans.EndSpanWithError(span, err) }()

	data, err := r.Marshal()
	if err != nil {
		observability.LogSnapshotError(a.logger, r.Name, "marshal", err)
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := a.store.Save(r.Name, r.ID, data); err != nil {
		observability.LogSnapshotError(a.logger, r.Name, "save", err)
		return err
	}

	a.spans.AddSpanEvent(ctx, "snapshot.saved",
		attribute.String("snapshot.id", r.ID),
		attribute.Int("snapshot.size_bytes", len(data)),
	)
	a.metrics.RecordSnapshot(ctx, r.Name, int64(len(data)))
	observability.LogSnapshotSaved(a.logger, r.Name, r.ID, len(data), done())
	return nil
}

// Get loads the record (name, id). An empty id loads the latest record
// for name.
func (a *Archive) Get(ctx context.Context, name, id string) (r *Record, err error) {
	_, span := a.spans.StartSnapshotSpan(ctx, "get", name)
	defer func() { a.spans.EndSpanWithError(span, err) }()

	var data []byte
	if id == "" {
		data, err = a.store.Latest(name)
	} else {
		data, err = a.store.Load(name, id)
	}
	if err != nil {
		return nil, err
	}

	r, err = Unmarshal(data)
	if err != nil {
		observability.LogSnapshotError(a.logger, name, "unmarshal", err)
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return r, nil
}

// History lists the records stored for name, oldest first.
func (a *Archive) History(ctx context.Context, name string) (infos []Info, err error) {
	_, span := a.spans.StartSnapshotSpan(ctx, "list", name)
	defer func() { a.spans.EndSpanWithError(span, err) }()

	return a.store.List(name)
}
