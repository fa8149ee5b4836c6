// Package observability provides the logging, metrics and tracing hooks
// used by objwrap.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds wrapper context to a logger.
// Returns a new logger carrying the wrapper name.
//
// Example:
//
//	enriched := EnrichLogger(logger, "settings")
//	enriched.Info("loaded") // includes wrapper=settings
func EnrichLogger(logger *slog.Logger, name string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(slog.String("wrapper", name))
}

// LogSetRejected logs a Set call for a key outside the schema.
func LogSetRejected(logger *slog.Logger, key string) {
	if logger == nil {
		return
	}
	logger.Debug("set rejected: key not in schema",
		slog.String("key", key),
	)
}

// LogDocumentLoaded logs a document parsed into a wrapper.
func LogDocumentLoaded(logger *slog.Logger, path string, keys int) {
	if logger == nil {
		return
	}
	logger.Info("document loaded",
		slog.String("path", path),
		slog.Int("keys", keys),
	)
}

// LogSnapshotSaved logs a persisted snapshot.
func LogSnapshotSaved(logger *slog.Logger, name, id string, sizeBytes int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("snapshot saved",
		slog.String("name", name),
		slog.String("snapshot_id", id),
		slog.Int("size_bytes", sizeBytes),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogSnapshotError logs a failed snapshot operation.
func LogSnapshotError(logger *slog.Logger, name, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("snapshot failed",
		slog.String("name", name),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
