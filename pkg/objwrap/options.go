package objwrap

import (
	"log/slog"

	"github.com/randalmurphal/objwrap/pkg/objwrap/observability"
)

// wrapperConfig holds the optional collaborators of a Wrapper.
type wrapperConfig struct {
	name    string
	logger  *slog.Logger
	metrics observability.MetricsRecorder
}

func defaultWrapperConfig() wrapperConfig {
	return wrapperConfig{
		name:    "default",
		metrics: observability.NoopMetrics{},
	}
}

// Option configures a Wrapper at construction.
type Option func(*wrapperConfig)

// WithName sets the name reported in logs and metrics.
// Default: "default"
func WithName(name string) Option {
	return func(c *wrapperConfig) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger enables debug logging of rejected Set calls.
//
// Example:
//
//	w := objwrap.New(data, objwrap.WithLogger(slog.Default()))
func WithLogger(logger *slog.Logger) Option {
	return func(c *wrapperConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder. A nil recorder is ignored.
//
// Example:
//
//	w := objwrap.New(data, objwrap.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *wrapperConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}
