package config

import (
	"time"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
)

// Config wraps a schema-fixed objwrap.Wrapper[any] for type-safe value
// extraction. All accessor methods return default values if the key is
// missing or the value cannot be converted to the requested type.
type Config struct {
	w *objwrap.Wrapper[any]
}

// New creates a Config from a copy of the given map. Keys are ordered
// lexically. If data is nil, an empty Config is returned.
func New(data map[string]any, opts ...objwrap.Option) Config {
	return Config{w: objwrap.New(data, opts...)}
}

// Wrap creates a Config backed by w. Sets on w are visible through the
// Config and the other way around.
func Wrap(w *objwrap.Wrapper[any]) Config {
	if w == nil {
		w = objwrap.New[any](nil)
	}
	return Config{w: w}
}

// Wrapper returns the underlying wrapper.
func (c Config) Wrapper() *objwrap.Wrapper[any] {
	return c.w
}

func (c Config) lookup(key string) (any, bool) {
	if c.w == nil {
		return nil, false
	}
	return c.w.Get(key)
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if s, ok := v.(string); ok {
		return s
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return defaultVal
}

// Int returns the integer value for key, or defaultVal if missing or not convertible.
// A float64 converts only when it has no fractional part.
func (c Config) Int(key string, defaultVal int) int {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case int:
		return val
	case int64:
		return int(val)
	case float64:
		if val == float64(int(val)) {
			return int(val)
		}
	}
	return defaultVal
}

// Float returns the float64 value for key, or defaultVal if missing or not convertible.
func (c Config) Float(key string, defaultVal float64) float64 {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case int64:
		return float64(val)
	}
	return defaultVal
}

// StringSlice returns the string slice for key, or defaultVal if missing or not convertible.
// A []any converts only when every element is a string.
func (c Config) StringSlice(key string, defaultVal []string) []string {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	switch val := v.(type) {
	case []string:
		return append([]string{}, val...)
	case []any:
		result := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return defaultVal
			}
			result = append(result, s)
		}
		return result
	}
	return defaultVal
}

// Any returns the raw value for key, or defaultVal if missing.
func (c Config) Any(key string, defaultVal any) any {
	v, ok := c.lookup(key)
	if !ok {
		return defaultVal
	}
	return v
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	return c.w != nil && c.w.Has(key)
}

// Raw returns a copy of the underlying values.
func (c Config) Raw() map[string]any {
	if c.w == nil {
		return map[string]any{}
	}
	return c.w.Snapshot()
}
