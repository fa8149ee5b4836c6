package objwrap

import (
	"bytes"
	"context"
	"encoding/json"
	"iter"
	"maps"
	"reflect"
	"slices"

	"github.com/randalmurphal/objwrap/pkg/objwrap/observability"
)

// Entry is one key/value pair of a wrapper, used for ordered construction
// and ordered export.
type Entry[V any] struct {
	Key   string `json:"key"`
	Value V      `json:"value"`
}

// Wrapper owns a private copy of a string-keyed mapping whose key set is
// fixed at construction.
//
// The zero value is an empty wrapper with no keys. A Wrapper is not safe for
// concurrent use.
type Wrapper[V comparable] struct {
	keys []string
	data map[string]V
	cfg  wrapperConfig
}

// New copies initial into a new Wrapper. The key set of initial becomes the
// schema. Iteration order is ascending key order, since Go maps carry no
// insertion order. A nil map yields an empty schema.
func New[V comparable](initial map[string]V, opts ...Option) *Wrapper[V] {
	keys := slices.Sorted(maps.Keys(initial))
	data := maps.Clone(initial)
	if data == nil {
		data = make(map[string]V)
	}
	return newWrapper(keys, data, opts)
}

// NewOrdered builds a Wrapper whose iteration order follows entries.
// A repeated key keeps its first position and takes its last value.
func NewOrdered[V comparable](entries []Entry[V], opts ...Option) *Wrapper[V] {
	keys := make([]string, 0, len(entries))
	data := make(map[string]V, len(entries))
	for _, e := range entries {
		if _, seen := data[e.Key]; !seen {
			keys = append(keys, e.Key)
		}
		data[e.Key] = e.Value
	}
	return newWrapper(keys, data, opts)
}

func newWrapper[V comparable](keys []string, data map[string]V, opts []Option) *Wrapper[V] {
	cfg := defaultWrapperConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.logger = observability.EnrichLogger(cfg.logger, cfg.name)
	return &Wrapper[V]{keys: keys, data: data, cfg: cfg}
}

// Name returns the name the wrapper reports in logs and metrics.
func (w *Wrapper[V]) Name() string {
	return w.cfg.name
}

// Snapshot returns an independent copy of the current state.
func (w *Wrapper[V]) Snapshot() map[string]V {
	return maps.Clone(w.data)
}

// Entries returns the current state as pairs in iteration order.
func (w *Wrapper[V]) Entries() []Entry[V] {
	out := make([]Entry[V], 0, len(w.keys))
	for _, k := range w.keys {
		out = append(out, Entry[V]{Key: k, Value: w.data[k]})
	}
	return out
}

// Set overwrites the value of key and reports true if key is in the schema.
// Keys outside the schema are left alone and Set reports false.
func (w *Wrapper[V]) Set(key string, value V) bool {
	_, ok := w.data[key]
	if ok {
		w.data[key] = value
	} else {
		observability.LogSetRejected(w.cfg.logger, key)
	}
	w.recorder().RecordSet(context.Background(), w.cfg.name, ok)
	return ok
}

// Get returns the value stored under key. The boolean is false, and the
// value is the zero V, when key is not in the schema.
func (w *Wrapper[V]) Get(key string) (V, bool) {
	v, ok := w.data[key]
	hits := 0
	if ok {
		hits = 1
	}
	w.recorder().RecordLookup(context.Background(), w.cfg.name, "get", hits)
	return v, ok
}

// FindKeys returns, in iteration order, every key whose value equals value.
// The result is empty, never nil, when nothing matches.
//
// A query whose dynamic type is not comparable, such as a slice held in a
// Wrapper[any], matches nothing.
func (w *Wrapper[V]) FindKeys(value V) []string {
	result := []string{}
	if isComparable(value) {
		for _, k := range w.keys {
			if w.data[k] == value {
				result = append(result, k)
			}
		}
	}
	w.recorder().RecordLookup(context.Background(), w.cfg.name, "find", len(result))
	return result
}

// Has reports whether key is in the schema.
func (w *Wrapper[V]) Has(key string) bool {
	_, ok := w.data[key]
	return ok
}

// Keys returns a copy of the schema in iteration order.
func (w *Wrapper[V]) Keys() []string {
	return slices.Clone(w.keys)
}

// Len returns the number of keys in the schema.
func (w *Wrapper[V]) Len() int {
	return len(w.keys)
}

// All iterates over the current state in iteration order.
// Calling Set during iteration is allowed; later pairs see the new values.
func (w *Wrapper[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range w.keys {
			if !yield(k, w.data[k]) {
				return
			}
		}
	}
}

// Clone returns an independent wrapper with the same schema, order, values
// and options.
func (w *Wrapper[V]) Clone() *Wrapper[V] {
	return &Wrapper[V]{
		keys: slices.Clone(w.keys),
		data: maps.Clone(w.data),
		cfg:  w.cfg,
	}
}

// MarshalJSON encodes the state as a JSON object in iteration order.
func (w *Wrapper[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range w.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(w.data[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (w *Wrapper[V]) recorder() observability.MetricsRecorder {
	if w.cfg.metrics == nil {
		return observability.NoopMetrics{}
	}
	return w.cfg.metrics
}

// isComparable reports whether v can be compared with == without panicking.
// Only interface-typed V can hold an incomparable dynamic value.
func isComparable[V comparable](v V) bool {
	rv := reflect.ValueOf(any(v))
	return !rv.IsValid() || rv.Comparable()
}
