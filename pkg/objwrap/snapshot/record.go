package snapshot

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/objwrap/pkg/objwrap"
)

// Version is the current record format version.
// Increment when making breaking changes to Record.
const Version = 1

// Record is the persisted form of a wrapper's state.
type Record struct {
	Version   int       `json:"version"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Timestamp time.Time `json:"timestamp"`

	// Entries holds the ordered [{key, value}] pairs.
	Entries json.RawMessage `json:"entries"`
}

// Capture copies the current state of w into a new Record with a fresh ID.
// An empty name falls back to w.Name().
func Capture[V comparable](w *objwrap.Wrapper[V], name string) (*Record, error) {
	if name == "" {
		name = w.Name()
	}
	entries, err := json.Marshal(w.Entries())
	if err != nil {
		return nil, fmt.Errorf("encode entries: %w", err)
	}
	return &Record{
		Version:   Version,
		ID:        uuid.New().String(),
		Name:      name,
		Timestamp: time.Now().UTC(),
		Entries:   entries,
	}, nil
}

// Restore rebuilds a wrapper with the schema, order and values of r.
// JSON numbers restored into a Wrapper[any] come back as float64.
func Restore[V comparable](r *Record, opts ...objwrap.Option) (*objwrap.Wrapper[V], error) {
	if r.Version != Version {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, r.Version, Version)
	}
	var entries []objwrap.Entry[V]
	if err := json.Unmarshal(r.Entries, &entries); err != nil {
		return nil, fmt.Errorf("decode entries: %w", err)
	}
	opts = append([]objwrap.Option{objwrap.WithName(r.Name)}, opts...)
	return objwrap.NewOrdered(entries, opts...), nil
}

// Marshal serializes a record to JSON.
func (r *Record) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

// Unmarshal deserializes a record from JSON.
func Unmarshal(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
