// Package snapshot persists point-in-time copies of wrapper state.
package snapshot

import (
	"errors"
	"time"
)

// Store persists encoded snapshots, grouped by wrapper name.
// Implementations must be safe for concurrent use.
type Store interface {
	// Save stores a snapshot under (name, id).
	// Overwrites if a snapshot for (name, id) already exists; the overwritten
	// snapshot becomes the latest for name.
	Save(name, id string, data []byte) error

	// Load retrieves a snapshot.
	// Returns ErrNotFound if it doesn't exist.
	Load(name, id string) ([]byte, error)

	// Latest retrieves the snapshot with the highest sequence for name.
	// Returns ErrNotFound if name has no snapshots.
	Latest(name string) ([]byte, error)

	// List returns all snapshots for name, ordered by sequence.
	// Returns empty slice (not error) if name has no snapshots.
	List(name string) ([]Info, error)

	// Delete removes a specific snapshot.
	// Returns nil if it doesn't exist.
	Delete(name, id string) error

	// DeleteName removes all snapshots for name.
	// Returns nil if name has no snapshots.
	DeleteName(name string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides metadata without loading the snapshot body.
type Info struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	Sequence  int       `json:"sequence"`
	Timestamp time.Time `json:"timestamp"`
	Size      int64     `json:"size"`
}

// Sentinel errors for snapshot operations.
var (
	// ErrNotFound indicates a snapshot doesn't exist.
	ErrNotFound = errors.New("snapshot not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("snapshot store closed")

	// ErrVersionMismatch indicates a record written by an incompatible format version.
	ErrVersionMismatch = errors.New("snapshot version mismatch")
)
