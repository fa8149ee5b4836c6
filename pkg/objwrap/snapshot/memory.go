package snapshot

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-memory snapshot store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]map[string]storedSnapshot // name -> id -> snapshot
	closed bool
}

type storedSnapshot struct {
	data      []byte
	sequence  int
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory snapshot store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(name, id string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if m.data[name] == nil {
		m.data[name] = make(map[string]storedSnapshot)
	}

	seq := 1
	for _, s := range m.data[name] {
		if s.sequence >= seq {
			seq = s.sequence + 1
		}
	}

	stored := make([]byte, len(data))
	copy(stored, data)

	m.data[name][id] = storedSnapshot{
		data:      stored,
		sequence:  seq,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(name, id string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	s, ok := m.data[name][id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(s.data), nil
}

// Latest implements Store.
func (m *MemoryStore) Latest(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	var (
		latest storedSnapshot
		found  bool
	)
	for _, s := range m.data[name] {
		if !found || s.sequence > latest.sequence {
			latest, found = s, true
		}
	}
	if !found {
		return nil, ErrNotFound
	}
	return clone(latest.data), nil
}

// List implements Store.
func (m *MemoryStore) List(name string) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	snaps := m.data[name]
	infos := make([]Info, 0, len(snaps))
	for id, s := range snaps {
		infos = append(infos, Info{
			Name:      name,
			ID:        id,
			Sequence:  s.sequence,
			Timestamp: s.timestamp,
			Size:      int64(len(s.data)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Sequence < infos[j].Sequence
	})
	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(name, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	if snaps, ok := m.data[name]; ok {
		delete(snaps, id)
	}
	return nil
}

// DeleteName implements Store.
func (m *MemoryStore) DeleteName(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, name)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the total number of snapshots across all names.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, snaps := range m.data {
		count += len(snaps)
	}
	return count
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
