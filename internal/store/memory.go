package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps records in process memory. It is the default driver for
// development and the backend used by tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[Namespace]map[string]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[Namespace]map[string]Record)}
}

func cloneRecord(r Record) Record {
	data := make([]byte, len(r.Data))
	copy(data, r.Data)
	return Record{ID: r.ID, Data: data, Version: r.Version}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, ns Namespace, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[ns][id]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context, ns Namespace) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Record, 0, len(s.records[ns]))
	for _, rec := range s.records[ns] {
		out = append(out, cloneRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// Put implements Store.
func (s *MemoryStore) Put(_ context.Context, ns Namespace, rec Record) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket, ok := s.records[ns]
	if !ok {
		bucket = make(map[string]Record)
		s.records[ns] = bucket
	}

	var current int64
	if existing, found := bucket[rec.ID]; found {
		current = existing.Version
	}
	if current != rec.Version {
		return 0, ErrVersionConflict
	}

	stored := cloneRecord(rec)
	stored.Version = current + 1
	bucket[rec.ID] = stored
	return stored.Version, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, ns Namespace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records[ns], id)
	return nil
}

// Ping implements Store.
func (s *MemoryStore) Ping(context.Context) error {
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	return nil
}
