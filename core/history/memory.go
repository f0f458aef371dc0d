package history

import (
	"context"
	"sync"
)

// MemoryStore keeps records in memory. It is the default store.
type MemoryStore struct {
	mu      sync.RWMutex
	records []Record
	max     int
}

// NewMemoryStore returns a store holding at most max records, dropping the
// oldest first. max <= 0 means unbounded.
func NewMemoryStore(max int) *MemoryStore {
	return &MemoryStore{max: max}
}

func (s *MemoryStore) Append(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
	if s.max > 0 && len(s.records) > s.max {
		s.records = append([]Record(nil), s.records[len(s.records)-s.max:]...)
	}
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q Query) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Record
	for _, r := range s.records {
		if q.Matches(r) {
			res = append(res, r)
		}
	}
	return q.finish(res), nil
}

func (s *MemoryStore) Close() error { return nil }
