package memory

import (
	"context"
	"sync"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/storage"
)

// RecordStore is an in-memory implementation of storage.RecordStore.
// Records are copied in and out so callers cannot mutate the stored document.
type RecordStore struct {
	mu      sync.RWMutex
	records []domain.Record
	writes  int
}

// NewRecordStore creates a record store holding a copy of records.
func NewRecordStore(records ...*domain.Record) *RecordStore {
	s := &RecordStore{}
	s.set(records)
	return s
}

func (s *RecordStore) set(records []*domain.Record) {
	s.records = make([]domain.Record, len(records))
	for i, r := range records {
		s.records[i] = *r
	}
}

// ReadAll returns a copy of all records in stored order.
func (s *RecordStore) ReadAll(_ context.Context) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Record, len(s.records))
	for i := range s.records {
		rCopy := s.records[i]
		result[i] = &rCopy
	}
	return result, nil
}

// WriteAll replaces the stored records.
func (s *RecordStore) WriteAll(_ context.Context, records []*domain.Record) error {
	for _, r := range records {
		if r == nil || r.Name == "" {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.set(records)
	s.writes++
	return nil
}

// Writes returns how many times WriteAll succeeded.
func (s *RecordStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}

var _ storage.RecordStore = (*RecordStore)(nil)
