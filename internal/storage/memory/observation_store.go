package memory

import (
	"context"
	"sort"
	"sync"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/storage"
)

// ObservationStore is an in-memory implementation of storage.ObservationStore.
type ObservationStore struct {
	mu   sync.RWMutex
	data map[observationKey]*domain.Observation
	seq  map[observationKey]int // insertion order, breaks observed_at ties
	next int
}

// observationKey identifies an observation by (run_id, name).
type observationKey struct {
	runID string
	name  string
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{
		data: make(map[observationKey]*domain.Observation),
		seq:  make(map[observationKey]int),
	}
}

// InsertBulk adds multiple observations. Fails entire batch on duplicate.
func (s *ObservationStore) InsertBulk(_ context.Context, observations []*domain.Observation) error {
	if len(observations) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[observationKey]struct{}, len(observations))

	// First pass: check for duplicates (existing + intra-batch)
	for _, o := range observations {
		if o == nil || o.Name == "" || o.RunID == "" {
			return storage.ErrInvalidInput
		}
		key := observationKey{runID: o.RunID, name: o.Name}
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	// Second pass: insert all
	for _, o := range observations {
		key := observationKey{runID: o.RunID, name: o.Name}
		oCopy := *o
		s.data[key] = &oCopy
		s.seq[key] = s.next
		s.next++
	}

	return nil
}

// GetByName retrieves all observations for a name, ordered by observed_at ASC.
func (s *ObservationStore) GetByName(_ context.Context, name string) ([]*domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type entry struct {
		obs *domain.Observation
		seq int
	}
	var entries []entry
	for key, o := range s.data {
		if key.name == name {
			oCopy := *o
			entries = append(entries, entry{obs: &oCopy, seq: s.seq[key]})
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].obs.ObservedAt != entries[j].obs.ObservedAt {
			return entries[i].obs.ObservedAt < entries[j].obs.ObservedAt
		}
		return entries[i].seq < entries[j].seq
	})

	result := make([]*domain.Observation, len(entries))
	for i, e := range entries {
		result[i] = e.obs
	}
	return result, nil
}

// Count returns the total number of observations.
func (s *ObservationStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

var _ storage.ObservationStore = (*ObservationStore)(nil)
