package domain

import (
	"errors"
	"fmt"
)

// ErrDuplicateName is returned when a record with the same name is already in the store.
var ErrDuplicateName = errors.New("duplicate name")

// Store is the ordered in-process collection of records for one run.
// It is loaded wholesale, mutated by the tracker and written back wholesale.
// Store is not safe for concurrent use.
type Store struct {
	records []*Record
	index   map[string]int // name -> position
}

// NewStore builds a store from records in their persisted order.
func NewStore(records []*Record) (*Store, error) {
	s := &Store{
		records: make([]*Record, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if err := s.Append(r); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns the records in store order. The slice must not be modified.
func (s *Store) Records() []*Record {
	return s.records
}

// At returns the record at position i.
func (s *Store) At(i int) *Record {
	return s.records[i]
}

// Contains reports whether a record with the exact name exists.
func (s *Store) Contains(name string) bool {
	_, ok := s.index[name]
	return ok
}

// Get returns the record with the given name.
func (s *Store) Get(name string) (*Record, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.records[i], true
}

// Append adds a record at the end. Returns ErrDuplicateName if the name exists.
func (s *Store) Append(r *Record) error {
	if r == nil || r.Name == "" {
		return fmt.Errorf("append record: empty name")
	}
	if _, exists := s.index[r.Name]; exists {
		return fmt.Errorf("append %s: %w", r.Name, ErrDuplicateName)
	}
	s.index[r.Name] = len(s.records)
	s.records = append(s.records, r)
	return nil
}

// Replace swaps the record at position i, keeping its position.
// The replacement must carry the same name.
func (s *Store) Replace(i int, r *Record) error {
	if i < 0 || i >= len(s.records) {
		return fmt.Errorf("replace: index %d out of range", i)
	}
	if s.records[i].Name != r.Name {
		return fmt.Errorf("replace: name mismatch %s != %s", s.records[i].Name, r.Name)
	}
	s.records[i] = r
	return nil
}

// ExpiringBefore returns positions of records with 0 < expiry < deadline, in store order.
func (s *Store) ExpiringBefore(deadline int64) []int {
	var idx []int
	for i, r := range s.records {
		if r.Expiry > 0 && r.Expiry < deadline {
			idx = append(idx, i)
		}
	}
	return idx
}
