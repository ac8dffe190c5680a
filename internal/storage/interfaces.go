package storage

import (
	"context"

	"ens-name-tracker/internal/domain"
)

// RecordStore persists the whole record set as a single document.
// Reads and writes are wholesale; there is no partial update.
type RecordStore interface {
	// ReadAll returns all records in persisted order.
	// An absent document reads as an empty slice, not an error.
	ReadAll(ctx context.Context) ([]*domain.Record, error)

	// WriteAll replaces the persisted document with records.
	WriteAll(ctx context.Context, records []*domain.Record) error
}

// ObservationStore provides access to ens_observations storage.
type ObservationStore interface {
	// InsertBulk adds multiple observations. Fails entire batch on any duplicate (run_id, name).
	InsertBulk(ctx context.Context, observations []*domain.Observation) error

	// GetByName retrieves all observations for a name, ordered by observed_at ASC.
	GetByName(ctx context.Context, name string) ([]*domain.Observation, error)
}
