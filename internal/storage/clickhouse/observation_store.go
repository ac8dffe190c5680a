package clickhouse

import (
	"context"
	"fmt"
	"time"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/observability"
	"ens-name-tracker/internal/storage"
)

// ObservationStore implements storage.ObservationStore using ClickHouse.
type ObservationStore struct {
	conn *Conn
}

// NewObservationStore creates a new ObservationStore.
func NewObservationStore(conn *Conn) *ObservationStore {
	return &ObservationStore{conn: conn}
}

// Compile-time interface check.
var _ storage.ObservationStore = (*ObservationStore)(nil)

// InsertBulk adds multiple observations. Fails entire batch on duplicate (run_id, name).
// MergeTree does not enforce keys, so duplicates are checked before the insert.
func (s *ObservationStore) InsertBulk(ctx context.Context, observations []*domain.Observation) (err error) {
	if len(observations) == 0 {
		return nil
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "insert_observations", time.Since(start).Seconds(), err)
	}()

	type key struct {
		runID string
		name  string
	}
	seen := make(map[key]struct{}, len(observations))
	runs := make(map[string]struct{})
	for _, o := range observations {
		if o == nil || o.Name == "" || o.RunID == "" {
			return storage.ErrInvalidInput
		}
		k := key{o.RunID, o.Name}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
		runs[o.RunID] = struct{}{}
	}

	for runID := range runs {
		existing, err := s.namesForRun(ctx, runID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		for _, name := range existing {
			if _, dup := seen[key{runID, name}]; dup {
				return storage.ErrDuplicateKey
			}
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO ens_observations (
			run_id, mode, name, available, expiry, price, status, label, observed_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, o := range observations {
		var available uint8
		if o.Available {
			available = 1
		}
		err = batch.Append(
			o.RunID, string(o.Mode), o.Name, available,
			o.Expiry, o.Price, string(o.Status), o.Label, o.ObservedAt,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByName retrieves all observations for a name, ordered by observed_at ASC.
func (s *ObservationStore) GetByName(ctx context.Context, name string) ([]*domain.Observation, error) {
	query := `
		SELECT run_id, mode, name, available, expiry, price, status, label, observed_at
		FROM ens_observations
		WHERE name = ?
		ORDER BY observed_at ASC
	`

	rows, err := s.conn.Query(ctx, query, name)
	if err != nil {
		return nil, fmt.Errorf("query by name: %w", err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// namesForRun returns the names already observed by runID.
func (s *ObservationStore) namesForRun(ctx context.Context, runID string) ([]string, error) {
	query := `
		SELECT name FROM ens_observations
		WHERE run_id = ?
	`

	rows, err := s.conn.Query(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// scanObservations scans multiple rows.
func scanObservations(rows chRows) ([]*domain.Observation, error) {
	var observations []*domain.Observation

	for rows.Next() {
		var o domain.Observation
		var mode, status string
		var available uint8

		err := rows.Scan(
			&o.RunID, &mode, &o.Name, &available,
			&o.Expiry, &o.Price, &status, &o.Label, &o.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan observation row: %w", err)
		}

		o.Mode = domain.Mode(mode)
		o.Status = domain.Status(status)
		o.Available = available == 1
		observations = append(observations, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observation rows: %w", err)
	}

	return observations, nil
}
