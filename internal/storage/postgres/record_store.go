package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/observability"
	"ens-name-tracker/internal/storage"
)

// RecordStore implements storage.RecordStore using PostgreSQL.
// The record set lives in ens_names; document order is kept in position.
type RecordStore struct {
	pool *Pool
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(pool *Pool) *RecordStore {
	return &RecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RecordStore = (*RecordStore)(nil)

var recordColumns = []string{"name", "position", "available", "expiry", "price", "status", "label"}

// ReadAll returns all records ordered by position.
func (s *RecordStore) ReadAll(ctx context.Context) (records []*domain.Record, err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "read_all", time.Since(start).Seconds(), err)
	}()

	query := `
		SELECT name, available, expiry, price, status, label
		FROM ens_names
		ORDER BY position ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	records = []*domain.Record{}
	for rows.Next() {
		var r domain.Record
		var status string
		if err := rows.Scan(&r.Name, &r.Available, &r.Expiry, &r.Price, &status, &r.Label); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		r.Status = domain.Status(status)
		records = append(records, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// WriteAll replaces the table contents with records in one transaction.
// Returns ErrDuplicateKey if two records share a name.
func (s *RecordStore) WriteAll(ctx context.Context, records []*domain.Record) (err error) {
	start := time.Now()
	defer func() {
		observability.RecordDBQuery("postgres", "write_all", time.Since(start).Seconds(), err)
	}()

	for _, r := range records {
		if r == nil || r.Name == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ens_names`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{r.Name, i, r.Available, r.Expiry, r.Price, string(r.Status), r.Label}
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ens_names"}, recordColumns, pgx.CopyFromRows(rows)); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("copy records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Count returns the number of stored records.
func (s *RecordStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM ens_names`).Scan(&n); err != nil {
		if isNotFoundError(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}
