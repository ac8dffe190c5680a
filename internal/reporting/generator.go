package reporting

import (
	"context"
	"fmt"
	"time"

	"ens-name-tracker/internal/storage"
)

// Generator produces reports from stored records.
type Generator struct {
	store storage.RecordStore
	now   func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(store storage.RecordStore) *Generator {
	return &Generator{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate loads the record set and applies q to it.
func (g *Generator) Generate(ctx context.Context, q Query) (*Report, error) {
	records, err := g.store.ReadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	now := g.now()
	report := Apply(records, q, now)
	report.GeneratedAt = now
	return report, nil
}
