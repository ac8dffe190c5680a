// Package tracker keeps the record store in step with the registry.
// It runs three passes: ingestion of new candidates, refresh of records
// nearing expiry, and bulk seeding of an empty store.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/observability"
	"ens-name-tracker/internal/storage"
)

// RefreshWindow is how far ahead of now an expiry must fall to be refreshed.
const RefreshWindow = 30 * 24 * time.Hour

// ErrStoreNotEmpty is returned by Seed when the store already has records.
var ErrStoreNotEmpty = errors.New("seed requires an empty store")

// Resolver classifies a single name.
type Resolver interface {
	Resolve(ctx context.Context, name, label string) (*domain.Record, error)
}

// Tracker runs synchronization passes over a domain.Store.
type Tracker struct {
	resolver     Resolver
	observations storage.ObservationStore
	logger       zerolog.Logger
	now          func() time.Time
	runID        string
}

// Options for creating Tracker.
type Options struct {
	// Required
	Resolver Resolver

	// Optional resolution history. Nil disables it.
	Observations storage.ObservationStore

	Logger *zerolog.Logger
	Now    func() time.Time // defaults to time.Now
	RunID  string           // defaults to a random UUID
}

// New creates a new Tracker.
func New(opts Options) *Tracker {
	t := &Tracker{
		resolver:     opts.Resolver,
		observations: opts.Observations,
		logger:       zerolog.Nop(),
		now:          opts.Now,
		runID:        opts.RunID,
	}
	if opts.Logger != nil {
		t.logger = *opts.Logger
	}
	if t.now == nil {
		t.now = time.Now
	}
	if t.runID == "" {
		t.runID = uuid.NewString()
	}
	return t
}

// RunID returns the identifier stamped on this tracker's observations.
func (t *Tracker) RunID() string {
	return t.runID
}

// Outcome is the result of one resolution attempt.
// Exactly one of Record and Err is set.
type Outcome struct {
	Name   string
	Record *domain.Record
	Err    error
}

// Result aggregates the outcomes of one pass.
type Result struct {
	Added   int
	Skipped int
	Updated int
	Failed  int // upstream errors
	Invalid int // normalization failures

	Outcomes []Outcome
}

// run holds per-pass state.
type run struct {
	mode         domain.Mode
	started      time.Time
	result       *Result
	observations []*domain.Observation
}

func (t *Tracker) newRun(mode domain.Mode) *run {
	return &run{mode: mode, started: t.now(), result: &Result{}}
}

// resolve resolves one name and records the outcome. A nil record with a nil
// error means the context was cancelled and the pass must stop.
func (t *Tracker) resolve(ctx context.Context, r *run, name, label string) (*domain.Record, error) {
	rec, err := t.resolver.Resolve(ctx, name, label)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.result.Failed++
		r.result.Outcomes = append(r.result.Outcomes, Outcome{Name: name, Err: err})
		observability.RecordResolution(string(r.mode), observability.OutcomeUpstreamError)
		t.logger.Warn().Err(err).Str("name", name).Str("label", label).Msg("resolution failed")
		return nil, nil
	}

	r.result.Outcomes = append(r.result.Outcomes, Outcome{Name: name, Record: rec})
	r.observations = append(r.observations, domain.NewObservation(t.runID, r.mode, rec, t.now().UnixMilli()))
	observability.RecordResolution(string(r.mode), observability.OutcomeSuccess)
	return rec, nil
}

// finish flushes history and publishes run metrics for a completed pass.
func (t *Tracker) finish(ctx context.Context, r *run, store *domain.Store) *Result {
	if t.observations != nil && len(r.observations) > 0 {
		if err := t.observations.InsertBulk(ctx, r.observations); err != nil {
			t.logger.Error().Err(err).Int("count", len(r.observations)).Msg("write observations")
		}
	}

	finished := t.now()
	observability.UpdateStoreSize(store.Len())
	observability.RecordRun(string(r.mode), finished.Sub(r.started).Seconds(), finished.Unix())
	return r.result
}
