package tracker

import (
	"context"
	"fmt"
	"iter"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/ens"
	"ens-name-tracker/internal/observability"
)

// Ingest resolves every new candidate and appends it to store.
// Candidates already in store are skipped without a registry call and left
// as they are, even if stale. Only cancellation of ctx aborts the pass; the
// partial result is returned alongside ctx.Err() and must not be persisted.
func (t *Tracker) Ingest(ctx context.Context, words []string, label string, store *domain.Store) (*Result, error) {
	r := t.newRun(domain.ModeAdd)

	for name := range t.normalized(r, candidates.Slice(words)) {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if store.Contains(name) {
			r.result.Skipped++
			observability.RecordResult(string(r.mode), observability.ResultSkipped)
			t.logger.Info().Str("name", name).Msg("skipped: already exists")
			continue
		}
		if err := t.add(ctx, r, name, label, store); err != nil {
			return r.result, err
		}
	}

	return t.finish(ctx, r, store), nil
}

// Seed fills an empty store from the union of sources. Every source is
// pre-filtered and normalized, and the union is deduplicated before the
// first registry call, so a name found in several sources resolves once.
func (t *Tracker) Seed(ctx context.Context, sources []iter.Seq[string], label string, store *domain.Store) (*Result, error) {
	if store.Len() > 0 {
		return nil, fmt.Errorf("seed %d records: %w", store.Len(), ErrStoreNotEmpty)
	}

	r := t.newRun(domain.ModeSeed)

	seen := candidates.NewSet[string]()
	var names []string
	for name := range t.normalized(r, candidates.Concat(sources...)) {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if seen.Contains(name) {
			continue
		}
		seen.Add(name)
		names = append(names, name)
	}

	t.logger.Info().Int("count", len(names)).Msg("seeding unique names")

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}
		if err := t.add(ctx, r, name, label, store); err != nil {
			return r.result, err
		}
	}

	return t.finish(ctx, r, store), nil
}

// add resolves name and appends it. Returns an error only on cancellation.
func (t *Tracker) add(ctx context.Context, r *run, name, label string, store *domain.Store) error {
	rec, err := t.resolve(ctx, r, name, label)
	if err != nil {
		return err
	}
	if rec == nil {
		return nil
	}

	if err := store.Append(rec); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	r.result.Added++
	observability.RecordResult(string(r.mode), observability.ResultAdded)
	t.logger.Info().Str("name", name).Str("label", label).Msg("added")
	return nil
}

// normalized yields the canonical name of every word passing the pre-filter.
// Words that fail normalization are counted as invalid and dropped.
func (t *Tracker) normalized(r *run, words iter.Seq[string]) iter.Seq[string] {
	return func(yield func(string) bool) {
		for word := range words {
			if !candidates.Prefilter(word) {
				continue
			}
			name, err := ens.NormalizeCandidate(word)
			if err != nil {
				r.result.Invalid++
				observability.RecordResolution(string(r.mode), observability.OutcomeInvalid)
				t.logger.Debug().Err(err).Str("word", word).Msg("invalid candidate")
				continue
			}
			if !yield(name) {
				return
			}
		}
	}
}
