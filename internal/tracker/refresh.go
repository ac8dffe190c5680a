package tracker

import (
	"context"
	"fmt"
	"time"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/observability"
)

// Refresh re-resolves every record whose expiry falls in (0, now+RefreshWindow)
// and replaces it in place when anything changed. Available names carry no
// expiry and are never refreshed.
func (t *Tracker) Refresh(ctx context.Context, store *domain.Store, now time.Time) (*Result, error) {
	r := t.newRun(domain.ModeRefresh)

	due := store.ExpiringBefore(now.Add(RefreshWindow).UnixMilli())
	t.logger.Info().Int("count", len(due)).Msg("names to check")

	for _, i := range due {
		if err := ctx.Err(); err != nil {
			return r.result, err
		}

		current := store.At(i)
		rec, err := t.resolve(ctx, r, current.Name, current.Label)
		if err != nil {
			return r.result, err
		}
		if rec == nil || *rec == *current {
			continue
		}

		if err := store.Replace(i, rec); err != nil {
			return r.result, fmt.Errorf("replace %s: %w", current.Name, err)
		}
		r.result.Updated++
		observability.RecordResult(string(r.mode), observability.ResultUpdated)
		t.logger.Info().Str("name", rec.Name).Str("status", string(rec.Status)).Msg("updated")
	}

	return t.finish(ctx, r, store), nil
}
