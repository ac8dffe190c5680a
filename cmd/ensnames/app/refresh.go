package app

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/tracker"
)

func newRefreshCmd(d deps) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-resolve names expiring within 30 days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), cmd, true)
			if err != nil {
				return err
			}
			defer s.close()

			ctx, stop := withSignals(cmd.Context(), s.logger)
			defer stop()

			store, err := s.load(ctx)
			if err != nil {
				return err
			}
			if store.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No names stored yet. Run `ensnames add` or `ensnames seed` first.")
				return nil
			}

			result, err := s.runBatch(ctx, d, store, func(ctx context.Context, tr *tracker.Tracker, store *domain.Store) (*tracker.Result, error) {
				return tr.Refresh(ctx, store, d.now())
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), domain.ModeRefresh, result)
			return nil
		},
	}
}
