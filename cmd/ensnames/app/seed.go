package app

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"github.com/spf13/cobra"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/tracker"
)

func newSeedCmd(d deps) *cobra.Command {
	var (
		letters []int
		digits  []int
		words   []string
		label   string
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty store from generated and listed candidates",
		Long: `Builds the union of every requested source, removes duplicates and
resolves each name once. The store must be empty.

  ensnames seed --letters 3 --digits 3 --digits 4 --words words.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sources, err := seedSources(letters, digits, words)
			if err != nil {
				return err
			}

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
			if store.Len() > 0 {
				return fmt.Errorf("store has %d names: %w", store.Len(), tracker.ErrStoreNotEmpty)
			}

			result, err := s.runBatch(ctx, d, store, func(ctx context.Context, tr *tracker.Tracker, store *domain.Store) (*tracker.Result, error) {
				return tr.Seed(ctx, sources, label, store)
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), domain.ModeSeed, result)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&letters, "letters", nil, "Add every a-z combination of this length (repeatable)")
	cmd.Flags().IntSliceVar(&digits, "digits", nil, "Add every 0-9 combination of this length (repeatable)")
	cmd.Flags().StringArrayVar(&words, "words", nil, "Add the words of this JSON array file (repeatable)")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label attached to every seeded name")

	return cmd
}

// seedSources loads word files up front so a malformed file fails before any resolution.
func seedSources(letters, digits []int, files []string) ([]iter.Seq[string], error) {
	var sources []iter.Seq[string]
	for _, n := range letters {
		if n < 1 {
			return nil, fmt.Errorf("invalid --letters length %d", n)
		}
		sources = append(sources, candidates.Alphabetic(n))
	}
	for _, n := range digits {
		if n < 1 {
			return nil, fmt.Errorf("invalid --digits length %d", n)
		}
		sources = append(sources, candidates.Numeric(n))
	}
	for _, path := range files {
		list, err := candidates.LoadWordListFile(path)
		if err != nil {
			return nil, err
		}
		sources = append(sources, candidates.Slice(list))
	}

	if len(sources) == 0 {
		return nil, errors.New("no sources: pass --letters, --digits or --words")
	}
	return sources, nil
}
