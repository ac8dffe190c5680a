package app

import (
	"context"

	"github.com/spf13/cobra"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/tracker"
)

func newAddCmd(d deps) *cobra.Command {
	var (
		path  string
		label string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Resolve candidate names from a JSON word list and add the new ones",
		Long: `Reads a JSON array of words, normalizes each as a .eth name and resolves
every name not already in the store. Existing names are skipped untouched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			words, err := candidates.LoadWordListFile(path)
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

			s.logger.Info().Int("words", len(words)).Str("label", label).Msg("adding names")
			result, err := s.runBatch(ctx, d, store, func(ctx context.Context, tr *tracker.Tracker, store *domain.Store) (*tracker.Result, error) {
				return tr.Ingest(ctx, words, label, store)
			})
			if err != nil {
				return err
			}

			printSummary(cmd.OutOrStdout(), domain.ModeAdd, result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "", "JSON array of candidate words")
	cmd.Flags().StringVarP(&label, "label", "l", "", "Label attached to every added name")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}
