package app

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"ens-name-tracker/internal/candidates"
	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/reporting"
)

// Report output formats.
const (
	formatTable    = "table"
	formatCSV      = "csv"
	formatMarkdown = "markdown"
)

type reportFlags struct {
	available       bool
	status          string
	maxPrice        float64
	expiringWithin  float64
	maxLength       int
	label           string
	commonNamesOnly bool
	namesFile       string
	sort            string
	page            int
	pageSize        int
	format          string
}

func newReportCmd(d deps) *cobra.Command {
	var f reportFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "List stored names matching the given filters",
		Long: `Filters are combined: a name is listed only if it matches all of them.

  ensnames report --available --max-price 0.01 --sort price
  ensnames report --expiring-within 7 --format markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd.Context(), cmd, false)
			if err != nil {
				return err
			}
			defer s.close()

			q, err := f.query(cmd, s.conf.Report.PageSize)
			if err != nil {
				return err
			}
			if q.CommonNamesOnly {
				q.CommonNames, err = reporting.LoadCommonNames(s.conf.Report.CommonNamesPath)
				if err != nil {
					return fmt.Errorf("load common names: %w", err)
				}
			}

			gen := reporting.NewGenerator(s.records).WithClock(func() time.Time { return d.now().UTC() })
			report, err := gen.Generate(cmd.Context(), q)
			if err != nil {
				return err
			}
			s.logger.Debug().Int("matches", report.TotalItems).Msg("report generated")

			return render(cmd.OutOrStdout(), f.format, report)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&f.available, "available", false, "Only names that can be registered (=false for unavailable)")
	flags.StringVar(&f.status, "status", "", "Only names in this status (active, expired, gracePeriod)")
	flags.Float64Var(&f.maxPrice, "max-price", 0, "Only names priced at or below this many ETH")
	flags.Float64Var(&f.expiringWithin, "expiring-within", 0, "Only names expiring within this many days")
	flags.IntVar(&f.maxLength, "max-length", 0, "Only names whose label has at most this many characters")
	flags.StringVar(&f.label, "label", "", "Only names carrying this label")
	flags.BoolVar(&f.commonNamesOnly, "common-names-only", false, "Only names on the common-names list")
	flags.StringVar(&f.namesFile, "names-file", "", "Only names listed in this JSON array file")
	flags.StringVar(&f.sort, "sort", "", "Sort by name, price or expiry")
	flags.IntVar(&f.page, "page", 1, "Page to show")
	flags.IntVar(&f.pageSize, "page-size", 0, "Names per page (default from config)")
	flags.StringVar(&f.format, "format", formatTable, "Output format (table, csv, markdown)")

	return cmd
}

// query builds the reporting query from the flags that were set.
func (f *reportFlags) query(cmd *cobra.Command, defaultPageSize int) (reporting.Query, error) {
	switch f.format {
	case formatTable, formatCSV, formatMarkdown:
	default:
		return reporting.Query{}, fmt.Errorf("invalid format %q (want table, csv or markdown)", f.format)
	}

	sortKey, err := reporting.ParseSortKey(f.sort)
	if err != nil {
		return reporting.Query{}, err
	}

	q := reporting.Query{
		CommonNamesOnly: f.commonNamesOnly,
		Sort:            sortKey,
		Page:            f.page,
		PageSize:        f.pageSize,
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}

	changed := cmd.Flags().Changed
	if changed("available") {
		q.Available = &f.available
	}
	if changed("status") {
		status, err := domain.ParseStatus(f.status)
		if err != nil {
			return reporting.Query{}, err
		}
		q.Status = &status
	}
	if changed("max-price") {
		q.MaxPrice = &f.maxPrice
	}
	if changed("expiring-within") {
		q.ExpiringWithinDays = &f.expiringWithin
	}
	if changed("max-length") {
		q.MaxNameLength = &f.maxLength
	}
	if changed("label") {
		q.Label = &f.label
	}
	if f.namesFile != "" {
		words, err := candidates.LoadWordListFile(f.namesFile)
		if err != nil {
			return reporting.Query{}, err
		}
		q.FilterSet = candidates.LowerSet(words)
	}

	return q, nil
}

func render(w io.Writer, format string, r *reporting.Report) error {
	switch format {
	case formatCSV:
		_, err := io.WriteString(w, reporting.RenderCSV(r))
		return err
	case formatMarkdown:
		_, err := io.WriteString(w, reporting.RenderMarkdown(r))
		return err
	default:
		return reporting.RenderTable(w, r)
	}
}
