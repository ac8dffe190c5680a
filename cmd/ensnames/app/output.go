package app

import (
	"fmt"
	"io"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/tracker"
)

// printSummary writes the per-run counts and every failed name.
func printSummary(w io.Writer, mode domain.Mode, r *tracker.Result) {
	switch mode {
	case domain.ModeRefresh:
		fmt.Fprintf(w, "Checked %d names, updated %d\n", len(r.Outcomes), r.Updated)
	default:
		fmt.Fprintf(w, "Added %d names, skipped %d already stored\n", r.Added, r.Skipped)
	}

	if r.Invalid > 0 {
		fmt.Fprintf(w, "Ignored %d invalid names\n", r.Invalid)
	}
	if r.Failed == 0 {
		return
	}
	fmt.Fprintf(w, "Failed to resolve %d names:\n", r.Failed)
	for _, o := range r.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(w, "  %s: %v\n", o.Name, o.Err)
		}
	}
}
