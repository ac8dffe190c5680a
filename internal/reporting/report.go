package reporting

import (
	"fmt"
	"time"

	"ens-name-tracker/internal/domain"
)

// Report is one page of filtered, sorted records.
type Report struct {
	GeneratedAt time.Time

	Records    []*domain.Record // current page only
	Page       int              // 1-based; 0 when nothing matched
	TotalPages int
	TotalItems int // matches before pagination
}

// Footer returns the two summary lines printed under a rendered page.
func (r *Report) Footer() []string {
	return []string{
		fmt.Sprintf("Page %d of %d", r.Page, r.TotalPages),
		fmt.Sprintf("Showing %d of %d total results", len(r.Records), r.TotalItems),
	}
}
