package reporting

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// RenderTable writes the page as a console table followed by the footer.
func RenderTable(w io.Writer, r *Report) error {
	table := tablewriter.NewWriter(w)
	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	table.Header(header...)

	for _, rec := range r.Records {
		if err := table.Append(row(rec)); err != nil {
			return fmt.Errorf("append row %s: %w", rec.Name, err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}

	for _, line := range r.Footer() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
