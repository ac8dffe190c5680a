package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the page as a Markdown document.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	sb.WriteString("# ENS Names\n\n")
	if !r.GeneratedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	}

	if len(r.Records) == 0 {
		sb.WriteString("No matching names.\n\n")
	} else {
		sb.WriteString("| " + strings.Join(columns, " | ") + " |\n")
		sb.WriteString("|" + strings.Repeat("------|", len(columns)) + "\n")
		for _, rec := range r.Records {
			cells := row(rec)
			for i, c := range cells {
				cells[i] = escapeMarkdown(c)
			}
			sb.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		sb.WriteString("\n")
	}

	for _, line := range r.Footer() {
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

// escapeMarkdown keeps cell content from breaking the table.
func escapeMarkdown(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
