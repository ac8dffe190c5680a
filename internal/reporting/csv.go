package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders the page as CSV with raw values: expiry in epoch ms and
// price in ETH.
func RenderCSV(r *Report) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write([]string{"name", "available", "expiry", "price", "status", "label"})
	for _, rec := range r.Records {
		_ = w.Write([]string{
			rec.Name,
			strconv.FormatBool(rec.Available),
			strconv.FormatInt(rec.Expiry, 10),
			strconv.FormatFloat(rec.Price, 'f', -1, 64),
			string(rec.Status),
			rec.Label,
		})
	}
	w.Flush()

	return sb.String()
}
