package reporting

import (
	"time"

	"github.com/shopspring/decimal"

	"ens-name-tracker/internal/domain"
)

const notApplicable = "N/A"

// isoMillis matches JavaScript's Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// FormatExpiry renders an epoch-ms expiry in UTC, or N/A when unset.
func FormatExpiry(ms int64) string {
	if ms == 0 {
		return notApplicable
	}
	return time.UnixMilli(ms).UTC().Format(isoMillis)
}

// FormatPrice renders a price as "<p> ETH", or N/A when zero.
func FormatPrice(p float64) string {
	if p == 0 {
		return notApplicable
	}
	return decimal.NewFromFloat(p).String() + " ETH"
}

// row is the display form of a record shared by the renderers.
func row(r *domain.Record) []string {
	available := "false"
	if r.Available {
		available = "true"
	}
	return []string{
		r.Name,
		available,
		FormatExpiry(r.Expiry),
		FormatPrice(r.Price),
		string(r.Status),
		r.Label,
	}
}

var columns = []string{"Name", "Available", "Expiry", "Price", "Status", "Label"}
