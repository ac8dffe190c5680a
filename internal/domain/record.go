package domain

import "strings"

// NameSuffix is the top-level name every tracked identifier lives under.
const NameSuffix = ".eth"

// Record is the persisted classification of one candidate name.
// Field names match the on-disk document; label is absent in the minimal schema.
type Record struct {
	Name      string  `json:"name"`      // normalized name, unique key
	Available bool    `json:"available"` // currently registrable
	Expiry    int64   `json:"expiry"`    // Unix timestamp in milliseconds, 0 when not applicable
	Price     float64 `json:"price"`     // one-year rent in ETH, 0 unless available
	Status    Status  `json:"status"`
	Label     string  `json:"label,omitempty"`
}

// BareName returns the name without the .eth suffix.
func (r *Record) BareName() string {
	return strings.TrimSuffix(r.Name, NameSuffix)
}

// HasExpiry reports whether the record carries an expiry timestamp.
func (r *Record) HasExpiry() bool {
	return r.Expiry > 0
}
