// Package ens implements the ENS registry queries the tracker depends on:
// availability, expiry and rent price of .eth second-level names.
package ens

import (
	"context"
	"math/big"
	"time"

	"ens-name-tracker/internal/domain"
)

// Registry answers availability, expiry and price questions for a name.
// GetExpiry is meaningful only for unavailable names and GetPrice only for available ones.
type Registry interface {
	// IsAvailable reports whether the name can be registered now.
	IsAvailable(ctx context.Context, name string) (bool, error)

	// GetExpiry returns the registration status and expiry of the name.
	GetExpiry(ctx context.Context, name string) (*Expiry, error)

	// GetPrice returns the rent price for registering the name for duration.
	GetPrice(ctx context.Context, name string, duration time.Duration) (*Price, error)
}

// Expiry is the registration state of a registered name.
type Expiry struct {
	Status domain.Status
	Expiry time.Time
}

// Price is a rent price in wei.
type Price struct {
	Base    *big.Int
	Premium *big.Int
}

// Total returns base + premium. Nil components count as zero.
func (p *Price) Total() *big.Int {
	total := new(big.Int)
	if p.Base != nil {
		total.Add(total, p.Base)
	}
	if p.Premium != nil {
		total.Add(total, p.Premium)
	}
	return total
}
