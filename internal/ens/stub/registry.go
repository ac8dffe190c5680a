package stub

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/ens"
)

// ErrUnknownName is returned for names the stub has no answer for.
var ErrUnknownName = errors.New("unknown name")

// Registry implements ens.Registry for testing.
type Registry struct {
	mu sync.Mutex

	Available map[string]bool
	Expiries  map[string]*ens.Expiry
	Prices    map[string]*ens.Price
	Errors    map[string]error // returned by every call for the name

	Calls     map[string]int // IsAvailable calls per name
	Durations []time.Duration
}

// NewRegistry creates a new stub registry.
func NewRegistry() *Registry {
	return &Registry{
		Available: make(map[string]bool),
		Expiries:  make(map[string]*ens.Expiry),
		Prices:    make(map[string]*ens.Price),
		Errors:    make(map[string]error),
		Calls:     make(map[string]int),
	}
}

// SetAvailable registers an available name with its price components in wei.
func (r *Registry) SetAvailable(name string, base, premium *big.Int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Available[name] = true
	r.Prices[name] = &ens.Price{Base: base, Premium: premium}
	delete(r.Expiries, name)
}

// SetRegistered registers an unavailable name with its status and expiry.
func (r *Registry) SetRegistered(name string, status domain.Status, expiry time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Available[name] = false
	r.Expiries[name] = &ens.Expiry{Status: status, Expiry: expiry}
	delete(r.Prices, name)
}

// SetError makes every call for name fail with err.
func (r *Registry) SetError(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Errors[name] = err
}

// CallCount returns how many times name was resolved.
func (r *Registry) CallCount(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.Calls[name]
}

// TotalCalls returns the number of IsAvailable calls across all names.
func (r *Registry) TotalCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	total := 0
	for _, n := range r.Calls {
		total += n
	}
	return total
}

// IsAvailable returns the stubbed availability.
func (r *Registry) IsAvailable(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Calls[name]++
	if err, ok := r.Errors[name]; ok {
		return false, err
	}
	available, ok := r.Available[name]
	if !ok {
		return false, fmt.Errorf("%s: %w", name, ErrUnknownName)
	}
	return available, nil
}

// GetExpiry returns the stubbed expiry.
func (r *Registry) GetExpiry(_ context.Context, name string) (*ens.Expiry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.Errors[name]; ok {
		return nil, err
	}
	e, ok := r.Expiries[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownName)
	}
	eCopy := *e
	return &eCopy, nil
}

// GetPrice returns the stubbed price and records the requested duration.
func (r *Registry) GetPrice(_ context.Context, name string, duration time.Duration) (*ens.Price, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Durations = append(r.Durations, duration)
	if err, ok := r.Errors[name]; ok {
		return nil, err
	}
	p, ok := r.Prices[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownName)
	}
	return &ens.Price{Base: p.Base, Premium: p.Premium}, nil
}

// Compile-time interface check.
var _ ens.Registry = (*Registry)(nil)
