// Package resolver classifies a name into a Record from registry answers.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/ens"
)

// RegistrationDuration is the fixed price-quote duration: one 365.25-day year.
const RegistrationDuration = 31557600 * time.Second

// weiExponent scales wei to ether.
const weiExponent = -18

// UpstreamError reports a failed or malformed registry answer for one name.
type UpstreamError struct {
	Name string
	Op   string
	Err  error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s for %s: %v", e.Op, e.Name, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// errEmptyAnswer marks a nil answer from the registry.
var errEmptyAnswer = errors.New("empty answer")

// Resolver turns registry answers into classified records.
type Resolver struct {
	registry ens.Registry
}

// New creates a Resolver backed by registry.
func New(registry ens.Registry) *Resolver {
	return &Resolver{registry: registry}
}

// Resolve queries availability and then either expiry or price for name.
// Registry failures are returned as *UpstreamError.
func (r *Resolver) Resolve(ctx context.Context, name, label string) (*domain.Record, error) {
	available, err := r.registry.IsAvailable(ctx, name)
	if err != nil {
		return nil, &UpstreamError{Name: name, Op: "isAvailable", Err: err}
	}

	if !available {
		return r.resolveRegistered(ctx, name, label)
	}
	return r.resolveAvailable(ctx, name, label)
}

// resolveRegistered classifies a name the registry reports as not available.
// A registrar answering "expired" here is reported as available, as returned.
func (r *Resolver) resolveRegistered(ctx context.Context, name, label string) (*domain.Record, error) {
	expiry, err := r.registry.GetExpiry(ctx, name)
	if err != nil {
		return nil, &UpstreamError{Name: name, Op: "getExpiry", Err: err}
	}
	if expiry == nil {
		return nil, &UpstreamError{Name: name, Op: "getExpiry", Err: errEmptyAnswer}
	}
	if !expiry.Status.IsValid() {
		return nil, &UpstreamError{Name: name, Op: "getExpiry", Err: fmt.Errorf("unknown status %q", expiry.Status)}
	}

	return &domain.Record{
		Name:      name,
		Available: expiry.Status == domain.StatusExpired,
		Expiry:    expiry.Expiry.UnixMilli(),
		Price:     0,
		Status:    expiry.Status,
		Label:     label,
	}, nil
}

// resolveAvailable prices an available name for one year.
func (r *Resolver) resolveAvailable(ctx context.Context, name, label string) (*domain.Record, error) {
	price, err := r.registry.GetPrice(ctx, name, RegistrationDuration)
	if err != nil {
		return nil, &UpstreamError{Name: name, Op: "getPrice", Err: err}
	}
	if price == nil {
		return nil, &UpstreamError{Name: name, Op: "getPrice", Err: errEmptyAnswer}
	}

	return &domain.Record{
		Name:      name,
		Available: true,
		Expiry:    0,
		Price:     WeiToEther(price),
		Status:    domain.StatusExpired,
		Label:     label,
	}, nil
}

// WeiToEther converts (base + premium) wei to ether.
func WeiToEther(p *ens.Price) float64 {
	return decimal.NewFromBigInt(p.Total(), weiExponent).InexactFloat64()
}
