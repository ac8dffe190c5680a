package ens

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"ens-name-tracker/internal/domain"
	"ens-name-tracker/internal/ethrpc"
)

// Mainnet contract addresses.
const (
	MainnetController    = "0x253553366Da8546fC250F225fe3d25d0C782303b" // ETHRegistrarController
	MainnetBaseRegistrar = "0x57f1887a8BF19b14fC0dF6Fd9B2acc9Af147eA85" // BaseRegistrarImplementation
)

// ErrNotRegistered is returned by GetExpiry when the registrar has no expiry for the name.
var ErrNotRegistered = errors.New("name has no registration")

// ContractRegistryOptions contains configuration for creating a ContractRegistry.
type ContractRegistryOptions struct {
	Controller    string           // Default: MainnetController
	BaseRegistrar string           // Default: MainnetBaseRegistrar
	Now           func() time.Time // Default: time.Now
}

// ContractRegistry implements Registry with eth_call reads against the ENS .eth registrar.
type ContractRegistry struct {
	caller        ethrpc.Caller
	controller    string
	baseRegistrar string
	now           func() time.Time

	graceMu     sync.Mutex
	gracePeriod time.Duration
	graceLoaded bool
}

// NewContractRegistry creates a registry reading through caller.
func NewContractRegistry(caller ethrpc.Caller, opts ContractRegistryOptions) *ContractRegistry {
	controller := opts.Controller
	if controller == "" {
		controller = MainnetController
	}

	baseRegistrar := opts.BaseRegistrar
	if baseRegistrar == "" {
		baseRegistrar = MainnetBaseRegistrar
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &ContractRegistry{
		caller:        caller,
		controller:    controller,
		baseRegistrar: baseRegistrar,
		now:           now,
	}
}

// Compile-time interface check.
var _ Registry = (*ContractRegistry)(nil)

// IsAvailable calls available(label) on the controller.
func (r *ContractRegistry) IsAvailable(ctx context.Context, name string) (bool, error) {
	label, err := ethLabel(name)
	if err != nil {
		return false, err
	}

	out, err := r.caller.Call(ctx, r.controller, packString(selAvailable, label))
	if err != nil {
		return false, fmt.Errorf("available(%s): %w", label, err)
	}
	return decodeBool(out)
}

// GetExpiry reads nameExpires(labelhash) and derives the status using the registrar grace period.
func (r *ContractRegistry) GetExpiry(ctx context.Context, name string) (*Expiry, error) {
	label, err := ethLabel(name)
	if err != nil {
		return nil, err
	}

	lh := Labelhash(label)
	tokenID := new(big.Int).SetBytes(lh[:])

	out, err := r.caller.Call(ctx, r.baseRegistrar, packUint(selNameExpires, tokenID))
	if err != nil {
		return nil, fmt.Errorf("nameExpires(%s): %w", label, err)
	}
	expires, err := decodeUint256(out)
	if err != nil {
		return nil, err
	}
	if expires.Sign() == 0 {
		return nil, fmt.Errorf("%s: %w", name, ErrNotRegistered)
	}
	if !expires.IsInt64() {
		return nil, fmt.Errorf("nameExpires(%s): value out of range: %s", label, expires)
	}

	grace, err := r.loadGracePeriod(ctx)
	if err != nil {
		return nil, err
	}

	expiry := time.Unix(expires.Int64(), 0)
	return &Expiry{
		Status: classify(expiry, grace, r.now()),
		Expiry: expiry,
	}, nil
}

// GetPrice calls rentPrice(label, seconds) on the controller.
func (r *ContractRegistry) GetPrice(ctx context.Context, name string, duration time.Duration) (*Price, error) {
	label, err := ethLabel(name)
	if err != nil {
		return nil, err
	}

	seconds := big.NewInt(int64(duration / time.Second))
	out, err := r.caller.Call(ctx, r.controller, packStringUint(selRentPrice, label, seconds))
	if err != nil {
		return nil, fmt.Errorf("rentPrice(%s): %w", label, err)
	}

	base, premium, err := decodeUint256Pair(out)
	if err != nil {
		return nil, err
	}
	return &Price{Base: base, Premium: premium}, nil
}

// loadGracePeriod reads GRACE_PERIOD() once and caches it.
func (r *ContractRegistry) loadGracePeriod(ctx context.Context) (time.Duration, error) {
	r.graceMu.Lock()
	defer r.graceMu.Unlock()

	if r.graceLoaded {
		return r.gracePeriod, nil
	}

	out, err := r.caller.Call(ctx, r.baseRegistrar, selGracePeriod)
	if err != nil {
		return 0, fmt.Errorf("GRACE_PERIOD(): %w", err)
	}
	v, err := decodeUint256(out)
	if err != nil {
		return 0, err
	}
	if !v.IsInt64() {
		return 0, fmt.Errorf("GRACE_PERIOD(): value out of range: %s", v)
	}

	r.gracePeriod = time.Duration(v.Int64()) * time.Second
	r.graceLoaded = true
	return r.gracePeriod, nil
}

// classify derives the status of a registration at now.
func classify(expiry time.Time, grace time.Duration, now time.Time) domain.Status {
	switch {
	case now.Before(expiry):
		return domain.StatusActive
	case now.Before(expiry.Add(grace)):
		return domain.StatusGracePeriod
	default:
		return domain.StatusExpired
	}
}

// ethLabel extracts the label of a normalized second-level .eth name.
func ethLabel(name string) (string, error) {
	label, ok := strings.CutSuffix(name, domain.NameSuffix)
	if !ok || label == "" || strings.Contains(label, ".") {
		return "", fmt.Errorf("not a second-level .eth name: %q", name)
	}
	return label, nil
}
