package ens

import (
	"context"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ens-name-tracker/internal/domain"
)

// fakeCaller answers eth_call by function selector.
type fakeCaller struct {
	handlers map[string]func(to string, data []byte) ([]byte, error)
	calls    map[string]int
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{
		handlers: make(map[string]func(string, []byte) ([]byte, error)),
		calls:    make(map[string]int),
	}
}

func (f *fakeCaller) on(sel []byte, h func(to string, data []byte) ([]byte, error)) {
	f.handlers[hex.EncodeToString(sel)] = h
}

func (f *fakeCaller) Call(_ context.Context, to string, data []byte) ([]byte, error) {
	key := hex.EncodeToString(data[:4])
	f.calls[key]++
	h, ok := f.handlers[key]
	if !ok {
		return nil, errors.New("execution reverted")
	}
	return h(to, data)
}

func (f *fakeCaller) ChainID(context.Context) (uint64, error) {
	return 1, nil
}

func TestContractRegistry_IsAvailable(t *testing.T) {
	caller := newFakeCaller()
	caller.on(selAvailable, func(to string, data []byte) ([]byte, error) {
		assert.Equal(t, MainnetController, to)
		assert.Equal(t, packString(selAvailable, "vitalik"), data)
		return word(1), nil
	})

	r := NewContractRegistry(caller, ContractRegistryOptions{})
	ok, err := r.IsAvailable(context.Background(), "vitalik.eth")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestContractRegistry_RejectsNonETH(t *testing.T) {
	r := NewContractRegistry(newFakeCaller(), ContractRegistryOptions{})
	ctx := context.Background()

	_, err := r.IsAvailable(ctx, "example.com")
	assert.Error(t, err)

	_, err = r.IsAvailable(ctx, "sub.name.eth")
	assert.Error(t, err)

	_, err = r.GetPrice(ctx, ".eth", time.Hour)
	assert.Error(t, err)
}

func TestContractRegistry_GetExpiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	grace := int64(90 * 24 * 60 * 60)

	tests := []struct {
		name   string
		expiry time.Time
		want   domain.Status
	}{
		{"active", now.Add(10 * 24 * time.Hour), domain.StatusActive},
		{"grace", now.Add(-10 * 24 * time.Hour), domain.StatusGracePeriod},
		{"expired", now.Add(-100 * 24 * time.Hour), domain.StatusExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caller := newFakeCaller()
			caller.on(selNameExpires, func(to string, data []byte) ([]byte, error) {
				assert.Equal(t, MainnetBaseRegistrar, to)
				lh := Labelhash("abc")
				assert.Equal(t, lh[:], data[4:36])
				return word(tt.expiry.Unix()), nil
			})
			caller.on(selGracePeriod, func(string, []byte) ([]byte, error) {
				return word(grace), nil
			})

			r := NewContractRegistry(caller, ContractRegistryOptions{Now: func() time.Time { return now }})
			got, err := r.GetExpiry(context.Background(), "abc.eth")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
			assert.Equal(t, tt.expiry.Unix(), got.Expiry.Unix())
		})
	}
}

func TestContractRegistry_GracePeriodCached(t *testing.T) {
	caller := newFakeCaller()
	caller.on(selNameExpires, func(string, []byte) ([]byte, error) {
		return word(time.Now().Add(time.Hour).Unix()), nil
	})
	caller.on(selGracePeriod, func(string, []byte) ([]byte, error) {
		return word(7776000), nil
	})

	r := NewContractRegistry(caller, ContractRegistryOptions{})
	for i := 0; i < 3; i++ {
		_, err := r.GetExpiry(context.Background(), "abc.eth")
		require.NoError(t, err)
	}

	assert.Equal(t, 1, caller.calls[hex.EncodeToString(selGracePeriod)])
	assert.Equal(t, 3, caller.calls[hex.EncodeToString(selNameExpires)])
}

func TestContractRegistry_GetExpiry_NotRegistered(t *testing.T) {
	caller := newFakeCaller()
	caller.on(selNameExpires, func(string, []byte) ([]byte, error) {
		return word(0), nil
	})

	r := NewContractRegistry(caller, ContractRegistryOptions{})
	_, err := r.GetExpiry(context.Background(), "abc.eth")
	assert.ErrorIs(t, err, ErrNotRegistered)
}

func TestContractRegistry_GetPrice(t *testing.T) {
	base, _ := new(big.Int).SetString("3125000000000000", 10)
	premium := big.NewInt(0)

	caller := newFakeCaller()
	caller.on(selRentPrice, func(to string, data []byte) ([]byte, error) {
		assert.Equal(t, MainnetController, to)
		assert.Equal(t, packStringUint(selRentPrice, "abcde", big.NewInt(31557600)), data)
		return append(encodeUint256(base), encodeUint256(premium)...), nil
	})

	r := NewContractRegistry(caller, ContractRegistryOptions{})
	p, err := r.GetPrice(context.Background(), "abcde.eth", 31557600*time.Second)
	require.NoError(t, err)
	assert.Equal(t, 0, base.Cmp(p.Base))
	assert.Equal(t, 0, p.Premium.Sign())
	assert.Equal(t, 0, base.Cmp(p.Total()))
}

func TestContractRegistry_CallError(t *testing.T) {
	r := NewContractRegistry(newFakeCaller(), ContractRegistryOptions{})
	_, err := r.IsAvailable(context.Background(), "abc.eth")
	assert.Error(t, err)
}
