// Package ethrpc provides a minimal Ethereum JSON-RPC client for read-only contract calls.
package ethrpc

import (
	"context"
	"fmt"
	"net/url"
)

// Caller defines the Ethereum JSON-RPC subset needed for contract reads.
type Caller interface {
	// Call executes eth_call against the latest block and returns the raw return data.
	Call(ctx context.Context, to string, data []byte) ([]byte, error)

	// ChainID returns the chain id reported by the endpoint.
	ChainID(ctx context.Context) (uint64, error)
}

// Client is a Caller bound to a transport that must be closed.
type Client interface {
	Caller
	Close() error
}

// Dial creates a client for endpoint, choosing HTTP or WebSocket by URL scheme.
func Dial(ctx context.Context, endpoint string, opts ...ClientOption) (Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse rpc endpoint: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(endpoint, opts...), nil
	case "ws", "wss":
		return NewWSClient(ctx, endpoint, wsConfig(opts))
	default:
		return nil, fmt.Errorf("unsupported rpc endpoint scheme %q", u.Scheme)
	}
}

// wsConfig maps client options onto the WebSocket transport. The request
// timeout bounds each response read; retry settings drive reconnects.
func wsConfig(opts []ClientOption) *WSClientConfig {
	h := NewHTTPClient("", opts...)

	cfg := DefaultWSConfig()
	cfg.MaxRetries = h.maxRetries
	cfg.ReconnectDelay = h.retryDelay
	cfg.MaxReconnectDelay = h.maxDelay
	if h.client.Timeout > 0 {
		cfg.ReadTimeout = h.client.Timeout
	}
	return &cfg
}

// callParams builds eth_call params for a read at the latest block.
func callParams(to string, data []byte) []interface{} {
	return []interface{}{
		map[string]string{
			"to":   to,
			"data": EncodeHex(data),
		},
		"latest",
	}
}
