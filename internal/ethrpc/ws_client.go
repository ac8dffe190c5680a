package ethrpc

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"ens-name-tracker/internal/observability"
)

// WSClientConfig configures WebSocket client behavior.
type WSClientConfig struct {
	// ReconnectDelay is initial delay before a retried request reconnects.
	ReconnectDelay time.Duration
	// MaxReconnectDelay is maximum delay between reconnect attempts.
	MaxReconnectDelay time.Duration
	// MaxRetries is the number of retries for a request after transport failures.
	MaxRetries int
	// HandshakeTimeout bounds the WebSocket upgrade.
	HandshakeTimeout time.Duration
	// ReadTimeout is timeout for reading a response.
	ReadTimeout time.Duration
	// WriteTimeout is timeout for writing a request.
	WriteTimeout time.Duration
}

// DefaultWSConfig returns default WebSocket configuration.
func DefaultWSConfig() WSClientConfig {
	return WSClientConfig{
		ReconnectDelay:    1 * time.Second,
		MaxReconnectDelay: 30 * time.Second,
		MaxRetries:        DefaultMaxRetries,
		HandshakeTimeout:  10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
	}
}

// WSClient implements Caller over a single WebSocket connection.
// Requests are serialized: one call is in flight at a time.
type WSClient struct {
	endpoint string
	config   WSClientConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64
}

// NewWSClient creates a new WebSocket client and connects to the endpoint.
func NewWSClient(ctx context.Context, endpoint string, config *WSClientConfig) (*WSClient, error) {
	cfg := DefaultWSConfig()
	if config != nil {
		cfg = *config
	}

	c := &WSClient{
		endpoint: endpoint,
		config:   cfg,
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()
	if err := c.connect(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// connect establishes WebSocket connection. Caller must hold connMu.
func (c *WSClient) connect(ctx context.Context) error {
	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.HandshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, c.endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket dial: %w", err)
	}

	c.conn = conn
	return nil
}

// dropConn closes a broken connection so the next attempt redials. Caller must hold connMu.
func (c *WSClient) dropConn() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

// call performs a JSON-RPC call, reconnecting and retrying on transport failures.
func (c *WSClient) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	if c.closed.Load() {
		return fmt.Errorf("client closed")
	}

	start := time.Now()
	defer func() {
		observability.RecordRPCLatency(method, time.Since(start).Seconds())
	}()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.config.ReconnectDelay
	b.MaxInterval = c.config.MaxReconnectDelay

	raw, err := backoff.Retry(ctx, func() (json.RawMessage, error) {
		return c.attempt(ctx, method, params)
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(c.config.MaxRetries+1)))
	if err != nil {
		var rpcErr *RPCError
		if errors.As(err, &rpcErr) {
			return rpcErr
		}
		return fmt.Errorf("%s: %w", method, err)
	}

	if result != nil && raw != nil {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("unmarshal result: %w", err)
		}
	}
	return nil
}

// attempt writes one request and reads until the matching response arrives.
func (c *WSClient) attempt(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.closed.Load() {
		return nil, backoff.Permanent(fmt.Errorf("client closed"))
	}
	if c.conn == nil {
		if err := c.connect(ctx); err != nil {
			return nil, err
		}
	}

	reqID := c.requestID.Add(1)
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      reqID,
		Method:  method,
		Params:  params,
	}

	c.conn.SetWriteDeadline(c.deadline(ctx, c.config.WriteTimeout))
	if err := c.conn.WriteJSON(req); err != nil {
		c.dropConn()
		return nil, fmt.Errorf("write request: %w", err)
	}

	// Unblock a pending read when ctx is cancelled
	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		conn.Close()
	})
	defer stop()

	for {
		c.conn.SetReadDeadline(c.deadline(ctx, c.config.ReadTimeout))
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.dropConn()
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			return nil, fmt.Errorf("read response: %w", err)
		}

		var resp rpcResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			// Not a response we understand; keep reading
			continue
		}
		if resp.ID != reqID {
			// Stale response or subscription notification
			continue
		}

		if resp.Error != nil {
			return nil, backoff.Permanent(resp.Error)
		}
		return resp.Result, nil
	}
}

// deadline returns the earlier of the context deadline and now+timeout.
func (c *WSClient) deadline(ctx context.Context, timeout time.Duration) time.Time {
	d := time.Now().Add(timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(d) {
		return ctxDeadline
	}
	return d
}

// Call executes eth_call against the latest block.
func (c *WSClient) Call(ctx context.Context, to string, data []byte) ([]byte, error) {
	var result string
	if err := c.call(ctx, "eth_call", callParams(to, data), &result); err != nil {
		return nil, err
	}
	return DecodeHex(result)
}

// ChainID returns the chain id reported by the endpoint.
func (c *WSClient) ChainID(ctx context.Context) (uint64, error) {
	var result string
	if err := c.call(ctx, "eth_chainId", []interface{}{}, &result); err != nil {
		return 0, err
	}
	return DecodeQuantity(result)
}

// Close closes the WebSocket connection.
func (c *WSClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	c.connMu.Lock()
	defer c.connMu.Unlock()

	if c.conn == nil {
		return nil
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	err := c.conn.Close()
	c.conn = nil
	return err
}

// Compile-time interface check.
var _ Client = (*WSClient)(nil)
