package valkey

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	valkeylib "github.com/valkey-io/valkey-go"
)

const (
	// DefaultConnectTimeout is the maximum time to wait for one connection attempt.
	DefaultConnectTimeout = 5 * time.Second
	// DefaultMaxAttempts bounds how often the initial connection is retried.
	DefaultMaxAttempts = 3
	// DefaultRetryBackoff is the base delay between attempts; the actual delay
	// grows linearly per attempt and is capped by MaxRetryBackoff.
	DefaultRetryBackoff = 500 * time.Millisecond
	// MaxRetryBackoff caps the delay between connection attempts.
	MaxRetryBackoff = 2 * time.Second
)

// State is the observable connection state of the client.
type State string

const (
	StateDisconnected State = "disconnected"
	StateConnecting   State = "connecting"
	StateConnected    State = "connected"
	StateFailed       State = "failed"
)

// Config holds the configuration for creating a Valkey client.
type Config struct {
	Address        string
	Password       string
	DB             int
	KeyPrefix      string        // optional; applied to every stored key by the repository
	ConnectTimeout time.Duration // per attempt, defaults to DefaultConnectTimeout
	MaxAttempts    int           // defaults to DefaultMaxAttempts
	RetryBackoff   time.Duration // defaults to DefaultRetryBackoff
}

// Client wraps the valkey-go client with connection-state tracking. The
// connection is process-wide: create one Client at startup and share it.
// After the bounded retries are exhausted the client stays in StateFailed
// and every operation degrades; reconnection is not attempted again.
type Client struct {
	mu        sync.RWMutex
	inner     valkeylib.Client
	state     State
	keyPrefix string
}

// NewClient dials Valkey with a bounded retry policy. On total failure it
// still returns a usable *Client (in StateFailed) alongside the error, so
// callers can keep wiring the degraded service and observe the state.
func NewClient(cfg Config) (*Client, error) {
	prefix := cfg.KeyPrefix
	if prefix != "" && !strings.HasSuffix(prefix, ":") {
		prefix += ":"
	}

	client := &Client{state: StateDisconnected, keyPrefix: prefix}

	timeout := cfg.ConnectTimeout
	if timeout == 0 {
		timeout = DefaultConnectTimeout
	}
	attempts := cfg.MaxAttempts
	if attempts <= 0 {
		attempts = DefaultMaxAttempts
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = DefaultRetryBackoff
	}

	opts := valkeylib.ClientOption{
		InitAddress: []string{cfg.Address},
		SelectDB:    cfg.DB,
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	client.setState(StateConnecting)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		inner, err := valkeylib.NewClient(opts)
		if err == nil {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			err = inner.Do(ctx, inner.B().Ping().Build()).Error()
			cancel()
			if err == nil {
				client.mu.Lock()
				client.inner = inner
				client.state = StateConnected
				client.mu.Unlock()
				return client, nil
			}
			inner.Close()
		}

		lastErr = err
		if attempt < attempts {
			delay := time.Duration(attempt) * backoff
			if delay > MaxRetryBackoff {
				delay = MaxRetryBackoff
			}
			logrus.WithError(err).Warnf("[STORE] valkey connection attempt %d/%d failed, retrying in %v", attempt, attempts, delay)
			time.Sleep(delay)
		}
	}

	client.setState(StateFailed)
	return client, fmt.Errorf("failed to connect to valkey at %s after %d attempts: %w", cfg.Address, attempts, lastErr)
}

// Inner returns the underlying valkey-go client, or nil when the connection
// was never established.
func (c *Client) Inner() valkeylib.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inner
}

// Ready reports whether the client reached StateConnected.
func (c *Client) Ready() bool {
	return c.State() == StateConnected
}

// State returns the current connection state.
func (c *Client) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) setState(state State) {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
}

// Close closes the Valkey connection.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inner != nil {
		c.inner.Close()
		c.inner = nil
	}
	c.state = StateDisconnected
}

// Key constructs a prefixed key from the given parts.
func (c *Client) Key(parts ...string) string {
	if len(parts) == 0 {
		return strings.TrimSuffix(c.keyPrefix, ":")
	}
	key := c.keyPrefix
	for i, p := range parts {
		key += p
		if i < len(parts)-1 {
			key += ":"
		}
	}
	return key
}

// Ping tests the connection with a context for timeout control. It reports
// an error instead of blocking when the connection was never established.
func (c *Client) Ping(ctx context.Context) error {
	inner := c.Inner()
	if inner == nil {
		return fmt.Errorf("valkey client is not connected (state: %s)", c.State())
	}
	return inner.Do(ctx, inner.B().Ping().Build()).Error()
}

// IsNil checks if an error returned by the client represents a Valkey NIL response.
func IsNil(err error) bool {
	return valkeylib.IsValkeyNil(err)
}
