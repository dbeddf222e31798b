package rpc

import (
	"context"
	"math/big"

	"github.com/halverson/walletsync/internal/chain"
)

// Failover reads chain data through a primary endpoint and falls back
// to backup endpoints when a call fails. Endpoints are tried in order
// on every call; a context cancellation stops the sweep immediately.
type Failover struct {
	clients []*Client
	logger  logWriter
}

// logWriter is the logging surface Failover needs.
type logWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

type nopLog struct{}

func (nopLog) Debug(string, ...any) {}
func (nopLog) Error(string, ...any) {}

// FailoverOptions configures a Failover reader.
type FailoverOptions struct {
	// Limiter throttles outbound calls, shared across all endpoints.
	Limiter *chain.RateLimiter

	// Logger records endpoint failures. Nil disables logging.
	Logger interface {
		Debug(format string, args ...any)
		Error(format string, args ...any)
	}
}

// NewFailover creates a Failover over the given endpoint URLs, primary
// first. At least one URL is required.
func NewFailover(urls []string, opts *FailoverOptions) (*Failover, error) {
	if len(urls) == 0 || urls[0] == "" {
		return nil, ErrRPCURLRequired
	}

	var clientOpts *ClientOptions
	var logger logWriter = nopLog{}

	if opts != nil {
		clientOpts = &ClientOptions{Limiter: opts.Limiter}
		if opts.Logger != nil {
			logger = opts.Logger
		}
	}

	clients := make([]*Client, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		clients = append(clients, NewClientWithOptions(url, clientOpts))
	}

	return &Failover{clients: clients, logger: logger}, nil
}

// ChainID returns the chain ID from the first responding endpoint.
func (f *Failover) ChainID(ctx context.Context) (*big.Int, error) {
	var lastErr error

	for i, c := range f.clients {
		id, err := c.ChainID(ctx)
		if err == nil {
			return id, nil
		}

		lastErr = err
		f.logger.Debug("endpoint %d chain ID failed: %v", i, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// GetBalance returns the balance from the first responding endpoint.
func (f *Failover) GetBalance(ctx context.Context, address, block string) (*big.Int, error) {
	var lastErr error

	for i, c := range f.clients {
		bal, err := c.GetBalance(ctx, address, block)
		if err == nil {
			return bal, nil
		}

		lastErr = err
		f.logger.Debug("endpoint %d balance failed: %v", i, err)

		if ctx.Err() != nil {
			break
		}
	}

	return nil, lastErr
}

// Close closes all underlying clients.
func (f *Failover) Close() {
	for _, c := range f.clients {
		c.Close()
	}
}
