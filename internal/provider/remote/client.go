// Package remote implements the provider contract over a WebSocket
// connection to a wallet agent. Requests are JSON-RPC 2.0 calls correlated
// by id; unsolicited frames carry provider events.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/halverson/walletsync/internal/chain"
	"github.com/halverson/walletsync/internal/metrics"
	"github.com/halverson/walletsync/internal/provider"
	wserr "github.com/halverson/walletsync/pkg/errors"
)

const (
	// handshakeTimeout bounds the WebSocket dial.
	handshakeTimeout = 10 * time.Second

	// writeTimeout bounds a single frame write.
	writeTimeout = 10 * time.Second

	// eventBufferSize is the dispatch queue depth. Events beyond it are
	// dropped rather than blocking the read loop.
	eventBufferSize = 64
)

// Compile-time interface check
var _ provider.Provider = (*Client)(nil)

// Options contains optional configuration for the remote provider client.
type Options struct {
	// Limiter throttles outbound requests. Nil disables throttling.
	Limiter *chain.RateLimiter
}

// Client is a WebSocket-backed wallet provider.
type Client struct {
	url  string
	conn *websocket.Conn

	// Write serialization
	writeMu sync.Mutex

	// Guards pending, handlers, closed
	mu       sync.Mutex
	pending  map[uint64]chan callResult
	handlers map[provider.Event]map[string]provider.Handler
	closed   bool

	limiter   *chain.RateLimiter
	idCounter atomic.Uint64

	events chan notification
	done   chan struct{}
}

// callResult carries the outcome of a correlated request.
type callResult struct {
	result json.RawMessage
	err    error
}

// notification is a provider-pushed event frame.
type notification struct {
	event   provider.Event
	payload json.RawMessage
}

// frame is the wire format for both requests and responses/notifications.
type frame struct {
	JSONRPC string             `json:"jsonrpc,omitempty"`
	ID      *uint64            `json:"id,omitempty"`
	Method  string             `json:"method,omitempty"`
	Params  json.RawMessage    `json:"params,omitempty"`
	Result  json.RawMessage    `json:"result,omitempty"`
	Error   *provider.RPCError `json:"error,omitempty"`
}

// Dial connects to the wallet agent and starts the read and dispatch loops.
func Dial(ctx context.Context, url string, opts *Options) (*Client, error) {
	if url == "" {
		return nil, wserr.ErrProviderNotFound
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}

	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, wserr.Wrap(wserr.ErrProviderNotFound, "dialing wallet agent at %s", url)
	}

	c := &Client{
		url:      url,
		conn:     conn,
		pending:  make(map[uint64]chan callResult),
		handlers: make(map[provider.Event]map[string]provider.Handler),
		events:   make(chan notification, eventBufferSize),
		done:     make(chan struct{}),
	}

	if opts != nil {
		c.limiter = opts.Limiter
	}

	go c.readLoop()
	go c.dispatchLoop()

	return c, nil
}

// Request performs a JSON-RPC call over the WebSocket connection.
func (c *Client) Request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	result, err := c.request(ctx, method, params...)
	metrics.Global.RecordProviderCall(err)
	return result, err
}

func (c *Client) request(ctx context.Context, method string, params ...any) (json.RawMessage, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, c.url); err != nil {
			return nil, err
		}
	}

	if params == nil {
		params = []any{}
	}

	rawParams, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshaling params: %w", err)
	}

	id := c.idCounter.Add(1)
	ch := make(chan callResult, 1)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, wserr.ErrProviderClosed
	}
	c.pending[id] = ch
	c.mu.Unlock()

	req := frame{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
		Params:  rawParams,
	}

	if err := c.write(req); err != nil {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, fmt.Errorf("sending request: %w", err)
	}

	select {
	case <-ctx.Done():
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
		return nil, ctx.Err()
	case <-c.done:
		return nil, wserr.ErrProviderClosed
	case res := <-ch:
		return res.result, res.err
	}
}

// Subscribe registers a handler for a provider event.
func (c *Client) Subscribe(event provider.Event, h provider.Handler) (*provider.Subscription, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, wserr.ErrProviderClosed
	}

	if c.handlers[event] == nil {
		c.handlers[event] = make(map[string]provider.Handler)
	}

	key := uuid.NewString()
	c.handlers[event][key] = h

	return provider.NewSubscription(event, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.handlers[event], key)
	}), nil
}

// Close tears down the connection, fails pending requests, and drops
// all subscriptions.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	// Fail all in-flight requests
	for id, ch := range c.pending {
		ch <- callResult{err: wserr.ErrProviderClosed}
		delete(c.pending, id)
	}
	c.handlers = make(map[provider.Event]map[string]provider.Handler)
	c.mu.Unlock()

	close(c.done)

	// Best-effort close handshake
	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}

// write serializes frame writes to the connection.
func (c *Client) write(f frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(f)
}

// readLoop reads frames from the connection and routes them to pending
// calls or the event dispatch queue.
func (c *Client) readLoop() {
	for {
		var f frame
		if err := c.conn.ReadJSON(&f); err != nil {
			select {
			case <-c.done:
			default:
				c.failPending(wserr.Wrap(wserr.ErrProviderClosed, "reading frame"))
			}
			return
		}

		switch {
		case f.ID != nil:
			c.deliver(*f.ID, f)
		case f.Method != "":
			n := notification{
				event:   provider.Event(f.Method),
				payload: f.Params,
			}
			select {
			case c.events <- n:
			case <-c.done:
				return
			default:
				// Dispatch queue full; drop rather than block reads.
			}
		}
	}
}

// deliver completes a pending call with the response frame.
func (c *Client) deliver(id uint64, f frame) {
	c.mu.Lock()
	ch, ok := c.pending[id]
	if ok {
		delete(c.pending, id)
	}
	c.mu.Unlock()

	if !ok {
		return
	}

	if f.Error != nil {
		ch <- callResult{err: f.Error}
		return
	}
	ch <- callResult{result: f.Result}
}

// failPending terminates all in-flight requests with err.
func (c *Client) failPending(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, ch := range c.pending {
		ch <- callResult{err: err}
		delete(c.pending, id)
	}
}

// dispatchLoop invokes subscribed handlers for queued events.
func (c *Client) dispatchLoop() {
	for {
		select {
		case <-c.done:
			return
		case n := <-c.events:
			metrics.Global.RecordEvent(string(n.event))

			c.mu.Lock()
			hs := make([]provider.Handler, 0, len(c.handlers[n.event]))
			for _, h := range c.handlers[n.event] {
				hs = append(hs, h)
			}
			c.mu.Unlock()

			for _, h := range hs {
				h(n.payload)
			}
		}
	}
}
