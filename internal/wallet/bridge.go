package wallet

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/halverson/walletsync/internal/provider"
	walleterrors "github.com/halverson/walletsync/pkg/errors"
)

// defaultEventTimeout bounds the chain fetches triggered by a single
// provider event.
const defaultEventTimeout = 30 * time.Second

// Bridge subscribes to provider events and folds them into the Store,
// so the connection state keeps following the wallet after the initial
// connect. Attach registers the subscriptions once; Close tears them
// down.
type Bridge struct {
	store   *Store
	prov    provider.Provider
	logger  LogWriter
	timeout time.Duration

	mu   sync.Mutex
	subs []*provider.Subscription
}

// BridgeOptions configures a Bridge. Store and Provider are required.
type BridgeOptions struct {
	Store    *Store
	Provider provider.Provider
	Logger   LogWriter

	// EventTimeout bounds the chain fetches a single event may
	// trigger. Zero selects the default.
	EventTimeout time.Duration
}

// NewBridge creates a detached Bridge.
func NewBridge(opts BridgeOptions) *Bridge {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	timeout := opts.EventTimeout
	if timeout <= 0 {
		timeout = defaultEventTimeout
	}

	return &Bridge{
		store:   opts.Store,
		prov:    opts.Provider,
		logger:  logger,
		timeout: timeout,
	}
}

// Attach subscribes to the provider's account, chain, and disconnect
// events. Attaching an already attached bridge is a no-op. Attach
// fails when no provider is present.
func (b *Bridge) Attach() error {
	if b.prov == nil {
		return walleterrors.ErrProviderNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.subs) > 0 {
		return nil
	}

	handlers := []struct {
		event   provider.Event
		handler provider.Handler
	}{
		{provider.EventAccountsChanged, b.onAccountsChanged},
		{provider.EventChainChanged, b.onChainChanged},
		{provider.EventDisconnect, b.onDisconnect},
	}

	subs := make([]*provider.Subscription, 0, len(handlers))

	for _, h := range handlers {
		sub, err := b.prov.Subscribe(h.event, h.handler)
		if err != nil {
			for _, s := range subs {
				s.Unsubscribe()
			}

			return walleterrors.Wrap(err, "subscribe to %s", h.event)
		}

		subs = append(subs, sub)
	}

	b.subs = subs
	b.logger.Debug("event bridge attached")

	return nil
}

// Close removes all event subscriptions. Closing a detached bridge is
// a no-op.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		sub.Unsubscribe()
	}

	b.subs = nil
}

// onAccountsChanged handles an account switch or a wallet-side
// disconnect. An empty account list means access was revoked, so the
// session ends. A new account becomes the active one with its chain
// data re-fetched.
func (b *Bridge) onAccountsChanged(payload json.RawMessage) {
	accounts, err := provider.DecodeAccounts(payload)
	if err != nil {
		b.logger.Error("malformed accountsChanged payload: %v", err)

		return
	}

	if len(accounts) == 0 {
		b.logger.Debug("accounts revoked, dropping connection")
		b.store.DropConnection()

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err = b.store.Refresh(ctx, accounts[0]); err != nil {
		b.logger.Error("account switch refresh: %v", err)
	}
}

// onChainChanged re-fetches chain data for the active account. The
// event payload carries the new chain ID, but the refresh reads it
// back from the chain so the snapshot and the balance always come from
// the same network.
func (b *Bridge) onChainChanged(payload json.RawMessage) {
	if _, err := provider.DecodeChainID(payload); err != nil {
		b.logger.Error("malformed chainChanged payload: %v", err)

		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	if err := b.store.Refresh(ctx, ""); err != nil {
		b.logger.Error("chain switch refresh: %v", err)
	}
}

// onDisconnect ends the session when the provider reports it can no
// longer serve requests.
func (b *Bridge) onDisconnect(payload json.RawMessage) {
	b.logger.Debug("provider disconnect event: %s", string(payload))
	b.store.DropConnection()
}
