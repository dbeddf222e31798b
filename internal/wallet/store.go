package wallet

import (
	"context"
	"sync"

	"github.com/halverson/walletsync/internal/chain"
	"github.com/halverson/walletsync/internal/metrics"
	"github.com/halverson/walletsync/internal/provider"
	walleterrors "github.com/halverson/walletsync/pkg/errors"
)

// watchBuffer is the per-watcher channel capacity. A watcher that
// falls this far behind misses intermediate snapshots but always
// receives a later one.
const watchBuffer = 16

// Store holds the wallet connection state and serializes all
// transitions. Snapshots are value copies, so readers never observe a
// partially applied transition.
type Store struct {
	provider provider.Provider
	reader   ChainReader
	flag     ReconnectFlag
	scratch  ScratchStore
	logger   LogWriter

	mu       sync.Mutex
	state    State
	gen      uint64
	watchers map[uint64]chan State
	nextID   uint64
}

// StoreOptions configures a Store. Provider and Reader are required
// for Connect and Resume; the rest may be nil.
type StoreOptions struct {
	Provider provider.Provider
	Reader   ChainReader
	Flag     ReconnectFlag
	Scratch  ScratchStore
	Logger   LogWriter
}

// NewStore creates a Store in the disconnected state.
func NewStore(opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = nopLogger{}
	}

	return &Store{
		provider: opts.Provider,
		reader:   opts.Reader,
		flag:     opts.Flag,
		scratch:  opts.Scratch,
		logger:   logger,
		watchers: make(map[uint64]chan State),
	}
}

// nopLogger discards all messages.
type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Snapshot returns a copy of the current connection state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Watch registers a watcher that receives every state change after
// registration. Slow watchers skip intermediate snapshots rather than
// block the store. The returned cancel func releases the watcher and
// closes the channel.
func (s *Store) Watch() (<-chan State, func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	ch := make(chan State, watchBuffer)
	s.watchers[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if _, ok := s.watchers[id]; ok {
			delete(s.watchers, id)
			close(ch)
		}
	}

	return ch, cancel
}

// notifyLocked fans the current state out to all watchers. Callers
// must hold s.mu.
func (s *Store) notifyLocked() {
	for _, ch := range s.watchers {
		select {
		case ch <- s.state:
		default:
			// Watcher is behind; it will catch up on a later change.
		}
	}
}

// Connect requests account access from the provider and, on approval,
// populates the connection state with the first granted account, the
// chain ID, and the account balance. A user rejection surfaces as
// errors.ErrUserRejected and leaves the store disconnected with the
// rejection message in the snapshot.
func (s *Store) Connect(ctx context.Context) error {
	if s.provider == nil {
		err := walleterrors.ErrProviderNotFound
		s.mu.Lock()
		s.gen++
		s.state = State{Err: err.Message}
		s.notifyLocked()
		s.mu.Unlock()
		metrics.Global.RecordConnect(err)

		return err
	}

	s.mu.Lock()
	if s.state.Connecting {
		s.mu.Unlock()

		return walleterrors.ErrAlreadyConnecting
	}

	s.gen++
	gen := s.gen
	s.state = State{Connecting: true}
	s.notifyLocked()
	s.mu.Unlock()

	raw, err := s.provider.Request(ctx, provider.MethodRequestAccounts)
	if err != nil {
		return s.failConnect(gen, normalizeConnectError(err))
	}

	accounts, err := provider.DecodeAccounts(raw)
	if err != nil {
		return s.failConnect(gen, walleterrors.Wrap(walleterrors.ErrNetworkError, "malformed accounts response: %v", err))
	}

	if len(accounts) == 0 {
		return s.failConnect(gen, walleterrors.ErrNoAccounts)
	}

	committed, err := s.finishConnect(ctx, gen, accounts[0])
	if err != nil {
		return s.failConnect(gen, err)
	}

	if committed && s.flag != nil {
		if flagErr := s.flag.Set(); flagErr != nil {
			s.logger.Error("persist reconnect flag: %v", flagErr)
		}
	}

	metrics.Global.RecordConnect(nil)

	return nil
}

// Resume restores a connection silently using already granted
// permissions. It acts only when the reconnect flag is set, never
// prompts, and clears the flag instead of surfacing an error when
// restoration fails.
func (s *Store) Resume(ctx context.Context) error {
	metrics.Global.RecordResume()

	if s.flag == nil || !s.flag.IsSet() {
		return nil
	}

	if s.provider == nil {
		return s.abandonResume("no provider available")
	}

	raw, err := s.provider.Request(ctx, provider.MethodAccounts)
	if err != nil {
		return s.abandonResume("accounts request failed: %v", err)
	}

	accounts, err := provider.DecodeAccounts(raw)
	if err != nil {
		return s.abandonResume("malformed accounts response: %v", err)
	}

	if len(accounts) == 0 {
		return s.abandonResume("no accounts granted")
	}

	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if _, err = s.finishConnect(ctx, gen, accounts[0]); err != nil {
		return s.abandonResume("state fetch failed: %v", err)
	}

	return nil
}

// abandonResume gives up on a silent resume, leaving the store
// disconnected with no error surfaced.
func (s *Store) abandonResume(format string, args ...any) error {
	s.logger.Debug("resume abandoned: "+format, args...)

	if s.flag != nil {
		if err := s.flag.Clear(); err != nil {
			s.logger.Error("clear reconnect flag: %v", err)
		}
	}

	return nil
}

// finishConnect fetches the chain ID and balance for the account and
// commits the connected snapshot. The commit is discarded, and false
// returned, when another transition superseded this attempt while the
// fetches were in flight.
func (s *Store) finishConnect(ctx context.Context, gen uint64, account string) (bool, error) {
	addr, err := chain.NormalizeAddress(account)
	if err != nil {
		return false, err
	}

	chainID, err := s.reader.ChainID(ctx)
	if err != nil {
		return false, walleterrors.Wrap(walleterrors.ErrNetworkError, "fetch chain ID: %v", err)
	}

	balance, err := s.reader.GetBalance(ctx, addr, "latest")
	if err != nil {
		return false, walleterrors.Wrap(walleterrors.ErrNetworkError, "fetch balance: %v", err)
	}

	next := State{
		Address:   addr,
		Connected: true,
		ChainID:   chainID.String(),
		Balance:   chain.FormatBalance(balance),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		metrics.Global.RecordStaleDiscard()
		s.logger.Debug("discarding superseded connect for %s", addr)

		return false, nil
	}

	s.state = next
	s.notifyLocked()
	s.logger.Debug("connected %s on chain %s", next.Address, next.ChainID)

	return true, nil
}

// failConnect records a failed connect attempt. The store returns to
// the disconnected state with the failure message in the snapshot,
// unless a later transition already superseded this attempt.
func (s *Store) failConnect(gen uint64, err error) error {
	metrics.Global.RecordConnect(err)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		metrics.Global.RecordStaleDiscard()

		return err
	}

	s.state = State{Err: err.Error()}
	s.notifyLocked()
	s.logger.Debug("connect failed: %v", err)

	return err
}

// normalizeConnectError maps provider errors to the error taxonomy. A
// user rejection always surfaces with the same message regardless of
// how the provider phrased it.
func normalizeConnectError(err error) error {
	if provider.IsUserRejection(err) {
		return walleterrors.ErrUserRejected
	}

	return walleterrors.Wrap(walleterrors.ErrNetworkError, "account request failed: %v", err)
}

// Disconnect resets the store to the disconnected state, clears the
// reconnect flag and scratch data, and asks the provider to revoke the
// account permission. Revocation support is optional on the provider
// side, so revoke failures are logged and swallowed. Disconnecting an
// already disconnected store is a no-op that still succeeds.
func (s *Store) Disconnect(ctx context.Context) error {
	s.reset()
	metrics.Global.RecordDisconnect()

	if s.provider != nil {
		revokeParams := map[string]any{"eth_accounts": map[string]any{}}
		if _, err := s.provider.Request(ctx, provider.MethodRevokePermissions, revokeParams); err != nil {
			s.logger.Debug("revoke permissions unsupported or failed: %v", err)
		}
	}

	return nil
}

// DropConnection resets the store to the disconnected state without
// contacting the provider. The bridge uses it when the provider
// reports the session is gone.
func (s *Store) DropConnection() {
	s.reset()
	metrics.Global.RecordDisconnect()
}

// reset returns the store to the zero state and clears persisted
// session data.
func (s *Store) reset() {
	s.mu.Lock()
	s.gen++
	s.state = State{}
	s.notifyLocked()
	s.mu.Unlock()

	if s.flag != nil {
		if err := s.flag.Clear(); err != nil {
			s.logger.Error("clear reconnect flag: %v", err)
		}
	}

	if s.scratch != nil {
		if err := s.scratch.Clear(); err != nil {
			s.logger.Error("clear scratch data: %v", err)
		}
	}
}

// Refresh re-fetches the chain ID and balance and merges them into the
// connected snapshot. When account is non-empty the active account is
// switched to it first. Refresh is a no-op unless the store is
// connected.
func (s *Store) Refresh(ctx context.Context, account string) error {
	s.mu.Lock()
	if !s.state.Connected {
		s.mu.Unlock()

		return nil
	}

	s.gen++
	gen := s.gen
	addr := s.state.Address
	s.mu.Unlock()

	if account != "" {
		normalized, err := chain.NormalizeAddress(account)
		if err != nil {
			return err
		}

		addr = normalized
	}

	chainID, err := s.reader.ChainID(ctx)
	if err != nil {
		return s.failRefresh(gen, walleterrors.Wrap(walleterrors.ErrNetworkError, "fetch chain ID: %v", err))
	}

	balance, err := s.reader.GetBalance(ctx, addr, "latest")
	if err != nil {
		return s.failRefresh(gen, walleterrors.Wrap(walleterrors.ErrNetworkError, "fetch balance: %v", err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gen != gen {
		metrics.Global.RecordStaleDiscard()

		return nil
	}

	s.state.Address = addr
	s.state.ChainID = chainID.String()
	s.state.Balance = chain.FormatBalance(balance)
	s.notifyLocked()
	s.logger.Debug("refreshed %s on chain %s", addr, s.state.ChainID)

	return nil
}

// failRefresh drops a connection whose refresh fetches failed. Stale
// chain data must not be presented as current, so the session ends
// with the failure message in the snapshot.
func (s *Store) failRefresh(gen uint64, err error) error {
	s.mu.Lock()
	if s.gen != gen {
		metrics.Global.RecordStaleDiscard()
		s.mu.Unlock()

		return err
	}

	s.gen++
	s.state = State{Err: err.Error()}
	s.notifyLocked()
	s.mu.Unlock()

	if s.flag != nil {
		if flagErr := s.flag.Clear(); flagErr != nil {
			s.logger.Error("clear reconnect flag: %v", flagErr)
		}
	}

	s.logger.Error("refresh failed: %v", err)

	return err
}
