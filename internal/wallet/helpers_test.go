package wallet

import (
	"context"
	"encoding/json"
	"math/big"
	"sync"

	"github.com/halverson/walletsync/internal/provider"
)

// fakeProvider is an in-memory provider for store and bridge tests.
// Events fire synchronously on emit.
type fakeProvider struct {
	mu       sync.Mutex
	requests []string
	accounts []string
	err      error
	handlers map[provider.Event]map[string]provider.Handler
	closed   bool
}

func newFakeProvider(accounts ...string) *fakeProvider {
	return &fakeProvider{
		accounts: accounts,
		handlers: make(map[provider.Event]map[string]provider.Handler),
	}
}

func (p *fakeProvider) Request(_ context.Context, method string, _ ...any) (json.RawMessage, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.requests = append(p.requests, method)

	if p.err != nil {
		return nil, p.err
	}

	switch method {
	case provider.MethodRequestAccounts, provider.MethodAccounts:
		raw, err := json.Marshal(p.accounts)
		if err != nil {
			return nil, err
		}

		return raw, nil
	default:
		return json.RawMessage(`null`), nil
	}
}

func (p *fakeProvider) Subscribe(event provider.Event, h provider.Handler) (*provider.Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.handlers[event] == nil {
		p.handlers[event] = make(map[string]provider.Handler)
	}

	var sub *provider.Subscription
	sub = provider.NewSubscription(event, func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers[event], sub.ID())
	})
	p.handlers[event][sub.ID()] = h

	return sub, nil
}

func (p *fakeProvider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	p.handlers = make(map[provider.Event]map[string]provider.Handler)

	return nil
}

// emit invokes all handlers registered for the event.
func (p *fakeProvider) emit(event provider.Event, payload string) {
	p.mu.Lock()
	handlers := make([]provider.Handler, 0, len(p.handlers[event]))
	for _, h := range p.handlers[event] {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(json.RawMessage(payload))
	}
}

func (p *fakeProvider) requested() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]string(nil), p.requests...)
}

func (p *fakeProvider) handlerCount(event provider.Event) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.handlers[event])
}

// fakeReader serves canned chain data. A non-nil balanceGate blocks
// GetBalance until the gate is closed, which lets tests freeze a
// connect attempt mid-flight.
type fakeReader struct {
	mu          sync.Mutex
	chainID     *big.Int
	balance     *big.Int
	chainErr    error
	balanceErr  error
	balanceGate chan struct{}
	calls       int
}

func newFakeReader(chainID, balance int64) *fakeReader {
	return &fakeReader{
		chainID: big.NewInt(chainID),
		balance: big.NewInt(balance),
	}
}

func (r *fakeReader) ChainID(_ context.Context) (*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	if r.chainErr != nil {
		return nil, r.chainErr
	}

	return new(big.Int).Set(r.chainID), nil
}

func (r *fakeReader) GetBalance(_ context.Context, _, _ string) (*big.Int, error) {
	r.mu.Lock()
	gate := r.balanceGate
	r.mu.Unlock()

	if gate != nil {
		<-gate
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls++

	if r.balanceErr != nil {
		return nil, r.balanceErr
	}

	return new(big.Int).Set(r.balance), nil
}

func (r *fakeReader) set(chainID, balance int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chainID = big.NewInt(chainID)
	r.balance = big.NewInt(balance)
}

func (r *fakeReader) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.calls
}

// fakeFlag is an in-memory reconnect marker.
type fakeFlag struct {
	mu         sync.Mutex
	set        bool
	setCalls   int
	clearCalls int
}

func (f *fakeFlag) Set() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.set = true
	f.setCalls++

	return nil
}

func (f *fakeFlag) IsSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.set
}

func (f *fakeFlag) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.set = false
	f.clearCalls++

	return nil
}

// fakeScratch counts teardown clears.
type fakeScratch struct {
	mu         sync.Mutex
	clearCalls int
}

func (s *fakeScratch) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearCalls++

	return nil
}

func (s *fakeScratch) cleared() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.clearCalls
}
