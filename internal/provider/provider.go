// Package provider defines the wallet provider capability contract.
// A provider brokers account access and pushes change notifications;
// concrete implementations live in subpackages (see remote).
package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	wserr "github.com/halverson/walletsync/pkg/errors"
)

// Provider request methods.
const (
	// MethodRequestAccounts asks the wallet agent for account access.
	// Always surfaces a user-facing approval prompt.
	MethodRequestAccounts = "eth_requestAccounts"

	// MethodAccounts returns already-authorized accounts without prompting.
	MethodAccounts = "eth_accounts"

	// MethodRevokePermissions asks the agent to drop its cached grant.
	// Optional; not all agents support it.
	MethodRevokePermissions = "wallet_revokePermissions"
)

// Event identifies a provider-pushed notification.
type Event string

// Provider events.
const (
	// EventAccountsChanged carries a JSON array of authorized addresses.
	// An empty array means access was revoked.
	EventAccountsChanged Event = "accountsChanged"

	// EventChainChanged carries the new chain id as a hex string.
	EventChainChanged Event = "chainChanged"

	// EventDisconnect signals the agent dropped the connection. No payload.
	EventDisconnect Event = "disconnect"
)

// Handler receives the raw payload of a provider event.
type Handler func(payload json.RawMessage)

// Provider is the capability contract for a wallet provider.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Request performs a provider call and returns the raw result.
	Request(ctx context.Context, method string, params ...any) (json.RawMessage, error)

	// Subscribe registers a handler for an event. The returned handle
	// must be released with Unsubscribe to avoid handler leaks.
	Subscribe(event Event, h Handler) (*Subscription, error)

	// Close tears down the provider connection and all subscriptions.
	Close() error
}

// Subscription is an explicit handle for a registered event handler.
type Subscription struct {
	id     string
	event  Event
	cancel func()
	once   sync.Once
}

// NewSubscription creates a subscription handle. cancel is invoked at most
// once, on the first Unsubscribe call.
func NewSubscription(event Event, cancel func()) *Subscription {
	return &Subscription{
		id:     uuid.NewString(),
		event:  event,
		cancel: cancel,
	}
}

// ID returns the unique subscription id.
func (s *Subscription) ID() string {
	return s.id
}

// Event returns the subscribed event.
func (s *Subscription) Event() Event {
	return s.event
}

// Unsubscribe releases the handler registration. Idempotent.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel()
		}
	})
}

// RPCError is a JSON-RPC error returned by a provider.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// userRejectedCode is the EIP-1193 error code for a user-rejected request.
const userRejectedCode = 4001

// IsUserRejection reports whether the error represents the user declining
// the approval prompt.
func IsUserRejection(err error) bool {
	if err == nil {
		return false
	}

	var rpcErr *RPCError
	if wserr.As(err, &rpcErr) {
		if rpcErr.Code == userRejectedCode {
			return true
		}
		return strings.Contains(rpcErr.Message, "User rejected")
	}

	return strings.Contains(err.Error(), "User rejected")
}

// DecodeAccounts decodes an account-list payload (request result or
// accountsChanged event) into address strings.
func DecodeAccounts(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, fmt.Errorf("decoding accounts: %w", err)
	}

	return accounts, nil
}

// DecodeChainID decodes a chainChanged payload into its hex string form.
func DecodeChainID(raw json.RawMessage) (string, error) {
	var hexID string
	if err := json.Unmarshal(raw, &hexID); err != nil {
		return "", fmt.Errorf("decoding chain id: %w", err)
	}

	return hexID, nil
}
