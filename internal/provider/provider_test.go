package provider_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/provider"
)

func TestSubscriptionUnsubscribeIdempotent(t *testing.T) {
	t.Parallel()

	calls := 0
	sub := provider.NewSubscription(provider.EventAccountsChanged, func() {
		calls++
	})

	sub.Unsubscribe()
	sub.Unsubscribe()
	sub.Unsubscribe()

	assert.Equal(t, 1, calls)
	assert.Equal(t, provider.EventAccountsChanged, sub.Event())
	assert.NotEmpty(t, sub.ID())
}

func TestSubscriptionIDsUnique(t *testing.T) {
	t.Parallel()

	a := provider.NewSubscription(provider.EventChainChanged, nil)
	b := provider.NewSubscription(provider.EventChainChanged, nil)
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestIsUserRejection(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil", nil, false},
		{"eip1193 code", &provider.RPCError{Code: 4001, Message: "denied"}, true},
		{"message match", &provider.RPCError{Code: -32000, Message: "User rejected the request."}, true},
		{"plain error message match", errors.New("User rejected the request"), true},
		{"wrapped rpc error", fmt.Errorf("request: %w", &provider.RPCError{Code: 4001}), true},
		{"other rpc error", &provider.RPCError{Code: -32603, Message: "internal"}, false},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, provider.IsUserRejection(tt.err))
		})
	}
}

func TestDecodeAccounts(t *testing.T) {
	t.Parallel()

	accounts, err := provider.DecodeAccounts(json.RawMessage(`["0xabc","0xdef"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"0xabc", "0xdef"}, accounts)

	accounts, err = provider.DecodeAccounts(json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Empty(t, accounts)

	accounts, err = provider.DecodeAccounts(nil)
	require.NoError(t, err)
	assert.Empty(t, accounts)
}

func TestDecodeAccountsInvalid(t *testing.T) {
	t.Parallel()

	_, err := provider.DecodeAccounts(json.RawMessage(`{"not":"a list"}`))
	require.Error(t, err)
}

func TestDecodeChainID(t *testing.T) {
	t.Parallel()

	hexID, err := provider.DecodeChainID(json.RawMessage(`"0x1"`))
	require.NoError(t, err)
	assert.Equal(t, "0x1", hexID)

	_, err = provider.DecodeChainID(json.RawMessage(`123`))
	require.Error(t, err)
}
