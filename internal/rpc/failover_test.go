package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRPCServer(t *testing.T, results map[string]string, fail bool) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}

		var req struct {
			Method string `json:"method"`
			ID     uint64 `json:"id"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		result, ok := results[req.Method]
		if !ok {
			result = `"0x0"`
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":` +
			jsonNumber(req.ID) + `,"result":` + result + `}`))
	}))
	t.Cleanup(server.Close)

	return server
}

func jsonNumber(n uint64) string {
	data, _ := json.Marshal(n)
	return string(data)
}

func TestNewFailoverRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := NewFailover(nil, nil)
	require.Error(t, err)

	_, err = NewFailover([]string{""}, nil)
	require.Error(t, err)
}

func TestFailoverUsesPrimary(t *testing.T) {
	t.Parallel()

	primary := newRPCServer(t, map[string]string{"eth_chainId": `"0x1"`}, false)
	backup := newRPCServer(t, map[string]string{"eth_chainId": `"0x89"`}, false)

	f, err := NewFailover([]string{primary.URL, backup.URL}, nil)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", id.String())
}

func TestFailoverFallsBack(t *testing.T) {
	t.Parallel()

	primary := newRPCServer(t, nil, true)
	backup := newRPCServer(t, map[string]string{
		"eth_chainId":    `"0x1"`,
		"eth_getBalance": `"0xde0b6b3a7640000"`,
	}, false)

	f, err := NewFailover([]string{primary.URL, backup.URL}, nil)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", id.String())

	bal, err := f.GetBalance(context.Background(), "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", "latest")
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", bal.String())
}

func TestFailoverAllEndpointsDown(t *testing.T) {
	t.Parallel()

	first := newRPCServer(t, nil, true)
	second := newRPCServer(t, nil, true)

	f, err := NewFailover([]string{first.URL, second.URL}, nil)
	require.NoError(t, err)
	defer f.Close()

	_, err = f.ChainID(context.Background())
	require.Error(t, err)
}

func TestFailoverStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	first := newRPCServer(t, nil, true)
	second := newRPCServer(t, map[string]string{"eth_chainId": `"0x1"`}, false)

	f, err := NewFailover([]string{first.URL, second.URL}, nil)
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.ChainID(ctx)
	require.Error(t, err)
}
