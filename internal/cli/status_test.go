package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/cache"
	"github.com/halverson/walletsync/internal/output"
	"github.com/halverson/walletsync/internal/wallet"
)

func TestNetworkName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		chainID string
		want    string
	}{
		{"", ""},
		{"1", "mainnet"},
		{"137", "polygon"},
		{"999999", "chain 999999"},
		{"not-a-number", ""},
	}

	for _, tc := range tests {
		t.Run(tc.chainID, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, networkName(tc.chainID))
		})
	}
}

func TestPrintStatusText_Connected(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newTestCmd()
	resp := statusResponse{
		State: wallet.State{
			Address:   "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
			Connected: true,
			ChainID:   "1",
			Balance:   "1.2345",
		},
		Phase:             "connected",
		Network:           "mainnet",
		ProviderReachable: true,
	}

	require.NoError(t, printStatusText(cmd, resp))

	result := buf.String()
	assert.Contains(t, result, "connected")
	assert.Contains(t, result, "0x742d35Cc6634C0532925a3b844Bc454e4438f44e")
	assert.Contains(t, result, "mainnet")
	assert.Contains(t, result, "1.2345")
	assert.Contains(t, result, "yes")
}

func TestPrintStatusText_DisconnectedWithLastKnown(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newTestCmd()
	resp := statusResponse{
		Phase: "disconnected",
		LastKnown: &cache.Entry{
			ChainID: "137",
			Address: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
			Balance: "2.5000",
		},
	}

	require.NoError(t, printStatusText(cmd, resp))

	result := buf.String()
	assert.Contains(t, result, "disconnected")
	assert.Contains(t, result, "last known")
	assert.Contains(t, result, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed")
	assert.Contains(t, result, "2.5000")
}

func TestPrintState_Phases(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	tests := []struct {
		name  string
		state wallet.State
		want  string
	}{
		{
			name: "connected",
			state: wallet.State{
				Address:   "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
				Connected: true,
				ChainID:   "1",
				Balance:   "0.5000",
			},
			want: "Connected 0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		},
		{
			name:  "connecting",
			state: wallet.State{Connecting: true},
			want:  "Connecting...",
		},
		{
			name:  "error",
			state: wallet.State{Err: "Connection rejected by user"},
			want:  "Error: Connection rejected by user",
		},
		{
			name:  "disconnected",
			state: wallet.State{},
			want:  "Disconnected",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, buf := newTestCmd()
			require.NoError(t, printState(cmd, tc.state))
			assert.Contains(t, buf.String(), tc.want)
		})
	}
}

func TestPrintState_JSON(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatJSON, os.Stdout)

	cmd, buf := newTestCmd()
	require.NoError(t, printState(cmd, wallet.State{
		Address:   "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
		Connected: true,
		ChainID:   "137",
		Balance:   "3.0000",
	}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "connected", decoded["phase"])
	assert.Equal(t, "polygon", decoded["network"])
	assert.Equal(t, "3.0000", decoded["balance"])
}
