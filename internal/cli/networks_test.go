package cli

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/output"
)

func TestRunNetworks_Text(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	cmd, buf := newTestCmd()
	require.NoError(t, runNetworks(cmd, nil))

	result := buf.String()
	assert.Contains(t, result, "CHAIN ID")
	assert.Contains(t, result, "mainnet")
	assert.Contains(t, result, "polygon")
	assert.Contains(t, result, "arbitrum")
}

func TestRunNetworks_JSON(t *testing.T) {
	_, testCleanup := setupTestEnv(t)
	defer testCleanup()

	formatter = output.NewFormatter(output.FormatJSON, os.Stdout)

	cmd, buf := newTestCmd()
	require.NoError(t, runNetworks(cmd, nil))

	var entries []struct {
		ChainID uint64 `json:"chain_id"`
		Name    string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.NotEmpty(t, entries)

	// Sorted ascending, mainnet first
	assert.Equal(t, uint64(1), entries[0].ChainID)
	assert.Equal(t, "mainnet", entries[0].Name)
	for i := 1; i < len(entries); i++ {
		assert.Greater(t, entries[i].ChainID, entries[i-1].ChainID)
	}
}
