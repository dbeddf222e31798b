package cli

import (
	"bytes"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/halverson/walletsync/internal/config"
	"github.com/halverson/walletsync/internal/output"
)

// setupTestEnv creates a temporary environment for CLI testing.
// It saves and restores global state to avoid test pollution.
// Tests using this function should NOT use t.Parallel() as they
// modify package-level globals.
func setupTestEnv(t *testing.T) (string, func()) {
	t.Helper()

	// Save original global state
	origCfg := cfg
	origLogger := logger
	origFormatter := formatter

	tmpDir, err := os.MkdirTemp("", "walletsync-cli-test")
	require.NoError(t, err)

	// Set up test-specific global config
	testCfg := config.Defaults()
	testCfg.Home = tmpDir
	cfg = testCfg

	// Set up null logger for tests
	logger = config.NullLogger()

	// Set up text formatter for tests
	formatter = output.NewFormatter(output.FormatText, os.Stdout)

	cleanup := func() {
		// Restore original global state
		cfg = origCfg
		logger = origLogger
		formatter = origFormatter

		// Clean up temp directory
		_ = os.RemoveAll(tmpDir)
	}

	return tmpDir, cleanup
}

// newTestCmd creates a cobra.Command for run* testing with output capture.
func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	return cmd, &buf
}
