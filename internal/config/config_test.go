package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	walleterrors "github.com/halverson/walletsync/pkg/errors"
)

func TestDefaults(t *testing.T) {
	t.Parallel()

	cfg := Defaults()

	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "~/.walletsync", cfg.Home)
	assert.Equal(t, DefaultProviderURL, cfg.Provider.URL)
	assert.Equal(t, DefaultRPCURL, cfg.Network.RPC)
	assert.Equal(t, DefaultFallbackRPCs, cfg.Network.FallbackRPCs)
	assert.True(t, cfg.Session.ResumeEnabled)
	assert.Equal(t, "auto", cfg.Output.DefaultFormat)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.True(t, walleterrors.Is(err, walleterrors.ErrConfigNotFound))
}

func TestLoadInvalidYAML(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("provider: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, walleterrors.Is(err, walleterrors.ErrConfigInvalid))
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	home := t.TempDir()
	path := Path(home)

	cfg := Defaults()
	cfg.Home = home
	cfg.Provider.URL = "ws://localhost:9999"
	cfg.Network.RPC = "https://example.test/rpc"
	cfg.Session.ResumeEnabled = false
	cfg.Logging.Level = "debug"

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:9999", loaded.GetProviderURL())
	assert.Equal(t, "https://example.test/rpc", loaded.GetRPC())
	assert.False(t, loaded.IsResumeEnabled())
	assert.Equal(t, "debug", loaded.GetLoggingLevel())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, DefaultProviderURL, cfg.Provider.URL)
	assert.Equal(t, DefaultRPCURL, cfg.Network.RPC)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		suggest string
	}{
		{
			name:   "defaults pass",
			mutate: func(*Config) {},
		},
		{
			name:   "explicit json format",
			mutate: func(c *Config) { c.Output.DefaultFormat = "json" },
		},
		{
			name:    "misspelled level gets suggestion",
			mutate:  func(c *Config) { c.Logging.Level = "debg" },
			wantErr: true,
			suggest: `Did you mean "debug"?`,
		},
		{
			name:    "misspelled format gets suggestion",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "jsonn" },
			wantErr: true,
			suggest: `Did you mean "json"?`,
		},
		{
			name:    "unknown color mode",
			mutate:  func(c *Config) { c.Output.Color = "sometimes" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Defaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, walleterrors.Is(err, walleterrors.ErrConfigInvalid))

			if tt.suggest != "" {
				var we *walleterrors.WalletError
				require.True(t, walleterrors.As(err, &we))
				assert.Equal(t, tt.suggest, we.Suggestion)
			}
		})
	}
}

func TestDefaultHome(t *testing.T) {
	t.Parallel()

	home := DefaultHome()
	assert.NotEmpty(t, home)
	assert.Contains(t, home, ".walletsync")
}
