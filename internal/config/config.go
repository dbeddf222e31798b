// Package config provides configuration management for walletsync.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/agnivade/levenshtein"
	"gopkg.in/yaml.v3"

	walleterrors "github.com/halverson/walletsync/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Provider ProviderConfig `yaml:"provider"`
	Network  NetworkConfig  `yaml:"network"`
	Session  SessionConfig  `yaml:"session"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProviderConfig defines wallet agent connection settings.
type ProviderConfig struct {
	// URL is the wallet agent WebSocket endpoint.
	URL string `yaml:"url"`

	// RequestTimeoutSeconds bounds a single provider request.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`
}

// NetworkConfig defines chain RPC settings.
type NetworkConfig struct {
	RPC          string   `yaml:"rpc"`
	FallbackRPCs []string `yaml:"fallback_rpcs,omitempty"`

	// RateLimitRPS caps outgoing RPC requests per second. Zero
	// disables the limiter.
	RateLimitRPS float64 `yaml:"rate_limit_rps"`
}

// SessionConfig defines session persistence settings.
type SessionConfig struct {
	// ResumeEnabled controls whether a new session silently restores
	// the previous connection.
	ResumeEnabled bool `yaml:"resume_enabled"`

	// EventTimeoutSeconds bounds the chain fetches triggered by a
	// single provider event.
	EventTimeoutSeconds int `yaml:"event_timeout_seconds"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Load reads configuration from the specified file.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, walleterrors.Wrap(walleterrors.ErrConfigNotFound, "%s", path)
		}
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, walleterrors.Wrap(walleterrors.ErrConfigInvalid, "%v", err)
	}

	return cfg, nil
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o600)
}

// Path returns the default config file path.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// Validate checks configuration values that have a closed set of
// accepted inputs. Typos get a closest-match suggestion.
func (c *Config) Validate() error {
	if err := validateChoice("logging.level", c.Logging.Level, validLogLevels); err != nil {
		return err
	}

	if err := validateChoice("output.default_format", c.Output.DefaultFormat, validFormats); err != nil {
		return err
	}

	return validateChoice("output.color", c.Output.Color, validColorModes)
}

//nolint:gochecknoglobals // Closed value sets for validation
var (
	validLogLevels  = []string{"off", "none", "error", "debug"}
	validFormats    = []string{"auto", "text", "json"}
	validColorModes = []string{"auto", "always", "never"}
)

// validateChoice checks a value against its accepted set and builds an
// error with a did-you-mean suggestion for near misses.
func validateChoice(field, value string, accepted []string) error {
	for _, v := range accepted {
		if value == v {
			return nil
		}
	}

	err := walleterrors.Wrap(walleterrors.ErrConfigInvalid, "unknown %s %q", field, value)

	if closest := closestMatch(value, accepted); closest != "" {
		return walleterrors.WithSuggestion(err, fmt.Sprintf("Did you mean %q?", closest))
	}

	return err
}

// closestMatch returns the accepted value nearest to the input, or
// empty when nothing is close enough to be a plausible typo.
func closestMatch(value string, accepted []string) string {
	const maxDistance = 3

	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range accepted {
		if dist := levenshtein.ComputeDistance(value, candidate); dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}

	return best
}

// GetHome returns the walletsync home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetProviderURL returns the wallet agent endpoint.
func (c *Config) GetProviderURL() string {
	return c.Provider.URL
}

// GetRPC returns the chain RPC URL.
func (c *Config) GetRPC() string {
	return c.Network.RPC
}

// GetFallbackRPCs returns the fallback chain RPC URLs.
func (c *Config) GetFallbackRPCs() []string {
	return c.Network.FallbackRPCs
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// IsResumeEnabled returns true if silent session restore is enabled.
func (c *Config) IsResumeEnabled() bool {
	return c.Session.ResumeEnabled
}

// DefaultHome returns the default walletsync home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".walletsync"
	}
	return filepath.Join(home, ".walletsync")
}
