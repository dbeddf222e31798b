package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvHome         = "WALLETSYNC_HOME"
	EnvProviderURL  = "WALLETSYNC_PROVIDER_URL"
	EnvRPC          = "WALLETSYNC_RPC"
	EnvOutputFormat = "WALLETSYNC_OUTPUT_FORMAT"
	EnvVerbose      = "WALLETSYNC_VERBOSE"
	EnvLogLevel     = "WALLETSYNC_LOG_LEVEL"
	EnvNoColor      = "NO_COLOR"
	EnvResume       = "WALLETSYNC_RESUME"
)

// ApplyEnvironment applies environment variable overrides to the configuration.
func ApplyEnvironment(cfg *Config) {
	if v := os.Getenv(EnvHome); v != "" {
		cfg.Home = v
	}

	if v := os.Getenv(EnvProviderURL); v != "" {
		cfg.Provider.URL = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvRPC); v != "" {
		cfg.Network.RPC = strings.TrimSpace(v)
	}

	if v := os.Getenv(EnvOutputFormat); v != "" {
		cfg.Output.DefaultFormat = strings.ToLower(v)
	}

	if v := os.Getenv(EnvVerbose); v != "" {
		cfg.Output.Verbose = parseBool(v)
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}

	// NO_COLOR disables colored output
	if _, ok := os.LookupEnv(EnvNoColor); ok {
		cfg.Output.Color = "never"
	}

	// WALLETSYNC_RESUME toggles silent session restore
	if v := os.Getenv(EnvResume); v != "" {
		cfg.Session.ResumeEnabled = parseBool(v)
	}
}

// parseBool parses a boolean string value.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "1" || s == "true" || s == "yes" || s == "on" {
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
