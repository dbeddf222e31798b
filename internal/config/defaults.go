package config

// DefaultProviderURL is the default wallet agent WebSocket endpoint.
const DefaultProviderURL = "ws://127.0.0.1:8546"

// DefaultRPCURL is the default Ethereum RPC endpoint.
// Uses PublicNode (Allnodes), a privacy-first provider that requires no API key.
const DefaultRPCURL = "https://ethereum-rpc.publicnode.com"

// DefaultFallbackRPCs are backup RPC endpoints tried when the primary fails.
// All are reputable, free, no-API-key providers with strong privacy policies.
//
//nolint:gochecknoglobals // Configuration default constant, same pattern as DefaultRPCURL
var DefaultFallbackRPCs = []string{
	"https://rpc.ankr.com/eth", // Ankr - well-established, claims no IP correlation
	"https://1rpc.io/eth",      // 1RPC - zero-trace privacy, burn-after-relaying
}

// Defaults returns the default configuration.
func Defaults() *Config {
	return &Config{
		Version: 1,
		Home:    "~/.walletsync",
		Provider: ProviderConfig{
			URL:                   DefaultProviderURL,
			RequestTimeoutSeconds: 120,
		},
		Network: NetworkConfig{
			RPC:          DefaultRPCURL,
			FallbackRPCs: DefaultFallbackRPCs,
			RateLimitRPS: 4,
		},
		Session: SessionConfig{
			ResumeEnabled:       true,
			EventTimeoutSeconds: 30,
		},
		Output: OutputConfig{
			DefaultFormat: "auto",
			Color:         "auto",
			Verbose:       false,
		},
		Logging: LoggingConfig{
			Level: "error",
			File:  "~/.walletsync/walletsync.log",
		},
	}
}
