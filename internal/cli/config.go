package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halverson/walletsync/internal/config"
	"github.com/halverson/walletsync/internal/output"
	walleterr "github.com/halverson/walletsync/pkg/errors"
)

// configCmd is the parent command for configuration operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `View and modify walletsync configuration settings.`,
}

// configInitCmd initializes the configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	Long: `Create a default configuration file at ~/.walletsync/config.yaml.

If a configuration file already exists, this command will not overwrite it
unless --force is specified.

Example:
  walletsync config init
  walletsync config init --force`,
	RunE: runConfigInit,
}

// configShowCmd shows the current configuration.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long: `Display the current configuration settings.

Example:
  walletsync config show
  walletsync config show -o json`,
	RunE: runConfigShow,
}

// configGetCmd gets a specific configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configGetCmd = &cobra.Command{
	Use:   "get <path>",
	Short: "Get a configuration value",
	Long: `Get a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.

Examples:
  walletsync config get provider.url
  walletsync config get network.rpc
  walletsync config get logging.level`,
	Args: cobra.ExactArgs(1),
	RunE: runConfigGet,
}

// configSetCmd sets a configuration value.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var configSetCmd = &cobra.Command{
	Use:   "set <path> <value>",
	Short: "Set a configuration value",
	Long: `Set a specific configuration value by its path.

The path uses dot notation to navigate the configuration tree.
The configuration file will be updated immediately.

Examples:
  walletsync config set provider.url ws://127.0.0.1:8546
  walletsync config set network.rpc https://mainnet.infura.io/v3/YOUR_KEY
  walletsync config set logging.level debug`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var configForce bool

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)

	configInitCmd.Flags().BoolVar(&configForce, "force", false, "overwrite existing configuration")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	configPath := config.Path(cfg.Home)

	if _, err := os.Stat(configPath); err == nil && !configForce {
		return walleterr.WithSuggestion(
			walleterr.ErrGeneral,
			fmt.Sprintf("configuration already exists at %s. Use --force to overwrite.", configPath),
		)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	defaultCfg := config.Defaults()
	defaultCfg.Home = cfg.Home

	if err := config.Save(defaultCfg, configPath); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	w := cmd.OutOrStdout()
	out(w, "Configuration initialized at %s\n", configPath)
	outln(w)
	outln(w, "Edit this file to configure:")
	outln(w, "  - provider.url: Your wallet agent endpoint")
	outln(w, "  - network.rpc: Your Ethereum RPC endpoint")
	outln(w, "  - output.default_format: Output format (text/json)")
	outln(w, "  - logging.level: Log level (off/error/debug)")

	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	w := cmd.OutOrStdout()

	if formatter.Format() == output.FormatJSON {
		return displayConfigJSON(w, cfg)
	}

	return displayConfigText(w, cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path := args[0]

	value, err := getConfigValue(cfg, path)
	if err != nil {
		return err
	}

	outln(cmd.OutOrStdout(), value)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path := args[0]
	value := args[1]

	// Validate the path exists
	if _, err := getConfigValue(cfg, path); err != nil {
		return err
	}

	// Load current config from file
	configPath := config.Path(cfg.Home)
	currentCfg, err := config.Load(configPath)
	if err != nil {
		// If file doesn't exist, start with defaults
		currentCfg = config.Defaults()
	}

	if err := setConfigValue(currentCfg, path, value); err != nil {
		return err
	}

	if err := currentCfg.Validate(); err != nil {
		return err
	}

	if err := config.Save(currentCfg, configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	out(cmd.OutOrStdout(), "Set %s = %s\n", path, value)

	return nil
}

// getConfigValue retrieves a value from the config using dot notation.
func getConfigValue(c *config.Config, path string) (string, error) {
	parts := strings.Split(path, ".")

	if len(parts) == 1 {
		if parts[0] == "home" {
			return c.Home, nil
		}
		return "", unknownKey(map[string]string{"key": parts[0]})
	}

	if len(parts) != 2 {
		return "", unknownKey(map[string]string{"path": path})
	}

	switch parts[0] {
	case "provider":
		return getProviderValue(c, parts[1])
	case "network":
		return getNetworkValue(c, parts[1])
	case "session":
		return getSessionValue(c, parts[1])
	case "output":
		return getOutputValue(c, parts[1])
	case "logging":
		return getLoggingValue(c, parts[1])
	default:
		return "", unknownKey(map[string]string{"section": parts[0]})
	}
}

func getProviderValue(c *config.Config, key string) (string, error) {
	switch key {
	case "url":
		return c.Provider.URL, nil
	case "request_timeout_seconds":
		return fmt.Sprintf("%d", c.Provider.RequestTimeoutSeconds), nil
	default:
		return "", unknownKey(map[string]string{"section": "provider", "key": key})
	}
}

func getNetworkValue(c *config.Config, key string) (string, error) {
	switch key {
	case "rpc":
		return c.Network.RPC, nil
	case "fallback_rpcs":
		return strings.Join(c.Network.FallbackRPCs, ","), nil
	case "rate_limit_rps":
		return fmt.Sprintf("%g", c.Network.RateLimitRPS), nil
	default:
		return "", unknownKey(map[string]string{"section": "network", "key": key})
	}
}

func getSessionValue(c *config.Config, key string) (string, error) {
	switch key {
	case "resume_enabled":
		return fmt.Sprintf("%t", c.Session.ResumeEnabled), nil
	case "event_timeout_seconds":
		return fmt.Sprintf("%d", c.Session.EventTimeoutSeconds), nil
	default:
		return "", unknownKey(map[string]string{"section": "session", "key": key})
	}
}

func getOutputValue(c *config.Config, key string) (string, error) {
	switch key {
	case "default_format":
		return c.Output.DefaultFormat, nil
	case "verbose":
		return fmt.Sprintf("%t", c.Output.Verbose), nil
	case "color":
		return c.Output.Color, nil
	default:
		return "", unknownKey(map[string]string{"section": "output", "key": key})
	}
}

func getLoggingValue(c *config.Config, key string) (string, error) {
	switch key {
	case "level":
		return c.Logging.Level, nil
	case "file":
		return c.Logging.File, nil
	default:
		return "", unknownKey(map[string]string{"section": "logging", "key": key})
	}
}

// setConfigValue sets a value in the config using dot notation.
func setConfigValue(c *config.Config, path, value string) error {
	parts := strings.Split(path, ".")

	if len(parts) == 1 {
		if parts[0] == "home" {
			c.Home = value
			return nil
		}
		return unknownKey(map[string]string{"key": parts[0]})
	}

	if len(parts) != 2 {
		return unknownKey(map[string]string{"path": path})
	}

	switch strings.Join(parts, ".") {
	case "provider.url":
		c.Provider.URL = strings.TrimSpace(value)
	case "provider.request_timeout_seconds":
		seconds, err := parseSeconds(value)
		if err != nil {
			return err
		}
		c.Provider.RequestTimeoutSeconds = seconds
	case "network.rpc":
		c.Network.RPC = strings.TrimSpace(value)
	case "session.resume_enabled":
		c.Session.ResumeEnabled = value == "true"
	case "session.event_timeout_seconds":
		seconds, err := parseSeconds(value)
		if err != nil {
			return err
		}
		c.Session.EventTimeoutSeconds = seconds
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.color":
		c.Output.Color = value
	case "output.verbose":
		c.Output.Verbose = value == "true"
	case "logging.level":
		c.Logging.Level = value
	case "logging.file":
		c.Logging.File = value
	default:
		return unknownKey(map[string]string{"path": path})
	}

	return nil
}

// parseSeconds parses a positive integer seconds value.
func parseSeconds(value string) (int, error) {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds <= 0 {
		return 0, walleterr.Wrap(walleterr.ErrConfigInvalid, "invalid seconds value %q", value)
	}
	return seconds, nil
}

// unknownKey builds the error for an unrecognized configuration path.
func unknownKey(details map[string]string) error {
	return walleterr.WithDetails(walleterr.ErrUnknownConfigKey, details)
}

// displayConfigText shows the config in text format.
func displayConfigText(w io.Writer, c *config.Config) error {
	outln(w, "Configuration:")
	outln(w)
	out(w, "  Home: %s\n", c.Home)
	outln(w)
	outln(w, "  Provider:")
	out(w, "    url: %s\n", c.Provider.URL)
	out(w, "    request_timeout_seconds: %d\n", c.Provider.RequestTimeoutSeconds)
	outln(w)
	outln(w, "  Network:")
	rpc := c.Network.RPC
	if rpc == "" {
		rpc = "(not configured)"
	}
	out(w, "    rpc: %s\n", rpc)
	for _, fallback := range c.Network.FallbackRPCs {
		out(w, "    fallback: %s\n", fallback)
	}
	outln(w)
	outln(w, "  Session:")
	out(w, "    resume_enabled: %t\n", c.Session.ResumeEnabled)
	out(w, "    event_timeout_seconds: %d\n", c.Session.EventTimeoutSeconds)
	outln(w)
	outln(w, "  Output:")
	out(w, "    default_format: %s\n", c.Output.DefaultFormat)
	out(w, "    verbose: %t\n", c.Output.Verbose)
	out(w, "    color: %s\n", c.Output.Color)
	outln(w)
	outln(w, "  Logging:")
	out(w, "    level: %s\n", c.Logging.Level)
	out(w, "    file: %s\n", c.Logging.File)

	return nil
}

// displayConfigJSON shows the config in JSON format.
func displayConfigJSON(w io.Writer, c *config.Config) error {
	type configJSON struct {
		Version  int    `json:"version"`
		Home     string `json:"home"`
		Provider struct {
			URL                   string `json:"url"`
			RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
		} `json:"provider"`
		Network struct {
			RPC          string   `json:"rpc"`
			FallbackRPCs []string `json:"fallback_rpcs,omitempty"`
			RateLimitRPS float64  `json:"rate_limit_rps"`
		} `json:"network"`
		Session struct {
			ResumeEnabled       bool `json:"resume_enabled"`
			EventTimeoutSeconds int  `json:"event_timeout_seconds"`
		} `json:"session"`
		Output struct {
			DefaultFormat string `json:"default_format"`
			Color         string `json:"color"`
			Verbose       bool   `json:"verbose"`
		} `json:"output"`
		Logging struct {
			Level string `json:"level"`
			File  string `json:"file"`
		} `json:"logging"`
	}

	outCfg := configJSON{
		Version: c.Version,
		Home:    c.Home,
	}
	outCfg.Provider.URL = c.Provider.URL
	outCfg.Provider.RequestTimeoutSeconds = c.Provider.RequestTimeoutSeconds
	outCfg.Network.RPC = c.Network.RPC
	outCfg.Network.FallbackRPCs = c.Network.FallbackRPCs
	outCfg.Network.RateLimitRPS = c.Network.RateLimitRPS
	outCfg.Session.ResumeEnabled = c.Session.ResumeEnabled
	outCfg.Session.EventTimeoutSeconds = c.Session.EventTimeoutSeconds
	outCfg.Output.DefaultFormat = c.Output.DefaultFormat
	outCfg.Output.Color = c.Output.Color
	outCfg.Output.Verbose = c.Output.Verbose
	outCfg.Logging.Level = c.Logging.Level
	outCfg.Logging.File = c.Logging.File

	return writeJSON(w, outCfg)
}
