// Package config provides CLI configuration management for the wrapped
// command-line tool. It supports loading configuration from a YAML file and
// environment variables, with command-line flags layered on top by cmd.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the supported output formats for CLI results.
type OutputFormat string

const (
	// OutputFormatText is human-readable plain text output.
	OutputFormatText OutputFormat = "text"
	// OutputFormatJSON is JSON-formatted output for machine processing.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatYAML is YAML-formatted output for machine processing.
	OutputFormatYAML OutputFormat = "yaml"
)

// Default configuration values.
const (
	DefaultListenAddress = "localhost:8490"
	DefaultOutputFormat  = OutputFormatText
	DefaultConfigDir     = ".wrapped"
	DefaultConfigFile    = "config.yaml"

	// DefaultMessagesDB and DefaultContactsDir are relative to the home
	// directory, the standard macOS locations.
	DefaultMessagesDB  = "Library/Messages/chat.db"
	DefaultContactsDir = "Library/Application Support/AddressBook/Sources"
)

// CLIConfig holds the CLI configuration settings.
type CLIConfig struct {
	// MessagesDB is the path to the Messages chat.db file. Empty means the
	// standard location under the home directory.
	MessagesDB string `yaml:"messages_db,omitempty"`

	// ContactsDir is the path to the AddressBook Sources directory. Empty
	// means the standard location under the home directory.
	ContactsDir string `yaml:"contacts_dir,omitempty"`

	// ListenAddress is the host:port the serve command binds to.
	ListenAddress string `yaml:"listen_address"`

	// OutputFormat specifies the default output format for commands.
	OutputFormat OutputFormat `yaml:"output_format"`

	// FirstYear drops yearly report periods before this year. Zero keeps
	// every year present in the data.
	FirstYear int `yaml:"first_year,omitempty"`

	// TopConversations, TopEmojis, TopWords and MinConversationTotal
	// override the report list-size policy when positive.
	TopConversations     int `yaml:"top_conversations,omitempty"`
	TopEmojis            int `yaml:"top_emojis,omitempty"`
	TopWords             int `yaml:"top_words,omitempty"`
	MinConversationTotal int `yaml:"min_conversation_total,omitempty"`

	// Debug enables verbose debug logging.
	Debug bool `yaml:"debug,omitempty"`
}

// DefaultConfig returns a CLIConfig with default values.
func DefaultConfig() *CLIConfig {
	return &CLIConfig{
		ListenAddress: DefaultListenAddress,
		OutputFormat:  DefaultOutputFormat,
	}
}

// ConfigDir returns the configuration directory path.
// Uses $WRAPPED_CONFIG_DIR if set, otherwise ~/.wrapped
func ConfigDir() (string, error) {
	if dir := os.Getenv("WRAPPED_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, DefaultConfigDir), nil
}

// ConfigPath returns the full path to the configuration file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultConfigFile), nil
}

// LoadConfig loads the CLI configuration from file and environment variables.
// Configuration is loaded in this order (later sources override earlier):
// 1. Default values
// 2. Config file (~/.wrapped/config.yaml or $WRAPPED_CONFIG_DIR/config.yaml)
// 3. Environment variables (WRAPPED_MESSAGES_DB, WRAPPED_OUTPUT_FORMAT, ...)
func LoadConfig() (*CLIConfig, error) {
	cfg := DefaultConfig()

	configPath, err := ConfigPath()
	if err != nil {
		return nil, fmt.Errorf("getting config path: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *CLIConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var fileCfg CLIConfig
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if fileCfg.MessagesDB != "" {
		cfg.MessagesDB = fileCfg.MessagesDB
	}
	if fileCfg.ContactsDir != "" {
		cfg.ContactsDir = fileCfg.ContactsDir
	}
	if fileCfg.ListenAddress != "" {
		cfg.ListenAddress = fileCfg.ListenAddress
	}
	if fileCfg.OutputFormat != "" {
		cfg.OutputFormat = fileCfg.OutputFormat
	}
	if fileCfg.FirstYear != 0 {
		cfg.FirstYear = fileCfg.FirstYear
	}
	if fileCfg.TopConversations != 0 {
		cfg.TopConversations = fileCfg.TopConversations
	}
	if fileCfg.TopEmojis != 0 {
		cfg.TopEmojis = fileCfg.TopEmojis
	}
	if fileCfg.TopWords != 0 {
		cfg.TopWords = fileCfg.TopWords
	}
	if fileCfg.MinConversationTotal != 0 {
		cfg.MinConversationTotal = fileCfg.MinConversationTotal
	}
	cfg.Debug = fileCfg.Debug

	return nil
}

// loadFromEnv overlays environment variables onto the configuration.
func loadFromEnv(cfg *CLIConfig) {
	if v := os.Getenv("WRAPPED_MESSAGES_DB"); v != "" {
		cfg.MessagesDB = v
	}

	if v := os.Getenv("WRAPPED_CONTACTS_DIR"); v != "" {
		cfg.ContactsDir = v
	}

	if v := os.Getenv("WRAPPED_LISTEN_ADDRESS"); v != "" {
		cfg.ListenAddress = v
	}

	if v := os.Getenv("WRAPPED_OUTPUT_FORMAT"); v != "" {
		cfg.OutputFormat = OutputFormat(v)
	}

	if v := os.Getenv("WRAPPED_FIRST_YEAR"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			cfg.FirstYear = year
		}
	}

	if v := os.Getenv("WRAPPED_DEBUG"); v == "true" || v == "1" {
		cfg.Debug = true
	}
}

// Validate checks that the configuration is valid.
func (c *CLIConfig) Validate() error {
	if c.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}

	if !c.OutputFormat.IsValid() {
		return fmt.Errorf("invalid output_format: %q (must be text, json, or yaml)", c.OutputFormat)
	}

	if c.FirstYear < 0 {
		return fmt.Errorf("first_year must not be negative")
	}

	for name, v := range map[string]int{
		"top_conversations":      c.TopConversations,
		"top_emojis":             c.TopEmojis,
		"top_words":              c.TopWords,
		"min_conversation_total": c.MinConversationTotal,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	return nil
}

// IsValid checks if the output format is valid.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
		return true
	default:
		return false
	}
}

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *CLIConfig) error {
	configDir, err := ConfigDir()
	if err != nil {
		return fmt.Errorf("getting config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	configPath := filepath.Join(configDir, DefaultConfigFile)
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// EnsureConfigDir creates the configuration directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ExpandPath expands ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// GetMessagesDB returns the expanded chat.db path, falling back to the
// standard macOS location.
func (c *CLIConfig) GetMessagesDB() (string, error) {
	if c.MessagesDB != "" {
		return ExpandPath(c.MessagesDB)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultMessagesDB), nil
}

// GetContactsDir returns the expanded AddressBook Sources path, falling
// back to the standard macOS location.
func (c *CLIConfig) GetContactsDir() (string, error) {
	if c.ContactsDir != "" {
		return ExpandPath(c.ContactsDir)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, DefaultContactsDir), nil
}
