/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override, e.g. CDSTREAM_STORE_KIND
const EnvPrefix = "cdstream"

// Config represents the cdstream configuration
type Config struct {
	TempDir string  `yaml:"temp_dir" split_words:"true"`
	Store   Store   `yaml:"store"`
	Stream  Stream  `yaml:"stream"`
	Logging Logging `yaml:"logging"`
}

// Store contains record store configuration
type Store struct {
	Kind         string `yaml:"kind"`
	WindowSize   int    `yaml:"window_size" split_words:"true"`
	CacheWindows int    `yaml:"cache_windows" split_words:"true"`
}

// Stream contains navigator configuration
type Stream struct {
	PrefixSize int64 `yaml:"prefix_size" split_words:"true"`
	EagerLast  bool  `yaml:"eager_last" split_words:"true"`
}

// Logging contains logging configuration
type Logging struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		TempDir: os.TempDir(),
		Store: Store{
			Kind:         "file",
			WindowSize:   4096,
			CacheWindows: 64,
		},
		Stream: Stream{
			PrefixSize: 2,
		},
		Logging: Logging{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from the specified path
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Fields missing from the file keep their defaults
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Load reads the config file when it exists (defaults otherwise), applies
// environment overrides and validates the result
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()
	if configPath != "" && ConfigExists(configPath) {
		loaded, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	if err := ApplyEnv(config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides config fields from CDSTREAM_* environment variables
func ApplyEnv(config *Config) error {
	if err := envconfig.Process(EnvPrefix, config); err != nil {
		return fmt.Errorf("failed to process environment: %w", err)
	}
	return nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case "memory", "file", "mmap":
	default:
		return fmt.Errorf("invalid store kind %q: want memory, file or mmap", c.Store.Kind)
	}
	if c.Store.WindowSize <= 0 {
		return fmt.Errorf("store window_size must be positive, got %d", c.Store.WindowSize)
	}
	if c.Store.CacheWindows <= 0 {
		return fmt.Errorf("store cache_windows must be positive, got %d", c.Store.CacheWindows)
	}
	if c.Stream.PrefixSize < 0 {
		return fmt.Errorf("stream prefix_size must not be negative, got %d", c.Stream.PrefixSize)
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath
func BootstrapConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./cdstream.yaml"
	}

	// For Linux/macOS, use ~/.config/cdstream/config.yaml
	configDir := filepath.Join(homeDir, ".config", "cdstream")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
