// Package config handles configuration loading and validation for storefront.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// APIURLEnv overrides api_base_url from the config file.
	APIURLEnv = "STOREFRONT_API_URL"
	// DefaultDataBase is the default data directory under the user's home.
	DefaultDataBase = ".storefront"
)

// Session store backends.
const (
	SessionStoreMemory = "memory"
	SessionStoreFile   = "file"
)

// Category is a product category offered in the listing screen.
type Category struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Config holds the application configuration.
type Config struct {
	APIBaseURL     string        `yaml:"api_base_url"`
	Theme          string        `yaml:"theme"`
	ToastDuration  time.Duration `yaml:"toast_duration"`
	LoadingMessage string        `yaml:"loading_message"`
	RequestTimeout time.Duration `yaml:"request_timeout"` // 0 = no timeout
	Currency       string        `yaml:"currency"`
	Categories     []Category    `yaml:"categories"`
	SessionStore   string        `yaml:"session_store"`
	LogLevel       string        `yaml:"log_level"`
	DataDir        string        `yaml:"-"` // set by caller, not from config file
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		APIBaseURL:     "http://localhost:3000",
		Theme:          "default",
		ToastDuration:  3 * time.Second,
		LoadingMessage: "Loading...",
		Currency:       "USD",
		SessionStore:   SessionStoreMemory,
		LogLevel:       "info",
	}
}

// DefaultDataDir returns ~/.storefront.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultDataBase), nil
}

// DefaultConfigPath returns ~/.storefront/config.yaml, or "" when the home
// directory is unknown.
func DefaultConfigPath() string {
	dir, err := DefaultDataDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir. STOREFRONT_API_URL, when set, wins over the file.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}
		}
	}
	cfg.DataDir = dataDir

	if v := strings.TrimSpace(os.Getenv(APIURLEnv)); v != "" {
		cfg.APIBaseURL = v
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.ToastDuration == 0 {
		c.ToastDuration = defaults.ToastDuration
	}
	if strings.TrimSpace(c.LoadingMessage) == "" {
		c.LoadingMessage = defaults.LoadingMessage
	}
	if c.Currency == "" {
		c.Currency = defaults.Currency
	}
	if c.SessionStore == "" {
		c.SessionStore = defaults.SessionStore
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	c.APIBaseURL = strings.TrimRight(strings.TrimSpace(c.APIBaseURL), "/")
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("api_base_url cannot be empty")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api_base_url %q must be an absolute URL", c.APIBaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_base_url %q must use http or https", c.APIBaseURL)
	}

	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	switch c.Theme {
	case "default", "minimal":
	default:
		return fmt.Errorf("theme %q must be one of: default, minimal", c.Theme)
	}

	if c.ToastDuration < 0 {
		return fmt.Errorf("toast_duration cannot be negative")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout cannot be negative")
	}

	switch c.SessionStore {
	case SessionStoreMemory, SessionStoreFile:
	default:
		return fmt.Errorf("session_store %q must be one of: memory, file", c.SessionStore)
	}

	seen := make(map[string]bool, len(c.Categories))
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.ID) == "" {
			return fmt.Errorf("categories[%d]: id is required", i)
		}
		if seen[cat.ID] {
			return fmt.Errorf("categories[%d]: duplicate id %q", i, cat.ID)
		}
		seen[cat.ID] = true
	}

	return nil
}

// SessionDir is where file-backed sessions live.
func (c *Config) SessionDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

// LogFile is the default log destination.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "storefront.log")
}
