// Package common provides shared utilities for mystock
package common

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for the mystock server
type Config struct {
	Environment    string        `toml:"environment"`
	PortfolioNames []string      `toml:"portfolio_names"` // Fixed names seeded into every new user aggregate
	Server         ServerConfig  `toml:"server"`
	Storage        StorageConfig `toml:"storage"`
	Clients        ClientsConfig `toml:"clients"`
	Limits         LimitsConfig  `toml:"limits"`
	Logging        LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds aggregate store configuration.
// Backend selects the implementation: "memory", "badger", or "surrealdb".
type StorageConfig struct {
	Backend   string `toml:"backend"`
	Path      string `toml:"path"`      // badger data directory
	Address   string `toml:"address"`   // surrealdb websocket address
	Namespace string `toml:"namespace"` // surrealdb namespace
	Database  string `toml:"database"`  // surrealdb database
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	AlphaVantage AlphaVantageConfig `toml:"alphavantage"`
}

// AlphaVantageConfig holds Alpha Vantage API configuration
type AlphaVantageConfig struct {
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	RateLimit  int    `toml:"rate_limit"`
	Timeout    string `toml:"timeout"`
	UseDelayed bool   `toml:"use_delayed"` // 15-minute-delayed entitlement (higher rate allowance)
}

// GetTimeout parses and returns the timeout duration
func (c *AlphaVantageConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LimitsConfig holds collection bounds and quote-fetch tuning.
type LimitsConfig struct {
	MaxWatchlistItems       int    `toml:"max_watchlist_items"`
	MaxHoldingsPerPortfolio int    `toml:"max_holdings_per_portfolio"`
	MaxNotesLen             int    `toml:"max_notes_len"`
	QuoteTTL                string `toml:"quote_ttl"`
	FetchParallelism        int    `toml:"fetch_parallelism"`
	FetchTimeout            string `toml:"fetch_timeout"`
}

// GetQuoteTTL parses and returns the quote cache TTL
func (c *LimitsConfig) GetQuoteTTL() time.Duration {
	d, err := time.ParseDuration(c.QuoteTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// GetFetchTimeout parses and returns the per-symbol fetch timeout
func (c *LimitsConfig) GetFetchTimeout() time.Duration {
	d, err := time.ParseDuration(c.FetchTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `toml:"level"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:    "development",
		PortfolioNames: []string{"Long Term", "Short Term", "Scout"},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Backend:   "badger",
			Path:      "data/mystock",
			Address:   "ws://localhost:8000",
			Namespace: "mystock",
			Database:  "mystock",
			Username:  "root",
			Password:  "root",
		},
		Clients: ClientsConfig{
			AlphaVantage: AlphaVantageConfig{
				BaseURL:    "https://www.alphavantage.co/query",
				RateLimit:  5,
				Timeout:    "10s",
				UseDelayed: true,
			},
		},
		Limits: LimitsConfig{
			MaxWatchlistItems:       50,
			MaxHoldingsPerPortfolio: 100,
			MaxNotesLen:             500,
			QuoteTTL:                "300s",
			FetchParallelism:        5,
			FetchTimeout:            "10s",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MYSTOCK_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MYSTOCK_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MYSTOCK_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MYSTOCK_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if backend := os.Getenv("MYSTOCK_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if path := os.Getenv("MYSTOCK_DATA_PATH"); path != "" {
		config.Storage.Path = filepath.Join(path, "mystock")
	}

	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		config.Clients.AlphaVantage.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validate rejects configurations the services cannot operate under.
func validate(config *Config) error {
	switch config.Storage.Backend {
	case "memory", "badger", "surrealdb":
	default:
		return fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}

	if len(config.PortfolioNames) != 3 {
		return fmt.Errorf("portfolio_names must list exactly 3 names, got %d", len(config.PortfolioNames))
	}
	seen := map[string]bool{}
	for _, name := range config.PortfolioNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("portfolio_names must not contain blank entries")
		}
		if seen[name] {
			return fmt.Errorf("portfolio_names must be distinct, %q repeats", name)
		}
		seen[name] = true
	}

	if config.Limits.MaxWatchlistItems <= 0 {
		config.Limits.MaxWatchlistItems = 50
	}
	if config.Limits.MaxHoldingsPerPortfolio <= 0 {
		config.Limits.MaxHoldingsPerPortfolio = 100
	}
	if config.Limits.FetchParallelism <= 0 {
		config.Limits.FetchParallelism = 5
	}
	if config.Limits.MaxNotesLen <= 0 {
		config.Limits.MaxNotesLen = 500
	}

	return nil
}
