package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "badger", config.Storage.Backend)
	assert.Equal(t, []string{"Long Term", "Short Term", "Scout"}, config.PortfolioNames)
	assert.Equal(t, 50, config.Limits.MaxWatchlistItems)
	assert.Equal(t, 100, config.Limits.MaxHoldingsPerPortfolio)
	assert.Equal(t, 5, config.Limits.FetchParallelism)
	assert.Equal(t, 5*time.Minute, config.Limits.GetQuoteTTL())
	assert.Equal(t, 10*time.Second, config.Limits.GetFetchTimeout())
	assert.Equal(t, 10*time.Second, config.Clients.AlphaVantage.GetTimeout())
	assert.False(t, config.IsProduction())
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mystock.toml")
	content := `
environment = "production"
portfolio_names = ["Core", "Swing", "Probe"]

[server]
port = 9090

[storage]
backend = "memory"

[limits]
quote_ttl = "60s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "memory", config.Storage.Backend)
	assert.Equal(t, []string{"Core", "Swing", "Probe"}, config.PortfolioNames)
	assert.Equal(t, time.Minute, config.Limits.GetQuoteTTL())
	assert.True(t, config.IsProduction())

	// Unset sections keep defaults.
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, 50, config.Limits.MaxWatchlistItems)
}

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("MYSTOCK_PORT", "7070")
	t.Setenv("MYSTOCK_STORAGE_BACKEND", "memory")
	t.Setenv("ALPHA_VANTAGE_API_KEY", "secret")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "memory", config.Storage.Backend)
	assert.Equal(t, "secret", config.Clients.AlphaVantage.APIKey)
}

func TestLoadConfigRejectsBadBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mystock.toml")
	require.NoError(t, os.WriteFile(path, []byte("[storage]\nbackend = \"oracle\"\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage backend")
}

func TestLoadConfigRejectsBadPortfolioNames(t *testing.T) {
	cases := map[string]string{
		"wrong count": `portfolio_names = ["One", "Two"]`,
		"blank name":  `portfolio_names = ["One", " ", "Three"]`,
		"repeated":    `portfolio_names = ["One", "One", "Three"]`,
	}
	for name, content := range cases {
		path := filepath.Join(t.TempDir(), "mystock.toml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		_, err := LoadConfig(path)
		assert.Error(t, err, name)
	}
}

func TestGetDurationFallbacks(t *testing.T) {
	limits := LimitsConfig{QuoteTTL: "bogus", FetchTimeout: ""}
	assert.Equal(t, 5*time.Minute, limits.GetQuoteTTL())
	assert.Equal(t, 10*time.Second, limits.GetFetchTimeout())
}
