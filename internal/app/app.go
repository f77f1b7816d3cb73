// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/mystock-server.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/mystock/internal/clients/alphavantage"
	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/services/portfolio"
	"github.com/bobmcallan/mystock/internal/services/quote"
	"github.com/bobmcallan/mystock/internal/services/user"
	"github.com/bobmcallan/mystock/internal/services/watchlist"
	"github.com/bobmcallan/mystock/internal/storage"
)

// App holds all initialized services, clients, and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.UserAggregateStore
	QuoteClient      interfaces.QuoteClient
	QuoteService     interfaces.QuoteService
	WatchlistService interfaces.WatchlistService
	PortfolioService interfaces.PortfolioService
	UserService      interfaces.UserService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services. configPath may be
// empty, in which case MYSTOCK_CONFIG and the binary directory are tried.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("MYSTOCK_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "mystock.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/mystock.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}

	logger := common.NewLogger(config.Logging.Level)

	store, err := storage.NewStore(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	avConfig := config.Clients.AlphaVantage
	quoteClient := alphavantage.NewClient(avConfig.APIKey,
		alphavantage.WithBaseURL(avConfig.BaseURL),
		alphavantage.WithRateLimit(avConfig.RateLimit),
		alphavantage.WithTimeout(avConfig.GetTimeout()),
		alphavantage.WithDelayed(avConfig.UseDelayed),
		alphavantage.WithLogger(logger),
	)

	quoteService := quote.NewService(
		quoteClient,
		config.Limits.GetQuoteTTL(),
		config.Limits.FetchParallelism,
		config.Limits.GetFetchTimeout(),
		logger,
	)

	a := &App{
		Config:       config,
		Logger:       logger,
		Storage:      store,
		QuoteClient:  quoteClient,
		QuoteService: quoteService,
		WatchlistService: watchlist.NewService(
			store, quoteService,
			config.Limits.MaxWatchlistItems, config.Limits.MaxNotesLen,
			logger,
		),
		PortfolioService: portfolio.NewService(
			store, quoteService,
			config.Limits.MaxHoldingsPerPortfolio, config.Limits.MaxNotesLen,
			logger,
		),
		UserService: user.NewService(store, config.PortfolioNames, logger),
		StartupTime: time.Now(),
	}

	logger.Info().
		Str("backend", config.Storage.Backend).
		Str("environment", config.Environment).
		Msg("Application initialized")

	return a, nil
}

// Close releases storage resources.
func (a *App) Close() error {
	if a.Storage != nil {
		return a.Storage.Close()
	}
	return nil
}
