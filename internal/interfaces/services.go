package interfaces

import (
	"context"

	"github.com/bobmcallan/mystock/internal/models"
)

// QuoteService resolves quotes through the TTL cache with bounded-parallel
// upstream fan-out. GetQuotes returns whatever it could resolve; a symbol
// missing from the map means every source for it failed.
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetQuotes(ctx context.Context, symbols []string) map[string]*models.Quote
	GetTopMovers(ctx context.Context) (*models.TopMovers, error)
}

// WatchlistService manages a user's ordered watchlist.
type WatchlistService interface {
	List(ctx context.Context, userID string) ([]models.WatchlistEntry, error)
	ListValued(ctx context.Context, userID string) (*models.WatchlistView, error)
	Add(ctx context.Context, userID, symbol, notes string) (*models.WatchlistEntry, error)
	Reorder(ctx context.Context, userID string, symbols []string) error
	UpdateNotes(ctx context.Context, userID, symbol, notes string) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID, symbol string) error
}

// PortfolioService manages a user's fixed set of portfolios and their
// holdings, and produces valued summaries.
type PortfolioService interface {
	ListPortfolios(ctx context.Context, userID string) ([]models.PortfolioInfo, error)
	GetSummary(ctx context.Context, userID, portfolioID string) (*models.PortfolioSummary, error)
	AddHolding(ctx context.Context, userID, portfolioID string, input models.HoldingInput) (*models.ValuedHolding, error)
	UpdateHolding(ctx context.Context, userID, portfolioID, holdingID string, input models.HoldingUpdate) (*models.ValuedHolding, error)
	RemoveHolding(ctx context.Context, userID, portfolioID, holdingID string) error
}

// UserService provisions and removes user aggregates.
type UserService interface {
	Register(ctx context.Context, userID string) (*models.UserAggregate, error)
	Get(ctx context.Context, userID string) (*models.UserAggregate, error)
	Remove(ctx context.Context, userID string) error
}
