package interfaces

import (
	"context"

	"github.com/bobmcallan/mystock/internal/models"
)

// QuoteClient fetches market data from an upstream provider.
type QuoteClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetTopMovers(ctx context.Context) (*models.TopMovers, error)
}
