package models

import (
	"time"

	"github.com/google/uuid"
)

// UserAggregate is the full owned-data record for one user: the watchlist
// plus the three fixed portfolios with their embedded holdings. It is the
// unit of atomic load/replace in the aggregate store.
type UserAggregate struct {
	UserID     string           `json:"user_id"`
	Watchlist  []WatchlistEntry `json:"watchlist"`
	Portfolios []Portfolio      `json:"portfolios"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// WatchlistEntry is one symbol on a user's watchlist. DisplayOrder is a
// zero-based dense rank: after any mutation the orders across the watchlist
// are exactly 0..n-1.
type WatchlistEntry struct {
	Symbol       string    `json:"symbol"`
	DisplayOrder int       `json:"display_order"`
	Notes        string    `json:"notes,omitempty"`
	AddedAt      time.Time `json:"added_at"`
}

// Portfolio is one of the three fixed portfolios seeded at user creation.
// The set is immutable: no create, delete, or rename operations exist.
type Portfolio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Holdings  []Holding `json:"holdings"`
	CreatedAt time.Time `json:"created_at"`
}

// Holding is a position within a portfolio. Quantity and AvgPrice are
// strictly positive; Symbol is unique within its portfolio.
type Holding struct {
	ID           string    `json:"id"`
	Symbol       string    `json:"symbol"`
	Quantity     float64   `json:"quantity"`
	AvgPrice     float64   `json:"avg_price"`
	PurchaseDate time.Time `json:"purchase_date"`
	Notes        string    `json:"notes,omitempty"`
}

// NewUserAggregate builds a fresh aggregate with an empty watchlist and the
// three fixed portfolios named per portfolioNames.
func NewUserAggregate(userID string, portfolioNames []string) *UserAggregate {
	now := time.Now().UTC()
	portfolios := make([]Portfolio, 0, len(portfolioNames))
	for _, name := range portfolioNames {
		portfolios = append(portfolios, Portfolio{
			ID:        uuid.New().String(),
			Name:      name,
			Holdings:  []Holding{},
			CreatedAt: now,
		})
	}
	return &UserAggregate{
		UserID:     userID,
		Watchlist:  []WatchlistEntry{},
		Portfolios: portfolios,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// FindWatchlistEntry returns the entry for symbol and its slice index, or
// (nil, -1) if absent. Symbol must already be normalized.
func (a *UserAggregate) FindWatchlistEntry(symbol string) (*WatchlistEntry, int) {
	for i := range a.Watchlist {
		if a.Watchlist[i].Symbol == symbol {
			return &a.Watchlist[i], i
		}
	}
	return nil, -1
}

// FindPortfolio returns the portfolio with the given id and its slice index,
// or (nil, -1) if absent.
func (a *UserAggregate) FindPortfolio(portfolioID string) (*Portfolio, int) {
	for i := range a.Portfolios {
		if a.Portfolios[i].ID == portfolioID {
			return &a.Portfolios[i], i
		}
	}
	return nil, -1
}

// FindHolding returns the holding with the given id and its slice index
// within the portfolio, or (nil, -1) if absent.
func (p *Portfolio) FindHolding(holdingID string) (*Holding, int) {
	for i := range p.Holdings {
		if p.Holdings[i].ID == holdingID {
			return &p.Holdings[i], i
		}
	}
	return nil, -1
}

// HasSymbol reports whether any holding in the portfolio carries the symbol.
// Symbol must already be normalized.
func (p *Portfolio) HasSymbol(symbol string) bool {
	for i := range p.Holdings {
		if p.Holdings[i].Symbol == symbol {
			return true
		}
	}
	return false
}

// WatchlistSymbols returns the watchlist's symbols in stored slice order.
func (a *UserAggregate) WatchlistSymbols() []string {
	symbols := make([]string, len(a.Watchlist))
	for i, e := range a.Watchlist {
		symbols[i] = e.Symbol
	}
	return symbols
}
