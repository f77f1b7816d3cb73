// Package portfolio provides holding management and valuation services for
// the fixed per-user portfolios.
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// Service implements PortfolioService. Portfolios are addressed by id within
// the caller's own aggregate, so a portfolio owned by someone else is
// indistinguishable from one that does not exist.
type Service struct {
	storage     interfaces.UserAggregateStore
	quotes      interfaces.QuoteService
	maxHoldings int
	maxNotes    int
	logger      *common.Logger
}

// NewService creates a new portfolio service
func NewService(storage interfaces.UserAggregateStore, quotes interfaces.QuoteService, maxHoldings, maxNotes int, logger *common.Logger) *Service {
	if maxHoldings <= 0 {
		maxHoldings = 100
	}
	if maxNotes <= 0 {
		maxNotes = 500
	}
	return &Service{
		storage:     storage,
		quotes:      quotes,
		maxHoldings: maxHoldings,
		maxNotes:    maxNotes,
		logger:      logger,
	}
}

// ListPortfolios returns the user's portfolio headers with holdings counts.
func (s *Service) ListPortfolios(ctx context.Context, userID string) ([]models.PortfolioInfo, error) {
	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	infos := make([]models.PortfolioInfo, len(aggregate.Portfolios))
	for i, p := range aggregate.Portfolios {
		infos[i] = models.PortfolioInfo{
			ID:            p.ID,
			Name:          p.Name,
			HoldingsCount: len(p.Holdings),
			CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
		}
	}
	return infos, nil
}

// GetSummary values every holding in the portfolio and aggregates overall
// and per-market totals. Quote failures degrade the affected positions to
// break-even and flag the summary instead of failing it.
func (s *Service) GetSummary(ctx context.Context, userID, portfolioID string) (*models.PortfolioSummary, error) {
	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	pf, idx := aggregate.FindPortfolio(portfolioID)
	if idx < 0 {
		return nil, fmt.Errorf("portfolio %s: %w", portfolioID, models.ErrNotFound)
	}

	symbols := make([]string, len(pf.Holdings))
	for i, h := range pf.Holdings {
		symbols[i] = h.Symbol
	}
	quotes := s.quotes.GetQuotes(ctx, symbols)

	summary := &models.PortfolioSummary{
		Portfolio: models.PortfolioInfo{
			ID:            pf.ID,
			Name:          pf.Name,
			HoldingsCount: len(pf.Holdings),
			CreatedAt:     pf.CreatedAt.UTC().Format(time.RFC3339),
		},
		Holdings: make([]models.ValuedHolding, 0, len(pf.Holdings)),
	}

	for _, h := range pf.Holdings {
		quote, ok := quotes[h.Symbol]
		if !ok {
			summary.Degraded = true
		}
		summary.Holdings = append(summary.Holdings, valueHolding(h, quote))
	}

	summary.Summary = sumTotals(summary.Holdings)
	summary.ByMarket = sumByMarket(summary.Holdings)
	return summary, nil
}

// valued runs one holding through the valuation engine at its current
// quote, degrading to break-even when no quote can be resolved.
func (s *Service) valued(ctx context.Context, holding models.Holding) *models.ValuedHolding {
	quote, err := s.quotes.GetQuote(ctx, holding.Symbol)
	if err != nil {
		s.logger.Warn().Err(err).Str("symbol", holding.Symbol).Msg("valuing holding without quote")
		quote = nil
	}
	v := valueHolding(holding, quote)
	return &v
}

// AddHolding records a new position in the portfolio and returns it valued
// at the current quote.
func (s *Service) AddHolding(ctx context.Context, userID, portfolioID string, input models.HoldingInput) (*models.ValuedHolding, error) {
	symbol := models.NormalizeSymbol(input.Symbol)
	if !models.IsValidSymbol(symbol) {
		return nil, fmt.Errorf("symbol %q: %w", input.Symbol, models.ErrInvalidInput)
	}
	if input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", models.ErrInvalidInput)
	}
	if input.AvgPrice <= 0 {
		return nil, fmt.Errorf("avg_price must be positive: %w", models.ErrInvalidInput)
	}
	if len(input.Notes) > s.maxNotes {
		return nil, fmt.Errorf("notes exceed %d characters: %w", s.maxNotes, models.ErrInvalidInput)
	}

	purchaseDate := time.Now().UTC()
	if input.PurchaseDate != "" {
		parsed, err := time.Parse("2006-01-02", input.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("purchase_date must be YYYY-MM-DD: %w", models.ErrInvalidInput)
		}
		purchaseDate = parsed
	}

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	pf, idx := aggregate.FindPortfolio(portfolioID)
	if idx < 0 {
		return nil, fmt.Errorf("portfolio %s: %w", portfolioID, models.ErrNotFound)
	}
	if pf.HasSymbol(symbol) {
		return nil, fmt.Errorf("%s already held in %s: %w", symbol, pf.Name, models.ErrDuplicateSymbol)
	}
	if len(pf.Holdings) >= s.maxHoldings {
		return nil, fmt.Errorf("portfolio capped at %d holdings: %w", s.maxHoldings, models.ErrLimitExceeded)
	}

	holding := models.Holding{
		ID:           uuid.New().String(),
		Symbol:       symbol,
		Quantity:     input.Quantity,
		AvgPrice:     input.AvgPrice,
		PurchaseDate: purchaseDate,
		Notes:        input.Notes,
	}
	pf.Holdings = append(pf.Holdings, holding)
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("portfolio", pf.Name).Str("symbol", symbol).Msg("Holding added")
	return s.valued(ctx, holding), nil
}

// UpdateHolding applies a partial update and returns the holding valued at
// the current quote. At least one field must be set; nil fields are left
// untouched.
func (s *Service) UpdateHolding(ctx context.Context, userID, portfolioID, holdingID string, input models.HoldingUpdate) (*models.ValuedHolding, error) {
	if input.Quantity == nil && input.AvgPrice == nil && input.PurchaseDate == nil && input.Notes == nil {
		return nil, fmt.Errorf("update carries no fields: %w", models.ErrInvalidInput)
	}
	if input.Quantity != nil && *input.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", models.ErrInvalidInput)
	}
	if input.AvgPrice != nil && *input.AvgPrice <= 0 {
		return nil, fmt.Errorf("avg_price must be positive: %w", models.ErrInvalidInput)
	}
	if input.Notes != nil && len(*input.Notes) > s.maxNotes {
		return nil, fmt.Errorf("notes exceed %d characters: %w", s.maxNotes, models.ErrInvalidInput)
	}

	var purchaseDate time.Time
	if input.PurchaseDate != nil {
		parsed, err := time.Parse("2006-01-02", *input.PurchaseDate)
		if err != nil {
			return nil, fmt.Errorf("purchase_date must be YYYY-MM-DD: %w", models.ErrInvalidInput)
		}
		purchaseDate = parsed
	}

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	pf, idx := aggregate.FindPortfolio(portfolioID)
	if idx < 0 {
		return nil, fmt.Errorf("portfolio %s: %w", portfolioID, models.ErrNotFound)
	}
	holding, hidx := pf.FindHolding(holdingID)
	if hidx < 0 {
		return nil, fmt.Errorf("holding %s: %w", holdingID, models.ErrNotFound)
	}

	if input.Quantity != nil {
		holding.Quantity = *input.Quantity
	}
	if input.AvgPrice != nil {
		holding.AvgPrice = *input.AvgPrice
	}
	if input.PurchaseDate != nil {
		holding.PurchaseDate = purchaseDate
	}
	if input.Notes != nil {
		holding.Notes = *input.Notes
	}
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("holding", holdingID).Msg("Holding updated")
	return s.valued(ctx, *holding), nil
}

// RemoveHolding deletes a position from the portfolio.
func (s *Service) RemoveHolding(ctx context.Context, userID, portfolioID, holdingID string) error {
	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	pf, idx := aggregate.FindPortfolio(portfolioID)
	if idx < 0 {
		return fmt.Errorf("portfolio %s: %w", portfolioID, models.ErrNotFound)
	}
	_, hidx := pf.FindHolding(holdingID)
	if hidx < 0 {
		return fmt.Errorf("holding %s: %w", holdingID, models.ErrNotFound)
	}

	pf.Holdings = append(pf.Holdings[:hidx], pf.Holdings[hidx+1:]...)
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("holding", holdingID).Msg("Holding removed")
	return nil
}
