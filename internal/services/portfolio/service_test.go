package portfolio

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/models"
	"github.com/bobmcallan/mystock/internal/storage/memory"
)

type stubQuotes struct {
	prices map[string]float64
}

func (s *stubQuotes) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	price, ok := s.prices[symbol]
	if !ok {
		return nil, models.ErrQuoteUnavailable
	}
	return &models.Quote{Symbol: symbol, Price: price}, nil
}

func (s *stubQuotes) GetQuotes(ctx context.Context, symbols []string) map[string]*models.Quote {
	results := make(map[string]*models.Quote)
	for _, symbol := range symbols {
		symbol = models.NormalizeSymbol(symbol)
		if price, ok := s.prices[symbol]; ok {
			results[symbol] = &models.Quote{Symbol: symbol, Price: price}
		}
	}
	return results
}

func (s *stubQuotes) GetTopMovers(ctx context.Context) (*models.TopMovers, error) {
	return &models.TopMovers{}, nil
}

func newTestService(t *testing.T, quotes *stubQuotes) (*Service, *models.UserAggregate) {
	t.Helper()
	store := memory.NewStore()
	if quotes == nil {
		quotes = &stubQuotes{prices: map[string]float64{}}
	}
	svc := NewService(store, quotes, 100, 500, common.NewSilentLogger())

	aggregate := models.NewUserAggregate("alice", []string{"Long Term", "Short Term", "Scout"})
	require.NoError(t, store.Create(context.Background(), aggregate))
	return svc, aggregate
}

func TestListPortfolios(t *testing.T) {
	svc, _ := newTestService(t, nil)

	infos, err := svc.ListPortfolios(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, infos, 3)
	assert.Equal(t, "Long Term", infos[0].Name)
	assert.Equal(t, "Short Term", infos[1].Name)
	assert.Equal(t, "Scout", infos[2].Name)
	for _, info := range infos {
		assert.NotEmpty(t, info.ID)
		assert.Zero(t, info.HoldingsCount)
	}
}

func TestAddHolding(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 180.00}}
	svc, aggregate := newTestService(t, quotes)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	holding, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{
		Symbol:       "aapl",
		Quantity:     10,
		AvgPrice:     175.50,
		PurchaseDate: "2025-01-15",
		Notes:        "core position",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, holding.ID)
	assert.Equal(t, "AAPL", holding.Symbol)
	assert.Equal(t, "2025-01-15", holding.PurchaseDate.Format("2006-01-02"))
	require.NotNil(t, holding.CurrentPrice)
	assert.Equal(t, 180.00, *holding.CurrentPrice)
	assert.Equal(t, 1755.00, holding.CostBasis)
	assert.Equal(t, 1800.00, holding.CurrentValue)
	assert.Equal(t, 45.00, holding.ProfitLoss)
	assert.Equal(t, 2.56, holding.ReturnRate)

	infos, err := svc.ListPortfolios(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, infos[0].HoldingsCount)
	assert.Zero(t, infos[1].HoldingsCount)
}

func TestAddHoldingWithoutQuote(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	holding, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "MSFT", Quantity: 4, AvgPrice: 420.00})
	require.NoError(t, err)
	assert.Nil(t, holding.CurrentPrice)
	assert.Equal(t, 1680.00, holding.CostBasis)
	assert.Equal(t, 1680.00, holding.CurrentValue)
	assert.Zero(t, holding.ProfitLoss)
	assert.Zero(t, holding.ReturnRate)
}

func TestAddHoldingValidation(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	cases := map[string]models.HoldingInput{
		"missing symbol":    {Quantity: 10, AvgPrice: 100},
		"zero quantity":     {Symbol: "AAPL", AvgPrice: 100},
		"negative quantity": {Symbol: "AAPL", Quantity: -1, AvgPrice: 100},
		"zero price":        {Symbol: "AAPL", Quantity: 10},
		"negative price":    {Symbol: "AAPL", Quantity: 10, AvgPrice: -5},
		"bad purchase date": {Symbol: "AAPL", Quantity: 10, AvgPrice: 100, PurchaseDate: "15/01/2025"},
		"malformed symbol":  {Symbol: "not a symbol", Quantity: 10, AvgPrice: 100},
	}
	for name, input := range cases {
		_, err := svc.AddHolding(ctx, "alice", portfolioID, input)
		assert.True(t, errors.Is(err, models.ErrInvalidInput), name)
	}
}

func TestAddHoldingDuplicateSymbol(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	_, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 100})
	require.NoError(t, err)

	_, err = svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "aapl", Quantity: 5, AvgPrice: 110})
	assert.True(t, errors.Is(err, models.ErrDuplicateSymbol))

	// The same symbol is fine in a different portfolio.
	_, err = svc.AddHolding(ctx, "alice", aggregate.Portfolios[1].ID, models.HoldingInput{Symbol: "AAPL", Quantity: 5, AvgPrice: 110})
	assert.NoError(t, err)
}

func TestAddHoldingCapacity(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	// The 100th holding fits; the 101st does not. The limit is per
	// portfolio, so a sibling portfolio still accepts new holdings.
	for i := 0; i < 100; i++ {
		_, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: fmt.Sprintf("SYM%d", i), Quantity: 1, AvgPrice: 1})
		require.NoError(t, err, "symbol %d", i)
	}

	_, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "SYM100", Quantity: 1, AvgPrice: 1})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrLimitExceeded))

	_, err = svc.AddHolding(ctx, "alice", aggregate.Portfolios[1].ID, models.HoldingInput{Symbol: "SYM100", Quantity: 1, AvgPrice: 1})
	require.NoError(t, err)
}

func TestAddHoldingUnknownPortfolio(t *testing.T) {
	svc, _ := newTestService(t, nil)

	_, err := svc.AddHolding(context.Background(), "alice", "no-such-id", models.HoldingInput{Symbol: "AAPL", Quantity: 1, AvgPrice: 1})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestPortfolioOwnershipIsolation(t *testing.T) {
	store := memory.NewStore()
	svc := NewService(store, &stubQuotes{prices: map[string]float64{}}, 100, 500, common.NewSilentLogger())
	ctx := context.Background()

	alice := models.NewUserAggregate("alice", []string{"A", "B", "C"})
	bob := models.NewUserAggregate("bob", []string{"A", "B", "C"})
	require.NoError(t, store.Create(ctx, alice))
	require.NoError(t, store.Create(ctx, bob))

	// Bob addressing Alice's portfolio id gets the same answer as for an id
	// that does not exist anywhere.
	_, err := svc.GetSummary(ctx, "bob", alice.Portfolios[0].ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = svc.AddHolding(ctx, "bob", alice.Portfolios[0].ID, models.HoldingInput{Symbol: "AAPL", Quantity: 1, AvgPrice: 1})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUpdateHolding(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 180.00}}
	svc, aggregate := newTestService(t, quotes)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	holding, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 175.50})
	require.NoError(t, err)

	qty := 12.0
	updated, err := svc.UpdateHolding(ctx, "alice", portfolioID, holding.ID, models.HoldingUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 12.0, updated.Quantity)
	assert.Equal(t, 175.50, updated.AvgPrice)
	assert.Equal(t, 2106.00, updated.CostBasis)
	assert.Equal(t, 2160.00, updated.CurrentValue)
	assert.Equal(t, 54.00, updated.ProfitLoss)
	assert.Equal(t, 2.56, updated.ReturnRate)
}

func TestUpdateHoldingValidation(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	holding, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 175.50})
	require.NoError(t, err)

	_, err = svc.UpdateHolding(ctx, "alice", portfolioID, holding.ID, models.HoldingUpdate{})
	assert.True(t, errors.Is(err, models.ErrInvalidInput), "empty update")

	bad := -1.0
	_, err = svc.UpdateHolding(ctx, "alice", portfolioID, holding.ID, models.HoldingUpdate{Quantity: &bad})
	assert.True(t, errors.Is(err, models.ErrInvalidInput), "negative quantity")

	_, err = svc.UpdateHolding(ctx, "alice", portfolioID, "no-such-holding", models.HoldingUpdate{Quantity: &[]float64{5}[0]})
	assert.True(t, errors.Is(err, models.ErrNotFound), "unknown holding")
}

func TestRemoveHolding(t *testing.T) {
	svc, aggregate := newTestService(t, nil)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	holding, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 175.50})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveHolding(ctx, "alice", portfolioID, holding.ID))

	err = svc.RemoveHolding(ctx, "alice", portfolioID, holding.ID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestGetSummary(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 180.00, "005930.KS": 71500}}
	svc, aggregate := newTestService(t, quotes)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	_, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 175.50})
	require.NoError(t, err)
	_, err = svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "005930.KS", Quantity: 10, AvgPrice: 70000})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "alice", portfolioID)
	require.NoError(t, err)
	assert.False(t, summary.Degraded)
	assert.Equal(t, 2, summary.Portfolio.HoldingsCount)
	require.Len(t, summary.Holdings, 2)

	assert.Equal(t, 1755.00, summary.Holdings[0].CostBasis)
	assert.Equal(t, 1800.00, summary.Holdings[0].CurrentValue)
	assert.Equal(t, 45.00, summary.Holdings[0].ProfitLoss)
	assert.Equal(t, 2.56, summary.Holdings[0].ReturnRate)

	require.Len(t, summary.ByMarket, 2)
	assert.Equal(t, models.MarketUS, summary.ByMarket[0].Market)
	assert.Equal(t, models.MarketKR, summary.ByMarket[1].Market)
}

func TestGetSummaryDegradesOnMissingQuotes(t *testing.T) {
	quotes := &stubQuotes{prices: map[string]float64{"AAPL": 180.00}}
	svc, aggregate := newTestService(t, quotes)
	ctx := context.Background()
	portfolioID := aggregate.Portfolios[0].ID

	_, err := svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "AAPL", Quantity: 10, AvgPrice: 175.50})
	require.NoError(t, err)
	_, err = svc.AddHolding(ctx, "alice", portfolioID, models.HoldingInput{Symbol: "MSFT", Quantity: 4, AvgPrice: 420.00})
	require.NoError(t, err)

	summary, err := svc.GetSummary(ctx, "alice", portfolioID)
	require.NoError(t, err)
	assert.True(t, summary.Degraded)

	// The unquoted position counts at break-even.
	assert.Equal(t, 1755.00+1680.00, summary.Summary.TotalCostBasis)
	assert.Equal(t, 1800.00+1680.00, summary.Summary.TotalCurrentValue)
	assert.Equal(t, 45.00, summary.Summary.TotalProfitLoss)
}

func TestGetSummaryEmptyPortfolio(t *testing.T) {
	svc, aggregate := newTestService(t, nil)

	summary, err := svc.GetSummary(context.Background(), "alice", aggregate.Portfolios[2].ID)
	require.NoError(t, err)
	assert.Empty(t, summary.Holdings)
	assert.Equal(t, 0.00, summary.Summary.TotalCostBasis)
	assert.Empty(t, summary.ByMarket)
	assert.False(t, summary.Degraded)
}
