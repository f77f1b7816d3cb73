package portfolio

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/mystock/internal/models"
)

// valueHolding computes the P&L figures for one position. With no quote the
// position degrades to break-even: current value equals cost basis and both
// profit figures are zero.
func valueHolding(h models.Holding, quote *models.Quote) models.ValuedHolding {
	qty := decimal.NewFromFloat(h.Quantity)
	costBasis := qty.Mul(decimal.NewFromFloat(h.AvgPrice))

	valued := models.ValuedHolding{
		Holding:   h,
		Market:    models.MarketFor(h.Symbol),
		CostBasis: costBasis.Round(2).InexactFloat64(),
	}

	if quote == nil {
		valued.CurrentValue = valued.CostBasis
		return valued
	}

	price := quote.Price
	currentValue := qty.Mul(decimal.NewFromFloat(price))
	profitLoss := currentValue.Sub(costBasis)

	valued.CurrentPrice = &price
	valued.CurrentValue = currentValue.Round(2).InexactFloat64()
	valued.ProfitLoss = profitLoss.Round(2).InexactFloat64()
	if !costBasis.IsZero() {
		valued.ReturnRate = profitLoss.Div(costBasis).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return valued
}

// sumTotals aggregates the four P&L figures over a set of valued holdings.
func sumTotals(holdings []models.ValuedHolding) models.ValuationTotals {
	costBasis := decimal.Zero
	currentValue := decimal.Zero

	for _, h := range holdings {
		costBasis = costBasis.Add(decimal.NewFromFloat(h.CostBasis))
		currentValue = currentValue.Add(decimal.NewFromFloat(h.CurrentValue))
	}

	profitLoss := currentValue.Sub(costBasis)
	totals := models.ValuationTotals{
		TotalHoldings:     len(holdings),
		TotalCostBasis:    costBasis.Round(2).InexactFloat64(),
		TotalCurrentValue: currentValue.Round(2).InexactFloat64(),
		TotalProfitLoss:   profitLoss.Round(2).InexactFloat64(),
	}
	if !costBasis.IsZero() {
		totals.TotalReturnRate = profitLoss.Div(costBasis).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return totals
}

// sumByMarket produces per-currency-area subtotals, US first. Figures from
// different markets are never merged into one currency.
func sumByMarket(holdings []models.ValuedHolding) []models.MarketTotals {
	buckets := make(map[models.Market][]models.ValuedHolding)
	for _, h := range holdings {
		buckets[h.Market] = append(buckets[h.Market], h)
	}

	var out []models.MarketTotals
	for _, market := range []models.Market{models.MarketUS, models.MarketKR} {
		group, ok := buckets[market]
		if !ok {
			continue
		}
		out = append(out, models.MarketTotals{
			Market:          market,
			ValuationTotals: sumTotals(group),
		})
	}
	return out
}
