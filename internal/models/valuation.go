package models

// ValuedWatchlistEntry is a watchlist entry decorated with live quote fields.
// Pointer fields are nil when no quote could be resolved for the symbol.
type ValuedWatchlistEntry struct {
	WatchlistEntry
	CurrentPrice *float64 `json:"current_price"`
	PriceChange  *float64 `json:"price_change"`
	ChangePct    *float64 `json:"change_percent"`
}

// WatchlistView is the read-path result for a user's watchlist.
type WatchlistView struct {
	Items    []ValuedWatchlistEntry `json:"items"`
	Total    int                    `json:"total"`
	MaxItems int                    `json:"max_items"`
	Degraded bool                   `json:"quotes_degraded,omitempty"`
}

// PortfolioInfo is a portfolio header with its derived holdings count.
type PortfolioInfo struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	HoldingsCount int    `json:"holdings_count"`
	CreatedAt     string `json:"created_at"`
}

// ValuedHolding is a holding decorated with valuation figures. CurrentPrice
// is nil when no quote was available, in which case the position is shown at
// break-even: CurrentValue equals CostBasis and ProfitLoss/ReturnRate are 0.
type ValuedHolding struct {
	Holding
	Market       Market   `json:"market"`
	CostBasis    float64  `json:"cost_basis"`
	CurrentPrice *float64 `json:"current_price"`
	CurrentValue float64  `json:"current_value"`
	ProfitLoss   float64  `json:"profit_loss"`
	ReturnRate   float64  `json:"return_rate"`
}

// ValuationTotals carries the four aggregate P&L figures for a set of holdings.
type ValuationTotals struct {
	TotalHoldings     int     `json:"total_holdings"`
	TotalCostBasis    float64 `json:"total_cost_basis"`
	TotalCurrentValue float64 `json:"total_current_value"`
	TotalProfitLoss   float64 `json:"total_profit_loss"`
	TotalReturnRate   float64 `json:"total_return_rate"`
}

// MarketTotals is the per-currency-area subtotal.
type MarketTotals struct {
	Market Market `json:"market"`
	ValuationTotals
}

// PortfolioSummary is the read-path result for one portfolio: every holding
// valued, plus overall and per-market aggregates.
type PortfolioSummary struct {
	Portfolio PortfolioInfo   `json:"portfolio"`
	Holdings  []ValuedHolding `json:"holdings"`
	Summary   ValuationTotals `json:"summary"`
	ByMarket  []MarketTotals  `json:"by_market,omitempty"`
	Degraded  bool            `json:"quotes_degraded,omitempty"`
}
