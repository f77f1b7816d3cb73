package models

import (
	"regexp"
	"strings"
	"time"
)

// Market identifies the currency area a symbol trades in.
type Market string

const (
	MarketUS Market = "US" // default market, USD figures
	MarketKR Market = "KR" // Korean market (.KS KOSPI / .KQ KOSDAQ suffix)
)

// Quote is a point-in-time price observation for a symbol. Quotes are never
// persisted; they live only in the process-wide cache.
type Quote struct {
	Symbol         string    `json:"symbol"`
	Price          float64   `json:"price"`
	DailyChange    float64   `json:"daily_change"`
	DailyChangePct float64   `json:"daily_change_pct"`
	Volume         int64     `json:"volume,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// TopMover is one row of the gainers/losers/most-active snapshot.
type TopMover struct {
	Ticker       string `json:"ticker"`
	Price        string `json:"price"`
	ChangeAmount string `json:"change_amount"`
	ChangePct    string `json:"change_percentage"`
	Volume       string `json:"volume"`
}

// TopMovers is the market-wide movers snapshot.
type TopMovers struct {
	LastUpdated        string     `json:"last_updated"`
	TopGainers         []TopMover `json:"top_gainers"`
	TopLosers          []TopMover `json:"top_losers"`
	MostActivelyTraded []TopMover `json:"most_actively_traded"`
}

var symbolPattern = regexp.MustCompile(`^[A-Z0-9]{1,10}(\.[A-Z]{2})?$`)

// NormalizeSymbol trims and uppercases a ticker symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// IsValidSymbol reports whether a normalized symbol matches the
// ticker-plus-optional-market-suffix convention (e.g. "AAPL", "005930.KS").
func IsValidSymbol(symbol string) bool {
	return symbolPattern.MatchString(symbol)
}

// MarketFor buckets a symbol into its currency area. Korean listings carry a
// .KS (KOSPI) or .KQ (KOSDAQ) suffix; everything else is treated as the
// default US market. The suffix is a classification marker only, never
// parsed further.
func MarketFor(symbol string) Market {
	s := strings.ToUpper(symbol)
	if strings.HasSuffix(s, ".KS") || strings.HasSuffix(s, ".KQ") {
		return MarketKR
	}
	return MarketUS
}
