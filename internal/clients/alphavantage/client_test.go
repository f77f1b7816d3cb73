package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/mystock/internal/models"
)

const delayedQuoteBody = `{
	"Global Quote - DATA DELAYED BY 15 MINUTES": {
		"01. symbol": "AAPL",
		"02. open": "179.0000",
		"03. high": "181.2500",
		"04. low": "178.5000",
		"05. price": "180.0000",
		"06. volume": "54321000",
		"07. latest trading day": "2025-06-02",
		"08. previous close": "177.7500",
		"09. change": "2.2500",
		"10. change percent": "1.2658%"
	}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key",
		WithBaseURL(server.URL),
		WithDelayed(true),
		WithRateLimit(1000),
	)
}

func TestGetQuoteDelayed(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GLOBAL_QUOTE", r.URL.Query().Get("function"))
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "test-key", r.URL.Query().Get("apikey"))
		assert.Equal(t, "delayed", r.URL.Query().Get("entitlement"))
		w.Write([]byte(delayedQuoteBody))
	})

	quote, err := client.GetQuote(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", quote.Symbol)
	assert.Equal(t, 180.0, quote.Price)
	assert.InDelta(t, 1.2658, quote.DailyChangePct, 0.0001)
	assert.Equal(t, 2.25, quote.DailyChange)
	assert.Equal(t, int64(54321000), quote.Volume)
	assert.False(t, quote.FetchedAt.IsZero())
}

func TestGetQuoteStandardKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote": {"01. symbol": "MSFT", "05. price": "415.5000", "10. change percent": "-0.5000%"}}`))
	})

	quote, err := client.GetQuote(context.Background(), "MSFT")
	require.NoError(t, err)
	assert.Equal(t, 415.5, quote.Price)
	assert.InDelta(t, -0.5, quote.DailyChangePct, 0.0001)
}

func TestGetQuoteUnknownSymbol(t *testing.T) {
	// An unknown symbol comes back as an empty object under the quote key.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Global Quote - DATA DELAYED BY 15 MINUTES": {}}`))
	})

	_, err := client.GetQuote(context.Background(), "NOSUCH")
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrQuoteUnavailable))
}

func TestGetQuoteErrorMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Error Message": "Invalid API call."}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Message, "Invalid API call")
}

func TestGetQuoteRateLimitNote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
}

func TestGetQuoteHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetQuote(context.Background(), "AAPL")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestGetTopMovers(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "TOP_GAINERS_LOSERS", r.URL.Query().Get("function"))
		w.Write([]byte(`{
			"metadata": "Top gainers, losers, and most actively traded US tickers",
			"last_updated": "2025-06-02 16:15:59 US/Eastern",
			"top_gainers": [{"ticker": "UPUP", "price": "4.20", "change_amount": "1.10", "change_percentage": "35.48%", "volume": "1200000"}],
			"top_losers": [{"ticker": "DOWN", "price": "2.15", "change_amount": "-0.95", "change_percentage": "-30.65%", "volume": "800000"}],
			"most_actively_traded": [{"ticker": "AAPL", "price": "180.00", "change_amount": "2.25", "change_percentage": "1.27%", "volume": "54321000"}]
		}`))
	})

	movers, err := client.GetTopMovers(context.Background())
	require.NoError(t, err)
	require.Len(t, movers.TopGainers, 1)
	assert.Equal(t, "UPUP", movers.TopGainers[0].Ticker)
	assert.Equal(t, "35.48%", movers.TopGainers[0].ChangePct)
	require.Len(t, movers.TopLosers, 1)
	require.Len(t, movers.MostActivelyTraded, 1)
	assert.Equal(t, "2025-06-02 16:15:59 US/Eastern", movers.LastUpdated)
}
