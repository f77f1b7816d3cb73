// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the QuoteClient interface against Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	delayed    bool
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithDelayed requests the 15-minute-delayed entitlement, which carries a
// higher request allowance. The response payload key changes accordingly.
func WithDelayed(delayed bool) ClientOption {
	return func(c *Client) {
		c.delayed = delayed
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("alpha vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// get performs a rate-limited GET request for one API function. Alpha
// Vantage signals failures inside a 200 response, so the raw body is
// returned for the caller to inspect.
func (c *Client) get(ctx context.Context, function string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)
	if c.delayed {
		params.Set("entitlement", "delayed")
	}

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Msg("alpha vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Function:   function,
		}
	}

	if msg := failureMessage(body); msg != "" {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Function:   function,
		}
	}

	return body, nil
}

// failureMessage extracts the in-band error Alpha Vantage embeds in otherwise
// successful responses: "Error Message" for bad requests, "Note" and
// "Information" for throttling and entitlement problems.
func failureMessage(body []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	for _, key := range []string{"Error Message", "Note", "Information"} {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return msg
		}
	}
	return ""
}

// globalQuotePayload mirrors the GLOBAL_QUOTE field naming. Every value
// arrives as a string.
type globalQuotePayload struct {
	Symbol        string `json:"01. symbol"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

// quoteKeys are the top-level keys GLOBAL_QUOTE responses arrive under. The
// delayed entitlement renames the standard key.
var quoteKeys = []string{
	"Global Quote - DATA DELAYED BY 15 MINUTES",
	"Global Quote",
}

// GetQuote retrieves the current price snapshot for a symbol.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := c.get(ctx, "GLOBAL_QUOTE", params)
	if err != nil {
		return nil, err
	}

	var envelope map[string]globalQuotePayload
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}

	var payload globalQuotePayload
	found := false
	for _, key := range quoteKeys {
		if p, ok := envelope[key]; ok {
			payload = p
			found = true
			break
		}
	}
	// An empty object under the quote key means the symbol is unknown.
	if !found || payload.Price == "" {
		return nil, fmt.Errorf("no quote data for %s: %w", symbol, models.ErrQuoteUnavailable)
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for %s: %w", payload.Price, symbol, err)
	}

	quote := &models.Quote{
		Symbol:    symbol,
		Price:     price,
		FetchedAt: time.Now().UTC(),
	}

	// "10. change percent" arrives as "1.2345%".
	if pct := strings.TrimSuffix(payload.ChangePercent, "%"); pct != "" {
		if v, err := strconv.ParseFloat(pct, 64); err == nil {
			quote.DailyChangePct = v
		}
	}
	if payload.Change != "" {
		if v, err := strconv.ParseFloat(payload.Change, 64); err == nil {
			quote.DailyChange = v
		}
	}
	if payload.Volume != "" {
		if v, err := strconv.ParseInt(payload.Volume, 10, 64); err == nil {
			quote.Volume = v
		}
	}

	return quote, nil
}

// GetTopMovers retrieves the market-wide gainers, losers, and most actively
// traded snapshot.
func (c *Client) GetTopMovers(ctx context.Context) (*models.TopMovers, error) {
	body, err := c.get(ctx, "TOP_GAINERS_LOSERS", nil)
	if err != nil {
		return nil, err
	}

	var movers models.TopMovers
	if err := json.Unmarshal(body, &movers); err != nil {
		return nil, fmt.Errorf("failed to decode movers response: %w", err)
	}

	return &movers, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
