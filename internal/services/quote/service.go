// Package quote resolves market quotes through a TTL cache with
// bounded-parallel upstream fan-out.
package quote

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Service caches quotes from the upstream client. A quote younger than the
// TTL is served from cache; an expired one is refetched, and if the refetch
// fails the stale quote is served rather than nothing.
type Service struct {
	client       interfaces.QuoteClient
	cache        *cache
	parallelism  int
	fetchTimeout time.Duration
	logger       *common.Logger

	moversMu      sync.Mutex
	movers        *models.TopMovers
	moversFetched time.Time
	moversTTL     time.Duration
}

// NewService creates a quote service. Parallelism bounds how many upstream
// fetches run concurrently during multi-symbol resolution.
func NewService(client interfaces.QuoteClient, ttl time.Duration, parallelism int, fetchTimeout time.Duration, logger *common.Logger) *Service {
	if parallelism <= 0 {
		parallelism = 5
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 10 * time.Second
	}
	return &Service{
		client:       client,
		cache:        newCache(ttl),
		parallelism:  parallelism,
		fetchTimeout: fetchTimeout,
		logger:       logger,
		moversTTL:    ttl,
	}
}

// GetQuote resolves one symbol: fresh cache hit, then upstream fetch, then
// stale cache fallback. Returns models.ErrQuoteUnavailable when all three
// miss.
func (s *Service) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = models.NormalizeSymbol(symbol)
	if !models.IsValidSymbol(symbol) {
		return nil, fmt.Errorf("symbol %q: %w", symbol, models.ErrInvalidInput)
	}

	if cached, fresh, ok := s.cache.get(symbol); ok && fresh {
		return cached, nil
	}

	quote, err := s.fetch(ctx, symbol)
	if err == nil {
		return quote, nil
	}

	if stale, _, ok := s.cache.get(symbol); ok {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("serving stale quote after fetch failure")
		return stale, nil
	}

	return nil, fmt.Errorf("quote for %s: %w", symbol, models.ErrQuoteUnavailable)
}

// GetQuotes resolves a batch of symbols. Input is deduplicated after
// normalization. Fetches for cache misses run with bounded parallelism, and
// one symbol's failure never blocks the rest: symbols that cannot be
// resolved at all are simply absent from the result map.
func (s *Service) GetQuotes(ctx context.Context, symbols []string) map[string]*models.Quote {
	results := make(map[string]*models.Quote)
	if len(symbols) == 0 {
		return results
	}

	seen := make(map[string]bool, len(symbols))
	var misses []string

	var mu sync.Mutex
	for _, raw := range symbols {
		symbol := models.NormalizeSymbol(raw)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true

		if cached, fresh, ok := s.cache.get(symbol); ok && fresh {
			results[symbol] = cached
			continue
		}
		misses = append(misses, symbol)
	}

	if len(misses) == 0 {
		return results
	}

	sem := make(chan struct{}, s.parallelism)
	var wg sync.WaitGroup

	for _, symbol := range misses {
		wg.Add(1)
		go func(symbol string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			quote, err := s.fetch(ctx, symbol)
			if err != nil {
				stale, _, ok := s.cache.get(symbol)
				if !ok {
					s.logger.Warn().Err(err).Str("symbol", symbol).Msg("quote unavailable")
					return
				}
				s.logger.Warn().Err(err).Str("symbol", symbol).Msg("serving stale quote after fetch failure")
				quote = stale
			}

			mu.Lock()
			results[symbol] = quote
			mu.Unlock()
		}(symbol)
	}

	wg.Wait()
	return results
}

// fetch retrieves one quote from upstream under the per-fetch deadline and
// stores it in the cache.
func (s *Service) fetch(ctx context.Context, symbol string) (*models.Quote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	quote, err := s.client.GetQuote(fetchCtx, symbol)
	if err != nil {
		return nil, err
	}
	s.cache.put(symbol, quote)
	return quote, nil
}

// GetTopMovers returns the market-wide movers snapshot, cached under the
// same TTL as quotes.
func (s *Service) GetTopMovers(ctx context.Context) (*models.TopMovers, error) {
	s.moversMu.Lock()
	defer s.moversMu.Unlock()

	if s.movers != nil && time.Since(s.moversFetched) < s.moversTTL {
		return s.movers, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()

	movers, err := s.client.GetTopMovers(fetchCtx)
	if err != nil {
		if s.movers != nil {
			s.logger.Warn().Err(err).Msg("serving stale movers after fetch failure")
			return s.movers, nil
		}
		return nil, fmt.Errorf("failed to get top movers: %w", err)
	}

	s.movers = movers
	s.moversFetched = time.Now()
	return movers, nil
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
