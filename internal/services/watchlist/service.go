// Package watchlist provides per-user watchlist management services
package watchlist

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Compile-time interface check
var _ interfaces.WatchlistService = (*Service)(nil)

// Service implements WatchlistService. Every mutation loads the full user
// aggregate, edits the watchlist, restores the dense 0..n-1 display order,
// and writes the aggregate back.
type Service struct {
	storage  interfaces.UserAggregateStore
	quotes   interfaces.QuoteService
	maxItems int
	maxNotes int
	logger   *common.Logger
}

// NewService creates a new watchlist service
func NewService(storage interfaces.UserAggregateStore, quotes interfaces.QuoteService, maxItems, maxNotes int, logger *common.Logger) *Service {
	if maxItems <= 0 {
		maxItems = 50
	}
	if maxNotes <= 0 {
		maxNotes = 500
	}
	return &Service{
		storage:  storage,
		quotes:   quotes,
		maxItems: maxItems,
		maxNotes: maxNotes,
		logger:   logger,
	}
}

// List returns the user's watchlist sorted by display order.
func (s *Service) List(ctx context.Context, userID string) ([]models.WatchlistEntry, error) {
	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	entries := make([]models.WatchlistEntry, len(aggregate.Watchlist))
	copy(entries, aggregate.Watchlist)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].DisplayOrder < entries[j].DisplayOrder
	})
	return entries, nil
}

// ListValued returns the watchlist with live quote decoration. Quote
// failures degrade the affected entries to nil price fields; the view is
// flagged degraded rather than failing.
func (s *Service) ListValued(ctx context.Context, userID string) (*models.WatchlistView, error) {
	entries, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &models.WatchlistView{
		Items:    make([]models.ValuedWatchlistEntry, 0, len(entries)),
		Total:    len(entries),
		MaxItems: s.maxItems,
	}

	symbols := make([]string, len(entries))
	for i, e := range entries {
		symbols[i] = e.Symbol
	}
	quotes := s.quotes.GetQuotes(ctx, symbols)

	for _, entry := range entries {
		valued := models.ValuedWatchlistEntry{WatchlistEntry: entry}
		if q, ok := quotes[entry.Symbol]; ok {
			price := q.Price
			change := q.DailyChange
			pct := q.DailyChangePct
			valued.CurrentPrice = &price
			valued.PriceChange = &change
			valued.ChangePct = &pct
		} else {
			view.Degraded = true
		}
		view.Items = append(view.Items, valued)
	}

	return view, nil
}

// Add appends a symbol at the end of the watchlist.
func (s *Service) Add(ctx context.Context, userID, symbol, notes string) (*models.WatchlistEntry, error) {
	symbol = models.NormalizeSymbol(symbol)
	if !models.IsValidSymbol(symbol) {
		return nil, fmt.Errorf("symbol %q: %w", symbol, models.ErrInvalidInput)
	}
	if len(notes) > s.maxNotes {
		return nil, fmt.Errorf("notes exceed %d characters: %w", s.maxNotes, models.ErrInvalidInput)
	}

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if _, idx := aggregate.FindWatchlistEntry(symbol); idx >= 0 {
		return nil, fmt.Errorf("%s already on watchlist: %w", symbol, models.ErrDuplicateSymbol)
	}
	if len(aggregate.Watchlist) >= s.maxItems {
		return nil, fmt.Errorf("watchlist capped at %d items: %w", s.maxItems, models.ErrLimitExceeded)
	}

	entry := models.WatchlistEntry{
		Symbol:       symbol,
		DisplayOrder: len(aggregate.Watchlist),
		Notes:        notes,
		AddedAt:      time.Now().UTC(),
	}
	aggregate.Watchlist = append(aggregate.Watchlist, entry)
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("symbol", symbol).Msg("Watchlist entry added")
	return &entry, nil
}

// Reorder applies a complete new ordering. The supplied symbols must be an
// exact permutation of the current watchlist.
func (s *Service) Reorder(ctx context.Context, userID string, symbols []string) error {
	if len(symbols) == 0 {
		return fmt.Errorf("reorder requires a symbol list: %w", models.ErrInvalidInput)
	}

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	if len(symbols) != len(aggregate.Watchlist) {
		return fmt.Errorf("reorder must list all %d symbols: %w", len(aggregate.Watchlist), models.ErrIncompleteOrder)
	}

	position := make(map[string]int, len(symbols))
	for i, raw := range symbols {
		symbol := models.NormalizeSymbol(raw)
		if _, dup := position[symbol]; dup {
			return fmt.Errorf("symbol %s repeats in reorder: %w", symbol, models.ErrInvalidInput)
		}
		if _, idx := aggregate.FindWatchlistEntry(symbol); idx < 0 {
			return fmt.Errorf("symbol %s not on watchlist: %w", symbol, models.ErrIncompleteOrder)
		}
		position[symbol] = i
	}

	for i := range aggregate.Watchlist {
		aggregate.Watchlist[i].DisplayOrder = position[aggregate.Watchlist[i].Symbol]
	}
	sort.Slice(aggregate.Watchlist, func(i, j int) bool {
		return aggregate.Watchlist[i].DisplayOrder < aggregate.Watchlist[j].DisplayOrder
	})
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("user", userID).Int("items", len(symbols)).Msg("Watchlist reordered")
	return nil
}

// UpdateNotes replaces the notes on one entry. An empty string clears them.
func (s *Service) UpdateNotes(ctx context.Context, userID, symbol, notes string) (*models.WatchlistEntry, error) {
	symbol = models.NormalizeSymbol(symbol)
	if len(notes) > s.maxNotes {
		return nil, fmt.Errorf("notes exceed %d characters: %w", s.maxNotes, models.ErrInvalidInput)
	}

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	entry, idx := aggregate.FindWatchlistEntry(symbol)
	if idx < 0 {
		return nil, fmt.Errorf("%s not on watchlist: %w", symbol, models.ErrNotFound)
	}

	entry.Notes = notes
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to save watchlist: %w", err)
	}

	updated := *entry
	return &updated, nil
}

// Remove deletes a symbol and compacts the remaining display orders back to
// a dense 0..n-1 sequence, preserving relative order.
func (s *Service) Remove(ctx context.Context, userID, symbol string) error {
	symbol = models.NormalizeSymbol(symbol)

	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load user %s: %w", userID, err)
	}

	_, idx := aggregate.FindWatchlistEntry(symbol)
	if idx < 0 {
		return fmt.Errorf("%s not on watchlist: %w", symbol, models.ErrNotFound)
	}

	aggregate.Watchlist = append(aggregate.Watchlist[:idx], aggregate.Watchlist[idx+1:]...)
	sort.Slice(aggregate.Watchlist, func(i, j int) bool {
		return aggregate.Watchlist[i].DisplayOrder < aggregate.Watchlist[j].DisplayOrder
	})
	for i := range aggregate.Watchlist {
		aggregate.Watchlist[i].DisplayOrder = i
	}
	aggregate.UpdatedAt = time.Now().UTC()

	if err := s.storage.Replace(ctx, aggregate); err != nil {
		return fmt.Errorf("failed to save watchlist: %w", err)
	}

	s.logger.Info().Str("user", userID).Str("symbol", symbol).Msg("Watchlist entry removed")
	return nil
}
