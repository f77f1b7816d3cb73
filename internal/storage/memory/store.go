// Package memory provides an in-process user aggregate store, used in
// development and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Store keeps aggregates in a map. Aggregates are deep-copied on the way in
// and out so callers cannot alias stored state.
type Store struct {
	mu    sync.RWMutex
	users map[string]*models.UserAggregate
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		users: make(map[string]*models.UserAggregate),
	}
}

func clone(aggregate *models.UserAggregate) (*models.UserAggregate, error) {
	data, err := json.Marshal(aggregate)
	if err != nil {
		return nil, fmt.Errorf("failed to copy aggregate: %w", err)
	}
	var out models.UserAggregate
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to copy aggregate: %w", err)
	}
	return &out, nil
}

// Load retrieves the aggregate for userID.
func (s *Store) Load(ctx context.Context, userID string) (*models.UserAggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	aggregate, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return clone(aggregate)
}

// Replace writes the aggregate back, creating it if absent.
func (s *Store) Replace(ctx context.Context, aggregate *models.UserAggregate) error {
	copied, err := clone(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[aggregate.UserID] = copied
	return nil
}

// Create stores a fresh aggregate, failing if one already exists.
func (s *Store) Create(ctx context.Context, aggregate *models.UserAggregate) error {
	copied, err := clone(aggregate)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[aggregate.UserID]; exists {
		return fmt.Errorf("user %s: %w", aggregate.UserID, models.ErrAlreadyExists)
	}
	s.users[aggregate.UserID] = copied
	return nil
}

// Delete removes the aggregate for userID.
func (s *Store) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[userID]; !ok {
		return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	delete(s.users, userID)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// Ensure Store implements UserAggregateStore
var _ interfaces.UserAggregateStore = (*Store)(nil)
