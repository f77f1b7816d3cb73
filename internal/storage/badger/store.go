// Package badger provides a BadgerHold-backed user aggregate store for
// single-node deployments.
package badger

import (
	"context"
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Store keeps one aggregate record per user id in an embedded BadgerHold
// database.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore opens (or creates) the BadgerHold database at path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create badger directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Load retrieves the aggregate for userID.
func (s *Store) Load(_ context.Context, userID string) (*models.UserAggregate, error) {
	var aggregate models.UserAggregate
	err := s.db.Get(userID, &aggregate)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user aggregate for %s: %w", userID, err)
	}
	return &aggregate, nil
}

// Replace writes the whole aggregate back, creating it if necessary.
func (s *Store) Replace(_ context.Context, aggregate *models.UserAggregate) error {
	if err := s.db.Upsert(aggregate.UserID, aggregate); err != nil {
		return fmt.Errorf("failed to save user aggregate: %w", err)
	}
	s.logger.Debug().Str("user", aggregate.UserID).Msg("User aggregate saved")
	return nil
}

// Create stores a fresh aggregate, failing if one already exists.
func (s *Store) Create(_ context.Context, aggregate *models.UserAggregate) error {
	err := s.db.Insert(aggregate.UserID, aggregate)
	if err != nil {
		if err == badgerhold.ErrKeyExists {
			return fmt.Errorf("user %s: %w", aggregate.UserID, models.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user aggregate: %w", err)
	}
	return nil
}

// Delete removes the aggregate for userID.
func (s *Store) Delete(_ context.Context, userID string) error {
	var aggregate models.UserAggregate
	if err := s.db.Get(userID, &aggregate); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return fmt.Errorf("failed to get user aggregate for %s: %w", userID, err)
	}
	if err := s.db.Delete(userID, models.UserAggregate{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete user aggregate for %s: %w", userID, err)
	}
	return nil
}

// Close closes the BadgerHold database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure Store implements UserAggregateStore
var _ interfaces.UserAggregateStore = (*Store)(nil)
