// Package user provisions and removes user aggregates.
package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

// Compile-time interface check
var _ interfaces.UserService = (*Service)(nil)

// Service implements UserService. Registration seeds the fixed portfolio set
// into the new aggregate.
type Service struct {
	storage        interfaces.UserAggregateStore
	portfolioNames []string
	logger         *common.Logger
}

// NewService creates a new user service
func NewService(storage interfaces.UserAggregateStore, portfolioNames []string, logger *common.Logger) *Service {
	return &Service{
		storage:        storage,
		portfolioNames: portfolioNames,
		logger:         logger,
	}
}

// Register provisions a fresh aggregate for userID.
func (s *Service) Register(ctx context.Context, userID string) (*models.UserAggregate, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id required: %w", models.ErrInvalidInput)
	}

	aggregate := models.NewUserAggregate(userID, s.portfolioNames)
	if err := s.storage.Create(ctx, aggregate); err != nil {
		return nil, fmt.Errorf("failed to register user %s: %w", userID, err)
	}

	s.logger.Info().Str("user", userID).Msg("User registered")
	return aggregate, nil
}

// Get returns the user's full aggregate.
func (s *Service) Get(ctx context.Context, userID string) (*models.UserAggregate, error) {
	aggregate, err := s.storage.Load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	return aggregate, nil
}

// Remove deletes the user and everything they own.
func (s *Service) Remove(ctx context.Context, userID string) error {
	if err := s.storage.Delete(ctx, userID); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	s.logger.Info().Str("user", userID).Msg("User removed")
	return nil
}
