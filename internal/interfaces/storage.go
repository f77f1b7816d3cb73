package interfaces

import (
	"context"

	"github.com/bobmcallan/mystock/internal/models"
)

// UserAggregateStore persists one document per user holding the full
// watchlist and portfolio state. Load returns models.ErrNotFound when no
// aggregate exists for the user. Replace writes the whole aggregate back,
// creating it if necessary.
type UserAggregateStore interface {
	Load(ctx context.Context, userID string) (*models.UserAggregate, error)
	Replace(ctx context.Context, aggregate *models.UserAggregate) error
	Create(ctx context.Context, aggregate *models.UserAggregate) error
	Delete(ctx context.Context, userID string) error
	Close() error
}
