// Package surrealdb implements the user aggregate store against SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/models"
)

const userTable = "user_aggregate"

// Store persists one record per user in the user_aggregate table, keyed by
// user id.
type Store struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewStore connects to SurrealDB and prepares the aggregate table.
func NewStore(logger *common.Logger, config *common.Config) (*Store, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	// SurrealDB v3 errors on querying tables that do not exist yet.
	sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", userTable)
	if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
		return nil, fmt.Errorf("failed to define table %s: %w", userTable, err)
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB aggregate store initialized")

	return &Store{db: db, logger: logger}, nil
}

func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "no record")
}

// Load retrieves the aggregate for userID.
func (s *Store) Load(ctx context.Context, userID string) (*models.UserAggregate, error) {
	record, err := surrealdb.Select[models.UserAggregate](ctx, s.db, surrealmodels.NewRecordID(userTable, userID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select user aggregate: %w", err)
	}
	if record == nil || record.UserID == "" {
		return nil, fmt.Errorf("user %s: %w", userID, models.ErrNotFound)
	}
	return record, nil
}

// Replace writes the whole aggregate back, creating it if necessary.
func (s *Store) Replace(ctx context.Context, aggregate *models.UserAggregate) error {
	sql := "UPSERT $rid CONTENT $record"
	vars := map[string]any{
		"rid":    surrealmodels.NewRecordID(userTable, aggregate.UserID),
		"record": aggregate,
	}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.UserAggregate](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to upsert user aggregate after retries: %w", lastErr)
}

// Create stores a fresh aggregate, failing if one already exists.
func (s *Store) Create(ctx context.Context, aggregate *models.UserAggregate) error {
	existing, err := surrealdb.Select[models.UserAggregate](ctx, s.db, surrealmodels.NewRecordID(userTable, aggregate.UserID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to check for existing user: %w", err)
	}
	if existing != nil && existing.UserID != "" {
		return fmt.Errorf("user %s: %w", aggregate.UserID, models.ErrAlreadyExists)
	}
	return s.Replace(ctx, aggregate)
}

// Delete removes the aggregate for userID.
func (s *Store) Delete(ctx context.Context, userID string) error {
	if _, err := s.Load(ctx, userID); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[models.UserAggregate](ctx, s.db, surrealmodels.NewRecordID(userTable, userID)); err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete user aggregate: %w", err)
	}
	return nil
}

// Close terminates the database connection.
func (s *Store) Close() error {
	return s.db.Close(context.Background())
}

// Ensure Store implements UserAggregateStore
var _ interfaces.UserAggregateStore = (*Store)(nil)
