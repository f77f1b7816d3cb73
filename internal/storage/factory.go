// Package storage selects the user aggregate store backend.
package storage

import (
	"fmt"

	"github.com/bobmcallan/mystock/internal/common"
	"github.com/bobmcallan/mystock/internal/interfaces"
	"github.com/bobmcallan/mystock/internal/storage/badger"
	"github.com/bobmcallan/mystock/internal/storage/memory"
	"github.com/bobmcallan/mystock/internal/storage/surrealdb"
)

// NewStore builds the aggregate store named by config.Storage.Backend.
func NewStore(logger *common.Logger, config *common.Config) (interfaces.UserAggregateStore, error) {
	switch config.Storage.Backend {
	case "memory":
		return memory.NewStore(), nil
	case "badger":
		return badger.NewStore(logger, config.Storage.Path)
	case "surrealdb":
		return surrealdb.NewStore(logger, config)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Storage.Backend)
	}
}
