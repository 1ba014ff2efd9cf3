// Package storage selects the storage backend for League.
package storage

import (
	"fmt"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/storage/memory"
	"github.com/bobmcallan/league/internal/storage/surrealdb"
)

// Backend type constants.
const (
	BackendSurrealDB = "surrealdb"
	BackendMemory    = "memory"
)

// NewStorageManager creates a storage manager based on the configuration.
// Supported backends: "surrealdb" (default), "memory".
func NewStorageManager(logger *common.Logger, config *common.Config) (interfaces.StorageManager, error) {
	backend := config.Storage.Backend
	if backend == "" {
		backend = BackendSurrealDB
	}

	switch backend {
	case BackendSurrealDB:
		return surrealdb.NewManager(logger, config)

	case BackendMemory:
		logger.Warn().Msg("Using in-memory storage; data is lost on exit")
		return memory.NewManager(logger), nil

	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: surrealdb, memory)", backend)
	}
}
