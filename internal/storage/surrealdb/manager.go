// Package surrealdb implements League storage on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
)

// Table names
const (
	tableGroup    = "league_group"
	tableSnapshot = "portfolio_snapshot"
	tableSeason   = "season"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	groupStore    *GroupStore
	snapshotStore *SnapshotStore
	seasonStore   *SeasonStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	// Connect to SurrealDB
	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	// Sign in
	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	// Select namespace and database
	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	if err := defineTables(ctx, db); err != nil {
		return nil, err
	}

	m := newManager(db, logger)

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

func newManager(db *surrealdb.DB, logger *common.Logger) *Manager {
	return &Manager{
		db:            db,
		logger:        logger,
		groupStore:    NewGroupStore(db, logger),
		snapshotStore: NewSnapshotStore(db, logger),
		seasonStore:   NewSeasonStore(db, logger),
	}
}

// defineTables ensures tables exist (SurrealDB v3 errors on querying non-existent tables)
func defineTables(ctx context.Context, db *surrealdb.DB) error {
	for _, table := range []string{tableGroup, tableSnapshot, tableSeason} {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	indexes := []string{
		"DEFINE INDEX IF NOT EXISTS snapshot_group ON portfolio_snapshot FIELDS group_id, timestamp",
		"DEFINE INDEX IF NOT EXISTS season_group ON season FIELDS group_id",
	}
	for _, sql := range indexes {
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return fmt.Errorf("failed to define index: %w", err)
		}
	}
	return nil
}

func (m *Manager) GroupStore() interfaces.GroupStore {
	return m.groupStore
}

func (m *Manager) SnapshotStore() interfaces.SnapshotStore {
	return m.snapshotStore
}

func (m *Manager) SeasonStore() interfaces.SeasonStore {
	return m.seasonStore
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// isNotFoundError reports whether a SurrealDB error means the record is missing.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "does not exist")
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
