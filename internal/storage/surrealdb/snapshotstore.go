package surrealdb

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
	"github.com/google/uuid"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

const snapshotSelectFields = "snapshot_id, group_id, scope, timestamp, total_value"

// SnapshotStore implements interfaces.SnapshotStore using SurrealDB.
// Records are only ever created, never updated.
type SnapshotStore struct {
	db     *surrealdb.DB
	logger *common.Logger
	seq    atomic.Int64
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(db *surrealdb.DB, logger *common.Logger) *SnapshotStore {
	s := &SnapshotStore{db: db, logger: logger}
	s.seq.Store(time.Now().UnixNano())
	return s
}

func (s *SnapshotStore) AppendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if snapshot == nil || snapshot.GroupID == "" {
		return fmt.Errorf("snapshot group id is required")
	}
	if snapshot.SnapshotID == "" {
		snapshot.SnapshotID = uuid.New().String()
	}

	// seq breaks timestamp ties in append order
	sql := `CREATE $rid SET
		snapshot_id = $snapshot_id, group_id = $group_id, scope = $scope,
		timestamp = $timestamp, total_value = $total_value, seq = $seq`
	vars := map[string]any{
		"rid":         surrealmodels.NewRecordID(tableSnapshot, snapshot.SnapshotID),
		"snapshot_id": snapshot.SnapshotID,
		"group_id":    snapshot.GroupID,
		"scope":       snapshot.Scope,
		"timestamp":   snapshot.Timestamp,
		"total_value": snapshot.TotalValue,
		"seq":         s.seq.Add(1),
	}

	if _, err := surrealdb.Query[any](ctx, s.db, sql, vars); err != nil {
		return fmt.Errorf("failed to append snapshot: %w", err)
	}
	s.logger.Trace().Str("group_id", snapshot.GroupID).Str("scope", snapshot.Scope).Msg("Snapshot appended")
	return nil
}

func (s *SnapshotStore) ListSnapshots(ctx context.Context, groupID string, query interfaces.SnapshotQuery) ([]models.PortfolioSnapshot, error) {
	sql := "SELECT " + snapshotSelectFields + ", seq FROM portfolio_snapshot WHERE group_id = $group_id"
	vars := map[string]any{"group_id": groupID}

	if len(query.Scopes) > 0 {
		sql += " AND scope IN $scopes"
		vars["scopes"] = query.Scopes
	}
	if !query.Since.IsZero() {
		sql += " AND timestamp >= $since"
		vars["since"] = query.Since
	}
	sql += " ORDER BY timestamp ASC, seq ASC"

	results, err := surrealdb.Query[[]models.PortfolioSnapshot](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}

	if results != nil && len(*results) > 0 && (*results)[0].Result != nil {
		return (*results)[0].Result, nil
	}
	return []models.PortfolioSnapshot{}, nil
}
