package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// GroupStore implements interfaces.GroupStore using SurrealDB.
// A group is stored as one document holding its members and holdings.
type GroupStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewGroupStore creates a new GroupStore.
func NewGroupStore(db *surrealdb.DB, logger *common.Logger) *GroupStore {
	return &GroupStore{db: db, logger: logger}
}

func (s *GroupStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := surrealdb.Select[models.Group](ctx, s.db, surrealmodels.NewRecordID(tableGroup, groupID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("group %q: %w", groupID, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select group: %w", err)
	}
	if group == nil || group.GroupID == "" {
		return nil, fmt.Errorf("group %q: %w", groupID, interfaces.ErrNotFound)
	}
	return group, nil
}

func (s *GroupStore) SaveGroup(ctx context.Context, group *models.Group) error {
	if group == nil || group.GroupID == "" {
		return fmt.Errorf("group id is required")
	}

	sql := "UPSERT $rid CONTENT $group"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(tableGroup, group.GroupID), "group": group}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Group](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
		s.logger.Debug().Err(err).Int("attempt", attempt).Str("group_id", group.GroupID).Msg("Group upsert failed")
	}
	return fmt.Errorf("failed to save group after retries: %w", lastErr)
}

func (s *GroupStore) DeleteGroup(ctx context.Context, groupID string) error {
	_, err := surrealdb.Delete[models.Group](ctx, s.db, surrealmodels.NewRecordID(tableGroup, groupID))
	if err != nil && !isNotFoundError(err) {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

func (s *GroupStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	sql := "SELECT * FROM league_group ORDER BY group_id ASC"

	results, err := surrealdb.Query[[]models.Group](ctx, s.db, sql, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	groups := make([]*models.Group, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			groups = append(groups, &(*results)[0].Result[i])
		}
	}
	return groups, nil
}
