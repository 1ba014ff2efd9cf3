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

// SeasonStore implements interfaces.SeasonStore using SurrealDB.
type SeasonStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

// NewSeasonStore creates a new SeasonStore.
func NewSeasonStore(db *surrealdb.DB, logger *common.Logger) *SeasonStore {
	return &SeasonStore{db: db, logger: logger}
}

func (s *SeasonStore) GetSeason(ctx context.Context, seasonID string) (*models.Season, error) {
	season, err := surrealdb.Select[models.Season](ctx, s.db, surrealmodels.NewRecordID(tableSeason, seasonID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, fmt.Errorf("season %q: %w", seasonID, interfaces.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to select season: %w", err)
	}
	if season == nil || season.SeasonID == "" {
		return nil, fmt.Errorf("season %q: %w", seasonID, interfaces.ErrNotFound)
	}
	return season, nil
}

func (s *SeasonStore) SaveSeason(ctx context.Context, season *models.Season) error {
	if season == nil || season.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}

	sql := "UPSERT $rid CONTENT $season"
	vars := map[string]any{"rid": surrealmodels.NewRecordID(tableSeason, season.SeasonID), "season": season}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Season](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save season after retries: %w", lastErr)
}

func (s *SeasonStore) ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error) {
	sql := "SELECT * FROM season WHERE group_id = $group_id ORDER BY started_at DESC"
	vars := map[string]any{"group_id": groupID}

	results, err := surrealdb.Query[[]models.Season](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list seasons: %w", err)
	}

	seasons := make([]*models.Season, 0)
	if results != nil && len(*results) > 0 {
		for i := range (*results)[0].Result {
			seasons = append(seasons, &(*results)[0].Result[i])
		}
	}
	return seasons, nil
}
