// Package interfaces defines service contracts for League
package interfaces

import (
	"context"
	"errors"
	"time"

	"github.com/bobmcallan/league/internal/models"
)

// ErrNotFound is returned by stores when a record does not exist.
var ErrNotFound = errors.New("not found")

// StorageManager coordinates all storage backends
type StorageManager interface {
	GroupStore() GroupStore
	SnapshotStore() SnapshotStore
	SeasonStore() SeasonStore

	// Lifecycle
	Close() error
}

// GroupStore persists groups with their members and holdings.
type GroupStore interface {
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	SaveGroup(ctx context.Context, group *models.Group) error
	DeleteGroup(ctx context.Context, groupID string) error
	ListGroups(ctx context.Context) ([]*models.Group, error)
}

// SnapshotStore is the append-only portfolio value log.
type SnapshotStore interface {
	AppendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error
	// ListSnapshots returns a group's snapshots ordered by timestamp ascending.
	ListSnapshots(ctx context.Context, groupID string, query SnapshotQuery) ([]models.PortfolioSnapshot, error)
}

// SnapshotQuery narrows a snapshot listing. Zero values mean no filter.
type SnapshotQuery struct {
	Scopes []string
	Since  time.Time
}

// SeasonStore persists seasons.
type SeasonStore interface {
	GetSeason(ctx context.Context, seasonID string) (*models.Season, error)
	SaveSeason(ctx context.Context, season *models.Season) error
	// ListSeasons returns a group's seasons, newest first.
	ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error)
}
