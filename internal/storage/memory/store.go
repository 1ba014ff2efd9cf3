// Package memory provides an in-process StorageManager for the CLI and tests.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

// Manager implements interfaces.StorageManager over maps guarded by one lock.
// Records are deep-copied on the way in and out so callers never share state
// with the store.
type Manager struct {
	mu        sync.RWMutex
	logger    *common.Logger
	groups    map[string]*models.Group
	seasons   map[string]*models.Season
	snapshots map[string][]models.PortfolioSnapshot // group id -> log in append order
}

// NewManager creates an empty in-memory store.
func NewManager(logger *common.Logger) *Manager {
	return &Manager{
		logger:    logger,
		groups:    make(map[string]*models.Group),
		seasons:   make(map[string]*models.Season),
		snapshots: make(map[string][]models.PortfolioSnapshot),
	}
}

func (m *Manager) GroupStore() interfaces.GroupStore       { return m }
func (m *Manager) SnapshotStore() interfaces.SnapshotStore { return m }
func (m *Manager) SeasonStore() interfaces.SeasonStore     { return m }

func (m *Manager) Close() error {
	return nil
}

// clone deep-copies through JSON, the same encoding the persistent store uses.
func clone[T any](src *T) (*T, error) {
	data, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	var dst T
	if err := json.Unmarshal(data, &dst); err != nil {
		return nil, err
	}
	return &dst, nil
}

// --- groups ---

func (m *Manager) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[groupID]
	if !ok {
		return nil, fmt.Errorf("group %q: %w", groupID, interfaces.ErrNotFound)
	}
	return clone(g)
}

func (m *Manager) SaveGroup(ctx context.Context, group *models.Group) error {
	if group == nil || group.GroupID == "" {
		return fmt.Errorf("group id is required")
	}
	c, err := clone(group)
	if err != nil {
		return fmt.Errorf("failed to copy group: %w", err)
	}

	m.mu.Lock()
	m.groups[group.GroupID] = c
	m.mu.Unlock()
	return nil
}

func (m *Manager) DeleteGroup(ctx context.Context, groupID string) error {
	m.mu.Lock()
	delete(m.groups, groupID)
	m.mu.Unlock()
	return nil
}

func (m *Manager) ListGroups(ctx context.Context) ([]*models.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Group, 0, len(m.groups))
	for _, g := range m.groups {
		c, err := clone(g)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GroupID < out[j].GroupID })
	return out, nil
}

// --- snapshots ---

func (m *Manager) AppendSnapshot(ctx context.Context, snapshot *models.PortfolioSnapshot) error {
	if snapshot == nil || snapshot.GroupID == "" {
		return fmt.Errorf("snapshot group id is required")
	}

	m.mu.Lock()
	m.snapshots[snapshot.GroupID] = append(m.snapshots[snapshot.GroupID], *snapshot)
	m.mu.Unlock()
	return nil
}

func (m *Manager) ListSnapshots(ctx context.Context, groupID string, query interfaces.SnapshotQuery) ([]models.PortfolioSnapshot, error) {
	var scopes map[string]struct{}
	if len(query.Scopes) > 0 {
		scopes = make(map[string]struct{}, len(query.Scopes))
		for _, s := range query.Scopes {
			scopes[s] = struct{}{}
		}
	}

	m.mu.RLock()
	out := make([]models.PortfolioSnapshot, 0, len(m.snapshots[groupID]))
	for _, s := range m.snapshots[groupID] {
		if scopes != nil {
			if _, ok := scopes[s.Scope]; !ok {
				continue
			}
		}
		if !query.Since.IsZero() && s.Timestamp.Before(query.Since) {
			continue
		}
		out = append(out, s)
	}
	m.mu.RUnlock()

	// Stable: equal timestamps keep append order
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// --- seasons ---

func (m *Manager) GetSeason(ctx context.Context, seasonID string) (*models.Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.seasons[seasonID]
	if !ok {
		return nil, fmt.Errorf("season %q: %w", seasonID, interfaces.ErrNotFound)
	}
	return clone(s)
}

func (m *Manager) SaveSeason(ctx context.Context, season *models.Season) error {
	if season == nil || season.SeasonID == "" {
		return fmt.Errorf("season id is required")
	}
	c, err := clone(season)
	if err != nil {
		return fmt.Errorf("failed to copy season: %w", err)
	}

	m.mu.Lock()
	m.seasons[season.SeasonID] = c
	m.mu.Unlock()
	return nil
}

func (m *Manager) ListSeasons(ctx context.Context, groupID string) ([]*models.Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.Season, 0)
	for _, s := range m.seasons {
		if s.GroupID != groupID {
			continue
		}
		c, err := clone(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	return out, nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
