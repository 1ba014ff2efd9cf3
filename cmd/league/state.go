package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
	"github.com/bobmcallan/league/internal/services/league"
	"github.com/bobmcallan/league/internal/storage/memory"
)

var statePath = flag.String("state", "league.json", "Path to the league state file (JSON)")
var logLevel = flag.String("log", "disabled", "Log level (disabled, debug, info, warn, error)")

// stateFile is the on-disk shape of a league: one group with its seasons and snapshot log.
type stateFile struct {
	Group     *models.Group              `json:"group"`
	Seasons   []*models.Season           `json:"seasons,omitempty"`
	Snapshots []models.PortfolioSnapshot `json:"snapshots,omitempty"`
}

// workspace is a state file loaded into the memory store behind a league service.
type workspace struct {
	path    string
	groupID string
	store   *memory.Manager
	svc     *league.Service
}

// openWorkspace reads the state file and seeds a memory store with it.
// Records are stored as-is so timestamps and ids survive a round trip.
func openWorkspace(ctx context.Context, path string) (*workspace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var st stateFile
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("parse state %s: %w", path, err)
	}
	if st.Group == nil || st.Group.GroupID == "" {
		return nil, errors.New("state has no group")
	}

	logger := common.NewLoggerFromConfig(common.LoggingConfig{Level: *logLevel})
	store := memory.NewManager(logger)

	if err := store.SaveGroup(ctx, st.Group); err != nil {
		return nil, err
	}
	for _, s := range st.Seasons {
		if s.GroupID == "" {
			s.GroupID = st.Group.GroupID
		}
		if err := store.SaveSeason(ctx, s); err != nil {
			return nil, err
		}
	}
	for i := range st.Snapshots {
		snap := st.Snapshots[i]
		if snap.GroupID == "" {
			snap.GroupID = st.Group.GroupID
		}
		if err := store.AppendSnapshot(ctx, &snap); err != nil {
			return nil, err
		}
	}

	return &workspace{
		path:    path,
		groupID: st.Group.GroupID,
		store:   store,
		svc:     league.NewService(store, logger, league.WithMinSpacing(0)),
	}, nil
}

// save writes the store contents back to the state file.
func (w *workspace) save(ctx context.Context) error {
	g, err := w.store.GetGroup(ctx, w.groupID)
	if err != nil {
		return err
	}
	seasons, err := w.store.ListSeasons(ctx, w.groupID)
	if err != nil {
		return err
	}
	// Oldest first on disk
	for i, j := 0, len(seasons)-1; i < j; i, j = i+1, j-1 {
		seasons[i], seasons[j] = seasons[j], seasons[i]
	}
	snapshots, err := w.store.ListSnapshots(ctx, w.groupID, interfaces.SnapshotQuery{})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(stateFile{Group: g, Seasons: seasons, Snapshots: snapshots}, "", "  ")
	if err != nil {
		return err
	}
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	return os.Rename(tmp, w.path)
}
