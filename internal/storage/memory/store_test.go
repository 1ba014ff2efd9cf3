package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/league/internal/common"
	"github.com/bobmcallan/league/internal/interfaces"
	"github.com/bobmcallan/league/internal/models"
)

func newTestManager() *Manager {
	return NewManager(common.NewSilentLogger())
}

func TestGroupRoundTripIsCopied(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	g := &models.Group{
		GroupID: "g1",
		Name:    "Friday Club",
		Members: []models.Member{{MemberID: "a", CashBalance: 100}},
	}
	require.NoError(t, m.SaveGroup(ctx, g))

	g.Members[0].CashBalance = 999
	got, err := m.GetGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got.Members[0].CashBalance, "stored copy must not alias the caller")

	got.Name = "mutated"
	again, err := m.GetGroup(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "Friday Club", again.Name)
}

func TestGroupNotFound(t *testing.T) {
	_, err := newTestManager().GetGroup(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestListGroupsSortedAndDelete(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, m.SaveGroup(ctx, &models.Group{GroupID: id}))
	}

	groups, err := m.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Equal(t, "a", groups[0].GroupID)
	assert.Equal(t, "c", groups[2].GroupID)

	require.NoError(t, m.DeleteGroup(ctx, "b"))
	groups, err = m.ListGroups(ctx)
	require.NoError(t, err)
	assert.Len(t, groups, 2)
}

func TestSaveGroupRequiresID(t *testing.T) {
	assert.Error(t, newTestManager().SaveGroup(context.Background(), &models.Group{}))
}

func TestListSnapshotsFiltersAndOrders(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	appendSnap := func(scope string, offset time.Duration, value float64) {
		require.NoError(t, m.AppendSnapshot(ctx, &models.PortfolioSnapshot{
			GroupID: "g1", Scope: scope, Timestamp: base.Add(offset), TotalValue: value,
		}))
	}
	appendSnap("a", 2*time.Hour, 3)
	appendSnap("a", time.Hour, 1)
	appendSnap("a", time.Hour, 2) // same timestamp, appended later
	appendSnap(models.GroupScope, time.Hour, 10)
	require.NoError(t, m.AppendSnapshot(ctx, &models.PortfolioSnapshot{GroupID: "g2", Scope: "a", Timestamp: base}))

	all, err := m.ListSnapshots(ctx, "g1", interfaces.SnapshotQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 4)

	onlyA, err := m.ListSnapshots(ctx, "g1", interfaces.SnapshotQuery{Scopes: []string{"a"}})
	require.NoError(t, err)
	require.Len(t, onlyA, 3)
	assert.Equal(t, []float64{1, 2, 3}, []float64{onlyA[0].TotalValue, onlyA[1].TotalValue, onlyA[2].TotalValue})

	recent, err := m.ListSnapshots(ctx, "g1", interfaces.SnapshotQuery{Since: base.Add(90 * time.Minute)})
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, 3.0, recent[0].TotalValue)

	other, err := m.ListSnapshots(ctx, "g2", interfaces.SnapshotQuery{})
	require.NoError(t, err)
	assert.Len(t, other, 1)
}

func TestSeasonsNewestFirst(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.SaveSeason(ctx, &models.Season{SeasonID: "s1", GroupID: "g1", StartedAt: start}))
	require.NoError(t, m.SaveSeason(ctx, &models.Season{SeasonID: "s2", GroupID: "g1", StartedAt: start.AddDate(0, 3, 0)}))
	require.NoError(t, m.SaveSeason(ctx, &models.Season{SeasonID: "x", GroupID: "other", StartedAt: start}))

	seasons, err := m.ListSeasons(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, seasons, 2)
	assert.Equal(t, "s2", seasons[0].SeasonID)

	_, err = m.GetSeason(ctx, "nope")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestConcurrentAppends(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = m.AppendSnapshot(ctx, &models.PortfolioSnapshot{
				GroupID: "g1", Scope: "a", Timestamp: time.Unix(int64(i), 0), TotalValue: float64(i),
			})
		}(i)
	}
	wg.Wait()

	snaps, err := m.ListSnapshots(ctx, "g1", interfaces.SnapshotQuery{})
	require.NoError(t, err)
	assert.Len(t, snaps, 20)
}
