package stats

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pable/go-teamsheet/internal/model"
	"github.com/pable/go-teamsheet/internal/storage"
)

// countingStore counts snapshot loads so tests can observe the cache.
type countingStore struct {
	*storage.DB
	loads atomic.Int32
}

func (c *countingStore) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	c.loads.Add(1)
	return c.DB.LoadSnapshot(ctx)
}

func setupService(t *testing.T, opts Options) (*Service, *countingStore) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := &countingStore{DB: db}
	return NewService(store, zaptest.NewLogger(t), opts), store
}

func pts(n int) *int { return &n }

func sheet(season, date, result string, pf, pa *int, players ...string) model.Teamsheet {
	return model.Teamsheet{
		League:           "Counties 1",
		Season:           season,
		Date:             date,
		Opposition:       "Old Rivals",
		Result:           result,
		GuildfordPoints:  pf,
		OppositionPoints: pa,
		Players:          players,
	}
}

func mustRecord(t *testing.T, svc *Service, s model.Teamsheet) int64 {
	t.Helper()
	id, err := svc.RecordTeamsheet(context.Background(), s, true)
	require.NoError(t, err)
	return id
}

func TestComputeSeasonStats(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win 20-10", pts(20), pts(10), "Alice", "Bob"))
	mustRecord(t, svc, sheet("2015-16", "12/09/2015", "Draw 15-15", pts(15), pts(15), "Alice"))
	mustRecord(t, svc, sheet("2014-15", "06/09/2014", "Loss", nil, nil, "Carol"))

	st, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	assert.Equal(t, 2, st.TotalMatches)
	assert.Equal(t, 1, st.Wins)
	assert.Equal(t, 1, st.Draws)
	assert.Equal(t, 0, st.Losses)
	assert.Equal(t, 50.0, st.WinPct)
	assert.Equal(t, 18, st.AvgPointsFor)
	assert.Equal(t, 12, st.AvgPointsAgainst)
	assert.Equal(t, []string{"2015-16", "2014-15"}, st.AvailableSeasons)
	assert.Equal(t, "2014-15", st.PreviousSeason)
	assert.Equal(t, []string{"Carol"}, st.Leavers)

	latest, err := svc.ComputeSeasonStats(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2015-16", latest.Season, "empty label means most recent")

	_, err = svc.ComputeSeasonStats(ctx, "1999-00")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestEmptyStore(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	seasons, err := svc.CollectSeasons(ctx)
	require.NoError(t, err)
	assert.Empty(t, seasons)

	_, err = svc.ComputeSeasonStats(ctx, "")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = svc.GetPlayerStats(ctx, "Alice")
	assert.ErrorIs(t, err, model.ErrNotFound)

	groups, err := svc.DuplicateGroups(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestCacheInvalidatedByWrites(t *testing.T) {
	svc, store := setupService(t, DefaultOptions())
	ctx := context.Background()

	id := mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Alice"))

	first, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	second, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	assert.Same(t, first, second, "second call served from cache")
	_, err = svc.CollectSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), store.loads.Load())

	mustRecord(t, svc, sheet("2015-16", "12/09/2015", "Loss", nil, nil, "Alice"))
	third, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	assert.Equal(t, 2, third.TotalMatches)
	assert.Equal(t, int32(2), store.loads.Load())

	require.NoError(t, svc.DeleteMatch(ctx, id))
	fourth, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	assert.Equal(t, 1, fourth.TotalMatches)
	assert.Equal(t, 0, fourth.Wins)
}

// pausingStore blocks the next LoadSnapshot after it has read the store, until released.
type pausingStore struct {
	*storage.DB
	loaded  chan struct{}
	release chan struct{}
	once    sync.Once
}

func (p *pausingStore) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	snap, err := p.DB.LoadSnapshot(ctx)
	p.once.Do(func() {
		close(p.loaded)
		<-p.release
	})
	return snap, err
}

func TestWriteDuringLoadIsNotMaskedByCache(t *testing.T) {
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	_, err = db.RecordTeamsheet(ctx, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Alice"))
	require.NoError(t, err)

	store := &pausingStore{DB: db, loaded: make(chan struct{}), release: make(chan struct{})}
	svc := NewService(store, zaptest.NewLogger(t), DefaultOptions())

	done := make(chan []string)
	go func() {
		seasons, err := svc.CollectSeasons(ctx)
		assert.NoError(t, err)
		done <- seasons
	}()

	<-store.loaded
	_, err = svc.RecordTeamsheet(ctx, sheet("2016-17", "03/09/2016", "Win", nil, nil, "Alice"), true)
	require.NoError(t, err)
	close(store.release)
	assert.Equal(t, []string{"2015-16"}, <-done, "the in-flight read sees the data it loaded")

	seasons, err := svc.CollectSeasons(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2016-17", "2015-16"}, seasons)
}

func TestConcurrentReads(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()
	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Alice", "Bob"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st, err := svc.ComputeSeasonStats(ctx, "2015-16")
			assert.NoError(t, err)
			assert.Equal(t, 1, st.Wins)
		}()
	}
	wg.Wait()
}

func TestRecordTeamsheetSuggestions(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "John Smith", "Alice"))

	msgs, err := svc.CheckTeamsheet(ctx, []string{"Jon Smith", "John Smith", "", "Zed"})
	require.NoError(t, err)
	assert.Equal(t, []string{`"Jon Smith" is not an existing player. Did you mean "John Smith"?`}, msgs)

	typo := sheet("2015-16", "12/09/2015", "Win", nil, nil, "Jon Smith", "Alice")
	_, err = svc.RecordTeamsheet(ctx, typo, false)
	require.ErrorIs(t, err, model.ErrValidation)
	var sugg *SuggestionError
	require.True(t, errors.As(err, &sugg))
	assert.Len(t, sugg.Suggestions, 1)

	seasons, err := svc.ComputeSeasonStats(ctx, "2015-16")
	require.NoError(t, err)
	assert.Equal(t, 1, seasons.TotalMatches, "blocked sheet not stored")

	_, err = svc.RecordTeamsheet(ctx, typo, true)
	require.NoError(t, err)
	_, err = svc.GetPlayerStats(ctx, "Jon Smith")
	require.NoError(t, err, "forced sheet creates the new player")
}

func TestMergePlayers(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Jon Smith"))
	mustRecord(t, svc, sheet("2015-16", "12/09/2015", "Win", nil, nil, "John Smith"))

	before, err := svc.GetPlayerStats(ctx, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, 1, before.Total)

	res, err := svc.MergePlayers(ctx, []string{"Jon Smith", "John Smith"}, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Reassigned)

	after, err := svc.GetPlayerStats(ctx, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, 2, after.Total)
	_, err = svc.GetPlayerStats(ctx, "Jon Smith")
	assert.ErrorIs(t, err, model.ErrNotFound)

	history, err := svc.MergeHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "John Smith", history[0].Canonical)
}

func TestDuplicateGroups(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "John Smith", "Dave Jones"))
	mustRecord(t, svc, sheet("2015-16", "12/09/2015", "Win", nil, nil, "Smith John", "John Smith"))

	groups, err := svc.DuplicateGroups(ctx, 0)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	members := groups[0].Members
	require.Len(t, members, 2)
	assert.Equal(t, "John Smith", members[0].Name)
	assert.Equal(t, 2, members[0].Total)
	assert.Equal(t, "Smith John", members[1].Name)
	assert.Equal(t, 1, members[1].Total)
}

func TestMilestonesAndOverview(t *testing.T) {
	opts := DefaultOptions()
	opts.MilestoneEvery = 3
	svc, _ := setupService(t, opts)
	ctx := context.Background()

	mustRecord(t, svc, sheet("2014-15", "06/09/2014", "Win", nil, nil, "Alice", "Bob"))
	mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Alice"))

	ms, err := svc.Milestones(ctx, 0)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, model.Milestone{Name: "Alice", Total: 2, Next: 3}, ms[0])

	ms, err = svc.Milestones(ctx, 2)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "Bob", ms[0].Name)

	ov, err := svc.Overview(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, ov.TotalPlayers)
	assert.Equal(t, 2, ov.TotalMatches)
	assert.Equal(t, 3, ov.TotalAppearances)
	assert.Equal(t, 2, ov.Seasons)
	require.Len(t, ov.Recent, 1)
	assert.Equal(t, "2015-16", ov.Recent[0].Season)

	rows, err := svc.Appearances(ctx, model.AppearanceQuery{Search: "ali"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 2, rows[0].Total)
}

func TestListMatches(t *testing.T) {
	svc, _ := setupService(t, DefaultOptions())
	ctx := context.Background()

	old := mustRecord(t, svc, sheet("2014-15", "06/09/2014", "Win", nil, nil, "Alice", "Bob"))
	newer := mustRecord(t, svc, sheet("2015-16", "05/09/2015", "Win", nil, nil, "Alice"))

	matches, counts, err := svc.ListMatches(ctx, "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, newer, matches[0].ID)
	assert.Equal(t, old, matches[1].ID)
	assert.Equal(t, 2, counts[old])
	assert.Equal(t, 1, counts[newer])

	matches, _, err = svc.ListMatches(ctx, "2014-15")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, old, matches[0].ID)
}
