package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-teamsheet/internal/model"
)

func openMemDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err, "open in-memory db")
	t.Cleanup(func() { db.Close() })
	return db
}

func pts(n int) *int { return &n }

func sheet(season, date, result string, players ...string) model.Teamsheet {
	return model.Teamsheet{
		League:     "Counties 1",
		Season:     season,
		Date:       date,
		Opposition: "Old Rivals",
		Location:   "Home",
		Result:     result,
		Players:    players,
	}
}

func record(t *testing.T, db *DB, s model.Teamsheet) int64 {
	t.Helper()
	id, err := db.RecordTeamsheet(context.Background(), s)
	require.NoError(t, err)
	return id
}

func TestRecordTeamsheet(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	s := sheet("2015-16", "05/09/2015", "Win 20-10", "Alice", "", " Bob ", "Carol")
	s.GuildfordPoints = pts(20)
	s.OppositionPoints = pts(10)
	id := record(t, db, s)

	m, err := db.GetMatch(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "2015-09-05", m.Date, "date stored as ISO")
	assert.Equal(t, "2015-16", m.Season)
	require.NotNil(t, m.GuildfordPoints)
	assert.Equal(t, 20, *m.GuildfordPoints)

	apps, err := db.MatchAppearances(ctx, id)
	require.NoError(t, err)
	require.Len(t, apps, 3)
	assert.Equal(t, "Alice", apps[0].PlayerName)
	assert.Equal(t, 1, apps[0].Position)
	assert.Equal(t, "Bob", apps[1].PlayerName, "names are trimmed")
	assert.Equal(t, 3, apps[1].Position, "blank shirts stay vacant")
	assert.Equal(t, 4, apps[2].Position)

	names, err := db.PlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, names)

	// A second sheet reuses existing players.
	record(t, db, sheet("2015-16", "12/09/2015", "Loss", "Bob", "Dave"))
	names, err = db.PlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alice", "Bob", "Carol", "Dave"}, names)
}

func TestRecordTeamsheetValidation(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	tooMany := make([]string, model.MaxPositions+1)
	for i := range tooMany {
		tooMany[i] = string(rune('A' + i))
	}

	tests := []struct {
		name  string
		sheet model.Teamsheet
	}{
		{"missing date", sheet("2015-16", "  ", "Win", "Alice")},
		{"bad date", sheet("2015-16", "next tuesday", "Win", "Alice")},
		{"too many shirts", sheet("2015-16", "05/09/2015", "Win", tooMany...)},
		{"duplicate player", sheet("2015-16", "05/09/2015", "Win", "Alice", "Bob", "Alice")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.RecordTeamsheet(ctx, tt.sheet)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}

	snap, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Matches)
	assert.Empty(t, snap.Players, "rejected sheets create no players")
}

func TestLoadSnapshot(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	record(t, db, sheet("2015-16", "05/09/2015", "Win", "Alice", "Bob"))
	record(t, db, sheet("2016-17", "2016-09-10", "Draw", "Bob", "Carol"))

	snap, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Matches, 2)
	assert.Equal(t, "2015-16", snap.Matches[0].Season)
	assert.Len(t, snap.Players, 3)
	require.Len(t, snap.Appearances, 4)
	assert.Equal(t, "Alice", snap.Appearances[0].PlayerName)
	assert.Equal(t, snap.Matches[1].ID, snap.Appearances[3].MatchID)

	matches, err := db.ListMatches(ctx, "2016-17")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Draw", matches[0].Result)
}

func TestGetMatchMissing(t *testing.T) {
	db := openMemDB(t)
	m, err := db.GetMatch(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, m)

	p, err := db.GetPlayerByName(context.Background(), "Nobody")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpdateTeamsheet(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	id := record(t, db, sheet("2015-16", "05/09/2015", "Win", "Alice", "Bob"))

	upd := sheet("2015-16", "06/09/2015", "Loss 3-30", "Bob", "", "Erin")
	upd.GuildfordPoints = pts(3)
	require.NoError(t, db.UpdateTeamsheet(ctx, id, upd))

	m, err := db.GetMatch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "2015-09-06", m.Date)
	assert.Equal(t, "Loss 3-30", m.Result)
	assert.Nil(t, m.OppositionPoints)

	apps, err := db.MatchAppearances(ctx, id)
	require.NoError(t, err)
	require.Len(t, apps, 2)
	assert.Equal(t, "Bob", apps[0].PlayerName)
	assert.Equal(t, 1, apps[0].Position)
	assert.Equal(t, "Erin", apps[1].PlayerName)
	assert.Equal(t, 3, apps[1].Position)

	err = db.UpdateTeamsheet(ctx, 999, upd)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestDeleteMatchCascades(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	id := record(t, db, sheet("2015-16", "05/09/2015", "Win", "Alice", "Bob"))
	require.NoError(t, db.DeleteMatch(ctx, id))

	snap, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, snap.Matches)
	assert.Empty(t, snap.Appearances)
	assert.Len(t, snap.Players, 2, "players survive their matches")

	assert.ErrorIs(t, db.DeleteMatch(ctx, id), model.ErrNotFound)
}

func TestPlayerAppearanceCounts(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	bench := make([]string, 17)
	bench[0] = "Alice"
	bench[16] = "Bob"
	record(t, db, sheet("2015-16", "05/09/2015", "Win", bench...))
	record(t, db, sheet("2015-16", "12/09/2015", "Win", "Alice", "Carol"))
	id := record(t, db, sheet("2015-16", "19/09/2015", "Win", "Dave"))
	require.NoError(t, db.DeleteMatch(ctx, id))

	counts, err := db.PlayerAppearanceCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 4)

	byName := map[string]model.PlayerCount{}
	for _, c := range counts {
		byName[c.Name] = c
	}
	assert.Equal(t, 2, byName["Alice"].Starts)
	assert.Equal(t, 2, byName["Alice"].Total)
	assert.Equal(t, 1, byName["Bob"].Bench)
	assert.Equal(t, 0, byName["Bob"].Starts)
	assert.Equal(t, 0, byName["Dave"].Total, "players without appearances are listed")
}

func TestLatestTeamsheet(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	blank, err := db.LatestTeamsheet(ctx)
	require.NoError(t, err)
	assert.Empty(t, blank.Date)
	assert.Len(t, blank.Players, model.MaxPositions)

	record(t, db, sheet("2016-17", "10/09/2016", "Win", "Alice", "", "Carol"))
	record(t, db, sheet("2015-16", "05/09/2015", "Loss", "Bob"))

	latest, err := db.LatestTeamsheet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10/09/2016", latest.Date, "latest by date, not insertion order")
	assert.Equal(t, "2016-17", latest.Season)
	require.Len(t, latest.Players, model.MaxPositions)
	assert.Equal(t, "Alice", latest.Players[0])
	assert.Equal(t, "", latest.Players[1])
	assert.Equal(t, "Carol", latest.Players[2])
}

func TestImportTeamsheetsKeepsLegacyDates(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	n, err := db.ImportTeamsheets(ctx, []model.Teamsheet{
		sheet("2014-15", "05/09/14", "Win", "Alice"),
		sheet("2014-15", "TBC", "Loss", "Alice", "Bob"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	matches, err := db.ListMatches(ctx, "")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "2014-09-05", matches[0].Date)
	assert.Equal(t, "TBC", matches[1].Date)

	_, err = db.ImportTeamsheets(ctx, []model.Teamsheet{
		sheet("2014-15", "06/09/14", "Win", "Carol"),
		sheet("2014-15", "", "Win", "Dave"),
	})
	assert.ErrorIs(t, err, model.ErrValidation)
	matches, err = db.ListMatches(ctx, "")
	require.NoError(t, err)
	assert.Len(t, matches, 2, "a bad sheet rejects the whole batch")
}

func TestMergePlayers(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	t.Cleanup(func() { timeNow = time.Now })

	record(t, db, sheet("2015-16", "05/09/2015", "Win", "Jon Smith", "Alice"))
	record(t, db, sheet("2015-16", "12/09/2015", "Win", "Alice", "Jon Smith"))
	record(t, db, sheet("2015-16", "19/09/2015", "Win", "John Smith"))

	res, err := db.MergePlayers(ctx, []string{"Jon Smith", "John Smith"}, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", res.Canonical)
	assert.Equal(t, []string{"Jon Smith"}, res.Merged)
	assert.Equal(t, 1, res.MergedCount)
	assert.Equal(t, 2, res.Reassigned)
	assert.NotEmpty(t, res.AuditID)

	gone, err := db.GetPlayerByName(ctx, "Jon Smith")
	require.NoError(t, err)
	assert.Nil(t, gone)

	john, err := db.GetPlayerByName(ctx, "John Smith")
	require.NoError(t, err)
	require.NotNil(t, john)
	counts, err := db.PlayerAppearanceCounts(ctx)
	require.NoError(t, err)
	for _, c := range counts {
		if c.PlayerID == john.ID {
			assert.Equal(t, 3, c.Total)
		}
	}

	history, err := db.MergeHistory(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.AuditID, history[0].ID)
	assert.Equal(t, []string{"Jon Smith"}, history[0].Merged)
	assert.Equal(t, 2, history[0].Reassigned)
	assert.True(t, fixed.Equal(history[0].CreatedAt))
}

func TestMergeHistoryCorruptTimestamp(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO merge_audit (id, canonical, merged, reassigned, created_at) VALUES (?, ?, ?, ?, ?)`,
		"a1", "John Smith", `["Jon Smith"]`, 1, "last tuesday")
	require.NoError(t, err)

	_, err = db.MergeHistory(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a1")
}

func TestMergePlayersRejects(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	m1 := record(t, db, sheet("2015-16", "05/09/2015", "Win", "Jon Smith", "John Smith"))
	record(t, db, sheet("2015-16", "12/09/2015", "Win", "J Smith"))

	t.Run("too few names", func(t *testing.T) {
		_, err := db.MergePlayers(ctx, []string{"John Smith", "John Smith"}, "John Smith")
		assert.ErrorIs(t, err, model.ErrValidation)
	})
	t.Run("canonical not listed", func(t *testing.T) {
		_, err := db.MergePlayers(ctx, []string{"Jon Smith", "J Smith"}, "John Smith")
		assert.ErrorIs(t, err, model.ErrValidation)
	})
	t.Run("unknown name", func(t *testing.T) {
		_, err := db.MergePlayers(ctx, []string{"J Smith", "Johnny Smith"}, "J Smith")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
	t.Run("shared match", func(t *testing.T) {
		_, err := db.MergePlayers(ctx, []string{"Jon Smith", "John Smith", "J Smith"}, "John Smith")
		require.ErrorIs(t, err, model.ErrValidation)
		var conflict *model.MergeConflictError
		require.True(t, errors.As(err, &conflict))
		assert.Equal(t, []int64{m1}, conflict.MatchIDs)
	})

	names, err := db.PlayerNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"J Smith", "John Smith", "Jon Smith"}, names, "nothing merged")
}

func TestMergePlayersIsAtomic(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	record(t, db, sheet("2015-16", "05/09/2015", "Win", "Jon Smith"))
	record(t, db, sheet("2015-16", "12/09/2015", "Win", "Jon Smith"))
	record(t, db, sheet("2015-16", "19/09/2015", "Win", "John Smith"))

	before, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)

	boom := errors.New("disk on fire")
	afterReassign = func(ctx context.Context, tx *sql.Tx) error {
		var moved int
		err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM appearances a JOIN players p ON p.id = a.player_id
			WHERE p.name = 'John Smith'`).Scan(&moved)
		require.NoError(t, err)
		require.Equal(t, 3, moved, "reassignment visible inside the transaction")
		return boom
	}
	t.Cleanup(func() { afterReassign = nil })

	_, err = db.MergePlayers(ctx, []string{"Jon Smith", "John Smith"}, "John Smith")
	require.ErrorIs(t, err, boom)
	var perr *model.PersistenceError
	assert.True(t, errors.As(err, &perr))

	after, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed merge leaves the store untouched")

	history, err := db.MergeHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestQueryRaw(t *testing.T) {
	db := openMemDB(t)
	ctx := context.Background()

	record(t, db, sheet("2015-16", "05/09/2015", "Win", "Alice", "Bob"))

	cols, rows, err := db.QueryRaw(ctx, `SELECT name, id, NULL AS nothing FROM players ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "id", "nothing"}, cols)
	assert.Equal(t, [][]string{{"Alice", "1", "NULL"}, {"Bob", "2", "NULL"}}, rows)

	_, _, err = db.QueryRaw(ctx, `SELECT * FROM no_such_table`)
	assert.Error(t, err)
}

func TestPragmasApplyToEveryConnection(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "teamsheets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ctx := context.Background()

	db.conn.SetMaxOpenConns(2)
	first, err := db.conn.Conn(ctx)
	require.NoError(t, err)
	defer first.Close()
	second, err := db.conn.Conn(ctx)
	require.NoError(t, err)
	defer second.Close()

	for _, c := range []*sql.Conn{first, second} {
		var fk int
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
		assert.Equal(t, 1, fk)
		var mode string
		require.NoError(t, c.QueryRowContext(ctx, "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	}
}
