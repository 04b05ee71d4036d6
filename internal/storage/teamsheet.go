package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pable/go-teamsheet/internal/model"
)

// slot is one filled shirt on a validated teamsheet.
type slot struct {
	position int
	name     string
}

// validateTeamsheet checks a submission and returns its normalised date and filled slots.
// With strictDate unset an unparseable (but non-empty) date is kept verbatim, which is how
// legacy rows are imported.
func validateTeamsheet(sheet model.Teamsheet, strictDate bool) (string, []slot, error) {
	raw := strings.TrimSpace(sheet.Date)
	if raw == "" {
		return "", nil, fmt.Errorf("%w: match date is required", model.ErrValidation)
	}
	date := raw
	if t, ok := model.ParseDate(raw); ok {
		date = t.Format("2006-01-02")
	} else if strictDate {
		return "", nil, fmt.Errorf("%w: unrecognised match date %q", model.ErrValidation, raw)
	}

	if len(sheet.Players) > model.MaxPositions {
		return "", nil, fmt.Errorf("%w: %d shirts given, at most %d allowed",
			model.ErrValidation, len(sheet.Players), model.MaxPositions)
	}
	seen := make(map[string]int)
	var slots []slot
	for i, n := range sheet.Players {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if prev, dup := seen[n]; dup {
			return "", nil, fmt.Errorf("%w: %q listed at both %d and %d", model.ErrValidation, n, prev, i+1)
		}
		seen[n] = i + 1
		slots = append(slots, slot{position: i + 1, name: n})
	}
	return date, slots, nil
}

// ensurePlayer returns the id for name, creating the player if this is its first appearance.
func ensurePlayer(ctx context.Context, q querier, name string) (int64, error) {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO players (name) VALUES (?) ON CONFLICT(name) DO NOTHING`, name); err != nil {
		return 0, fmt.Errorf("insert player %q: %w", name, err)
	}
	var id int64
	if err := q.QueryRowContext(ctx, `SELECT id FROM players WHERE name = ?`, name).Scan(&id); err != nil {
		return 0, fmt.Errorf("lookup player %q: %w", name, err)
	}
	return id, nil
}

func insertAppearances(ctx context.Context, q querier, matchID int64, slots []slot) error {
	for _, s := range slots {
		pid, err := ensurePlayer(ctx, q, s.name)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO appearances (player_id, match_id, position) VALUES (?, ?, ?)`,
			pid, matchID, s.position); err != nil {
			return fmt.Errorf("insert appearance %d/%d: %w", matchID, s.position, err)
		}
	}
	return nil
}

func insertMatch(ctx context.Context, q querier, sheet model.Teamsheet, date string) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO matches (league, season, match_date, opposition, location, result, guildford_points, opposition_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		strings.TrimSpace(sheet.League), strings.TrimSpace(sheet.Season), date,
		strings.TrimSpace(sheet.Opposition), strings.TrimSpace(sheet.Location), strings.TrimSpace(sheet.Result),
		nullInt(sheet.GuildfordPoints), nullInt(sheet.OppositionPoints),
	)
	if err != nil {
		return 0, fmt.Errorf("insert match: %w", err)
	}
	return res.LastInsertId()
}

// RecordTeamsheet stores a new match and its appearances in one transaction, creating
// players on first sight. Invalid submissions return model.ErrValidation before any write.
func (db *DB) RecordTeamsheet(ctx context.Context, sheet model.Teamsheet) (int64, error) {
	date, slots, err := validateTeamsheet(sheet, true)
	if err != nil {
		return 0, err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistErr("record teamsheet", err)
	}
	defer tx.Rollback()

	id, err := insertMatch(ctx, tx, sheet, date)
	if err != nil {
		return 0, persistErr("record teamsheet", err)
	}
	if err := insertAppearances(ctx, tx, id, slots); err != nil {
		return 0, persistErr("record teamsheet", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, persistErr("record teamsheet", err)
	}
	return id, nil
}

// ImportTeamsheets stores a batch of legacy teamsheets in a single transaction. Dates that
// do not parse are kept as given. Either every sheet is stored or none is.
func (db *DB) ImportTeamsheets(ctx context.Context, sheets []model.Teamsheet) (int, error) {
	type prepared struct {
		date  string
		slots []slot
	}
	preps := make([]prepared, len(sheets))
	for i, s := range sheets {
		date, slots, err := validateTeamsheet(s, false)
		if err != nil {
			return 0, fmt.Errorf("sheet %d: %w", i+1, err)
		}
		preps[i] = prepared{date: date, slots: slots}
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, persistErr("import teamsheets", err)
	}
	defer tx.Rollback()

	for i, s := range sheets {
		id, err := insertMatch(ctx, tx, s, preps[i].date)
		if err != nil {
			return 0, persistErr("import teamsheets", err)
		}
		if err := insertAppearances(ctx, tx, id, preps[i].slots); err != nil {
			return 0, persistErr("import teamsheets", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, persistErr("import teamsheets", err)
	}
	return len(sheets), nil
}

// UpdateTeamsheet replaces the details and appearances of an existing match.
func (db *DB) UpdateTeamsheet(ctx context.Context, id int64, sheet model.Teamsheet) error {
	date, slots, err := validateTeamsheet(sheet, true)
	if err != nil {
		return err
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return persistErr("update teamsheet", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE matches SET league = ?, season = ?, match_date = ?, opposition = ?, location = ?,
		       result = ?, guildford_points = ?, opposition_points = ?
		WHERE id = ?`,
		strings.TrimSpace(sheet.League), strings.TrimSpace(sheet.Season), date,
		strings.TrimSpace(sheet.Opposition), strings.TrimSpace(sheet.Location), strings.TrimSpace(sheet.Result),
		nullInt(sheet.GuildfordPoints), nullInt(sheet.OppositionPoints), id,
	)
	if err != nil {
		return persistErr("update teamsheet", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistErr("update teamsheet", err)
	}
	if n == 0 {
		return fmt.Errorf("match %d: %w", id, model.ErrNotFound)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM appearances WHERE match_id = ?`, id); err != nil {
		return persistErr("update teamsheet", err)
	}
	if err := insertAppearances(ctx, tx, id, slots); err != nil {
		return persistErr("update teamsheet", err)
	}
	if err := tx.Commit(); err != nil {
		return persistErr("update teamsheet", err)
	}
	return nil
}

// DeleteMatch removes a match; its appearances go with it.
func (db *DB) DeleteMatch(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM matches WHERE id = ?`, id)
	if err != nil {
		return persistErr("delete match", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return persistErr("delete match", err)
	}
	if n == 0 {
		return fmt.Errorf("match %d: %w", id, model.ErrNotFound)
	}
	return nil
}

// LatestTeamsheet returns the most recently played match as a prefilled submission, with the
// date shown as DD/MM/YYYY and the player list padded to every shirt. With no matches
// stored it returns a blank sheet.
func (db *DB) LatestTeamsheet(ctx context.Context) (*model.Teamsheet, error) {
	matches, err := db.ListMatches(ctx, "")
	if err != nil {
		return nil, err
	}
	sheet := &model.Teamsheet{Players: make([]string, model.MaxPositions)}
	if len(matches) == 0 {
		return sheet, nil
	}

	latest := matches[len(matches)-1]
	var best time.Time
	found := false
	for _, m := range matches {
		t, ok := model.ParseDate(m.Date)
		if !ok {
			continue
		}
		if !found || !t.Before(best) {
			best, found = t, true
			latest = m
		}
	}

	apps, err := db.MatchAppearances(ctx, latest.ID)
	if err != nil {
		return nil, err
	}
	sheet.League = latest.League
	sheet.Season = latest.Season
	sheet.Date = model.FormatDate(latest.Date)
	sheet.Opposition = latest.Opposition
	sheet.Location = latest.Location
	sheet.Result = latest.Result
	sheet.GuildfordPoints = latest.GuildfordPoints
	sheet.OppositionPoints = latest.OppositionPoints
	for _, a := range apps {
		if a.Position >= 1 && a.Position <= model.MaxPositions {
			sheet.Players[a.Position-1] = a.PlayerName
		}
	}
	return sheet, nil
}
