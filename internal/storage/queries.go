package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pable/go-teamsheet/internal/model"
)

const matchColumns = `id, league, season, match_date, opposition, location, result, guildford_points, opposition_points`

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMatch(r rowScanner) (model.Match, error) {
	var m model.Match
	var pf, pa sql.NullInt64
	err := r.Scan(&m.ID, &m.League, &m.Season, &m.Date, &m.Opposition, &m.Location, &m.Result, &pf, &pa)
	if err != nil {
		return m, err
	}
	m.GuildfordPoints = intPtr(pf)
	m.OppositionPoints = intPtr(pa)
	return m, nil
}

// LoadSnapshot reads every match, player and appearance inside one transaction so the
// three lists are consistent with each other. Rows come back in insertion order.
func (db *DB) LoadSnapshot(ctx context.Context) (*model.Snapshot, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin snapshot: %w", err)
	}
	defer tx.Rollback()

	snap := &model.Snapshot{}
	if snap.Matches, err = listMatches(ctx, tx, ""); err != nil {
		return nil, err
	}

	rows, err := tx.QueryContext(ctx, `SELECT id, name FROM players ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	for rows.Next() {
		var p model.Player
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan player: %w", err)
		}
		snap.Players = append(snap.Players, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	if snap.Appearances, err = listAppearances(ctx, tx, "", nil); err != nil {
		return nil, err
	}
	return snap, nil
}

// ListMatches returns matches in insertion order, optionally only those of one season.
func (db *DB) ListMatches(ctx context.Context, season string) ([]model.Match, error) {
	return listMatches(ctx, db.conn, season)
}

func listMatches(ctx context.Context, q querier, season string) ([]model.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches`
	var args []any
	if season != "" {
		query += ` WHERE season = ?`
		args = append(args, season)
	}
	query += ` ORDER BY id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetMatch returns the match with the given id, or nil if there is none.
func (db *DB) GetMatch(ctx context.Context, id int64) (*model.Match, error) {
	m, err := scanMatch(db.conn.QueryRowContext(ctx,
		`SELECT `+matchColumns+` FROM matches WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get match %d: %w", id, err)
	}
	return &m, nil
}

// MatchAppearances returns the teamsheet of one match ordered by shirt number.
func (db *DB) MatchAppearances(ctx context.Context, matchID int64) ([]model.Appearance, error) {
	return listAppearances(ctx, db.conn, "WHERE a.match_id = ?", []any{matchID})
}

func listAppearances(ctx context.Context, q querier, where string, args []any) ([]model.Appearance, error) {
	order := "ORDER BY a.id"
	if where != "" {
		order = "ORDER BY a.match_id, a.position"
	}
	rows, err := q.QueryContext(ctx, `
		SELECT a.id, a.match_id, a.player_id, p.name, a.position
		FROM appearances a
		JOIN players p ON p.id = a.player_id
		`+where+` `+order, args...)
	if err != nil {
		return nil, fmt.Errorf("query appearances: %w", err)
	}
	defer rows.Close()

	var out []model.Appearance
	for rows.Next() {
		var a model.Appearance
		if err := rows.Scan(&a.ID, &a.MatchID, &a.PlayerID, &a.PlayerName, &a.Position); err != nil {
			return nil, fmt.Errorf("scan appearance: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetPlayerByName returns the player with exactly this name, or nil if there is none.
func (db *DB) GetPlayerByName(ctx context.Context, name string) (*model.Player, error) {
	var p model.Player
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM players WHERE name = ?`, name).Scan(&p.ID, &p.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get player %q: %w", name, err)
	}
	return &p, nil
}

// PlayerNames returns every stored player name in alphabetical order.
func (db *DB) PlayerNames(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT name FROM players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query player names: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// PlayerAppearanceCounts returns starts/bench/total for every player, including players
// with no appearances, ordered by name.
func (db *DB) PlayerAppearanceCounts(ctx context.Context) ([]model.PlayerCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT p.id, p.name,
		       COALESCE(SUM(CASE WHEN a.position <= 15 THEN 1 ELSE 0 END), 0) AS starts,
		       COALESCE(SUM(CASE WHEN a.position > 15 THEN 1 ELSE 0 END), 0) AS bench,
		       COUNT(a.id) AS total
		FROM players p
		LEFT JOIN appearances a ON a.player_id = p.id
		GROUP BY p.id, p.name
		ORDER BY p.name`)
	if err != nil {
		return nil, fmt.Errorf("query appearance counts: %w", err)
	}
	defer rows.Close()

	var out []model.PlayerCount
	for rows.Next() {
		var c model.PlayerCount
		if err := rows.Scan(&c.PlayerID, &c.Name, &c.Starts, &c.Bench, &c.Total); err != nil {
			return nil, fmt.Errorf("scan appearance count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// QueryRaw runs an arbitrary query inside a transaction that is always rolled back, so
// statements that write have no lasting effect. Values are rendered as strings.
func (db *DB) QueryRaw(ctx context.Context, query string) ([]string, [][]string, error) {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	var out [][]string
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(cols))
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				row[i] = "NULL"
			case []byte:
				row[i] = string(x)
			default:
				row[i] = fmt.Sprint(x)
			}
		}
		out = append(out, row)
	}
	return cols, out, rows.Err()
}
