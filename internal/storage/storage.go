// Package storage persists matches, players and appearances in SQLite.
package storage

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/pable/go-teamsheet/internal/model"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// timeNow is swapped in tests.
var timeNow = time.Now

// DB wraps a sql.DB for the teamsheet store.
type DB struct {
	conn *sql.DB
}

// connPragmas run on every connection the pool opens.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

// Open opens (or creates) the SQLite database at the given path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?"+connPragmas)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// An in-memory database only exists on the connection that created it.
	conn.SetMaxOpenConns(1)
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func persistErr(op string, err error) error {
	return &model.PersistenceError{Op: op, Err: err}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
