package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pable/go-teamsheet/internal/model"
)

// afterReassign, when set, runs inside the merge transaction once appearances have been
// moved and before the merged players are deleted. Tests use it to inject failures.
var afterReassign func(ctx context.Context, tx *sql.Tx) error

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// MergePlayers folds every name in names into canonical: appearances are reassigned, the
// other players are deleted and an audit row is written, all in one transaction.
//
// Fewer than two distinct names, or a canonical name outside the list, is a validation error.
// Names with no stored player return model.ErrNotFound. If two of the identities appeared in
// the same match the merge is refused with a *model.MergeConflictError.
func (db *DB) MergePlayers(ctx context.Context, names []string, canonical string) (*model.MergeResult, error) {
	canonical = strings.TrimSpace(canonical)
	var distinct []string
	seen := make(map[string]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		distinct = append(distinct, n)
	}
	if len(distinct) < 2 {
		return nil, fmt.Errorf("%w: need at least two distinct names to merge", model.ErrValidation)
	}
	if !seen[canonical] {
		return nil, fmt.Errorf("%w: canonical name %q is not among the names being merged", model.ErrValidation, canonical)
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, persistErr("merge players", err)
	}
	defer tx.Rollback()

	ids := make(map[string]int64, len(distinct))
	var missing []string
	for _, n := range distinct {
		var id int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM players WHERE name = ?`, n).Scan(&id)
		if err == sql.ErrNoRows {
			missing = append(missing, n)
			continue
		}
		if err != nil {
			return nil, persistErr("merge players", err)
		}
		ids[n] = id
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("players %s: %w", strings.Join(missing, ", "), model.ErrNotFound)
	}

	allIDs := make([]any, 0, len(distinct))
	for _, n := range distinct {
		allIDs = append(allIDs, ids[n])
	}
	conflicts, err := sharedMatches(ctx, tx, allIDs)
	if err != nil {
		return nil, persistErr("merge players", err)
	}
	if len(conflicts) > 0 {
		return nil, &model.MergeConflictError{MatchIDs: conflicts}
	}

	canonicalID := ids[canonical]
	var merged []string
	var mergedIDs []any
	for _, n := range distinct {
		if n == canonical {
			continue
		}
		merged = append(merged, n)
		mergedIDs = append(mergedIDs, ids[n])
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE appearances SET player_id = ? WHERE player_id IN (`+placeholders(len(mergedIDs))+`)`,
		append([]any{canonicalID}, mergedIDs...)...)
	if err != nil {
		return nil, persistErr("reassign appearances", err)
	}
	reassigned, err := res.RowsAffected()
	if err != nil {
		return nil, persistErr("reassign appearances", err)
	}

	if afterReassign != nil {
		if err := afterReassign(ctx, tx); err != nil {
			return nil, persistErr("merge players", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM players WHERE id IN (`+placeholders(len(mergedIDs))+`)`, mergedIDs...); err != nil {
		return nil, persistErr("delete merged players", err)
	}

	details, err := json.Marshal(merged)
	if err != nil {
		return nil, persistErr("encode merge audit", err)
	}
	auditID := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO merge_audit (id, canonical, merged, reassigned, created_at) VALUES (?, ?, ?, ?, ?)`,
		auditID, canonical, string(details), reassigned, timeNow().UTC().Format(time.RFC3339)); err != nil {
		return nil, persistErr("write merge audit", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, persistErr("commit merge", err)
	}
	return &model.MergeResult{
		Canonical:   canonical,
		Merged:      merged,
		MergedCount: len(merged),
		Reassigned:  int(reassigned),
		AuditID:     auditID,
	}, nil
}

// sharedMatches returns the ids of matches in which more than one of the given players appeared.
func sharedMatches(ctx context.Context, q querier, playerIDs []any) ([]int64, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT match_id FROM appearances
		WHERE player_id IN (`+placeholders(len(playerIDs))+`)
		GROUP BY match_id
		HAVING COUNT(*) > 1
		ORDER BY match_id`, playerIDs...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// MergeHistory returns the merge audit log, newest first.
func (db *DB) MergeHistory(ctx context.Context) ([]model.MergeAudit, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, canonical, merged, reassigned, created_at FROM merge_audit ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query merge history: %w", err)
	}
	defer rows.Close()

	var out []model.MergeAudit
	for rows.Next() {
		var a model.MergeAudit
		var merged, created string
		if err := rows.Scan(&a.ID, &a.Canonical, &merged, &a.Reassigned, &created); err != nil {
			return nil, fmt.Errorf("scan merge audit: %w", err)
		}
		if err := json.Unmarshal([]byte(merged), &a.Merged); err != nil {
			return nil, fmt.Errorf("decode merge audit %s: %w", a.ID, err)
		}
		a.CreatedAt, err = time.Parse(time.RFC3339, created)
		if err != nil {
			return nil, fmt.Errorf("decode merge audit %s time: %w", a.ID, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
