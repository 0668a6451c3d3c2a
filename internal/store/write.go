package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/replacelib/internal/dedup"
)

// ErrNilReport is returned when WriteReport is given a nil report.
var ErrNilReport = errors.New("nil report")

// WriteReport records a load cycle report in one transaction.
// Returns whether a new cycle was inserted.
//
// Uses ON CONFLICT(id) DO NOTHING on the cycle row for idempotency: writing
// a report whose cycle ID is already stored inserts nothing and returns
// inserted=false. The cycle gets the next logical seq.
func (s *Store) WriteReport(ctx context.Context, catalog string, r *dedup.Report) (inserted bool, err error) {
	if r == nil {
		return false, fmt.Errorf("write report: %w", ErrNilReport)
	}
	if r.CycleID == "" {
		return false, errors.New("write report: empty cycle id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("write report: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM cycles`).Scan(&seq); err != nil {
		return false, fmt.Errorf("write report: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO cycles
		(id, seq, catalog, alias_count, resolved_count, removed_recipe_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.CycleID,
		seq,
		catalog,
		len(r.Aliases),
		len(r.Resolved),
		len(r.RemovedRecipes),
	)
	if err != nil {
		return false, fmt.Errorf("write report: insert cycle: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write report: rows affected: %w", err)
	}
	if rows == 0 {
		return false, nil
	}

	if err := writeChildren(ctx, tx, r); err != nil {
		return false, fmt.Errorf("write report %s: %w", r.CycleID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("write report: commit: %w", err)
	}
	return true, nil
}

func writeChildren(ctx context.Context, tx *sql.Tx, r *dedup.Report) error {
	for i, a := range r.Aliases {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO aliases (cycle_id, seq, kind, duplicate, canonical)
			VALUES (?, ?, ?, ?, ?)
		`, r.CycleID, i+1, a.Kind, a.Duplicate, a.Canonical); err != nil {
			return fmt.Errorf("insert alias %s: %w", a.Duplicate, err)
		}
	}

	for i, rd := range r.Resolved {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO resolved_duplicates (cycle_id, seq, kind, name, canonical, short_hash)
			VALUES (?, ?, ?, ?, ?, ?)
		`, r.CycleID, i+1, rd.Kind, rd.Name, rd.Canonical, rd.ShortHash); err != nil {
			return fmt.Errorf("insert resolved %s: %w", rd.Name, err)
		}
	}

	for i, rr := range r.RemovedRecipes {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO removed_recipes (cycle_id, seq, name, label, kept)
			VALUES (?, ?, ?, ?, ?)
		`, r.CycleID, i+1, rr.Name, rr.Label, rr.Kept); err != nil {
			return fmt.Errorf("insert removed recipe %s: %w", rr.Name, err)
		}
	}

	return nil
}
