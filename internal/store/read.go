package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/replacelib/internal/dedup"
)

// ErrCycleNotFound is returned when no cycle with the requested ID is stored.
var ErrCycleNotFound = errors.New("cycle not found")

// CycleSummary is one row of the cycle history.
type CycleSummary struct {
	ID                 string `json:"id"`
	Seq                int64  `json:"seq"`
	Catalog            string `json:"catalog"`
	AliasCount         int    `json:"alias_count"`
	ResolvedCount      int    `json:"resolved_count"`
	RemovedRecipeCount int    `json:"removed_recipe_count"`
}

// ListCycles returns every stored cycle ordered by seq ASC, id ASC.
// Returns an empty slice (not nil) if no cycles are stored.
func (s *Store) ListCycles(ctx context.Context) ([]CycleSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, catalog, alias_count, resolved_count, removed_recipe_count
		FROM cycles
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	cycles := []CycleSummary{}
	for rows.Next() {
		var c CycleSummary
		if err := rows.Scan(&c.ID, &c.Seq, &c.Catalog, &c.AliasCount, &c.ResolvedCount, &c.RemovedRecipeCount); err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		cycles = append(cycles, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return cycles, nil
}

// ReadReport reconstructs the report stored for cycleID. Child rows come back
// in the order they were written.
func (s *Store) ReadReport(ctx context.Context, cycleID string) (*dedup.Report, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `SELECT id FROM cycles WHERE id = ?`, cycleID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read report %s: %w", cycleID, ErrCycleNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read report %s: %w", cycleID, err)
	}

	r := &dedup.Report{CycleID: id}
	if r.Aliases, err = s.readAliases(ctx, id); err != nil {
		return nil, err
	}
	if r.Resolved, err = s.readResolved(ctx, id); err != nil {
		return nil, err
	}
	if r.RemovedRecipes, err = s.readRemovedRecipes(ctx, id); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Store) readAliases(ctx context.Context, cycleID string) ([]dedup.AliasRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, duplicate, canonical
		FROM aliases
		WHERE cycle_id = ?
		ORDER BY seq ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query aliases: %w", err)
	}
	defer rows.Close()

	out := []dedup.AliasRecord{}
	for rows.Next() {
		var a dedup.AliasRecord
		if err := rows.Scan(&a.Kind, &a.Duplicate, &a.Canonical); err != nil {
			return nil, fmt.Errorf("scan alias: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate aliases: %w", err)
	}
	return out, nil
}

func (s *Store) readResolved(ctx context.Context, cycleID string) ([]dedup.ResolvedRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, name, canonical, short_hash
		FROM resolved_duplicates
		WHERE cycle_id = ?
		ORDER BY seq ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query resolved duplicates: %w", err)
	}
	defer rows.Close()

	out := []dedup.ResolvedRecord{}
	for rows.Next() {
		var rd dedup.ResolvedRecord
		if err := rows.Scan(&rd.Kind, &rd.Name, &rd.Canonical, &rd.ShortHash); err != nil {
			return nil, fmt.Errorf("scan resolved duplicate: %w", err)
		}
		out = append(out, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resolved duplicates: %w", err)
	}
	return out, nil
}

func (s *Store) readRemovedRecipes(ctx context.Context, cycleID string) ([]dedup.RemovedRecipeInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, label, kept
		FROM removed_recipes
		WHERE cycle_id = ?
		ORDER BY seq ASC
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("query removed recipes: %w", err)
	}
	defer rows.Close()

	out := []dedup.RemovedRecipeInfo{}
	for rows.Next() {
		var rr dedup.RemovedRecipeInfo
		if err := rows.Scan(&rr.Name, &rr.Label, &rr.Kept); err != nil {
			return nil, fmt.Errorf("scan removed recipe: %w", err)
		}
		out = append(out, rr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate removed recipes: %w", err)
	}
	return out, nil
}
