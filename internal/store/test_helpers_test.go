package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/replacelib/internal/dedup"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestReport creates a report with one row of every child type.
func createTestReport(cycleID string) *dedup.Report {
	return &dedup.Report{
		CycleID: cycleID,
		Aliases: []dedup.AliasRecord{
			{Kind: "thing", Duplicate: "Wall_Wood", Canonical: "Wall_WoodPlank"},
			{Kind: "terrain", Duplicate: "WoodFloor", Canonical: "WoodPlankFloor"},
		},
		Resolved: []dedup.ResolvedRecord{
			{Kind: "thing", Name: "Wall_Wood", Canonical: "Wall_WoodPlank", ShortHash: 64200},
		},
		RemovedRecipes: []dedup.RemovedRecipeInfo{
			{Name: "CookMealSimpleAlt", Label: "cook simple meal", Kept: "CookMealSimple"},
		},
	}
}
