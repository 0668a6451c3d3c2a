package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replacelib/internal/dedup"
)

func TestWriteReport_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	want := createTestReport("cycle-1")

	inserted, err := s.WriteReport(ctx, "basic", want)
	require.NoError(t, err)
	assert.True(t, inserted)

	got, err := s.ReadReport(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWriteReport_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	inserted, err := s.WriteReport(ctx, "basic", createTestReport("cycle-1"))
	require.NoError(t, err)
	require.True(t, inserted)

	// Same cycle id with different contents: nothing is written.
	second := &dedup.Report{CycleID: "cycle-1", Aliases: []dedup.AliasRecord{{Kind: "thing", Duplicate: "X", Canonical: "Y"}}}
	inserted, err = s.WriteReport(ctx, "other", second)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := s.ReadReport(ctx, "cycle-1")
	require.NoError(t, err)
	assert.Len(t, got.Aliases, 2)

	cycles, err := s.ListCycles(ctx)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, "basic", cycles[0].Catalog)
}

func TestWriteReport_EmptyReport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty := &dedup.Report{
		CycleID:        "cycle-empty",
		Aliases:        []dedup.AliasRecord{},
		Resolved:       []dedup.ResolvedRecord{},
		RemovedRecipes: []dedup.RemovedRecipeInfo{},
	}
	_, err := s.WriteReport(ctx, "", empty)
	require.NoError(t, err)

	got, err := s.ReadReport(ctx, "cycle-empty")
	require.NoError(t, err)
	assert.Equal(t, empty, got)
}

func TestWriteReport_Rejects(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.WriteReport(ctx, "", nil)
	assert.ErrorIs(t, err, ErrNilReport)

	_, err = s.WriteReport(ctx, "", &dedup.Report{})
	assert.ErrorContains(t, err, "empty cycle id")
}

func TestReadReport_NotFound(t *testing.T) {
	s := createTestStore(t)

	_, err := s.ReadReport(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCycleNotFound))
}

func TestListCycles_Ordering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	cycles, err := s.ListCycles(ctx)
	require.NoError(t, err)
	assert.NotNil(t, cycles)
	assert.Empty(t, cycles)

	// Insertion order wins over id order.
	for _, id := range []string{"zzz", "aaa", "mmm"} {
		_, err := s.WriteReport(ctx, "basic", createTestReport(id))
		require.NoError(t, err)
	}

	cycles, err = s.ListCycles(ctx)
	require.NoError(t, err)
	require.Len(t, cycles, 3)

	ids := []string{cycles[0].ID, cycles[1].ID, cycles[2].ID}
	assert.Equal(t, []string{"zzz", "aaa", "mmm"}, ids)
	assert.Equal(t, []int64{1, 2, 3}, []int64{cycles[0].Seq, cycles[1].Seq, cycles[2].Seq})
	assert.Equal(t, CycleSummary{
		ID:                 "zzz",
		Seq:                1,
		Catalog:            "basic",
		AliasCount:         2,
		ResolvedCount:      1,
		RemovedRecipeCount: 1,
	}, cycles[0])
}
