package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replacelib/internal/def"
	"github.com/roach88/replacelib/internal/registry"
)

func TestLoadFullCycle(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	corpse := &def.Definition{Name: "Corpse_Deer", Kind: def.KindThing, Role: def.RoleCorpse, Category: def.CategoryItem}
	deer := &def.Definition{Name: "Deer", Kind: def.KindThing, Category: def.CategoryPawn}
	ghost := item("Ghost_Item")
	rough, smooth := terrain("Rough"), terrain("Smooth")
	meal, stove := item("MealSimple"), building("FueledStove")

	f := recipeFixture(t,
		[]*def.Definition{wood, plank, corpse, deer, ghost, meal, stove, rough, smooth},
		[]*def.Recipe{
			recipe("CookMealSimple", "Cook Simple Meal", "MealSimple", 1, "FueledStove"),
			recipe("CookMealSimple_Mod", "Cook Simple Meal", "MealSimple", 1, "FueledStove"),
		},
		replacer("vanilla",
			"Wall_Wood", "Wall_WoodPlank",
			"Ghost_Item", "MissingDef",
			"Corpse_Deer", "Deer",
			"Rough", "Smooth",
		),
	)

	report, err := f.eng.Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "cycle-1", report.CycleID)
	assert.Equal(t, []AliasRecord{
		{Kind: "thing", Duplicate: "Wall_Wood", Canonical: "Wall_WoodPlank"},
		{Kind: "thing", Duplicate: "Corpse_Deer", Canonical: "Deer"},
		{Kind: "terrain", Duplicate: "Rough", Canonical: "Smooth"},
	}, report.Aliases)
	assert.Equal(t, []ResolvedRecord{
		{Kind: "thing", Name: "Wall_Wood", Canonical: "Wall_WoodPlank", ShortHash: int64(def.ShortHash("Wall_Wood"))},
		{Kind: "terrain", Name: "Rough", Canonical: "Smooth", ShortHash: int64(def.ShortHash("Rough"))},
	}, report.Resolved)
	assert.Equal(t, []RemovedRecipeInfo{
		{Name: "CookMealSimple_Mod", Label: "Cook Simple Meal", Kept: "CookMealSimple"},
	}, report.RemovedRecipes)

	assert.Same(t, plank, f.reg.Lookup(def.KindThing, "Wall_Wood"))
	assert.Same(t, corpse, f.reg.Lookup(def.KindThing, "Corpse_Deer"))
	assert.Same(t, ghost, f.eng.MainOf(ghost))
}

func TestLoadTwiceIsNoop(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	f := newFixture(t, []*def.Definition{wood, plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	first, err := f.eng.Load(context.Background())
	require.NoError(t, err)
	things := f.reg.All(def.KindThing)

	second, err := f.eng.Load(context.Background())
	require.NoError(t, err)

	assert.Len(t, first.Resolved, 1)
	assert.Empty(t, second.Resolved)
	assert.Equal(t, "cycle-2", second.CycleID)
	assert.Equal(t, first.Aliases, second.Aliases)
	assert.Equal(t, things, f.reg.All(def.KindThing))
	assert.Same(t, plank, f.reg.Lookup(def.KindThing, "Wall_Wood"))
}

func TestLoadTwiceDoesNotChainThroughRedirectedSlot(t *testing.T) {
	// A→B folds A and points the "A" slot at B. C→A must keep meaning the
	// original A, which is now a duplicate, so it is never recorded.
	a, b, c := building("A"), building("B"), building("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("chain", "A", "B", "C", "A"))

	first, err := f.eng.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Resolved, 1)
	assert.Equal(t, "A", first.Resolved[0].Name)
	assert.Same(t, b, f.reg.Lookup(def.KindThing, "A"))
	assert.Same(t, c, f.eng.MainOf(c))
	assert.Equal(t, "C", f.eng.MainNameOf(def.KindThing, "C"))

	second, err := f.eng.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, second.Resolved)
	assert.Equal(t, first.Aliases, second.Aliases)
	assert.True(t, f.reg.Contains(def.KindThing, c))
	assert.Same(t, c, f.reg.Lookup(def.KindThing, "C"))
	assert.Same(t, c, f.eng.MainOf(c))
	assert.Same(t, b, f.eng.MainOf(a))
}

func TestLoadCancelledContext(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	f := newFixture(t, []*def.Definition{wood, plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := f.eng.Load(ctx)
	require.Error(t, err)
	assert.Nil(t, report)
	assert.True(t, errors.Is(err, context.Canceled))

	// The bulk pass ran to completion; reconciliation did not start.
	assert.Equal(t, 1, f.eng.State().AliasCount(def.KindThing))
	assert.True(t, f.reg.Contains(def.KindThing, wood))
}

func TestLoadReportsEmptySlices(t *testing.T) {
	f := newFixture(t, nil)

	report, err := f.eng.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, report.Aliases)
	assert.NotNil(t, report.Resolved)
	assert.NotNil(t, report.RemovedRecipes)
}

func TestDefaultCycleIDIsUUIDv7(t *testing.T) {
	reg := registry.New()
	eng := New(reg, reg, reg)

	report, err := eng.Load(context.Background())
	require.NoError(t, err)

	parsed, err := uuid.Parse(report.CycleID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGeneratorExhausted(t *testing.T) {
	g := NewFixedGenerator("only")
	assert.Equal(t, "only", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}

func TestScenarioWallWoodResolvesToPlank(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	f := newFixture(t, []*def.Definition{wood, plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	_, err := f.eng.Load(context.Background())
	require.NoError(t, err)

	got := f.reg.Lookup(def.KindThing, "Wall_Wood")
	assert.Same(t, f.reg.Lookup(def.KindThing, "Wall_WoodPlank"), got)
	assert.Equal(t, "Wall_WoodPlank", f.eng.MainNameOf(def.KindThing, "Wall_Wood"))
}

func TestEngineAccessors(t *testing.T) {
	f := newFixture(t, nil)
	assert.NotNil(t, f.eng.Index())
	assert.NotNil(t, f.eng.Classifier())
	assert.NotNil(t, f.eng.State())
}
