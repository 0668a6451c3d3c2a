package dedup

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replacelib/internal/def"
)

func TestMainOfResolvesDirective(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	f := newFixture(t, []*def.Definition{wood, plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	assert.Same(t, plank, f.eng.MainOf(wood))
	assert.Same(t, plank, f.eng.MainOf(plank))
}

func TestMainOfNil(t *testing.T) {
	f := newFixture(t, nil)
	assert.Nil(t, f.eng.MainOf(nil))
	assert.Equal(t, "", f.eng.MainNameOf(def.KindThing, ""))
}

func TestUnknownKindResolvesToItself(t *testing.T) {
	f := newFixture(t, []*def.Definition{building("Wall_Wood")}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))
	odd := &def.Definition{Name: "Wall_Wood", Kind: def.Kind(99)}

	assert.NotPanics(t, func() {
		assert.Same(t, odd, f.eng.MainOf(odd))
		assert.Equal(t, "Wall_Wood", f.eng.MainNameOf(def.Kind(99), "Wall_Wood"))
		assert.Equal(t, 0, f.eng.State().AliasCount(def.Kind(99)))
		assert.Empty(t, f.eng.Index().Entries(def.Kind(99)))
		assert.Nil(t, f.eng.State().ResolvedByHash(def.Kind(99), 0))
	})
}

func TestMainOfIgnoresRedirectedNameSlot(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("chain", "C", "A"))
	// "A" is a slot pointing at B, as after a fold; A itself is gone.
	f.reg.Remove(def.KindThing, a)
	f.reg.SetNameSlot(def.KindThing, "A", b)

	assert.Same(t, c, f.eng.MainOf(c))
	assert.Equal(t, "C", f.eng.MainNameOf(def.KindThing, "C"))
	assert.Equal(t, 0, f.eng.ProcessReplacerDefs())
}

func TestMainOfIdempotent(t *testing.T) {
	wood, plank := building("Wall_Wood"), building("Wall_WoodPlank")
	f := newFixture(t, []*def.Definition{wood, plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	first := f.eng.MainOf(wood)
	for i := 0; i < 5; i++ {
		assert.Same(t, first, f.eng.MainOf(wood))
	}
	assert.Equal(t, 1, f.eng.State().AliasCount(def.KindThing))
}

func TestMainOfUnresolvableTarget(t *testing.T) {
	ghost := item("Ghost_Item")
	f := newFixture(t, []*def.Definition{ghost}, replacer("ghosts", "Ghost_Item", "MissingDef"))

	assert.Same(t, ghost, f.eng.MainOf(ghost))
	assert.Equal(t, 0, f.eng.State().AliasCount(def.KindThing))

	report, err := f.eng.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Resolved)
	assert.True(t, f.reg.Contains(def.KindThing, ghost))
	assert.Same(t, ghost, f.reg.Lookup(def.KindThing, "Ghost_Item"))
}

func TestMainOfSkipsToNextResolvableDirective(t *testing.T) {
	a, c := item("A"), item("C")
	f := newFixture(t, []*def.Definition{a, c},
		replacer("first", "A", "Missing"),
		replacer("second", "A", "C"),
	)

	assert.Same(t, c, f.eng.MainOf(a))
}

func TestMainOfFirstResolvedMatchWins(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c},
		replacer("first", "A", "B"),
		replacer("second", "A", "C"),
	)

	assert.Same(t, b, f.eng.MainOf(a))
}

func TestMainOfNegativeResultNotCached(t *testing.T) {
	a, b := item("A"), item("B")
	f := newFixture(t, []*def.Definition{a})

	assert.Same(t, a, f.eng.MainOf(a))

	// Target becomes resolvable and a directive is added later.
	f.reg.MustRegister(b)
	f.reg.AddReplacerDef(replacer("late", "A", "B"))

	assert.Same(t, b, f.eng.MainOf(a))
}

func TestMainOfSelfAlias(t *testing.T) {
	a := item("A")
	f := newFixture(t, []*def.Definition{a}, replacer("self", "A", "A"))

	assert.Same(t, a, f.eng.MainOf(a))
	assert.Equal(t, 0, f.eng.State().AliasCount(def.KindThing))
	assert.Equal(t, 0, f.eng.ProcessReplacerDefs())
}

func TestMainOfKindsAreSeparate(t *testing.T) {
	thingA, thingB := item("Sand"), item("SandPile")
	soil := terrain("Sand")
	f := newFixture(t, []*def.Definition{thingA, thingB, soil}, replacer("sand", "Sand", "SandPile"))

	assert.Same(t, thingB, f.eng.MainOf(thingA))
	// No terrain named SandPile, so the terrain Sand is its own canonical.
	assert.Same(t, soil, f.eng.MainOf(soil))
}

func TestMainOfTerrain(t *testing.T) {
	rough, smooth := terrain("WoodPlankFloor_Rough"), terrain("WoodPlankFloor")
	f := newFixture(t, []*def.Definition{rough, smooth}, replacer("floors", "WoodPlankFloor_Rough", "WoodPlankFloor"))

	assert.Same(t, smooth, f.eng.MainOf(rough))
	assert.Equal(t, "WoodPlankFloor", f.eng.Index().MainTerrainName("WoodPlankFloor_Rough"))
	assert.Equal(t, "WoodPlankFloor_Rough", f.eng.Index().MainThingName("WoodPlankFloor_Rough"))
}

func TestMainNameOf(t *testing.T) {
	plank := building("Wall_WoodPlank")
	// The duplicate need not be registered for name resolution.
	f := newFixture(t, []*def.Definition{plank}, replacer("walls", "Wall_Wood", "Wall_WoodPlank"))

	assert.Equal(t, "Wall_WoodPlank", f.eng.MainNameOf(def.KindThing, "Wall_Wood"))
	assert.Equal(t, "Wall_WoodPlank", f.eng.MainNameOf(def.KindThing, "Wall_Wood"))
	assert.Equal(t, "Wall_WoodPlank", f.eng.MainNameOf(def.KindThing, "Wall_WoodPlank"))
	assert.Equal(t, "Unrelated", f.eng.MainNameOf(def.KindThing, "Unrelated"))
}

func TestMainNameOfUnresolvableTarget(t *testing.T) {
	f := newFixture(t, nil, replacer("ghosts", "Ghost_Item", "MissingDef"))
	assert.Equal(t, "Ghost_Item", f.eng.MainNameOf(def.KindThing, "Ghost_Item"))
}

func TestFixedPoint(t *testing.T) {
	defs := []*def.Definition{item("A"), item("B"), item("C"), item("D"), item("E")}
	f := newFixture(t, defs,
		replacer("chain", "A", "B", "B", "C", "D", "C", "E", "E"),
	)
	f.eng.ProcessReplacerDefs()

	for _, d := range defs {
		once := f.eng.MainOf(d)
		assert.Same(t, once, f.eng.MainOf(once), d.Name)
	}
	for _, d := range defs {
		once := f.eng.MainNameOf(def.KindThing, d.Name)
		assert.Equal(t, once, f.eng.MainNameOf(def.KindThing, once), d.Name)
	}
}

func TestChainsAreNotFlattenedBulk(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("chain", "A", "B", "B", "C"))

	assert.Equal(t, 1, f.eng.ProcessReplacerDefs())
	assert.Same(t, b, f.eng.MainOf(a))
	// B is already a canonical target, so B→C is refused.
	assert.Same(t, b, f.eng.MainOf(b))
	assert.Same(t, c, f.eng.MainOf(c))
}

func TestChainsAreNotFlattenedLazy(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("chain", "A", "B", "B", "C"))

	assert.Same(t, b, f.eng.MainOf(a))
	assert.Same(t, b, f.eng.MainOf(b))
}

func TestChainTargetAlreadyDuplicateIsRefused(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("chain", "A", "B", "B", "C"))

	// B resolved first: B→C is recorded, so A→B would be two hops.
	assert.Same(t, c, f.eng.MainOf(b))
	assert.Same(t, a, f.eng.MainOf(a))
	assert.Same(t, c, f.eng.MainOf(f.eng.MainOf(b)))
}

func TestProcessReplacerDefsFirstWriterWins(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c},
		replacer("first", "A", "B"),
		replacer("second", "A", "C"),
	)

	assert.Equal(t, 1, f.eng.ProcessReplacerDefs())
	assert.Same(t, b, f.eng.MainOf(a))
	assert.Equal(t, "B", f.eng.MainNameOf(def.KindThing, "A"))
}

func TestProcessReplacerDefsManyDuplicatesOneTarget(t *testing.T) {
	a, b, c := item("A"), item("B"), item("C")
	f := newFixture(t, []*def.Definition{a, b, c}, replacer("merge", "A", "C", "B", "C"))

	assert.Equal(t, 2, f.eng.ProcessReplacerDefs())
	assert.Same(t, c, f.eng.MainOf(a))
	assert.Same(t, c, f.eng.MainOf(b))

	entries := f.eng.Index().Entries(def.KindThing)
	require.Len(t, entries, 2)
	assert.Same(t, a, entries[0].Duplicate)
	assert.Same(t, b, entries[1].Duplicate)
	assert.Same(t, c, entries[1].Canonical)
}

func TestProcessReplacerDefsIdempotent(t *testing.T) {
	a, b := item("A"), item("B")
	f := newFixture(t, []*def.Definition{a, b}, replacer("r", "A", "B"))

	assert.Equal(t, 1, f.eng.ProcessReplacerDefs())
	assert.Equal(t, 0, f.eng.ProcessReplacerDefs())
	assert.Equal(t, 1, f.eng.State().AliasCount(def.KindThing))
}

func TestProcessReplacerDefsSkipsEmptyNames(t *testing.T) {
	a := item("A")
	f := newFixture(t, []*def.Definition{a}, def.ReplacerDef{
		Name:      "blank",
		Replacers: []def.Directive{{Replace: "", With: "A"}, {Replace: "A", With: ""}},
	})

	assert.Equal(t, 0, f.eng.ProcessReplacerDefs())
	assert.Same(t, a, f.eng.MainOf(a))
}

func TestProcessReplacerDefsSeedsTerrain(t *testing.T) {
	rough, smooth := terrain("Rough"), terrain("Smooth")
	f := newFixture(t, []*def.Definition{rough, smooth}, replacer("floors", "Rough", "Smooth"))

	assert.Equal(t, 1, f.eng.ProcessReplacerDefs())
	assert.Equal(t, 1, f.eng.State().AliasCount(def.KindTerrain))
	assert.Equal(t, 0, f.eng.State().AliasCount(def.KindThing))
}
