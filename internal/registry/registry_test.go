package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/replacelib/internal/def"
)

func thing(name string) *def.Definition {
	return &def.Definition{Name: name, Kind: def.KindThing, Category: def.CategoryItem}
}

func TestRegisterAssignsShortHash(t *testing.T) {
	r := New()
	d := thing("Steel")
	require.NoError(t, r.Register(d))

	assert.Equal(t, def.ShortHash("Steel"), d.ShortHash)
	assert.Same(t, d, r.Lookup(def.KindThing, "Steel"))
	assert.Same(t, d, r.ByHash(def.KindThing, d.ShortHash))
	assert.True(t, r.Contains(def.KindThing, d))
	assert.False(t, r.Contains(def.KindTerrain, d))
}

func TestRegisterProbesOnHashCollision(t *testing.T) {
	r := New(WithHashFunc(func(string) uint16 { return 7 }))
	a, b, c := thing("A"), thing("B"), thing("C")
	r.MustRegister(a, b, c)

	assert.Equal(t, uint16(7), a.ShortHash)
	assert.Equal(t, uint16(8), b.ShortHash)
	assert.Equal(t, uint16(9), c.ShortHash)
}

func TestRegisterDuplicateName(t *testing.T) {
	r := New()
	require.NoError(t, r.Register(thing("Steel")))
	err := r.Register(thing("Steel"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))
}

func TestRegisterUnknownKind(t *testing.T) {
	r := New()
	err := r.Register(&def.Definition{Name: "X", Kind: def.Kind(9)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown kind")
}

func TestAllPreservesOrderAndCopies(t *testing.T) {
	r := New()
	a, b := thing("A"), thing("B")
	r.MustRegister(a, b)

	all := r.All(def.KindThing)
	assert.Equal(t, []*def.Definition{a, b}, all)

	all[0] = nil
	assert.Same(t, a, r.All(def.KindThing)[0])
}

func TestRemoveClearsOwnSlots(t *testing.T) {
	r := New()
	a := thing("A")
	r.MustRegister(a)

	r.Remove(def.KindThing, a)
	assert.False(t, r.Contains(def.KindThing, a))
	assert.Nil(t, r.Lookup(def.KindThing, "A"))
	assert.Nil(t, r.ByHash(def.KindThing, a.ShortHash))
	assert.Equal(t, 0, r.Len(def.KindThing))

	// Second removal is a no-op.
	r.Remove(def.KindThing, a)
	assert.Equal(t, 0, r.Len(def.KindThing))
}

func TestRemoveKeepsForeignSlots(t *testing.T) {
	r := New()
	a, b := thing("A"), thing("B")
	r.MustRegister(a, b)
	r.SetNameSlot(def.KindThing, "A", b)

	r.Remove(def.KindThing, a)
	assert.Same(t, b, r.Lookup(def.KindThing, "A"))
}

func TestSlotsDoNotTouchIteration(t *testing.T) {
	r := New()
	a, b := thing("A"), thing("B")
	r.MustRegister(a)

	r.SetNameSlot(def.KindThing, "Alias", a)
	r.SetHashSlot(def.KindThing, 1234, b)

	assert.Same(t, a, r.Lookup(def.KindThing, "Alias"))
	assert.Same(t, b, r.ByHash(def.KindThing, 1234))
	assert.False(t, r.Contains(def.KindThing, b))
	assert.Equal(t, 1, r.Len(def.KindThing))
}

func TestRecipes(t *testing.T) {
	r := New()
	a := &def.Recipe{Name: "A"}
	b := &def.Recipe{Name: "B"}
	r.AddRecipe(a)
	r.AddRecipe(b)

	assert.Same(t, b, r.RecipeByName("B"))
	r.RemoveRecipe(a)
	r.RemoveRecipe(a)
	assert.Equal(t, []*def.Recipe{b}, r.Recipes())
	assert.Nil(t, r.RecipeByName("A"))
}

func TestReplacerDefsOrder(t *testing.T) {
	r := New()
	r.AddReplacerDef(def.ReplacerDef{Name: "first"})
	r.AddReplacerDef(def.ReplacerDef{Name: "second"})

	defs := r.ReplacerDefs()
	require.Len(t, defs, 2)
	assert.Equal(t, "first", defs[0].Name)
	assert.Equal(t, "second", defs[1].Name)
}

func TestLink(t *testing.T) {
	r := New()
	meal := thing("MealSimple")
	stove := thing("FueledStove")
	campfire := thing("Campfire")
	r.MustRegister(meal, stove, campfire)

	cook := &def.Recipe{
		Name:      "CookMealSimple",
		Products:  []def.Product{{ThingName: "MealSimple", Count: 1}},
		UserNames: []string{"FueledStove", "Campfire"},
	}
	r.AddRecipe(cook)

	require.NoError(t, r.Link())
	assert.Same(t, meal, cook.ProducedDef())
	assert.Equal(t, []*def.Definition{stove, campfire}, cook.Users)
	assert.Equal(t, []*def.Recipe{cook}, stove.AllRecipes)
	assert.Equal(t, []*def.Recipe{cook}, campfire.AllRecipes)
}

func TestLinkReportsUnknownNames(t *testing.T) {
	r := New()
	r.MustRegister(thing("Campfire"))
	r.AddRecipe(&def.Recipe{
		Name:      "Broken",
		Products:  []def.Product{{ThingName: "Ghost", Count: 1}},
		UserNames: []string{"Campfire", "Nowhere"},
	})

	err := r.Link()
	require.Error(t, err)

	var linkErr *LinkError
	require.True(t, errors.As(err, &linkErr))
	assert.Equal(t, "Broken", linkErr.Recipe)
	assert.Contains(t, err.Error(), `"Ghost"`)
	assert.Contains(t, err.Error(), `"Nowhere"`)

	// Known user is still linked.
	assert.Len(t, r.Lookup(def.KindThing, "Campfire").AllRecipes, 1)
}
