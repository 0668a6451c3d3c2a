package dedup

import (
	"log/slog"

	"github.com/roach88/replacelib/internal/def"
)

// RemovedRecipe records a recipe dropped as a duplicate of an earlier one.
type RemovedRecipe struct {
	Recipe *def.Recipe
	Kept   *def.Recipe
}

// RecipeDeduplicator removes recipes that behave exactly like an earlier
// registered recipe.
type RecipeDeduplicator struct {
	recipes RecipeRegistry
	reg     Registry
	index   *Index
}

// NewRecipeDeduplicator returns a RecipeDeduplicator. Produced definitions are
// compared through index so recipes producing a folded duplicate match
// recipes producing its canonical definition.
func NewRecipeDeduplicator(recipes RecipeRegistry, reg Registry, index *Index) *RecipeDeduplicator {
	return &RecipeDeduplicator{recipes: recipes, reg: reg, index: index}
}

// DeduplicateRecipes walks recipes in registration order. A recipe matching
// any recipe seen before it is removed and purged from consumer caches; every
// recipe, removed or not, then joins the seen set.
func (x *RecipeDeduplicator) DeduplicateRecipes() []RemovedRecipe {
	var (
		seen    []*def.Recipe
		removed []RemovedRecipe
	)

	for _, r := range x.recipes.Recipes() {
		if kept := x.firstMatch(seen, r); kept != nil {
			x.recipes.RemoveRecipe(r)
			x.purge(r)
			removed = append(removed, RemovedRecipe{Recipe: r, Kept: kept})
			slog.Debug("duplicate recipe removed",
				"recipe", r.Name,
				"kept", kept.Name,
				"label", r.Label,
			)
		}
		seen = append(seen, r)
	}

	slog.Info("recipes deduplicated", "removed", len(removed))
	return removed
}

func (x *RecipeDeduplicator) firstMatch(seen []*def.Recipe, r *def.Recipe) *def.Recipe {
	for _, k := range seen {
		if x.sameBehavior(k, r) {
			return k
		}
	}
	return nil
}

// sameBehavior reports whether a and b share a label and a single product of
// the same definition and count.
func (x *RecipeDeduplicator) sameBehavior(a, b *def.Recipe) bool {
	if a.Label != b.Label {
		return false
	}
	if len(a.Products) != 1 || len(b.Products) != 1 {
		return false
	}
	pa, pb := a.ProducedDef(), b.ProducedDef()
	if pa == nil || pb == nil {
		return false
	}
	if x.index.MainOf(pa) != x.index.MainOf(pb) {
		return false
	}
	return a.Products[0].Count == b.Products[0].Count
}

// purge rebuilds the recipe cache of every consumer holding r: its declared
// users and any registered thing whose cache lists it.
func (x *RecipeDeduplicator) purge(r *def.Recipe) {
	visited := make(map[*def.Definition]bool)
	consumers := append([]*def.Definition(nil), r.Users...)
	consumers = append(consumers, x.reg.All(def.KindThing)...)

	for _, c := range consumers {
		if visited[c] || c.AllRecipes == nil {
			continue
		}
		visited[c] = true
		c.AllRecipes = withoutRecipe(c.AllRecipes, r)
	}
}

func withoutRecipe(list []*def.Recipe, r *def.Recipe) []*def.Recipe {
	kept := make([]*def.Recipe, 0, len(list))
	for _, rec := range list {
		if rec != r {
			kept = append(kept, rec)
		}
	}
	return kept
}
