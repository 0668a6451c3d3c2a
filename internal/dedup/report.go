package dedup

import "github.com/roach88/replacelib/internal/def"

// Report summarizes one load cycle for diagnostics.
type Report struct {
	CycleID        string              `json:"cycle_id"`
	Aliases        []AliasRecord       `json:"aliases"`
	Resolved       []ResolvedRecord    `json:"resolved"`
	RemovedRecipes []RemovedRecipeInfo `json:"removed_recipes"`
}

// AliasRecord is a recorded identity alias.
type AliasRecord struct {
	Kind      string `json:"kind"`
	Duplicate string `json:"duplicate"`
	Canonical string `json:"canonical"`
}

// ResolvedRecord is a duplicate folded out of the registry.
type ResolvedRecord struct {
	Kind      string `json:"kind"`
	Name      string `json:"name"`
	Canonical string `json:"canonical"`
	ShortHash int64  `json:"short_hash"`
}

// RemovedRecipeInfo is a recipe dropped as a duplicate.
type RemovedRecipeInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Kept  string `json:"kept"`
}

func (e *Engine) buildReport(cycleID string, folded []*def.Definition, removed []RemovedRecipe) *Report {
	r := &Report{
		CycleID:        cycleID,
		Aliases:        []AliasRecord{},
		Resolved:       []ResolvedRecord{},
		RemovedRecipes: []RemovedRecipeInfo{},
	}

	for _, kind := range def.Kinds {
		for _, entry := range e.index.Entries(kind) {
			r.Aliases = append(r.Aliases, AliasRecord{
				Kind:      kind.String(),
				Duplicate: entry.Duplicate.Name,
				Canonical: entry.Canonical.Name,
			})
		}
	}

	for _, d := range folded {
		r.Resolved = append(r.Resolved, ResolvedRecord{
			Kind:      d.Kind.String(),
			Name:      d.Name,
			Canonical: e.index.MainOf(d).Name,
			ShortHash: int64(d.ShortHash),
		})
	}

	for _, rr := range removed {
		r.RemovedRecipes = append(r.RemovedRecipes, RemovedRecipeInfo{
			Name:  rr.Recipe.Name,
			Label: rr.Recipe.Label,
			Kept:  rr.Kept.Name,
		})
	}

	return r
}
