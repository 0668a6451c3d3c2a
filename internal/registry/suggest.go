package registry

import (
	"strings"

	"github.com/antzucaro/matchr"

	"github.com/roach88/replacelib/internal/def"
)

// SuggestThreshold is the minimum Jaro-Winkler similarity for Suggest to
// offer a name.
const SuggestThreshold = 0.85

// Suggest returns the registered name of kind most similar to name, or ""
// when nothing scores at least SuggestThreshold. Comparison ignores case;
// ties go to the earliest registered definition.
func (r *Registry) Suggest(kind def.Kind, name string) string {
	if name == "" {
		return ""
	}
	needle := strings.ToLower(name)

	best, bestScore := "", SuggestThreshold
	for _, d := range r.table(kind).list {
		if d.Name == name {
			return d.Name
		}
		if s := matchr.JaroWinkler(needle, strings.ToLower(d.Name), false); s >= bestScore && (best == "" || s > bestScore) {
			best, bestScore = d.Name, s
		}
	}
	return best
}
