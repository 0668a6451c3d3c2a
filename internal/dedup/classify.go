package dedup

import (
	"log/slog"

	"github.com/roach88/replacelib/internal/def"
)

// Classifier answers whether a definition can ever be instantiated.
// Results are memoized per definition identity in the shared State.
type Classifier struct {
	state *State
}

// NewClassifier returns a Classifier backed by state.
func NewClassifier(state *State) *Classifier {
	return &Classifier{state: state}
}

// IsSpawnable reports whether d is spawnable. Classification faults are
// logged and cached as false.
func (c *Classifier) IsSpawnable(d *def.Definition) bool {
	if d == nil {
		return false
	}
	if v, ok := c.state.spawnable[d]; ok {
		return v
	}

	v, err := Classify(d)
	if err != nil {
		slog.Error("spawnability classification failed",
			"def", d.Name,
			"kind", d.Kind,
			"error", err,
		)
		v = false
	}
	c.state.spawnable[d] = v
	return v
}

// spawnableCategories are the player-visible object categories.
var spawnableCategories = map[def.Category]bool{
	def.CategoryItem:     true,
	def.CategoryPlant:    true,
	def.CategoryPawn:     true,
	def.CategoryBuilding: true,
}

// Classify computes spawnability without memoization. A non-nil error is the
// faulted outcome; the boolean is then false.
func Classify(d *def.Definition) (bool, error) {
	if d == nil {
		return false, &ClassifyError{Code: ErrCodeNilDefinition, Message: "definition is nil"}
	}

	switch d.Kind {
	case def.KindTerrain:
		return true, nil
	case def.KindThing:
		return classifyThing(d)
	default:
		return false, &ClassifyError{
			Code:       ErrCodeUnknownKind,
			Definition: d.Name,
			Message:    "kind " + d.Kind.String(),
		}
	}
}

func classifyThing(d *def.Definition) (bool, error) {
	if d.ForceDebugSpawnable {
		return true, nil
	}

	if !d.Role.Valid() {
		return false, &ClassifyError{Code: ErrCodeInvalidRole, Definition: d.Name, Message: "role outside enumeration"}
	}
	if d.Role.Excluded() || d.DestroyOnDrop {
		return false, nil
	}

	if !d.Category.Valid() {
		return false, &ClassifyError{Code: ErrCodeInvalidCategory, Definition: d.Name, Message: "category outside enumeration"}
	}
	return spawnableCategories[d.Category], nil
}
