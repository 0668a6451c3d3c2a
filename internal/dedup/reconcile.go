package dedup

import (
	"log/slog"
	"slices"

	"github.com/roach88/replacelib/internal/def"
)

// Reconciler removes spawnable duplicates from the registry and redirects
// their name slots to the canonical definitions.
type Reconciler struct {
	state      *State
	reg        Registry
	index      *Index
	classifier *Classifier
	hash       def.HashFunc
}

// NewReconciler returns a Reconciler. A nil hash falls back to def.ShortHash.
func NewReconciler(state *State, reg Registry, index *Index, classifier *Classifier, hash def.HashFunc) *Reconciler {
	if hash == nil {
		hash = def.ShortHash
	}
	return &Reconciler{
		state:      state,
		reg:        reg,
		index:      index,
		classifier: classifier,
		hash:       hash,
	}
}

// ReconcileAll folds every aliased, spawnable duplicate that is still
// registered and returns the definitions folded by this call. Running it
// again folds nothing: removal is gated on current registry membership.
func (r *Reconciler) ReconcileAll() []*def.Definition {
	var folded []*def.Definition

	for _, kind := range def.Kinds {
		candidates := slices.Clone(r.state.defs(kind).order)
		for _, d := range candidates {
			if !r.classifier.IsSpawnable(d) {
				continue
			}
			main := r.index.MainOf(d)
			if main == d {
				continue
			}
			if !r.reg.Contains(kind, d) {
				continue
			}
			r.fold(kind, d, main)
			folded = append(folded, d)
		}
	}

	r.state.Resolved = append(r.state.Resolved, folded...)
	slog.Info("registry reconciled",
		"folded", len(folded),
		"resolved_total", len(r.state.Resolved),
	)
	return folded
}

func (r *Reconciler) fold(kind def.Kind, d, main *def.Definition) {
	r.reg.Remove(kind, d)
	r.reg.SetNameSlot(kind, d.Name, main)

	d.ShortHash = r.hash(d.Name)
	r.state.recordResolved(kind, d)
	if holder := r.reg.ByHash(kind, d.ShortHash); holder != nil && holder != d && r.reg.Contains(kind, holder) {
		// A live definition owns the slot; the duplicate stays reachable
		// through State.ResolvedByHash.
		slog.Warn("short hash slot occupied, duplicate indexed in resolved set only",
			"kind", kind,
			"def", d.Name,
			"hash", d.ShortHash,
			"holder", holder.Name,
		)
	} else {
		r.reg.SetHashSlot(kind, d.ShortHash, d)
	}

	slog.Debug("duplicate folded",
		"kind", kind,
		"def", d.Name,
		"canonical", main.Name,
		"hash", d.ShortHash,
	)
}
