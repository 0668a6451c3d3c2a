package dedup

import (
	"github.com/roach88/replacelib/internal/def"
)

// aliasTable is a first-writer-wins duplicate→canonical map that also tracks
// which keys are canonical targets and the order aliases were recorded in.
type aliasTable[K comparable] struct {
	main    map[K]K
	targets map[K]int
	order   []K
}

func newAliasTable[K comparable]() *aliasTable[K] {
	return &aliasTable[K]{
		main:    make(map[K]K),
		targets: make(map[K]int),
	}
}

func (t *aliasTable[K]) lookup(dup K) (K, bool) {
	m, ok := t.main[dup]
	return m, ok
}

func (t *aliasTable[K]) isTarget(k K) bool {
	return t.targets[k] > 0
}

// record stores dup→main and reports whether it did. It refuses
// self-aliases, a second mapping for dup, a dup that is already a target,
// and a main that is already a duplicate.
func (t *aliasTable[K]) record(dup, main K) bool {
	if dup == main {
		return false
	}
	if _, ok := t.main[dup]; ok {
		return false
	}
	if t.isTarget(dup) {
		return false
	}
	if _, ok := t.main[main]; ok {
		return false
	}
	t.main[dup] = main
	t.targets[main]++
	t.order = append(t.order, dup)
	return true
}

func (t *aliasTable[K]) len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// State is the process-scoped memo state of one load cycle: identity and name
// alias tables per kind, the spawnability memo, and the resolved duplicates.
type State struct {
	thingNames   *aliasTable[string]
	terrainNames *aliasTable[string]
	thingDefs    *aliasTable[*def.Definition]
	terrainDefs  *aliasTable[*def.Definition]

	spawnable map[*def.Definition]bool

	// Resolved lists the duplicates removed from the registry, in removal
	// order.
	Resolved []*def.Definition

	// resolvedByHash keys every removed duplicate by its recomputed short
	// hash, including those whose registry hash slot belongs to a live
	// definition.
	resolvedByHash map[def.Kind]map[uint16]*def.Definition
}

// NewState returns empty memo state for a fresh load cycle.
func NewState() *State {
	return &State{
		thingNames:   newAliasTable[string](),
		terrainNames: newAliasTable[string](),
		thingDefs:    newAliasTable[*def.Definition](),
		terrainDefs:  newAliasTable[*def.Definition](),
		spawnable:    make(map[*def.Definition]bool),
		resolvedByHash: map[def.Kind]map[uint16]*def.Definition{
			def.KindThing:   {},
			def.KindTerrain: {},
		},
	}
}

// names and defs return nil for a kind outside def.Kinds.
func (s *State) names(kind def.Kind) *aliasTable[string] {
	switch kind {
	case def.KindThing:
		return s.thingNames
	case def.KindTerrain:
		return s.terrainNames
	}
	return nil
}

func (s *State) defs(kind def.Kind) *aliasTable[*def.Definition] {
	switch kind {
	case def.KindThing:
		return s.thingDefs
	case def.KindTerrain:
		return s.terrainDefs
	}
	return nil
}

// AliasCount returns the number of identity aliases recorded for kind.
func (s *State) AliasCount(kind def.Kind) int {
	return s.defs(kind).len()
}

// ResolvedByHash returns the removed duplicate of kind whose recomputed short
// hash is hash, or nil. Lookups of a duplicate's hash that the registry can
// no longer answer, because a live definition holds the slot, land here.
func (s *State) ResolvedByHash(kind def.Kind, hash uint16) *def.Definition {
	return s.resolvedByHash[kind][hash]
}

func (s *State) recordResolved(kind def.Kind, d *def.Definition) {
	byHash, ok := s.resolvedByHash[kind]
	if !ok {
		return
	}
	if _, taken := byHash[d.ShortHash]; !taken {
		byHash[d.ShortHash] = d
	}
}
