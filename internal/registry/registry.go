// Package registry provides an in-memory definition registry for hosts of the
// dedup engine.
//
// Each kind keeps an ordered iteration list, a name index and a short-hash
// index. The name index may point a name at a definition whose own name
// differs (an alias slot); iteration only ever yields registered definitions.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/roach88/replacelib/internal/def"
)

// ErrDuplicateName is returned when a definition name is registered twice
// under the same kind.
var ErrDuplicateName = errors.New("definition name already registered")

type table struct {
	list   []*def.Definition
	byName map[string]*def.Definition
	byHash map[uint16]*def.Definition
}

func newTable() *table {
	return &table{
		byName: make(map[string]*def.Definition),
		byHash: make(map[uint16]*def.Definition),
	}
}

// Registry holds thing, terrain and recipe definitions plus the replacer
// definitions authored alongside them.
type Registry struct {
	tables    map[def.Kind]*table
	recipes   []*def.Recipe
	replacers []def.ReplacerDef
	hash      def.HashFunc
}

// Option configures a Registry.
type Option func(*Registry)

// WithHashFunc overrides the short-hash function used on registration.
func WithHashFunc(h def.HashFunc) Option {
	return func(r *Registry) {
		r.hash = h
	}
}

// New returns an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		tables: map[def.Kind]*table{
			def.KindThing:   newTable(),
			def.KindTerrain: newTable(),
		},
		hash: def.ShortHash,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Registry) table(kind def.Kind) *table {
	t, ok := r.tables[kind]
	if !ok {
		panic(fmt.Sprintf("registry: unknown kind %d", kind))
	}
	return t
}

// Register adds d under its kind, assigning a short hash. Colliding hashes
// probe upward until a free slot is found.
func (r *Registry) Register(d *def.Definition) error {
	if !d.Kind.Valid() {
		return fmt.Errorf("register %q: unknown kind %d", d.Name, d.Kind)
	}
	t := r.table(d.Kind)
	if _, exists := t.byName[d.Name]; exists {
		return fmt.Errorf("register %s: %w", d, ErrDuplicateName)
	}

	h := r.hash(d.Name)
	for {
		if _, taken := t.byHash[h]; !taken {
			break
		}
		h++
	}
	d.ShortHash = h

	t.list = append(t.list, d)
	t.byName[d.Name] = d
	t.byHash[h] = d
	return nil
}

// MustRegister is like Register but panics on error.
// Use only in tests or when inputs are known to be valid.
func (r *Registry) MustRegister(defs ...*def.Definition) {
	for _, d := range defs {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
}

// All returns the registered definitions of kind in registration order.
// The returned slice is a copy.
func (r *Registry) All(kind def.Kind) []*def.Definition {
	return slices.Clone(r.table(kind).list)
}

// Lookup returns the definition in the name slot for name, or nil.
func (r *Registry) Lookup(kind def.Kind, name string) *def.Definition {
	return r.table(kind).byName[name]
}

// ByHash returns the definition in the short-hash slot, or nil.
func (r *Registry) ByHash(kind def.Kind, hash uint16) *def.Definition {
	return r.table(kind).byHash[hash]
}

// Contains reports whether d is in the iteration list of kind.
func (r *Registry) Contains(kind def.Kind, d *def.Definition) bool {
	return slices.Contains(r.table(kind).list, d)
}

// Remove drops d from the iteration list and clears any name or hash slot
// that still points at it. Removing an absent definition is a no-op.
func (r *Registry) Remove(kind def.Kind, d *def.Definition) {
	t := r.table(kind)
	idx := slices.Index(t.list, d)
	if idx < 0 {
		return
	}
	t.list = slices.Delete(t.list, idx, idx+1)
	if t.byName[d.Name] == d {
		delete(t.byName, d.Name)
	}
	if t.byHash[d.ShortHash] == d {
		delete(t.byHash, d.ShortHash)
	}
}

// SetNameSlot points name at d without touching the iteration list.
func (r *Registry) SetNameSlot(kind def.Kind, name string, d *def.Definition) {
	r.table(kind).byName[name] = d
}

// SetHashSlot points hash at d without touching the iteration list.
func (r *Registry) SetHashSlot(kind def.Kind, hash uint16, d *def.Definition) {
	r.table(kind).byHash[hash] = d
}

// Len returns the number of registered definitions of kind.
func (r *Registry) Len(kind def.Kind) int {
	return len(r.table(kind).list)
}

// AddRecipe appends a recipe in registration order.
func (r *Registry) AddRecipe(rec *def.Recipe) {
	r.recipes = append(r.recipes, rec)
}

// Recipes returns the registered recipes in registration order.
// The returned slice is a copy.
func (r *Registry) Recipes() []*def.Recipe {
	return slices.Clone(r.recipes)
}

// RemoveRecipe drops rec from the recipe list. Absent recipes are ignored.
func (r *Registry) RemoveRecipe(rec *def.Recipe) {
	if idx := slices.Index(r.recipes, rec); idx >= 0 {
		r.recipes = slices.Delete(r.recipes, idx, idx+1)
	}
}

// RecipeByName returns the registered recipe called name, or nil.
func (r *Registry) RecipeByName(name string) *def.Recipe {
	for _, rec := range r.recipes {
		if rec.Name == name {
			return rec
		}
	}
	return nil
}

// AddReplacerDef appends a replacer definition in authored order.
func (r *Registry) AddReplacerDef(rd def.ReplacerDef) {
	r.replacers = append(r.replacers, rd)
}

// ReplacerDefs implements def.DirectiveSource.
func (r *Registry) ReplacerDefs() []def.ReplacerDef {
	return r.replacers
}
