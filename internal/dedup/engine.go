package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/replacelib/internal/def"
)

// Registry is the host's definition registry.
type Registry interface {
	// All returns the registered definitions of kind in registration order.
	All(kind def.Kind) []*def.Definition
	// Lookup returns the definition in the name slot for name, or nil.
	Lookup(kind def.Kind, name string) *def.Definition
	// ByHash returns the definition in the short-hash slot, or nil.
	ByHash(kind def.Kind, hash uint16) *def.Definition
	Remove(kind def.Kind, d *def.Definition)
	SetNameSlot(kind def.Kind, name string, d *def.Definition)
	SetHashSlot(kind def.Kind, hash uint16, d *def.Definition)
	// Contains reports whether d is in the iteration list of kind.
	Contains(kind def.Kind, d *def.Definition) bool
}

// RecipeRegistry is the host's recipe registry.
type RecipeRegistry interface {
	Recipes() []*def.Recipe
	RemoveRecipe(r *def.Recipe)
}

// Engine wires the components of one load cycle around a shared State.
type Engine struct {
	state      *State
	classifier *Classifier
	index      *Index
	reconciler *Reconciler
	recipes    *RecipeDeduplicator
	ids        CycleIDGenerator
}

// Option configures an Engine.
type Option func(*engineConfig)

type engineConfig struct {
	hash def.HashFunc
	ids  CycleIDGenerator
}

// WithHashFunc overrides the short-hash function used when folding.
func WithHashFunc(h def.HashFunc) Option {
	return func(c *engineConfig) {
		c.hash = h
	}
}

// WithCycleIDGenerator overrides the cycle ID generator (default UUIDv7).
func WithCycleIDGenerator(g CycleIDGenerator) Option {
	return func(c *engineConfig) {
		c.ids = g
	}
}

// New creates an Engine with fresh State over the given collaborators.
func New(reg Registry, recipes RecipeRegistry, directives def.DirectiveSource, opts ...Option) *Engine {
	cfg := engineConfig{hash: def.ShortHash, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	state := NewState()
	classifier := NewClassifier(state)
	index := NewIndex(state, reg, directives)
	return &Engine{
		state:      state,
		classifier: classifier,
		index:      index,
		reconciler: NewReconciler(state, reg, index, classifier, cfg.hash),
		recipes:    NewRecipeDeduplicator(recipes, reg, index),
		ids:        cfg.ids,
	}
}

// State returns the memo state shared by the engine's components.
func (e *Engine) State() *State { return e.state }

// Index returns the alias index.
func (e *Engine) Index() *Index { return e.index }

// Classifier returns the spawnability classifier.
func (e *Engine) Classifier() *Classifier { return e.classifier }

// MainOf is Index.MainOf.
func (e *Engine) MainOf(d *def.Definition) *def.Definition { return e.index.MainOf(d) }

// MainNameOf is Index.MainNameOf.
func (e *Engine) MainNameOf(kind def.Kind, name string) string { return e.index.MainNameOf(kind, name) }

// IsSpawnable is Classifier.IsSpawnable.
func (e *Engine) IsSpawnable(d *def.Definition) bool { return e.classifier.IsSpawnable(d) }

// ProcessReplacerDefs is Index.ProcessReplacerDefs.
func (e *Engine) ProcessReplacerDefs() int { return e.index.ProcessReplacerDefs() }

// ReconcileAll is Reconciler.ReconcileAll.
func (e *Engine) ReconcileAll() []*def.Definition { return e.reconciler.ReconcileAll() }

// DeduplicateRecipes is RecipeDeduplicator.DeduplicateRecipes.
func (e *Engine) DeduplicateRecipes() []RemovedRecipe { return e.recipes.DeduplicateRecipes() }

// Load runs the full load cycle: alias pre-population, registry
// reconciliation, then recipe deduplication. Each pass runs to completion;
// ctx is only consulted between passes. Calling Load again on the same
// engine changes nothing and reports an empty sweep.
func (e *Engine) Load(ctx context.Context) (*Report, error) {
	cycleID := e.ids.Generate()
	slog.Info("load cycle starting", "cycle", cycleID)

	seeded := e.index.ProcessReplacerDefs()
	slog.Info("replacer defs processed",
		"cycle", cycleID,
		"seeded", seeded,
		"thing_aliases", e.state.AliasCount(def.KindThing),
		"terrain_aliases", e.state.AliasCount(def.KindTerrain),
	)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cycle %s: %w", cycleID, err)
	}

	folded := e.reconciler.ReconcileAll()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cycle %s: %w", cycleID, err)
	}

	removed := e.recipes.DeduplicateRecipes()

	report := e.buildReport(cycleID, folded, removed)
	slog.Info("load cycle complete",
		"cycle", cycleID,
		"folded", len(report.Resolved),
		"recipes_removed", len(report.RemovedRecipes),
	)
	return report, nil
}
