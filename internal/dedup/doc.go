// Package dedup folds duplicate definitions into canonical ones and answers
// "what is the canonical version of this definition" for the rest of the host.
//
// ARCHITECTURE:
//
// One State per load cycle holds every memo table. It is built by New and
// shared by reference between the components; nothing here is a package-level
// singleton.
//
// Load cycle passes, in order:
//  1. Index.ProcessReplacerDefs seeds the alias tables from the directives
//  2. Reconciler.ReconcileAll removes spawnable duplicates from the registry
//     and points their name slots at the canonical definitions
//  3. RecipeDeduplicator.DeduplicateRecipes drops behaviorally identical
//     recipes and scrubs them from consumer recipe caches
//
// After the load cycle, Index.MainOf, Index.MainNameOf and
// Classifier.IsSpawnable are the query surface for the host.
//
// CRITICAL PATTERNS:
//
// First writer wins: an alias, once recorded, is never overwritten. Only
// confirmed resolutions are cached; misses rescan the directives.
//
// Single hop: a duplicate can never become a canonical target and a target can
// never become a duplicate, so MainOf(MainOf(d)) == MainOf(d).
//
// Fail closed: classification faults are logged and read as "not spawnable".
//
// The package is single-threaded. Callers that query from several goroutines
// must synchronize externally; cache population is check-then-write.
package dedup
