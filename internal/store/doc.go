// Package store provides SQLite-backed diagnostics storage for dedup load
// cycle reports.
//
// The store is an append-only audit log with:
//   - Cycles: one row per load cycle, keyed by cycle ID
//   - Aliases: identity aliases recorded during the cycle
//   - Resolved duplicates: definitions folded out of the registry
//   - Removed recipes: recipes dropped as duplicates
//
// Nothing here feeds back into resolution. Every load cycle starts from a
// fresh engine; the store only records what a cycle did.
//
// # Critical Patterns
//
// Cycle-Level Idempotency
//   - cycles.id is the primary key; writing the same report twice is a no-op
//
// Logical Ordering
//   - Cycles are ordered by seq INTEGER assigned on insert, never timestamps
//   - Child rows keep the report's slice order in their own seq column
//   - All queries use ORDER BY seq ASC, id ASC COLLATE BINARY where both apply
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
