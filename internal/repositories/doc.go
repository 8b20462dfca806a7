// Package repositories implements SQLite persistence for worksheet progress and answer history.
//
// Key Implementations:
//   - [ProgressStore] : key/value snapshot storage, one row per worksheet key, overwritten in place
//   - [ResponseRepository] : append-only log of answer checks
//
// Both satisfy the storage interfaces of the tasks package so the engine never sees SQL.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
