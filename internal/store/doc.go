// Package store provides SQLite-backed storage for saved projection runs.
//
// A run is written once, in a single transaction, and never updated:
//   - Runs: model fingerprint, forecast options, fiscal years
//   - Cells: every table value keyed by its stable cell id
//   - Cash Flows: per-year CFO / CFI / CFF summary
//
// # Deterministic Reads
//
// Cells are read back in export order (seq ASC), runs in creation order
// (created_at ASC, id ASC COLLATE BINARY). UUIDv7 run ids sort by creation
// time, so the id tiebreak agrees with created_at.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// The projection engine never imports this package; only the CLI does.
package store
