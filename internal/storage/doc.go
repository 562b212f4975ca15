// Package storage persists refguard's local state.
//
// SaltStore keeps the 32-byte keystore salt as a raw file next to the
// archive. A missing salt file is reported as (nil, nil) so callers decide
// whether absence is fatal.
//
// Ledger is a BBolt database recording every generate and verify run:
//   - runs: run records keyed by start time and run ID (JSON values)
//   - config: ledger version and creation time
//
// The ledger is informational. Losing it never affects the keystore.
// BBolt provides ACID transactions, file locking, and corruption detection.
package storage
