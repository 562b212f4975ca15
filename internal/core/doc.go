// Package core provides the refguard keystore operations.
//
// A Keystore is an explicit value bound to one artifact directory holding
// the salt (salt.key) and the archive (refs.kst). Operations take the
// document directory as a parameter:
//   - Generate: build a baseline archive from a directory of JSON documents
//   - VerifyAndRestore: reconcile live documents against the archive and
//     rewrite any that are missing or modified
//   - Check: the same reconciliation without writing anything
//   - Diff: unified diffs between archived and live documents
//   - List/Status: inspect the archive
//
// Drift (a missing or modified document) is repaired and reported, never
// returned as an error. Archive damage, missing artifacts and invalid
// configuration abort the whole operation before any document is written.
//
// Everything runs synchronously on the calling goroutine. PBKDF2 dominates
// the cost of every block, so callers with latency constraints should run
// operations in the background. There is no internal locking: callers must
// serialize operations on the same archive and document directory.
package core
