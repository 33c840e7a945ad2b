// Package history persists a per-archive conversion ledger in SQLite so
// completed, skipped, and failed runs can be inspected later from the CLI.
package history
