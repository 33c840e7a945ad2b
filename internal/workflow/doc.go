// Package workflow orchestrates a batch run end to end: single-instance
// locking, stale workspace sweeps, archive discovery, sequential conversion,
// ledger recording, and the final tally.
package workflow
