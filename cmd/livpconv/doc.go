// Command livpconv batch-converts Apple Live Photo (.livp) bundles into
// JPEG files using external tools, with idempotent reruns, per-file retry,
// and a persistent conversion history.
package main
