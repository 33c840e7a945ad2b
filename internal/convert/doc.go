// Package convert implements the per-file conversion engine: extract a
// Live Photo bundle into a scratch workspace, select the still image inside
// it, and re-encode it to JPEG with an external backend.
//
// The engine retries transient failures (extraction, backend) up to the
// configured budget; the absence of any image candidate is terminal and
// fails the file on the spot. Backends are modeled as the Encoder interface
// with sips and ImageMagick implementations, selected once at startup by
// the dependency probe.
package convert
