// Package archive discovers Live Photo bundles on disk.
//
// Two modes mirror the CLI contract: a flat listing of the working
// directory for the implicit default, and a recursive walk when the user
// names a directory explicitly. Discovered paths are opaque values handed
// straight to the conversion engine, so filenames with whitespace or shell
// metacharacters survive untouched.
package archive
