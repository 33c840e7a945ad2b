// Package staging manages the ephemeral extraction workspaces used by the
// conversion engine.
//
// Every conversion attempt gets a fresh, uniquely named directory and must
// release it when the attempt ends. A process-wide exit guard removes any
// in-flight workspace on SIGINT/SIGTERM, and CleanStale sweeps directories
// left behind by crashed runs.
package staging
