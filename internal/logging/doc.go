// Package logging builds the slog loggers used throughout livpconv.
//
// Two handler formats are supported: a human-oriented console handler that
// flattens attributes into key=value pairs behind a component prefix, and a
// machine-readable JSON handler. Both honour the level configured in
// [logging] and append to livpconv.log under the configured log directory in
// addition to the terminal.
package logging
