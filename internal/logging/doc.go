// Package logging builds the slog loggers used across the daemon: a
// human-oriented console handler with TTY-aware coloring and a JSON handler
// for machine consumption.
package logging
