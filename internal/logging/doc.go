// Package logging configures slog output for the discid CLI and library.
//
// Two handler formats are provided: a compact console format for terminals
// and JSON for machine consumption. Component loggers tag every record with
// the subsystem that emitted it.
package logging
