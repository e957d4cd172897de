// Package logging builds the application's slog loggers.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Helper constructors keep attribute
// keys consistent across packages.
package logging
