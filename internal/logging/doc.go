// Package logging constructs the process-wide slog logger used across the
// migration pipeline, with console and JSON handlers and optional file
// output alongside stdout.
package logging
