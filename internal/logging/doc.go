// Package logging assembles the structured slog loggers used across the
// tool.
//
// It owns the console and JSON handlers, centralizes level plumbing, and
// exposes small attr helpers so pipeline code tags lines consistently
// (component, run ID, phase). A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
