// Package logging assembles structured slog loggers used across clipmark.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so editing code can tag log lines
// with video ids, clip ids, and session ids. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits records with the same shape.
package logging
