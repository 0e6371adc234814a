// Package logging assembles structured slog loggers and formatting helpers used
// across listwise.
//
// It owns the console, JSON and colored (tint) handlers, centralizes level and
// output plumbing, and exposes context-aware helpers so wizard and media code
// can tag log lines with session IDs, step numbers, and correlation IDs. The
// package also provides a no-op logger for tests and wiring code that cannot
// fail.
package logging
