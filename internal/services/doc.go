// Package services defines shared utilities consumed by the wizard, the media
// pipeline and the listing API client.
//
// Key responsibilities:
//   - Context helpers that stamp wizard session IDs, step numbers, and
//     correlation identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so every layer reports
//     failures that callers can classify with errors.Is.
//
// Use these helpers when wiring new code so error handling and observability
// stay uniform across the submission pipeline.
package services
