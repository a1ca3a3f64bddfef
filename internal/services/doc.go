// Package services defines shared utilities consumed by the extraction
// handlers and their external collaborators.
//
// Key responsibilities:
//   - Context helpers that stamp asset IDs, job names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures with errors.Is instead of matching strings.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
