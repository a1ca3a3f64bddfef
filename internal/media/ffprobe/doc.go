// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual stream properties including rotation side data
//   - Format: container-level metadata (duration, size, tags)
//   - Prober: configured runner used by the video extractor
//
// Helper methods on Result provide case-insensitive tag lookup, duration
// parsing, and size extraction.
package ffprobe
