// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed container and stream headers
//   - Prober: duration lookup used to gate listing videos
//
// Inspect requests only the header entries it needs, so probing a clip never
// decodes frames and finishes quickly even for large files.
package ffprobe
