// Package media converts raw listing photos and videos into data-URI
// fragments that can be embedded directly in a listing payload.
//
// ImageCompressor decodes JPEG, PNG, GIF and WebP input, fits the longest edge
// within 800px and re-encodes as JPEG. VideoValidator enforces the size and
// duration ceilings (duration via the ffprobe subpackage) before encoding.
// EstimateEncodedBytes is the shared size heuristic the ingestion budget and
// the step validator both rely on.
package media
