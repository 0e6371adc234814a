// Package ingest admits listing media into a draft.
//
// CheckImageBatch enforces the image count and the aggregate size budget using
// nothing but file sizes and existing fragment lengths. The Ingester then runs
// the media codecs: image batches fan out over an errgroup and are committed
// all-or-nothing in input order, videos go through size and duration gates.
// Uploads on one session are serialized by a file lock so two CLI processes
// cannot interleave appends.
package ingest
