// Package news aggregates recent videos from a fixed set of YouTube news
// channels into a single curated playlist.
//
// A run fetches each channel's recent uploads through the YouTube Data API,
// filters out shorts and stale videos, scores the rest for quality and viral
// traction, and selects a capped set. The selection is written as JSON and
// HTML snapshots under the output directory, and the target playlist is
// rebuilt to mirror it, newest first.
//
// The work is split across focused subpackages:
//
//   - config:  configuration loading, per-channel selection rules
//   - youtube: Data API access, fetching, and playlist synchronization
//   - score:   quality/viral scoring and the selection pipeline
//   - storage: snapshot artifacts, run records, and change diffs
//   - cli:     the command-line entry point
//
// This package re-exports the error values and types callers are expected
// to match on, so most programs only need to import the subpackages they
// call into plus this one for errors.
package news
