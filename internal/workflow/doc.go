// Package workflow orchestrates a repair run over one media tree.
//
// A run takes an advisory lock on the tree, normalizes extensions once,
// re-discovers the tree, and then walks every directory: each non-JSON file
// is matched against the directory's .json candidates and, when a sidecar is
// found, handed to the embedder. Everything is sequential on one goroutine.
// Per-file problems are counted in the Summary and never stop the walk.
//
// Candidate lists hold every .json file of the directory in lexical order,
// except sidecars exactly named for another media file present in the same
// directory; those stay reserved for their owner.
//
// When a Recorder is configured the run, its per-file events and its final
// counts are written to the history journal under a fresh UUID.
package workflow
