// Package history persists a journal of runs in SQLite.
//
// Each run gets a row with its root, status and final counts; per-file
// events (renames, skips, matches, embedding outcomes) hang off the run.
// The database lives under the state directory and is safe to delete.
package history
