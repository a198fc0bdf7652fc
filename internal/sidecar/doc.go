// Package sidecar pairs media files with their Takeout metadata documents.
//
// Matching runs in strict precedence: exact name, then prefix, then fuzzy
// similarity. The first hit wins and ties keep candidate order, so the same
// inputs always produce the same match.
package sidecar
