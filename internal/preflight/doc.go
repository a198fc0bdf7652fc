// Package preflight verifies the environment before a repair run touches
// the media tree.
//
// Checks cover the target root (exists, is a directory, read/write/search
// permission), the locations mediamend writes outside the tree (failure
// log and history state directory), and the external binaries the
// configuration selects (exiftool always, file when the libmagic sniffer
// backend is configured). Require folds failed checks into a single
// ErrPreflight error so the CLI can exit with the preflight exit code.
package preflight
