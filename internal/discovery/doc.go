// Package discovery enumerates the media tree grouped by directory.
//
// Directories and files are reported in lexical order. Exclusion patterns
// use doublestar syntax against slash-separated paths relative to the root;
// the run lock file is never reported.
package discovery
