// Package exiftool wraps the exiftool command line tool.
//
// Writes go through Runner, which execs one process per attempt and returns
// both text streams; Succeeded decides the outcome from those streams alone.
// Reads (preflight handshake, inspect) use a persistent go-exiftool session.
package exiftool
