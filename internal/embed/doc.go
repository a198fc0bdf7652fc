// Package embed writes sidecar metadata into media files with exiftool.
//
// Each file goes through a fixed sequence of attempts, each more invasive
// than the last: a plain write, a write after clearing the embedded
// thumbnail, and a write after clearing the preview image pointers. The
// first attempt exiftool reports as successful ends the sequence. When every
// attempt fails the media path is appended to the failure log once and the
// last diagnostic is returned in the Outcome. Embed never returns an error.
package embed
