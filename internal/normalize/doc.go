// Package normalize corrects media file extensions to match their content.
//
// Every non-sidecar file is sniffed; when the content type is in the known
// table and its canonical extension differs (case-insensitively) from the
// current one, the file is renamed and its exact-named sidecar follows.
// Renames never replace an existing file. Unknown content is left alone.
package normalize
