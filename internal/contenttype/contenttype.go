package contenttype

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"strings"
)

// Sniffer reports the MIME type of a file's contents. An empty type with a
// nil error means the content was not recognized.
type Sniffer interface {
	Sniff(ctx context.Context, path string) (string, error)
}

// Result captures the outcome of resolving a single file.
type Result struct {
	MIME      string
	Extension string
	Known     bool
}

var defaultTable = map[string]string{
	"image/jpeg":            ".jpg",
	"image/heic":            ".heic",
	"image/png":             ".png",
	"video/mp4":             ".mp4",
	"video/quicktime":       ".mov",
	"image/tiff":            ".tif",
	"image/x-canon-cr2":     ".cr2",
	"image/x-sony-arw":      ".arw",
	"image/x-panasonic-raw": ".rw2",
	"video/x-msvideo":       ".avi",
}

// aliases folds alternate spellings reported by sniffers onto table keys.
var aliases = map[string]string{
	"image/heif":            "image/heic",
	"image/heic-sequence":   "image/heic",
	"image/jpg":             "image/jpeg",
	"image/pjpeg":           "image/jpeg",
	"video/avi":             "video/x-msvideo",
	"video/msvideo":         "video/x-msvideo",
	"image/x-panasonic-rw2": "image/x-panasonic-raw",
}

// tiffContainerExts are raw formats stored in a plain TIFF container. Header
// sniffing reports them as image/tiff, so the sniffed type cannot tell them
// apart from a real TIFF.
var tiffContainerExts = map[string]struct{}{
	".3fr": {}, ".arw": {}, ".dcr": {}, ".dng": {}, ".erf": {}, ".iiq": {},
	".k25": {}, ".kdc": {}, ".mef": {}, ".mos": {}, ".nef": {}, ".nrw": {},
	".pef": {}, ".sr2": {}, ".srf": {}, ".srw": {},
}

// TIFFContainer reports whether ext names a raw format that sniffs as image/tiff.
func TIFFContainer(ext string) bool {
	_, ok := tiffContainerExts[strings.ToLower(ext)]
	return ok
}

// DefaultTable returns a copy of the built-in content type to extension table.
func DefaultTable() map[string]string {
	return maps.Clone(defaultTable)
}

// Resolver maps sniffed content types onto canonical extensions.
type Resolver struct {
	sniffer Sniffer
	table   map[string]string
}

// NewResolver builds a resolver using the default table extended by overrides.
// Override keys and values are expected to be normalized (lowercase MIME,
// extension with a leading dot).
func NewResolver(sniffer Sniffer, overrides map[string]string) *Resolver {
	table := DefaultTable()
	for mime, ext := range overrides {
		table[Canonical(mime)] = ext
	}
	return &Resolver{sniffer: sniffer, table: table}
}

// Resolve sniffs path and reports its canonical extension. Unknown content
// yields a Result with Known=false and no error. A TIFF sniff on a file named
// as a TIFF-container raw format is also unknown, so the raw name is kept.
func (r *Resolver) Resolve(ctx context.Context, path string) (Result, error) {
	if r == nil || r.sniffer == nil {
		return Result{}, fmt.Errorf("content type resolver not configured")
	}
	mime, err := r.sniffer.Sniff(ctx, path)
	if err != nil {
		return Result{}, err
	}
	mime = Canonical(mime)
	if mime == "" {
		return Result{}, nil
	}
	if mime == "image/tiff" && TIFFContainer(filepath.Ext(path)) {
		return Result{MIME: mime}, nil
	}
	ext, ok := r.table[mime]
	return Result{MIME: mime, Extension: ext, Known: ok}, nil
}

// Canonical lowercases a MIME string, drops parameters and applies aliases.
func Canonical(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = strings.TrimSpace(mime[:idx])
	}
	if alias, ok := aliases[mime]; ok {
		return alias
	}
	return mime
}
