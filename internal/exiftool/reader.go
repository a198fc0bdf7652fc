package exiftool

import (
	"fmt"
	"strings"

	goexiftool "github.com/barasher/go-exiftool"
)

// Tags holds the metadata read back from one file.
type Tags struct {
	File   string
	Fields map[string]any
	Err    error
}

// Reader keeps a persistent exiftool process for reading tags.
type Reader struct {
	et *goexiftool.Exiftool
}

// OpenReader starts an exiftool session using binary.
func OpenReader(binary string) (*Reader, error) {
	opts := []func(*goexiftool.Exiftool) error{}
	if bin := strings.TrimSpace(binary); bin != "" {
		opts = append(opts, goexiftool.SetExiftoolBinaryPath(bin))
	}
	et, err := goexiftool.NewExiftool(opts...)
	if err != nil {
		return nil, fmt.Errorf("start exiftool session: %w", err)
	}
	return &Reader{et: et}, nil
}

// Read extracts tags for each path in order.
func (r *Reader) Read(paths ...string) []Tags {
	metas := r.et.ExtractMetadata(paths...)
	out := make([]Tags, 0, len(metas))
	for _, m := range metas {
		out = append(out, Tags{File: m.File, Fields: m.Fields, Err: m.Err})
	}
	return out
}

// Close stops the exiftool session.
func (r *Reader) Close() error {
	if r == nil || r.et == nil {
		return nil
	}
	return r.et.Close()
}

// Handshake starts and stops a session to prove the binary is a working exiftool.
func Handshake(binary string) error {
	reader, err := OpenReader(binary)
	if err != nil {
		return err
	}
	return reader.Close()
}
