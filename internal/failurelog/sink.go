package failurelog

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultName is the failure log file name used when none is configured.
const DefaultName = "failed_metadata_log.txt"

// Sink records terminal failures.
type Sink interface {
	Append(path string) error
}

// File is a Sink backed by a text file.
type File struct {
	path string
}

// NewFile returns a sink writing to path.
func NewFile(path string) *File {
	if strings.TrimSpace(path) == "" {
		path = DefaultName
	}
	return &File{path: path}
}

// Path returns the log file location.
func (f *File) Path() string {
	return f.path
}

// Append writes one line containing mediaPath.
func (f *File) Append(mediaPath string) error {
	if dir := filepath.Dir(f.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create failure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(f.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open failure log: %w", err)
	}
	if _, err := file.WriteString(mediaPath + "\n"); err != nil {
		_ = file.Close()
		return fmt.Errorf("append failure log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close failure log: %w", err)
	}
	return nil
}

// ReadAll returns every recorded path in file order. A missing log yields no entries.
func ReadAll(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open failure log: %w", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read failure log: %w", err)
	}
	return lines, nil
}

// Discard drops every entry.
type Discard struct{}

// Append implements Sink.
func (Discard) Append(string) error { return nil }
