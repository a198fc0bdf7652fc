package contenttype

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// headerSize is the number of leading bytes the filetype matchers inspect.
const headerSize = 262

// FiletypeSniffer detects content with the h2non/filetype magic matchers.
type FiletypeSniffer struct{}

// Sniff implements Sniffer.
func (FiletypeSniffer) Sniff(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	head := make([]byte, headerSize)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read header %s: %w", path, err)
	}
	if n == 0 {
		return "", nil
	}

	kind, err := filetype.Match(head[:n])
	if err != nil {
		return "", fmt.Errorf("match %s: %w", path, err)
	}
	if kind == filetype.Unknown {
		return "", nil
	}
	return kind.MIME.Value, nil
}
