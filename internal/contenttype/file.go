package contenttype

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor abstracts command execution for the file backend.
type Executor interface {
	Output(ctx context.Context, binary string, args []string) ([]byte, error)
}

type commandExecutor struct{}

func (commandExecutor) Output(ctx context.Context, binary string, args []string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	return cmd.Output()
}

// FileSniffer shells out to libmagic's `file --brief --mime-type`.
type FileSniffer struct {
	binary string
	exec   Executor
}

// NewFileSniffer constructs a sniffer for the given file binary.
func NewFileSniffer(binary string) *FileSniffer {
	return NewFileSnifferWithExecutor(binary, nil)
}

// NewFileSnifferWithExecutor allows injecting a custom executor for testing.
func NewFileSnifferWithExecutor(binary string, exec Executor) *FileSniffer {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "file"
	}
	if exec == nil {
		exec = commandExecutor{}
	}
	return &FileSniffer{binary: binary, exec: exec}
}

// Sniff implements Sniffer. Generic answers from libmagic are reported as unknown.
func (s *FileSniffer) Sniff(ctx context.Context, path string) (string, error) {
	out, err := s.exec.Output(ctx, s.binary, []string{"--brief", "--mime-type", "--", path})
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", s.binary, path, err)
	}
	mime := strings.TrimSpace(string(out))
	switch mime {
	case "", "application/octet-stream", "inode/x-empty", "text/plain":
		return "", nil
	}
	return mime, nil
}
