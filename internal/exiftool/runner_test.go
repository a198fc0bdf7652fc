package exiftool

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exiftool")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCommandRunnerCapturesStreams(t *testing.T) {
	bin := writeScript(t, `echo "args: $*"; echo "Warning: minor" >&2; exit 1`)
	runner := NewCommandRunner(bin, 0)

	res, err := runner.Run(context.Background(), []string{"-m", "a.jpg"})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if strings.TrimSpace(res.Stdout) != "args: -m a.jpg" {
		t.Fatalf("unexpected stdout %q", res.Stdout)
	}
	if strings.TrimSpace(res.Stderr) != "Warning: minor" {
		t.Fatalf("unexpected stderr %q", res.Stderr)
	}
	if res.ExitCode != 1 {
		t.Fatalf("expected exit code 1, got %d", res.ExitCode)
	}
}

func TestCommandRunnerMissingBinary(t *testing.T) {
	runner := NewCommandRunner(filepath.Join(t.TempDir(), "missing-exiftool"), 0)
	if _, err := runner.Run(context.Background(), nil); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestCommandRunnerTimeout(t *testing.T) {
	bin := writeScript(t, "exec sleep 5")
	runner := NewCommandRunner(bin, 50*time.Millisecond)

	_, err := runner.Run(context.Background(), nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestNewCommandRunnerDefaultsBinary(t *testing.T) {
	if got := NewCommandRunner("  ", 0).Binary(); got != "exiftool" {
		t.Fatalf("unexpected default binary %q", got)
	}
}

func TestHandshakeRequiresExiftool(t *testing.T) {
	if err := Handshake(filepath.Join(t.TempDir(), "missing-exiftool")); err == nil {
		t.Fatal("expected handshake to fail for missing binary")
	}
}

func TestReaderReadsTags(t *testing.T) {
	bin, err := exec.LookPath("exiftool")
	if err != nil {
		t.Skip("exiftool not installed")
	}
	reader, err := OpenReader(bin)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer reader.Close()

	path := filepath.Join(t.TempDir(), "note.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	tags := reader.Read(path)
	if len(tags) != 1 || tags[0].Err != nil {
		t.Fatalf("unexpected read result: %+v", tags)
	}
	if _, ok := tags[0].Fields["FileName"]; !ok {
		t.Fatalf("expected FileName tag, got %v", tags[0].Fields)
	}
}
