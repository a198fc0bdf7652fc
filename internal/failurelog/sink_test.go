package failurelog

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileAppendsWithoutDeduplicating(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", DefaultName)
	sink := NewFile(path)

	for _, p := range []string{"/photos/a.jpg", "/photos/b.jpg", "/photos/a.jpg"} {
		if err := sink.Append(p); err != nil {
			t.Fatalf("Append(%s): %v", p, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "/photos/a.jpg\n/photos/b.jpg\n/photos/a.jpg\n"
	if string(data) != want {
		t.Fatalf("log content = %q, want %q", data, want)
	}
}

func TestFileAppendsAcrossSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultName)
	if err := os.WriteFile(path, []byte("/old/run.jpg\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := NewFile(path).Append("/new/run.jpg"); err != nil {
		t.Fatal(err)
	}
	lines, err := ReadAll(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 || lines[0] != "/old/run.jpg" || lines[1] != "/new/run.jpg" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

func TestReadAllMissing(t *testing.T) {
	lines, err := ReadAll(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil || lines != nil {
		t.Fatalf("expected empty result, got %v err=%v", lines, err)
	}
}

func TestNewFileDefaultName(t *testing.T) {
	if got := NewFile("").Path(); got != DefaultName {
		t.Fatalf("unexpected default path %q", got)
	}
}
