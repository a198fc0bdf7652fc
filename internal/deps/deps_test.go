package deps

import (
	"os"
	"path/filepath"
	"testing"
)

func writeStub(t *testing.T, dir, name, script string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := writeStub(t, binDir, "present", "#!/bin/sh\nexit 0\n")
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatalf("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatalf("expected detail message for missing binary")
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestCheckBinariesProbesVersion(t *testing.T) {
	binDir := t.TempDir()
	exiftool := writeStub(t, binDir, "exiftool", "#!/bin/sh\n[ \"$1\" = \"-ver\" ] && echo '\n13.10' && exit 0\nexit 1\n")
	broken := writeStub(t, binDir, "broken", "#!/bin/sh\nexit 3\n")

	results := CheckBinaries([]Requirement{
		{Name: "ExifTool", Command: exiftool, VersionArgs: []string{"-ver"}},
		{Name: "Broken", Command: broken, VersionArgs: []string{"--version"}},
	})
	if results[0].Version != "13.10" {
		t.Fatalf("expected version 13.10, got %q (detail %q)", results[0].Version, results[0].Detail)
	}
	if !results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected available binary with probe failure detail, got %#v", results[1])
	}
}

