package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"mediamend/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "embed", "exiftool", "failed", base)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"embed", "exiftool", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaults(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "operation failed") {
		t.Fatalf("expected default detail, got %q", err)
	}
}

func TestExitCodeMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, services.ExitOK},
		{"incomplete", services.Wrap(services.ErrIncomplete, "run", "", "2 files failed", nil), services.ExitIncomplete},
		{"config", services.Wrap(services.ErrConfiguration, "config", "load", "", errors.New("bad")), services.ExitConfig},
		{"preflight", services.Wrap(services.ErrPreflight, "preflight", "", "exiftool missing", nil), services.ExitPreflight},
		{"locked", services.Wrap(services.ErrLocked, "run", "lock", "", nil), services.ExitLocked},
		{"canceled", fmt.Errorf("walk: %w", context.Canceled), services.ExitInterrupted},
		{"unknown", errors.New("other"), services.ExitIncomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.ExitCode(tt.err); got != tt.want {
				t.Fatalf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
