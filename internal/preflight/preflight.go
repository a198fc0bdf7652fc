package preflight

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"mediamend/internal/config"
	"mediamend/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options describe the run the checks are for.
type Options struct {
	// DryRun runs only read the tree and never invoke exiftool.
	DryRun bool
	// Embed is set when the embedding stage runs.
	Embed bool
}

// NeedsExiftool reports whether the run will invoke exiftool.
func (o Options) NeedsExiftool() bool {
	return o.Embed && !o.DryRun
}

// RunAll executes all applicable preflight checks for a run over root.
// Write checks for the tree and the failure log are skipped in dry-run mode
// because nothing is written there, and exiftool is only required when the
// run embeds metadata.
func RunAll(ctx context.Context, cfg *config.Config, root string, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	if opts.DryRun {
		results = append(results, CheckDirectoryReadable("Media root", root))
	} else {
		results = append(results, CheckDirectoryAccess("Media root", root))
		results = append(results, CheckWritableParent("Failure log", cfg.Paths.FailureLog))
	}

	if cfg.History.Enabled {
		results = append(results, CheckWritableParent("History database", cfg.History.Path))
	}

	for _, status := range CheckSystemDeps(cfg, opts.NeedsExiftool()) {
		if ctx.Err() != nil {
			break
		}
		results = append(results, FromStatus(status))
	}
	return results
}

// Require converts failed checks into an ErrPreflight error.
func Require(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, fmt.Sprintf("%s: %s", r.Name, r.Detail))
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrPreflight, "preflight", "check environment", strings.Join(failed, "; "), nil)
}

// RootPath resolves the run root the same way the workflow does.
func RootPath(root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", services.Wrap(services.ErrConfiguration, "preflight", "resolve root", "root directory is required", nil)
	}
	expanded, err := config.ExpandPath(root)
	if err != nil {
		return "", services.Wrap(services.ErrConfiguration, "preflight", "resolve root", root, err)
	}
	return filepath.Clean(expanded), nil
}
