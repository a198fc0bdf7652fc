package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mediamend/internal/failurelog"
	"mediamend/internal/services"
	"mediamend/internal/testsupport"
)

const exiftoolOK = `echo "    1 image files updated"`

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "fuzzy_threshold")
	requireContains(t, out, "# source: "+env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse overwriting without --overwrite")
	}
}

func TestInvalidConfigExitsWithConfigCode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[matching]\nfuzzy_threshold = 3.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"run", t.TempDir()}, path)
	if err == nil {
		t.Fatal("expected config error")
	}
	if code := services.ExitCode(err); code != services.ExitConfig {
		t.Fatalf("expected exit code %d, got %d (%v)", services.ExitConfig, code, err)
	}
}

func TestRunRenamesAndEmbeds(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	testsupport.WriteJPEG(t, filepath.Join(env.root, "a.heic"))
	testsupport.WriteSidecar(t, filepath.Join(env.root, "a.heic.supplemental-metadata.json"))

	out, _, err := runCLI(t, []string{"run", env.root, "--no-progress"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if services.ExitCode(err) != services.ExitOK {
		t.Fatalf("unexpected exit code")
	}
	if _, err := os.Stat(filepath.Join(env.root, "a.jpg")); err != nil {
		t.Fatalf("expected a.jpg after normalization: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "a.jpg.supplemental-metadata.json")); err != nil {
		t.Fatalf("expected sidecar to follow rename: %v", err)
	}
	requireContains(t, out, "Run summary")
	requireContains(t, out, "Matched exact")
}

func TestRunTerminalFailureExitsIncomplete(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(`echo "Error: Not a valid JPG" >&2; exit 1`))
	media := filepath.Join(env.root, "b.jpg")
	testsupport.WriteJPEG(t, media)
	testsupport.WriteSidecar(t, media+".supplemental-metadata.json")

	out, _, err := runCLI(t, []string{"embed", env.root, "--no-progress"}, env.configPath)
	if !errors.Is(err, services.ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
	if code := services.ExitCode(err); code != services.ExitIncomplete {
		t.Fatalf("expected exit code %d, got %d", services.ExitIncomplete, code)
	}
	requireContains(t, out, "Failed files")

	lines, err := failurelog.ReadAll(env.cfg.Paths.FailureLog)
	if err != nil {
		t.Fatalf("read failure log: %v", err)
	}
	if len(lines) != 1 || lines[0] != media {
		t.Fatalf("unexpected failure log %v", lines)
	}
}

func TestRunMissingRootExitsPreflight(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	_, _, err := runCLI(t, []string{"run", filepath.Join(env.root, "missing")}, env.configPath)
	if code := services.ExitCode(err); code != services.ExitPreflight {
		t.Fatalf("expected exit code %d, got %d (%v)", services.ExitPreflight, code, err)
	}
}

func TestRunMissingExiftoolExitsPreflight(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.MetadataTool.Binary = filepath.Join(t.TempDir(), "no-exiftool")
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"run", env.root}, env.configPath)
	if !errors.Is(err, services.ErrPreflight) {
		t.Fatalf("expected preflight error, got %v", err)
	}
}

func TestNormalizeWithoutExiftool(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.MetadataTool.Binary = filepath.Join(t.TempDir(), "no-exiftool")
	writeTestConfig(t, env.configPath, env.cfg)
	testsupport.WriteJPEG(t, filepath.Join(env.root, "e.png"))

	if _, _, err := runCLI(t, []string{"normalize", env.root, "--no-progress"}, env.configPath); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "e.jpg")); err != nil {
		t.Fatalf("expected e.png renamed to e.jpg: %v", err)
	}
	if _, _, err := runCLI(t, []string{"run", env.root, "--dry-run", "--no-progress"}, env.configPath); err != nil {
		t.Fatalf("run --dry-run: %v", err)
	}
}

func TestNormalizeDryRunLeavesTreeUntouched(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	testsupport.WriteJPEG(t, filepath.Join(env.root, "c.png"))

	out, _, err := runCLI(t, []string{"normalize", env.root, "--dry-run", "--no-progress"}, env.configPath)
	if err != nil {
		t.Fatalf("normalize --dry-run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.root, "c.png")); err != nil {
		t.Fatalf("dry run renamed file: %v", err)
	}
	requireContains(t, out, "dry run")
}

func TestMatchCommandJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	testsupport.WriteJPEG(t, filepath.Join(env.root, "IMG_0001.jpg"))
	testsupport.WriteSidecar(t, filepath.Join(env.root, "IMG_0001.jpg.supplemental-metadata.json"))
	testsupport.WriteJPEG(t, filepath.Join(env.root, "lonely.jpg"))

	out, _, err := runCLI(t, []string{"match", env.root, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var rows []matchRow
	if err := json.Unmarshal([]byte(out), &rows); err != nil {
		t.Fatalf("decode match output: %v\n%s", err, out)
	}
	if len(rows) != 2 {
		t.Fatalf("expected two rows, got %+v", rows)
	}
	if rows[0].Media != "IMG_0001.jpg" || rows[0].Kind != "exact" {
		t.Fatalf("unexpected first row %+v", rows[0])
	}
	if rows[1].Media != "lonely.jpg" || rows[1].Kind != "none" || rows[1].Sidecar != "" {
		t.Fatalf("unexpected second row %+v", rows[1])
	}
}

func TestHistoryListAndShow(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK), testsupport.WithHistory())
	testsupport.WriteJPEG(t, filepath.Join(env.root, "d.jpg"))
	testsupport.WriteSidecar(t, filepath.Join(env.root, "d.jpg.supplemental-metadata.json"))

	if _, _, err := runCLI(t, []string{"run", env.root, "--no-progress"}, env.configPath); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, []string{"history", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	var runs []struct {
		ID     string
		Status string
		Counts struct{ Embedded int }
	}
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode runs: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].Status != "completed" || runs[0].Counts.Embedded != 1 {
		t.Fatalf("unexpected runs %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", runs[0].ID[:8], "--kind", "embedded"}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "d.jpg")
	requireContains(t, out, "embedded")

	out, _, err = runCLI(t, []string{"history", "prune", "--keep", "0"}, env.configPath)
	if err != nil {
		t.Fatalf("history prune: %v", err)
	}
	requireContains(t, out, "Removed 1 run(s)")
}

func TestHistoryDisabledIsConfigError(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"history", "list"}, env.configPath)
	if services.ExitCode(err) != services.ExitConfig {
		t.Fatalf("expected config exit code, got %v", err)
	}
}

func TestStatusReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	out, _, err := runCLI(t, []string{"status", env.root}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "== Checks ==")
	requireContains(t, out, "Media root")
	requireContains(t, out, "ExifTool")
	if strings.Contains(out, "[ERROR]") {
		t.Fatalf("unexpected error line in status output:\n%s", out)
	}
}

func TestStatusCountsFailedEmbeds(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	sink := failurelog.NewFile(env.cfg.Paths.FailureLog)
	for _, p := range []string{"/takeout/a.jpg", "/takeout/b.mp4"} {
		if err := sink.Append(p); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	out, _, err := runCLI(t, []string{"status"}, env.configPath)
	if err != nil {
		t.Fatalf("status: %v\n%s", err, out)
	}
	requireContains(t, out, "Failed embeds:")
	requireContains(t, out, "[WARN] 2 recorded")
}

func TestStatusJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithExiftoolScript(exiftoolOK))
	out, _, err := runCLI(t, []string{"status", env.root, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("status --json: %v\n%s", err, out)
	}
	var report statusReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode status: %v\n%s", err, out)
	}
	if !report.OK || len(report.Sections) != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Sections[1].Title != "Checks" || report.Sections[1].Lines[0].Label != "Media root" {
		t.Fatalf("unexpected checks section %+v", report.Sections[1])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Fatalf("unexpected %q", got)
	}
	if got := truncate("abcdefghij", 5); got != "abcd…" {
		t.Fatalf("unexpected %q", got)
	}
}
