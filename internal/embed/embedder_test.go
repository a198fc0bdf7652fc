package embed

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mediamend/internal/config"
	"mediamend/internal/exiftool"
	"mediamend/internal/failurelog"
)

type scriptedRunner struct {
	results []exiftool.Result
	errs    []error
	calls   [][]string
}

func (r *scriptedRunner) Run(_ context.Context, args []string) (exiftool.Result, error) {
	i := len(r.calls)
	r.calls = append(r.calls, append([]string(nil), args...))
	var res exiftool.Result
	var err error
	if i < len(r.results) {
		res = r.results[i]
	}
	if i < len(r.errs) {
		err = r.errs[i]
	}
	return res, err
}

type recordingSink struct {
	paths []string
}

func (s *recordingSink) Append(path string) error {
	s.paths = append(s.paths, path)
	return nil
}

var (
	okResult         = exiftool.Result{Stdout: "    1 image files updated\n"}
	notUpdatedResult = exiftool.Result{Stdout: "    0 image files updated\n    1 image files weren't updated due to errors\n"}
	errorResult      = exiftool.Result{Stderr: "Error: Bad format (0) for IFD1 entry 0\n"}
)

func TestEmbedSucceedsOnPlainAttempt(t *testing.T) {
	runner := &scriptedRunner{results: []exiftool.Result{okResult}}
	sink := &recordingSink{}
	e := New(runner, sink, Options{})

	out := e.Embed(context.Background(), "/p/a.jpg", "/p/a.jpg.supplemental-metadata.json")
	if !out.Success || out.Tier != TierPlain || out.Attempts != 1 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	want := []string{"-m", "-overwrite_original", "-json=/p/a.jpg.supplemental-metadata.json", "/p/a.jpg"}
	if !slices.Equal(runner.calls[0], want) {
		t.Fatalf("args = %v, want %v", runner.calls[0], want)
	}
	if len(sink.paths) != 0 {
		t.Fatalf("unexpected failure log entries %v", sink.paths)
	}
}

func TestEmbedEscalatesThroughTiersInOrder(t *testing.T) {
	runner := &scriptedRunner{results: []exiftool.Result{notUpdatedResult, errorResult, okResult}}
	sink := &recordingSink{}
	e := New(runner, sink, Options{})

	sidecar := "/p/b.jpg.supplemental-metadata.json"
	out := e.Embed(context.Background(), "/p/b.jpg", sidecar)
	if !out.Success || out.Tier != TierStripPreview || out.Attempts != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if len(runner.calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(runner.calls))
	}
	if slices.Contains(runner.calls[0], "-ThumbnailImage=") {
		t.Fatalf("plain attempt must not strip: %v", runner.calls[0])
	}
	if !slices.Contains(runner.calls[1], "-ThumbnailImage=") {
		t.Fatalf("second attempt must strip thumbnail: %v", runner.calls[1])
	}
	if !slices.Contains(runner.calls[2], "-OtherImageStart=") || !slices.Contains(runner.calls[2], "-OtherImageLength=") {
		t.Fatalf("third attempt must strip preview pointers: %v", runner.calls[2])
	}
	if slices.Contains(runner.calls[2], "-ThumbnailImage=") {
		t.Fatalf("third attempt strips preview pointers only: %v", runner.calls[2])
	}
	for i, call := range runner.calls {
		if !slices.Contains(call, "-json="+sidecar) {
			t.Fatalf("attempt %d lost the sidecar: %v", i, call)
		}
	}
	if len(sink.paths) != 0 {
		t.Fatalf("unexpected failure log entries %v", sink.paths)
	}
}

func TestEmbedTerminalFailureLogsOnce(t *testing.T) {
	runner := &scriptedRunner{results: []exiftool.Result{notUpdatedResult, notUpdatedResult, errorResult}}
	logPath := filepath.Join(t.TempDir(), failurelog.DefaultName)
	e := New(runner, failurelog.NewFile(logPath), Options{})

	out := e.Embed(context.Background(), "/p/c.jpg", "/p/c.jpg.supplemental-metadata.json")
	if out.Success || out.Attempts != 3 || out.Tier != TierStripPreview {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if !strings.Contains(out.Diagnostic, "Bad format") {
		t.Fatalf("expected last diagnostic, got %q", out.Diagnostic)
	}
	lines, err := failurelog.ReadAll(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 1 || lines[0] != "/p/c.jpg" {
		t.Fatalf("expected exactly one failure log line, got %v", lines)
	}
}

func TestEmbedRunnerErrorIsFailedAttempt(t *testing.T) {
	boom := errors.New("exec: \"exiftool\": executable file not found in $PATH")
	runner := &scriptedRunner{errs: []error{boom, boom, boom}}
	sink := &recordingSink{}
	e := New(runner, sink, Options{})

	out := e.Embed(context.Background(), "/p/d.jpg", "/p/d.json")
	if out.Success || out.Attempts != 3 {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if out.Diagnostic != boom.Error() {
		t.Fatalf("expected runner error as diagnostic, got %q", out.Diagnostic)
	}
	if len(sink.paths) != 1 {
		t.Fatalf("expected failure log entry, got %v", sink.paths)
	}
}

func TestEmbedTwoStageCombinesStripping(t *testing.T) {
	runner := &scriptedRunner{results: []exiftool.Result{errorResult, errorResult}}
	sink := &recordingSink{}
	e := New(runner, sink, Options{TierSet: config.TiersTwoStage})

	out := e.Embed(context.Background(), "/p/e.jpg", "/p/e.json")
	if out.Attempts != 2 || out.Tier != TierStripAll {
		t.Fatalf("unexpected outcome %+v", out)
	}
	for _, arg := range []string{"-ThumbnailImage=", "-OtherImageStart=", "-OtherImageLength="} {
		if !slices.Contains(runner.calls[1], arg) {
			t.Fatalf("combined strip missing %s: %v", arg, runner.calls[1])
		}
	}
	if len(sink.paths) != 1 {
		t.Fatalf("expected one failure log entry, got %v", sink.paths)
	}
}

func TestEmbedInterruptedSkipsFailureLog(t *testing.T) {
	runner := &scriptedRunner{}
	sink := &recordingSink{}
	e := New(runner, sink, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := e.Embed(ctx, "/p/f.jpg", "/p/f.json")
	if !out.Interrupted || out.Success {
		t.Fatalf("expected interrupted outcome, got %+v", out)
	}
	if len(runner.calls) != 0 || len(sink.paths) != 0 {
		t.Fatalf("expected no attempts or log entries, calls=%d log=%v", len(runner.calls), sink.paths)
	}
}

func TestBuildArgsTakeoutMode(t *testing.T) {
	args := BuildArgs(TierPlain, config.ImportModeTakeout, "-odd.jpg", "-odd.jpg.json")
	if args[len(args)-1] != "./-odd.jpg" {
		t.Fatalf("media path must be protected, got %v", args)
	}
	idx := slices.Index(args, "-TagsFromFile")
	if idx < 0 || args[idx+1] != "./-odd.jpg.json" {
		t.Fatalf("expected -TagsFromFile with sidecar, got %v", args)
	}
	if !slices.Contains(args, "-AllDates<PhotoTakenTimeTimestamp") {
		t.Fatalf("expected date mapping, got %v", args)
	}
	if slices.ContainsFunc(args, func(a string) bool { return strings.HasPrefix(a, "-json=") }) {
		t.Fatalf("takeout mode must not use -json=: %v", args)
	}
}

func TestTiersFor(t *testing.T) {
	if got := TiersFor(""); !slices.Equal(got, []Tier{TierPlain, TierStripThumbnail, TierStripPreview}) {
		t.Fatalf("unexpected default tiers %v", got)
	}
	if got := TiersFor(config.TiersTwoStage); !slices.Equal(got, []Tier{TierPlain, TierStripAll}) {
		t.Fatalf("unexpected two-stage tiers %v", got)
	}
}
