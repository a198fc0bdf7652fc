package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"mediamend/internal/discovery"
	"mediamend/internal/embed"
	"mediamend/internal/history"
	"mediamend/internal/logging"
	"mediamend/internal/normalize"
	"mediamend/internal/sidecar"
)

// Stage names stamped on logs and progress updates.
const (
	StageNormalize = "normalize"
	StageEmbed     = "embed"
)

// Normalizer renames mismatched media files.
type Normalizer interface {
	Normalize(ctx context.Context, root string) (normalize.Result, error)
}

// Lister enumerates the tree grouped by directory.
type Lister interface {
	Walk(ctx context.Context, root string) ([]discovery.Directory, error)
}

// Embedder writes sidecar metadata into a media file.
type Embedder interface {
	Embed(ctx context.Context, media, sidecar string) embed.Outcome
}

// Recorder persists the run journal. *history.Store satisfies it.
type Recorder interface {
	StartRun(ctx context.Context, id, root string, dryRun bool) error
	RecordEvent(ctx context.Context, ev history.Event) error
	FinishRun(ctx context.Context, id string, status history.Status, counts history.Counts, errMsg string) error
}

// Progress is reported after each file of a stage.
type Progress struct {
	Stage string
	Done  int
	Total int
	File  string
}

// Runner drives a full repair run over one tree. A Runner executes one run
// at a time.
type Runner struct {
	normalizer Normalizer
	lister     Lister
	matcher    *sidecar.Matcher
	embedder   Embedder
	recorder   Recorder
	active     Recorder
	logger     *slog.Logger

	normalizeStage bool
	embedStage     bool
	dryRun         bool
	lock           bool
	onProgress     func(Progress)
	onMatch        func(media string, m sidecar.Match)
	newID          func() string
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the base logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithRecorder enables the run journal.
func WithRecorder(rec Recorder) Option {
	return func(r *Runner) {
		r.recorder = rec
	}
}

// WithStages selects which stages run. Both run by default.
func WithStages(normalizeFiles, embedMetadata bool) Option {
	return func(r *Runner) {
		r.normalizeStage = normalizeFiles
		r.embedStage = embedMetadata
	}
}

// WithDryRun reports matches without invoking the embedder and skips the tree
// lock. The normalizer must be constructed in dry-run mode separately.
func WithDryRun(enabled bool) Option {
	return func(r *Runner) {
		r.dryRun = enabled
	}
}

// WithoutLock disables the advisory tree lock.
func WithoutLock() Option {
	return func(r *Runner) {
		r.lock = false
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn func(Progress)) Option {
	return func(r *Runner) {
		r.onProgress = fn
	}
}

// WithMatchObserver registers a callback invoked with every match decision.
func WithMatchObserver(fn func(media string, m sidecar.Match)) Option {
	return func(r *Runner) {
		r.onMatch = fn
	}
}

// WithIDGenerator overrides run identifier generation (tests).
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}

// NewRunner constructs a Runner from its collaborators.
func NewRunner(normalizer Normalizer, lister Lister, matcher *sidecar.Matcher, embedder Embedder, opts ...Option) *Runner {
	r := &Runner{
		normalizer:     normalizer,
		lister:         lister,
		matcher:        matcher,
		embedder:       embedder,
		normalizeStage: true,
		embedStage:     true,
		lock:           true,
		newID:          uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "workflow")
	if r.dryRun {
		r.lock = false
	}
	return r
}
