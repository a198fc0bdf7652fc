package embed

import (
	"context"
	"log/slog"

	"mediamend/internal/exiftool"
	"mediamend/internal/failurelog"
	"mediamend/internal/logging"
)

// Outcome reports the result of embedding one media file.
type Outcome struct {
	Media      string
	Sidecar    string
	Success    bool
	Tier       Tier
	Attempts   int
	Diagnostic string
	// Interrupted is set when the context ended before the sequence completed.
	// Interrupted outcomes are not written to the failure log.
	Interrupted bool
}

// Options configure an Embedder.
type Options struct {
	TierSet    string
	ImportMode string
	Logger     *slog.Logger
}

// Embedder runs the escalating exiftool attempts.
type Embedder struct {
	runner exiftool.Runner
	sink   failurelog.Sink
	tiers  []Tier
	mode   string
	logger *slog.Logger
}

// New constructs an Embedder. A nil sink discards failures.
func New(runner exiftool.Runner, sink failurelog.Sink, opts Options) *Embedder {
	if sink == nil {
		sink = failurelog.Discard{}
	}
	return &Embedder{
		runner: runner,
		sink:   sink,
		tiers:  TiersFor(opts.TierSet),
		mode:   opts.ImportMode,
		logger: logging.NewComponentLogger(opts.Logger, "embedder"),
	}
}

// Tiers returns the attempt sequence in use.
func (e *Embedder) Tiers() []Tier {
	return append([]Tier(nil), e.tiers...)
}

// Embed writes sidecar metadata into media.
func (e *Embedder) Embed(ctx context.Context, media, sidecar string) Outcome {
	logger := logging.WithContext(ctx, e.logger).With(logging.String(logging.FieldFile, media))
	outcome := Outcome{Media: media, Sidecar: sidecar}

	for _, tier := range e.tiers {
		if err := ctx.Err(); err != nil {
			outcome.Interrupted = true
			outcome.Diagnostic = err.Error()
			return outcome
		}
		outcome.Tier = tier
		outcome.Attempts++

		res, err := e.runner.Run(ctx, BuildArgs(tier, e.mode, media, sidecar))
		if err != nil {
			outcome.Diagnostic = err.Error()
		} else if exiftool.Succeeded(res.Stdout, res.Stderr) {
			outcome.Success = true
			outcome.Diagnostic = ""
			logger.Info("metadata embedded",
				logging.String(logging.FieldEventType, "embed_succeeded"),
				logging.String("tier", string(tier)),
				logging.Int("attempts", outcome.Attempts),
			)
			return outcome
		} else {
			outcome.Diagnostic = exiftool.Diagnostic(res)
		}
		logger.Debug("embedding attempt failed",
			logging.String("tier", string(tier)),
			logging.String("diagnostic", outcome.Diagnostic),
		)
	}

	if ctx.Err() != nil {
		outcome.Interrupted = true
		return outcome
	}

	if err := e.sink.Append(media); err != nil {
		logging.ErrorWithContext(logger, "failure log write failed", "failure_log_error",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the failure log path is writable"),
		)
	}
	logging.WarnWithContext(logger, "metadata embedding failed on every tier", "embed_failed",
		logging.String("sidecar", sidecar),
		logging.String("diagnostic", outcome.Diagnostic),
		logging.Int("attempts", outcome.Attempts),
		logging.String(logging.FieldErrorHint, "inspect the file with exiftool -validate"),
		logging.String(logging.FieldImpact, "metadata not embedded; path recorded in failure log"),
	)
	return outcome
}
