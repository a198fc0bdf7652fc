package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"mediamend/internal/discovery"
	"mediamend/internal/history"
	"mediamend/internal/logging"
	"mediamend/internal/services"
	"mediamend/internal/sidecar"
)

// Run normalizes extensions under root, then matches and embeds sidecar
// metadata for every media file. Per-file problems are counted in the
// summary; the returned error is reserved for a held lock, an unreadable
// root and cancellation.
func (r *Runner) Run(ctx context.Context, root string) (Summary, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return Summary{}, services.Wrap(services.ErrNotFound, "workflow", "resolve root", root, err)
	}
	if info, statErr := os.Stat(absRoot); statErr != nil || !info.IsDir() {
		if statErr == nil {
			statErr = errors.New("not a directory")
		}
		return Summary{}, services.Wrap(services.ErrNotFound, "workflow", "open root", absRoot, statErr)
	}

	if r.lock {
		release, err := acquireTreeLock(absRoot)
		if err != nil {
			return Summary{}, err
		}
		defer release()
	}

	runID := r.newID()
	ctx = services.WithRunID(ctx, runID)
	summary := newSummary(runID, absRoot, r.dryRun)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("run started",
		logging.String(logging.FieldEventType, "run_start"),
		logging.String("root", absRoot),
		logging.Bool("dry_run", r.dryRun),
	)
	r.startRecord(ctx, logger, runID, absRoot)

	runErr := r.execute(ctx, absRoot, &summary)
	r.finishRecord(ctx, logger, &summary, runErr)

	logger.Info("run complete",
		logging.String(logging.FieldEventType, "run_complete"),
		logging.Int("renamed", summary.Renamed),
		logging.Int("rename_skipped", summary.RenameSkipped),
		logging.Int("embedded", summary.Embedded),
		logging.Int("no_match", summary.NoMatch),
		logging.Int("failed", summary.Failed),
		logging.Int("planned", summary.Planned),
	)
	return summary, runErr
}

func (r *Runner) execute(ctx context.Context, root string, summary *Summary) error {
	if r.normalizeStage {
		if err := r.runNormalize(services.WithStage(ctx, StageNormalize), root, summary); err != nil {
			return err
		}
	}
	if r.embedStage {
		if err := r.runEmbed(services.WithStage(ctx, StageEmbed), root, summary); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runNormalize(ctx context.Context, root string, summary *Summary) error {
	result, err := r.normalizer.Normalize(ctx, root)
	summary.Renamed = result.MediaRenames()
	summary.RenameSkipped = len(result.Skips)
	for _, rn := range result.Renames {
		r.record(ctx, history.Event{Kind: history.EventRenamed, Path: rn.From, Target: rn.To, Detail: string(rn.Kind)})
	}
	for _, skip := range result.Skips {
		r.record(ctx, history.Event{Kind: history.EventRenameSkipped, Path: skip.Path, Target: skip.Target, Detail: skip.Reason})
	}
	return err
}

func (r *Runner) runEmbed(ctx context.Context, root string, summary *Summary) error {
	logger := logging.WithContext(ctx, r.logger)
	dirs, err := r.lister.Walk(ctx, root)
	if err != nil {
		return err
	}

	plans := make([]directoryPlan, 0, len(dirs))
	total := 0
	for _, dir := range dirs {
		plan := planDirectory(dir, r.matcher)
		total += len(plan.media)
		plans = append(plans, plan)
	}

	sampler := logging.NewProgressSampler(10)
	done := 0
	for _, plan := range plans {
		for _, media := range plan.media {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := r.processMedia(ctx, logger, plan, media, summary); err != nil {
				return err
			}
			done++
			if r.onProgress != nil {
				r.onProgress(Progress{Stage: StageEmbed, Done: done, Total: total, File: media.Path})
			}
			if sampler.ShouldLog(StageEmbed, done, total) {
				logger.Info("embedding progress",
					logging.String(logging.FieldEventType, "embed_progress"),
					logging.Int("done", done),
					logging.Int("total", total),
				)
			}
		}
	}
	return nil
}

func (r *Runner) processMedia(ctx context.Context, logger *slog.Logger, plan directoryPlan, media discovery.File, summary *Summary) error {
	fileLogger := logger.With(logging.String(logging.FieldFile, media.Path))
	match := r.matcher.Match(media.Path, plan.candidatesFor(media.Name))
	if r.onMatch != nil {
		r.onMatch(media.Path, match)
	}

	if !match.Found() {
		summary.NoMatch++
		fileLogger.Info("no metadata found", logging.Args(logging.DecisionAttrs("sidecar_match", string(sidecar.KindNone),
			"no exact, prefix or fuzzy candidate",
			logging.String(logging.FieldEventType, "no_match"),
		)...)...)
		r.record(ctx, history.Event{Kind: history.EventNoMatch, Path: media.Path, MatchKind: string(sidecar.KindNone)})
		return nil
	}
	summary.ByMatchKind[match.Kind]++
	fileLogger.Debug("sidecar matched", logging.Args(logging.DecisionAttrs("sidecar_match", string(match.Kind),
		matchReason(match),
		logging.String("sidecar", match.Path),
		logging.Float64("score", match.Score),
	)...)...)

	if r.dryRun {
		summary.Planned++
		return nil
	}

	outcome := r.embedder.Embed(ctx, media.Path, match.Path)
	if outcome.Interrupted {
		return ctx.Err()
	}
	ev := history.Event{
		Path:      media.Path,
		Target:    match.Path,
		MatchKind: string(match.Kind),
		Tier:      string(outcome.Tier),
	}
	if outcome.Success {
		summary.Embedded++
		ev.Kind = history.EventEmbedded
	} else {
		summary.Failed++
		summary.Failures = append(summary.Failures, outcome)
		ev.Kind = history.EventEmbedFailed
		ev.Detail = outcome.Diagnostic
	}
	r.record(ctx, ev)
	return nil
}

func acquireTreeLock(root string) (func(), error) {
	lockPath := filepath.Join(root, discovery.LockFileName)
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrPreflight, "workflow", "acquire lock", lockPath, err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrLocked, "workflow", "acquire lock",
			fmt.Sprintf("another mediamend run holds %s", lockPath), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

func (r *Runner) startRecord(ctx context.Context, logger *slog.Logger, runID, root string) {
	r.active = r.recorder
	if r.active == nil {
		return
	}
	if err := r.active.StartRun(ctx, runID, root, r.dryRun); err != nil {
		logging.WarnWithContext(logger, "run history unavailable", "history_error",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run not recorded in history"),
		)
		r.active = nil
	}
}

func (r *Runner) record(ctx context.Context, ev history.Event) {
	if r.active == nil {
		return
	}
	runID, _ := services.RunIDFromContext(ctx)
	ev.RunID = runID
	if err := r.active.RecordEvent(context.WithoutCancel(ctx), ev); err != nil {
		logging.WithContext(ctx, r.logger).Debug("history event not recorded", logging.Error(err))
	}
}

func (r *Runner) finishRecord(ctx context.Context, logger *slog.Logger, summary *Summary, runErr error) {
	if r.active == nil {
		return
	}
	status := history.StatusCompleted
	errMsg := ""
	switch {
	case runErr != nil && errors.Is(runErr, context.Canceled):
		status = history.StatusInterrupted
		errMsg = runErr.Error()
	case runErr != nil:
		status = history.StatusFailed
		errMsg = runErr.Error()
	case summary.Failed > 0:
		status = history.StatusIncomplete
	}
	if err := r.active.FinishRun(context.WithoutCancel(ctx), summary.RunID, status, summary.Counts(), errMsg); err != nil {
		logging.WarnWithContext(logger, "run history not finalized", "history_error",
			logging.Error(err),
			logging.String(logging.FieldImpact, "run shows as running in history"),
		)
	}
}

func matchReason(m sidecar.Match) string {
	switch m.Kind {
	case sidecar.KindExact:
		return "sidecar named after the media file"
	case sidecar.KindPrefix:
		return "sidecar name truncated by the export"
	case sidecar.KindFuzzy:
		return fmt.Sprintf("closest name similarity %.3f", m.Score)
	default:
		return ""
	}
}
