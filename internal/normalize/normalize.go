package normalize

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"mediamend/internal/contenttype"
	"mediamend/internal/discovery"
	"mediamend/internal/fileutil"
	"mediamend/internal/logging"
)

// Kind identifies which half of a media/sidecar pair a rename applies to.
type Kind string

const (
	KindMedia   Kind = "media"
	KindSidecar Kind = "sidecar"
)

// Skip reasons.
const (
	ReasonTargetExists = "target_exists"
	ReasonRenameFailed = "rename_failed"
)

// Rename records one file moved (or, in dry-run mode, planned to move).
type Rename struct {
	Kind Kind
	From string
	To   string
}

// Skip records a rename that was not performed.
type Skip struct {
	Kind   Kind
	Path   string
	Target string
	Reason string
}

// Result aggregates the renames and skips of a pass.
type Result struct {
	Renames []Rename
	Skips   []Skip
}

// Mapping returns old path to new path for every renamed file.
func (r Result) Mapping() map[string]string {
	out := make(map[string]string, len(r.Renames))
	for _, rn := range r.Renames {
		out[rn.From] = rn.To
	}
	return out
}

func (r Result) plannedTarget(path string) bool {
	for _, rn := range r.Renames {
		if rn.To == path {
			return true
		}
	}
	return false
}

// MediaRenames counts renamed media files, excluding sidecars.
func (r Result) MediaRenames() int {
	n := 0
	for _, rn := range r.Renames {
		if rn.Kind == KindMedia {
			n++
		}
	}
	return n
}

// Resolver resolves the canonical extension of a file.
type Resolver interface {
	Resolve(ctx context.Context, path string) (contenttype.Result, error)
}

// Lister enumerates the files of a tree.
type Lister interface {
	Files(ctx context.Context, root string) ([]discovery.File, error)
}

// Options configure a Normalizer.
type Options struct {
	SidecarSuffix string
	DryRun        bool
	Logger        *slog.Logger
}

// Normalizer renames mismatched media files and their sidecars.
type Normalizer struct {
	resolver Resolver
	lister   Lister
	suffix   string
	dryRun   bool
	logger   *slog.Logger
}

// New constructs a Normalizer.
func New(resolver Resolver, lister Lister, opts Options) *Normalizer {
	return &Normalizer{
		resolver: resolver,
		lister:   lister,
		suffix:   opts.SidecarSuffix,
		dryRun:   opts.DryRun,
		logger:   logging.NewComponentLogger(opts.Logger, "normalizer"),
	}
}

// Normalize walks root and renames every file whose extension disagrees with
// its content. Only enumeration failure of root and context cancellation are
// returned as errors; the partial result is returned alongside them.
func (n *Normalizer) Normalize(ctx context.Context, root string) (Result, error) {
	var result Result
	files, err := n.lister.Files(ctx, root)
	if err != nil {
		return result, err
	}
	logger := logging.WithContext(ctx, n.logger)

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if IsSidecar(file.Name, n.suffix) {
			continue
		}
		n.normalizeFile(ctx, logger, file, &result)
	}

	logger.Info("normalization complete",
		logging.String(logging.FieldEventType, "normalize_complete"),
		logging.Int("renamed", result.MediaRenames()),
		logging.Int("skipped", len(result.Skips)),
		logging.Bool("dry_run", n.dryRun),
	)
	return result, nil
}

func (n *Normalizer) normalizeFile(ctx context.Context, logger *slog.Logger, file discovery.File, result *Result) {
	fileLogger := logger.With(logging.String(logging.FieldFile, file.Path))

	resolved, err := n.resolver.Resolve(ctx, file.Path)
	if err != nil {
		logging.WarnWithContext(fileLogger, "content type detection failed", "sniff_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the file is readable"),
		)
		return
	}
	if !resolved.Known {
		fileLogger.Debug("leaving name unchanged", logging.Args(logging.DecisionAttrs("extension", "unchanged",
			"unknown content type",
			logging.String("mime", resolved.MIME),
		)...)...)
		return
	}
	if strings.EqualFold(file.Ext, resolved.Extension) {
		return
	}

	newName := strings.TrimSuffix(file.Name, file.Ext) + resolved.Extension
	target := filepath.Join(filepath.Dir(file.Path), newName)
	if !n.move(fileLogger, KindMedia, file.Path, target, result) {
		return
	}
	fileLogger.Info("renamed media file",
		logging.String(logging.FieldEventType, "media_renamed"),
		logging.String("to", target),
		logging.String("mime", resolved.MIME),
	)

	oldSidecar := file.Path + n.suffix
	exists, err := fileutil.Exists(oldSidecar)
	if err != nil || !exists {
		return
	}
	newSidecar := target + n.suffix
	if n.move(fileLogger, KindSidecar, oldSidecar, newSidecar, result) {
		fileLogger.Info("renamed sidecar",
			logging.String(logging.FieldEventType, "sidecar_renamed"),
			logging.String("to", newSidecar),
		)
	}
}

// move renames from to to unless the target exists, recording the outcome.
func (n *Normalizer) move(logger *slog.Logger, kind Kind, from, to string, result *Result) bool {
	exists, err := fileutil.Exists(to)
	if err == nil && !exists && n.dryRun {
		exists = result.plannedTarget(to)
	}
	if err == nil && exists {
		n.skip(logger, kind, from, to, ReasonTargetExists, nil, result)
		return false
	}
	if !n.dryRun {
		if err := fileutil.RenameNoReplace(from, to); err != nil {
			reason := ReasonRenameFailed
			if errors.Is(err, fileutil.ErrTargetExists) {
				reason = ReasonTargetExists
			}
			n.skip(logger, kind, from, to, reason, err, result)
			return false
		}
	}
	result.Renames = append(result.Renames, Rename{Kind: kind, From: from, To: to})
	return true
}

func (n *Normalizer) skip(logger *slog.Logger, kind Kind, from, to, reason string, err error, result *Result) {
	result.Skips = append(result.Skips, Skip{Kind: kind, Path: from, Target: to, Reason: reason})
	attrs := []logging.Attr{
		logging.String("kind", string(kind)),
		logging.String("target", to),
		logging.String("reason", reason),
		logging.String(logging.FieldImpact, "name left unchanged"),
	}
	if err != nil {
		attrs = append(attrs, logging.Error(err))
	}
	if reason == ReasonTargetExists {
		attrs = append(attrs, logging.String(logging.FieldErrorHint, "resolve the duplicate name manually"))
	}
	logging.WarnWithContext(logger, "rename skipped", "rename_skipped", attrs...)
}

// IsSidecar reports whether name carries the sidecar suffix (case-insensitive).
func IsSidecar(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	return len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix)
}
