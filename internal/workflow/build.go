package workflow

import (
	"log/slog"
	"time"

	"mediamend/internal/config"
	"mediamend/internal/contenttype"
	"mediamend/internal/discovery"
	"mediamend/internal/embed"
	"mediamend/internal/exiftool"
	"mediamend/internal/failurelog"
	"mediamend/internal/normalize"
	"mediamend/internal/services"
	"mediamend/internal/sidecar"
)

// NewFromConfig wires the production collaborators described by cfg.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, dryRun bool, opts ...Option) (*Runner, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "build runner", "config is nil", nil)
	}
	resolver, err := contenttype.NewResolverFromConfig(cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "workflow", "build resolver", "", err)
	}

	walker := discovery.NewWalker(cfg.Normalize.Exclude,
		discovery.WithSkipPaths(cfg.Paths.FailureLog),
		discovery.WithLogger(logger),
	)
	normalizer := normalize.New(resolver, walker, normalize.Options{
		SidecarSuffix: cfg.Matching.SidecarSuffix,
		DryRun:        dryRun,
		Logger:        logger,
	})
	matcher := sidecar.NewMatcher(cfg.Matching.SidecarSuffix, cfg.Matching.FuzzyThreshold)

	timeout := time.Duration(cfg.MetadataTool.TimeoutSeconds) * time.Second
	embedder := embed.New(
		exiftool.NewCommandRunner(cfg.ExiftoolBinary(), timeout),
		failurelog.NewFile(cfg.Paths.FailureLog),
		embed.Options{
			TierSet:    cfg.MetadataTool.Tiers,
			ImportMode: cfg.MetadataTool.ImportMode,
			Logger:     logger,
		},
	)

	base := []Option{WithLogger(logger), WithDryRun(dryRun)}
	return NewRunner(normalizer, walker, matcher, embedder, append(base, opts...)...), nil
}
