package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mediamend/internal/config"
	"mediamend/internal/history"
	"mediamend/internal/logging"
	"mediamend/internal/preflight"
	"mediamend/internal/services"
	"mediamend/internal/workflow"
)

// overrideFlags are the config fields a single invocation may override.
type overrideFlags struct {
	failureLog     string
	importMode     string
	tiers          string
	sniffer        string
	fuzzyThreshold float64
	noHistory      bool
}

func (o *overrideFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.failureLog, "failure-log", "", "Failure log path (overrides paths.failure_log)")
	cmd.Flags().StringVar(&o.importMode, "import-mode", "", "Metadata import mode: json or takeout")
	cmd.Flags().StringVar(&o.tiers, "tiers", "", "Embedding tiers: two-stage or three-stage")
	cmd.Flags().StringVar(&o.sniffer, "sniffer", "", "Content sniffer backend: filetype or file")
	cmd.Flags().Float64Var(&o.fuzzyThreshold, "fuzzy-threshold", -1, "Minimum similarity for fuzzy sidecar matches (0-1)")
	cmd.Flags().BoolVar(&o.noHistory, "no-history", false, "Do not record this run in the history database")
}

// apply returns a copy of base with the overrides applied and validated.
func (o *overrideFlags) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	if v := strings.TrimSpace(o.failureLog); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "config", "failure log", v, err)
		}
		cfg.Paths.FailureLog = expanded
	}
	if v := strings.TrimSpace(o.importMode); v != "" {
		cfg.MetadataTool.ImportMode = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.tiers); v != "" {
		cfg.MetadataTool.Tiers = strings.ToLower(v)
	}
	if v := strings.TrimSpace(o.sniffer); v != "" {
		cfg.Sniffer.Backend = strings.ToLower(v)
	}
	if o.fuzzyThreshold >= 0 {
		cfg.Matching.FuzzyThreshold = o.fuzzyThreshold
	}
	if o.noHistory {
		cfg.History.Enabled = false
	}
	if err := cfg.Validate(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", "validate overrides", "", err)
	}
	return &cfg, nil
}

type repairOptions struct {
	normalize  bool
	embed      bool
	dryRun     bool
	noProgress bool
	overrides  overrideFlags
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	opts := &repairOptions{normalize: true, embed: true}
	cmd := &cobra.Command{
		Use:   "run <root>",
		Short: "Normalize extensions, then embed sidecar metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, ctx, args[0], opts)
		},
	}
	bindRepairFlags(cmd, opts)
	return cmd
}

func newNormalizeCommand(ctx *commandContext) *cobra.Command {
	opts := &repairOptions{normalize: true}
	cmd := &cobra.Command{
		Use:   "normalize <root>",
		Short: "Rename media files whose extension does not match their content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, ctx, args[0], opts)
		},
	}
	bindRepairFlags(cmd, opts)
	return cmd
}

func newEmbedCommand(ctx *commandContext) *cobra.Command {
	opts := &repairOptions{embed: true}
	cmd := &cobra.Command{
		Use:   "embed <root>",
		Short: "Embed sidecar metadata without renaming files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepair(cmd, ctx, args[0], opts)
		},
	}
	bindRepairFlags(cmd, opts)
	return cmd
}

func bindRepairFlags(cmd *cobra.Command, opts *repairOptions) {
	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "Report planned renames and matches without changing files")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable the progress bar")
	opts.overrides.bind(cmd)
}

func runRepair(cmd *cobra.Command, ctx *commandContext, root string, opts *repairOptions) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := opts.overrides.apply(base)
	if err != nil {
		return err
	}
	rootPath, err := preflight.RootPath(root)
	if err != nil {
		return err
	}
	checks := preflight.RunAll(cmd.Context(), cfg, rootPath, preflight.Options{
		DryRun: opts.dryRun,
		Embed:  opts.embed,
	})
	if err := preflight.Require(checks); err != nil {
		return err
	}

	logger, err := ctx.logger(cmd, cfg)
	if err != nil {
		return err
	}

	runnerOpts := []workflow.Option{workflow.WithStages(opts.normalize, opts.embed)}
	if cfg.History.Enabled {
		store, err := history.Open(cfg)
		if err != nil {
			logging.WarnWithContext(logger, "history database unavailable", "history_error",
				logging.Error(err),
				logging.String(logging.FieldImpact, "run not recorded in history"),
			)
		} else {
			defer store.Close()
			runnerOpts = append(runnerOpts, workflow.WithRecorder(store))
		}
	}

	out := cmd.OutOrStdout()
	bar := newProgressReporter(out, opts.noProgress)
	runnerOpts = append(runnerOpts, workflow.WithProgress(bar.Update))

	runner, err := workflow.NewFromConfig(cfg, logger, opts.dryRun, runnerOpts...)
	if err != nil {
		return err
	}
	summary, runErr := runner.Run(cmd.Context(), rootPath)
	bar.Finish()

	if summary.RunID != "" {
		renderSummary(out, summary, cfg.Paths.FailureLog)
	}
	if runErr != nil {
		return runErr
	}
	return summary.Err()
}

func renderSummary(out io.Writer, summary workflow.Summary, failureLog string) {
	title := "Run summary"
	if summary.DryRun {
		title = "Run summary (dry run)"
	}
	rows := [][]string{
		{"Run ID", summary.RunID},
		{"Root", summary.Root},
		{"Renamed", fmt.Sprint(summary.Renamed)},
		{"Rename skipped", fmt.Sprint(summary.RenameSkipped)},
		{"Embedded", fmt.Sprint(summary.Embedded)},
		{"No metadata", fmt.Sprint(summary.NoMatch)},
		{"Failed", fmt.Sprint(summary.Failed)},
	}
	if summary.DryRun {
		rows = append(rows, []string{"Would embed", fmt.Sprint(summary.Planned)})
	}
	for _, kind := range matchKindOrder {
		if n := summary.ByMatchKind[kind]; n > 0 {
			rows = append(rows, []string{"Matched " + string(kind), fmt.Sprint(n)})
		}
	}
	fmt.Fprintln(out, renderTitledTable(title, []string{"Item", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if len(summary.Failures) == 0 {
		return
	}
	failRows := make([][]string, 0, len(summary.Failures))
	for _, f := range summary.Failures {
		failRows = append(failRows, []string{f.Media, fmt.Sprint(f.Attempts), truncate(f.Diagnostic, 80)})
	}
	fmt.Fprintln(out, renderTitledTable("Failed files", []string{"File", "Attempts", "Last error"}, failRows,
		[]columnAlignment{alignLeft, alignRight, alignLeft}))
	fmt.Fprintf(out, "Failed paths appended to %s\n", failureLog)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
