package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mediamend/internal/config"
	"mediamend/internal/failurelog"
	"mediamend/internal/history"
	"mediamend/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var handshake bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status [root]",
		Short: "Report configuration, dependencies and preflight checks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			var report statusReport
			report.add("Configuration",
				infoLine("Config file", ctx.configPath),
				infoLine("Import mode", cfg.MetadataTool.ImportMode),
				infoLine("Tiers", cfg.MetadataTool.Tiers),
				infoLine("Sniffer", cfg.Sniffer.Backend),
				infoLine("Fuzzy threshold", fmt.Sprintf("%.2f", cfg.Matching.FuzzyThreshold)),
				infoLine("Failure log", cfg.Paths.FailureLog),
				failureLogStatusLine(cfg),
			)

			var checks []preflight.Result
			if len(args) == 1 {
				root, err := preflight.RootPath(args[0])
				if err != nil {
					return err
				}
				checks = preflight.RunAll(cmd.Context(), cfg, root, preflight.Options{Embed: true})
			} else {
				for _, s := range preflight.CheckSystemDeps(cfg, true) {
					checks = append(checks, preflight.FromStatus(s))
				}
			}
			if handshake {
				checks = append(checks, preflight.CheckExiftool(cfg.ExiftoolBinary()))
			}
			checkLines := make([]statusLine, 0, len(checks))
			for _, c := range checks {
				checkLines = append(checkLines, checkLine(c))
			}
			report.add("Checks", checkLines...)
			report.add("History", historyStatusLine(cmd, cfg))
			report.finish()

			if jsonOutput {
				if err := writeJSON(cmd, report); err != nil {
					return err
				}
			} else {
				out := cmd.OutOrStdout()
				if err := report.render(out, isTerminal(out)); err != nil {
					return err
				}
			}
			return preflight.Require(checks)
		},
	}

	cmd.Flags().BoolVar(&handshake, "handshake", false, "Start an exiftool session to verify the binary works")
	bindJSONFlag(cmd, &jsonOutput)
	return cmd
}

func historyStatusLine(cmd *cobra.Command, cfg *config.Config) statusLine {
	line := statusLine{Label: "Run journal", Kind: statusError}
	if !cfg.History.Enabled {
		return infoLine(line.Label, "disabled")
	}
	store, err := history.Open(cfg)
	if err != nil {
		line.Detail = err.Error()
		return line
	}
	defer store.Close()
	runs, err := store.ListRuns(cmd.Context(), 1)
	if err != nil {
		line.Detail = err.Error()
		return line
	}
	if len(runs) == 0 {
		return statusLine{Label: line.Label, Kind: statusOK, Detail: store.Path() + " (no runs yet)"}
	}
	last := runs[0]
	return statusLine{
		Label: "Last run",
		Kind:  statusOK,
		Detail: fmt.Sprintf("%s %s at %s (%d embedded, %d failed)", shortID(last.ID), last.Status,
			last.StartedAt.Local().Format("2006-01-02 15:04"), last.Counts.Embedded, last.Counts.Failed),
	}
}

// failureLogStatusLine counts the media paths waiting for a manual fix.
func failureLogStatusLine(cfg *config.Config) statusLine {
	line := statusLine{Label: "Failed embeds"}
	entries, err := failurelog.ReadAll(cfg.Paths.FailureLog)
	switch {
	case err != nil:
		line.Kind, line.Detail = statusError, err.Error()
	case len(entries) == 0:
		line.Kind, line.Detail = statusOK, "none recorded"
	default:
		line.Kind, line.Detail = statusWarn, fmt.Sprintf("%d recorded", len(entries))
	}
	return line
}
