package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mediamend/internal/history"
	"mediamend/internal/services"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect the run journal",
	}

	historyCmd.AddCommand(newHistoryListCommand(ctx))
	historyCmd.AddCommand(newHistoryShowCommand(ctx))
	historyCmd.AddCommand(newHistoryPruneCommand(ctx))

	return historyCmd
}

func newHistoryListCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, runs)
				}
				if len(runs) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"ID", "Started", "Status", "Dry run", "Renamed", "Embedded", "No match", "Failed", "Root"},
					buildRunRows(runs),
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to list (0 for all)")
	bindJSONFlag(cmd, &jsonOutput)
	return cmd
}

func buildRunRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			shortID(run.ID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Status),
			yesNo(run.DryRun),
			fmt.Sprint(run.Counts.Renamed),
			fmt.Sprint(run.Counts.Embedded),
			fmt.Sprint(run.Counts.NoMatch),
			fmt.Sprint(run.Counts.Failed),
			run.Root,
		})
	}
	return rows
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	var kind string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one run and its per-file events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHistory(func(store *history.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if run == nil {
					return services.Wrap(services.ErrNotFound, "history", "show", fmt.Sprintf("run %q", args[0]), nil)
				}
				events, err := store.Events(cmd.Context(), run.ID, history.EventKind(strings.TrimSpace(kind)))
				if err != nil {
					return err
				}
				if jsonOutput {
					return writeJSON(cmd, struct {
						Run    *history.Run    `json:"run"`
						Events []history.Event `json:"events"`
					}{run, events})
				}

				out := cmd.OutOrStdout()
				rows := [][]string{
					{"ID", run.ID},
					{"Root", run.Root},
					{"Status", string(run.Status)},
					{"Dry run", yesNo(run.DryRun)},
					{"Started", run.StartedAt.Local().Format(time.RFC3339)},
					{"Duration", formatDuration(run.Duration())},
					{"Renamed", fmt.Sprint(run.Counts.Renamed)},
					{"Rename skipped", fmt.Sprint(run.Counts.RenameSkipped)},
					{"Embedded", fmt.Sprint(run.Counts.Embedded)},
					{"No match", fmt.Sprint(run.Counts.NoMatch)},
					{"Failed", fmt.Sprint(run.Counts.Failed)},
				}
				if run.ErrorMessage != "" {
					rows = append(rows, []string{"Error", run.ErrorMessage})
				}
				fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

				if len(events) == 0 {
					fmt.Fprintln(out, "No events recorded")
					return nil
				}
				eventRows := make([][]string, 0, len(events))
				for _, ev := range events {
					eventRows = append(eventRows, []string{
						string(ev.Kind),
						relativeTo(run.Root, ev.Path),
						relativeTo(run.Root, ev.Target),
						ev.MatchKind,
						ev.Tier,
						truncate(ev.Detail, 60),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Event", "Path", "Target", "Match", "Tier", "Detail"},
					eventRows,
					nil,
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "Only show events of this kind (renamed, rename_skipped, embedded, no_match, embed_failed)")
	bindJSONFlag(cmd, &jsonOutput)
	return cmd
}

func newHistoryPruneCommand(ctx *commandContext) *cobra.Command {
	var keep int

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old runs, keeping the newest",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep < 0 {
				return services.Wrap(services.ErrConfiguration, "history", "prune", "--keep must be >= 0", nil)
			}
			return ctx.withHistory(func(store *history.Store) error {
				removed, err := store.Prune(cmd.Context(), keep)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d run(s)\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&keep, "keep", 50, "Number of most recent runs to keep")
	return cmd
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	return d.Round(time.Millisecond).String()
}
