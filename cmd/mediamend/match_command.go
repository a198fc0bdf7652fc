package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"mediamend/internal/preflight"
	"mediamend/internal/sidecar"
	"mediamend/internal/workflow"
)

type matchRow struct {
	Media   string  `json:"media"`
	Sidecar string  `json:"sidecar,omitempty"`
	Kind    string  `json:"kind"`
	Score   float64 `json:"score,omitempty"`
}

func newMatchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var unmatchedOnly bool
	var overrides overrideFlags

	cmd := &cobra.Command{
		Use:   "match <root>",
		Short: "Show which sidecar each media file would use",
		Long:  "match walks the tree as it is now and prints the sidecar decision for every media file. Nothing is renamed or embedded.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			overrides.noHistory = true
			cfg, err := overrides.apply(base)
			if err != nil {
				return err
			}
			rootPath, err := preflight.RootPath(args[0])
			if err != nil {
				return err
			}
			logger, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}

			var rows []matchRow
			observer := func(media string, m sidecar.Match) {
				if unmatchedOnly && m.Found() {
					return
				}
				row := matchRow{Media: relativeTo(rootPath, media), Kind: string(m.Kind)}
				if m.Found() {
					row.Sidecar = relativeTo(rootPath, m.Path)
					row.Score = m.Score
				}
				rows = append(rows, row)
			}
			runner, err := workflow.NewFromConfig(cfg, logger, true,
				workflow.WithStages(false, true),
				workflow.WithMatchObserver(observer),
			)
			if err != nil {
				return err
			}
			summary, err := runner.Run(cmd.Context(), rootPath)
			if err != nil {
				return err
			}

			if jsonOutput {
				return writeJSON(cmd, rows)
			}
			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No media files to report")
				return nil
			}
			tableRows := make([][]string, 0, len(rows))
			for _, r := range rows {
				score := ""
				if r.Kind == string(sidecar.KindFuzzy) {
					score = fmt.Sprintf("%.3f", r.Score)
				}
				tableRows = append(tableRows, []string{r.Media, r.Sidecar, r.Kind, score})
			}
			fmt.Fprintln(out, renderTable([]string{"Media", "Sidecar", "Match", "Score"}, tableRows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			fmt.Fprintf(out, "%d matched, %d without metadata\n", summary.Planned, summary.NoMatch)
			return nil
		},
	}

	bindJSONFlag(cmd, &jsonOutput)
	cmd.Flags().BoolVar(&unmatchedOnly, "unmatched", false, "Only list media files without a sidecar")
	cmd.Flags().StringVar(&overrides.sniffer, "sniffer", "", "Content sniffer backend: filetype or file")
	cmd.Flags().Float64Var(&overrides.fuzzyThreshold, "fuzzy-threshold", -1, "Minimum similarity for fuzzy sidecar matches (0-1)")
	return cmd
}

func relativeTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}
