package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"mediamend/internal/exiftool"
	"mediamend/internal/services"
)

// inspectTags are the fields a Takeout import writes.
var inspectTags = []string{
	"DateTimeOriginal",
	"CreateDate",
	"ModifyDate",
	"GPSLatitude",
	"GPSLongitude",
	"GPSAltitude",
	"ImageDescription",
	"Description",
	"Title",
	"Keywords",
}

func newInspectCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Read back the metadata embedded in media files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reader, err := exiftool.OpenReader(cfg.ExiftoolBinary())
			if err != nil {
				return services.Wrap(services.ErrPreflight, "inspect", "start exiftool", cfg.ExiftoolBinary(), err)
			}
			defer reader.Close()

			results := reader.Read(args...)
			if jsonOutput {
				payload := make([]map[string]any, 0, len(results))
				for _, r := range results {
					entry := map[string]any{"file": r.File}
					if r.Err != nil {
						entry["error"] = r.Err.Error()
					} else {
						entry["tags"] = selectTags(r.Fields, all)
					}
					payload = append(payload, entry)
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			var readErrs int
			for _, r := range results {
				if r.Err != nil {
					readErrs++
					fmt.Fprintf(out, "%s: %v\n", r.File, r.Err)
					continue
				}
				tags := selectTags(r.Fields, all)
				keys := make([]string, 0, len(tags))
				for k := range tags {
					keys = append(keys, k)
				}
				sort.Strings(keys)
				rows := make([][]string, 0, len(keys))
				for _, k := range keys {
					rows = append(rows, []string{k, fmt.Sprint(tags[k])})
				}
				if len(rows) == 0 {
					rows = append(rows, []string{"(none)", ""})
				}
				fmt.Fprintln(out, renderTitledTable(r.File, []string{"Tag", "Value"}, rows, nil))
			}
			if readErrs > 0 {
				return services.Wrap(services.ErrExternalTool, "inspect", "read tags",
					fmt.Sprintf("%d of %d file(s) could not be read", readErrs, len(results)), nil)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every tag instead of the date, GPS and description fields")
	bindJSONFlag(cmd, &jsonOutput)
	return cmd
}

func selectTags(fields map[string]any, all bool) map[string]any {
	if all {
		return fields
	}
	selected := make(map[string]any)
	for _, name := range inspectTags {
		for key, value := range fields {
			if strings.EqualFold(key, name) {
				selected[key] = value
			}
		}
	}
	return selected
}
