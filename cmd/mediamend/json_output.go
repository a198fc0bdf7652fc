package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// bindJSONFlag registers the --json flag shared by the reporting commands.
func bindJSONFlag(cmd *cobra.Command, target *bool) {
	cmd.Flags().BoolVar(target, "json", false, "Output as JSON")
}

// writeJSON encodes v as indented JSON to the command's stdout. HTML escaping
// is off so media paths containing & or < print as they are on disk.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json output: %w", err)
	}
	return nil
}
