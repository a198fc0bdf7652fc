// Package services defines shared utilities consumed by the workflow stages
// and the CLI.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers and stage names for logging.
//   - Structured error markers plus the Wrap helper, and ExitCode which maps
//     those markers onto the CLI's process exit codes.
package services
