// Package main hosts the mediamend CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration, applies flag overrides,
// runs preflight checks and then hands the media tree to the workflow
// runner. Exit codes come from services.ExitCode so scripts can tell a
// clean run from terminal embedding failures, configuration problems, a
// failed preflight, a held tree lock, or an interrupt.
//
// Keep this package thin: behaviour lives in internal packages and is only
// surfaced here as commands and flags.
package main
