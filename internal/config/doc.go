// Package config loads, normalizes, and validates mediamend configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the MEDIAMEND_EXIFTOOL environment
// fallback. The Config type centralizes every knob the CLI and the workflow
// need: failure log location, sniffer backend, sidecar matching threshold,
// exiftool invocation, run history, and logging.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
