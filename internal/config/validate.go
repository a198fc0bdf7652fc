package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSniffer(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateMetadataTool(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSniffer() error {
	switch c.Sniffer.Backend {
	case SnifferFiletype, SnifferFile:
		return nil
	default:
		return fmt.Errorf("sniffer.backend: unsupported value %q (want %q or %q)", c.Sniffer.Backend, SnifferFiletype, SnifferFile)
	}
}

func (c *Config) validateMatching() error {
	if c.Matching.FuzzyThreshold < 0 || c.Matching.FuzzyThreshold > 1 {
		return errors.New("matching.fuzzy_threshold must be between 0 and 1")
	}
	if !strings.HasSuffix(strings.ToLower(c.Matching.SidecarSuffix), ".json") {
		return fmt.Errorf("matching.sidecar_suffix must end in .json, got %q", c.Matching.SidecarSuffix)
	}
	return nil
}

func (c *Config) validateMetadataTool() error {
	switch c.MetadataTool.ImportMode {
	case ImportModeJSON, ImportModeTakeout:
	default:
		return fmt.Errorf("metadata_tool.import_mode: unsupported value %q", c.MetadataTool.ImportMode)
	}
	switch c.MetadataTool.Tiers {
	case TiersThreeStage, TiersTwoStage:
	default:
		return fmt.Errorf("metadata_tool.tiers: unsupported value %q", c.MetadataTool.Tiers)
	}
	if c.MetadataTool.TimeoutSeconds < 0 {
		return errors.New("metadata_tool.timeout_seconds must be zero or positive")
	}
	return nil
}

func (c *Config) validateNormalize() error {
	for contentType, ext := range c.Normalize.Extensions {
		if !strings.Contains(contentType, "/") {
			return fmt.Errorf("normalize.extensions: %q is not a content type", contentType)
		}
		if strings.ContainsAny(ext[1:], "./\\") {
			return fmt.Errorf("normalize.extensions: invalid extension %q for %s", ext, contentType)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
