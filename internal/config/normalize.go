package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeExtensions()
	c.normalizeExclude()
	c.normalizeSniffer()
	c.normalizeMatching()
	c.normalizeMetadataTool()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.FailureLog) == "" {
		c.Paths.FailureLog = defaultFailureLog
	}
	if c.Paths.FailureLog, err = expandPath(c.Paths.FailureLog); err != nil {
		return fmt.Errorf("paths.failure_log: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
			return fmt.Errorf("paths.log_dir: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeExtensions() {
	if len(c.Normalize.Extensions) == 0 {
		return
	}
	normalized := make(map[string]string, len(c.Normalize.Extensions))
	for contentType, ext := range c.Normalize.Extensions {
		contentType = strings.ToLower(strings.TrimSpace(contentType))
		ext = strings.ToLower(strings.TrimSpace(ext))
		if contentType == "" || ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		normalized[contentType] = ext
	}
	c.Normalize.Extensions = normalized
}

func (c *Config) normalizeExclude() {
	patterns := c.Normalize.Exclude[:0]
	for _, pattern := range c.Normalize.Exclude {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, filepath.ToSlash(pattern))
		}
	}
	c.Normalize.Exclude = patterns
}

func (c *Config) normalizeSniffer() {
	c.Sniffer.Backend = strings.ToLower(strings.TrimSpace(c.Sniffer.Backend))
	if c.Sniffer.Backend == "" {
		c.Sniffer.Backend = defaultSnifferBackend
	}
	c.Sniffer.FileBinary = strings.TrimSpace(c.Sniffer.FileBinary)
	if c.Sniffer.FileBinary == "" {
		c.Sniffer.FileBinary = defaultFileBinary
	}
}

func (c *Config) normalizeMatching() {
	c.Matching.SidecarSuffix = strings.TrimSpace(c.Matching.SidecarSuffix)
	if c.Matching.SidecarSuffix == "" {
		c.Matching.SidecarSuffix = defaultSidecarSuffix
	}
}

func (c *Config) normalizeMetadataTool() {
	c.MetadataTool.Binary = strings.TrimSpace(c.MetadataTool.Binary)
	if value, ok := os.LookupEnv("MEDIAMEND_EXIFTOOL"); ok && strings.TrimSpace(value) != "" {
		if c.MetadataTool.Binary == "" || c.MetadataTool.Binary == defaultExiftoolBinary {
			c.MetadataTool.Binary = strings.TrimSpace(value)
		}
	}
	if c.MetadataTool.Binary == "" {
		c.MetadataTool.Binary = defaultExiftoolBinary
	}
	c.MetadataTool.ImportMode = strings.ToLower(strings.TrimSpace(c.MetadataTool.ImportMode))
	if c.MetadataTool.ImportMode == "" {
		c.MetadataTool.ImportMode = defaultImportMode
	}
	c.MetadataTool.Tiers = strings.ToLower(strings.TrimSpace(c.MetadataTool.Tiers))
	if c.MetadataTool.Tiers == "" {
		c.MetadataTool.Tiers = defaultTiers
	}
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = filepath.Join(c.Paths.StateDir, defaultHistoryFile)
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
