package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations used outside the media tree.
type Paths struct {
	FailureLog string `toml:"failure_log"`
	StateDir   string `toml:"state_dir"`
	LogDir     string `toml:"log_dir"`
}

// Normalize controls the extension normalization pass.
type Normalize struct {
	// Extensions adds or overrides content type to extension mappings.
	Extensions map[string]string `toml:"extensions"`
	// Exclude lists doublestar patterns, relative to the root, that are never visited.
	Exclude []string `toml:"exclude"`
}

// Sniffer selects the content type detection backend.
type Sniffer struct {
	Backend    string `toml:"backend"`
	FileBinary string `toml:"file_binary"`
}

// Matching contains sidecar matching settings.
type Matching struct {
	SidecarSuffix  string  `toml:"sidecar_suffix"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"`
}

// MetadataTool contains exiftool invocation settings.
type MetadataTool struct {
	Binary         string `toml:"binary"`
	ImportMode     string `toml:"import_mode"`
	Tiers          string `toml:"tiers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// History contains configuration for the run journal.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mediamend.
//
// Configuration sections by subsystem:
//   - Paths: failure log, state and log locations
//   - Normalize: extension table overrides and exclusion globs
//   - Sniffer: content type detection backend
//   - Matching: sidecar suffix and fuzzy acceptance threshold
//   - MetadataTool: exiftool binary, import mode and stripping tiers
//   - History: SQLite run journal
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Normalize    Normalize    `toml:"normalize"`
	Sniffer      Sniffer      `toml:"sniffer"`
	Matching     Matching     `toml:"matching"`
	MetadataTool MetadataTool `toml:"metadata_tool"`
	History      History      `toml:"history"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mediamend.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the state directory and, when configured, the log directory.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.StateDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ExiftoolBinary returns the exiftool executable used for embedding.
func (c *Config) ExiftoolBinary() string {
	if bin := strings.TrimSpace(c.MetadataTool.Binary); bin != "" {
		return bin
	}
	return defaultExiftoolBinary
}

// FileBinary returns the libmagic file executable used by the "file" sniffer backend.
func (c *Config) FileBinary() string {
	if bin := strings.TrimSpace(c.Sniffer.FileBinary); bin != "" {
		return bin
	}
	return defaultFileBinary
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
