package config

const (
	defaultConfigPath     = "~/.config/mediamend/config.toml"
	defaultFailureLog     = "failed_metadata_log.txt"
	defaultStateDir       = "~/.local/share/mediamend"
	defaultHistoryFile    = "history.db"
	defaultSnifferBackend = SnifferFiletype
	defaultFileBinary     = "file"
	defaultSidecarSuffix  = ".supplemental-metadata.json"
	defaultFuzzyThreshold = 0.6
	defaultExiftoolBinary = "exiftool"
	defaultImportMode     = ImportModeJSON
	defaultTiers          = TiersThreeStage
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Sniffer backends.
const (
	SnifferFiletype = "filetype"
	SnifferFile     = "file"
)

// Metadata import modes.
const (
	// ImportModeJSON hands the sidecar to exiftool with -json=<sidecar>.
	ImportModeJSON = "json"
	// ImportModeTakeout copies mapped Takeout fields with -TagsFromFile.
	ImportModeTakeout = "takeout"
)

// Stripping tier sets.
const (
	TiersThreeStage = "three-stage"
	TiersTwoStage   = "two-stage"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FailureLog: defaultFailureLog,
			StateDir:   defaultStateDir,
		},
		Normalize: Normalize{
			Exclude: []string{"**/.*"},
		},
		Sniffer: Sniffer{
			Backend:    defaultSnifferBackend,
			FileBinary: defaultFileBinary,
		},
		Matching: Matching{
			SidecarSuffix:  defaultSidecarSuffix,
			FuzzyThreshold: defaultFuzzyThreshold,
		},
		MetadataTool: MetadataTool{
			Binary:     defaultExiftoolBinary,
			ImportMode: defaultImportMode,
			Tiers:      defaultTiers,
		},
		History: History{
			Enabled: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
