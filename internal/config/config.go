package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultBinSize puts every distinct word count in its own bin.
	DefaultBinSize = 1

	// AppName is the application name used for XDG directory paths.
	AppName = "wordhist"

	// LogFormatText selects "LEVEL: message key=value" log lines.
	LogFormatText = "text"

	// LogFormatJSON selects JSON log lines.
	LogFormatJSON = "json"

	// DefaultLogFormat is the log format used when none is given.
	DefaultLogFormat = LogFormatText
)

// Config holds all configuration options for a wordhist run.
// It is populated from CLI flags and the optional config file, then passed
// through the application rather than kept in global state.
type Config struct {
	// Root is the directory to traverse. Required.
	Root string

	// BinSize is the width of each histogram bin. Must be at least 1.
	BinSize int

	// IncludeZeroes back-fills empty bins below the highest bin seen.
	IncludeZeroes bool

	// Exclude holds gitignore-style patterns of paths to skip.
	// They are applied on top of the root's .wordhistignore file.
	Exclude []string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// LogFormat is LogFormatText or LogFormatJSON.
	LogFormat string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the usual locations (see FindConfigFile).
	ConfigFilePath string

	// JSONReport enables JSON report output instead of the ASCII table.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of the ASCII table.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// Summary appends run counters and the skipped document list to the
	// table output.
	Summary bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// DBDir is the directory holding the history database.
	// Defaults to XDG data directory (~/.local/share/wordhist on Linux).
	DBDir string

	// SaveToDB stores the run report in the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BinSize:   DefaultBinSize,
		LogFormat: DefaultLogFormat,
		DBDir:     XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for wordhist.
// On Linux: ~/.local/share/wordhist
// On macOS: ~/Library/Application Support/wordhist
// On Windows: %LOCALAPPDATA%\wordhist
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wordhist.
// On Linux: ~/.config/wordhist
// On macOS: ~/Library/Application Support/wordhist
// On Windows: %APPDATA%\wordhist
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
// Whether Root exists is checked later, when the run starts.
func (c *Config) Validate() error {
	if c.Root == "" {
		return ErrNoRoot
	}

	if c.BinSize < 1 {
		return ErrInvalidBinSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}

	return nil
}
