package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoRoot is returned when no root directory is specified.
	ErrNoRoot = errors.New("no root directory specified")

	// ErrInvalidBinSize is returned when the bin size is less than 1.
	// Bins are computed by integer division, so zero is never valid.
	ErrInvalidBinSize = errors.New("invalid bin size: must be at least 1")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidFormat is returned when the config file names an unknown
	// report format.
	ErrInvalidFormat = errors.New("invalid format: must be one of table, markdown, json")

	// ErrInvalidLogFormat is returned when the log format is neither text nor json.
	ErrInvalidLogFormat = errors.New("invalid log format: must be text or json")
)
