// Package log provides the loggers used by wordhist, built on top of the
// standard slog package.
//
// This package extends slog to provide:
//   - A console handler writing one "LEVEL: message key=value" line per record
//   - Escaping of control characters in file names before they reach a terminal
//   - Configurable log levels with verbose mode support
//
// # Usage
//
//	logger := log.NewConsoleLogger(os.Stderr, verbose)
//	logger.Warn("document skipped", "path", "notes/bad.txt", "reason", "invalid_text")
//	// WARN: document skipped path=notes/bad.txt reason=invalid_text
//
//	// JSON lines for machine consumption
//	logger = log.NewJSONLogger(os.Stderr, verbose)
package log
