package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordhist/internal/config"
	"github.com/nao1215/wordhist/internal/database"
	"github.com/nao1215/wordhist/internal/engine"
	"github.com/nao1215/wordhist/internal/log"
	"github.com/nao1215/wordhist/internal/model"
	"github.com/nao1215/wordhist/internal/report"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Build a distinct-word histogram of a directory tree",
		Long: `Scan walks the given directory and counts the distinct words of every
document it finds:

- Files ending in .txt (any letter case) are counted directly.
- Files ending in .zip are opened and their .txt entries counted.
  Archives stored inside archives are opened too, to any depth.
- Everything else is ignored.

Each count is placed in bin floor(count / bin-size) and the number of
documents per bin is printed as a table. With --with-zeroes, empty bins
below the highest bin are printed with frequency 0.

Paths can be excluded with gitignore-style patterns given by --exclude, the
"exclude" list of the config file, or a .wordhistignore file in the root.

Examples:
  # Histogram with one bin per distinct word count
  wordhist scan ./corpus

  # Bins of width 10, including empty ones
  wordhist scan -b 10 -z ./corpus

  # Skip a vendored directory and save the run for later comparison
  wordhist scan -e vendor/ --save ./corpus

  # Write a Markdown report to a file
  wordhist scan --markdown -o reports/corpus.md ./corpus

Configuration file (.wordhist) example:
  bin_size: 10
  include_zeroes: true
  format: table
  exclude:
    - "*.min.txt"`,
		Args: cobra.ExactArgs(1),
		RunE: runScanCmd,
	}

	// Histogram flags
	cmd.Flags().IntP("bin-size", "b", config.DefaultBinSize,
		"Width of each histogram bin (must be at least 1)")
	cmd.Flags().BoolP("with-zeroes", "z", false,
		"Print empty bins below the highest bin")
	cmd.Flags().StringArrayP("exclude", "e", nil,
		"Gitignore-style pattern of paths to skip (repeatable)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wordhist in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")
	cmd.Flags().Bool("summary", false,
		"Append run counters and skipped documents to the table output")

	// History flags
	cmd.Flags().BoolP("save", "s", false,
		"Save the run to the history database")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cmd.ErrOrStderr(), cfg.Verbose, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runScan(ctx, cfg, logger, cmd.OutOrStdout())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getLogFormatFlag retrieves the log format from the command or its parent.
func getLogFormatFlag(cmd *cobra.Command) string {
	format, err := cmd.Flags().GetString("log-format")
	if err != nil {
		format, err = cmd.Root().PersistentFlags().GetString("log-format")
		if err != nil {
			return config.DefaultLogFormat
		}
	}
	return format
}

// buildConfig creates a Config from cobra command flags and the config file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.BinSize, err = cmd.Flags().GetInt("bin-size")
	if err != nil {
		return nil, err
	}

	cfg.IncludeZeroes, err = cmd.Flags().GetBool("with-zeroes")
	if err != nil {
		return nil, err
	}

	cfg.Exclude, err = cmd.Flags().GetStringArray("exclude")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Summary, err = cmd.Flags().GetBool("summary")
	if err != nil {
		return nil, err
	}

	cfg.SaveToDB, err = cmd.Flags().GetBool("save")
	if err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.LogFormat = getLogFormatFlag(cmd)

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently run with flag values only.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.Apply(cfg, cmd.Flags().Changed); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if len(args) > 0 && args[0] != "" {
		root, err := filepath.Abs(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", args[0], err)
		}
		cfg.Root = root
	}

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity and format.
func setupLogger(w io.Writer, verbose bool, format string) *slog.Logger {
	if format == config.LogFormatJSON {
		return log.NewJSONLogger(w, verbose)
	}
	return log.NewConsoleLogger(w, verbose)
}

// runScan processes the root, optionally saves the run and writes the report.
// Nothing is written to out unless the traversal completes.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	logger.Debug("starting scan",
		"root", cfg.Root,
		"binSize", cfg.BinSize,
		"includeZeroes", cfg.IncludeZeroes,
		"exclude", cfg.Exclude,
	)

	eng, err := engine.New(cfg.BinSize, cfg.IncludeZeroes,
		engine.WithLogger(logger),
		engine.WithExclude(cfg.Exclude...),
	)
	if err != nil {
		return err
	}

	if err := eng.Process(ctx, cfg.Root); err != nil {
		return err
	}
	runReport := eng.Report()

	logger.Debug("scan completed",
		"documents", runReport.Documents,
		"skipped", runReport.SkippedCount(),
		"duration", runReport.Duration(),
	)

	if cfg.SaveToDB {
		if err := saveRunReport(ctx, cfg.DBDir, runReport, logger); err != nil {
			return err
		}
	}

	return outputReport(cfg, runReport, out)
}

// saveRunReport stores the report in the history database under dbDir.
func saveRunReport(ctx context.Context, dbDir string, runReport *model.RunReport, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	id, err := db.SaveRun(ctx, runReport)
	if err != nil {
		return err
	}

	logger.Debug("run saved", "id", id, "db", db.Path())
	return nil
}

// outputReport writes the run report in the requested format.
func outputReport(cfg *config.Config, runReport *model.RunReport, stdout io.Writer) (err error) {
	output := stdout
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			err = errors.Join(err, f.Close())
		}()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewTableWriter(output, report.WithVerbose(cfg.Summary))
	}

	_, err = writer.Write(runReport)
	return err
}
