package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/wordhist/internal/config"
	"github.com/nao1215/wordhist/internal/database"
	"github.com/nao1215/wordhist/internal/model"
)

// Constants for histogram shift directions.
const (
	shiftGrown     = "grown"
	shiftShrunk    = "shrunk"
	shiftUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command compares saved runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [directory]",
		Short: "Compare saved runs of a directory",
		Long: `History displays differences between the latest and an earlier saved run.

Runs are saved with 'wordhist scan --save'. Only runs with the same root,
bin size and zero-fill setting are compared, so the bins line up. For every
bin the previous and current frequency and the delta are shown, together
with the change in the number of counted documents.

Examples:
  # Compare the latest two runs of a directory
  wordhist history ./corpus

  # Compare runs that used bins of width 10
  wordhist history -b 10 ./corpus

  # List saved runs of a directory
  wordhist history --list ./corpus

  # Compare the latest run with a specific saved run
  wordhist history --with-run-id 5 ./corpus

  # List every directory with saved runs
  wordhist history --list-roots`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// History listing flags
	cmd.Flags().BoolP("list", "l", false,
		"List saved runs of the specified directory")
	cmd.Flags().BoolP("list-roots", "L", false,
		"List all directories with saved runs")

	// Comparison target flags
	cmd.Flags().Int64P("with-run-id", "i", 0,
		"Compare with a specific run by ID (use --list to see available IDs)")
	cmd.Flags().IntP("bin-size", "b", config.DefaultBinSize,
		"Bin size of the runs to compare")
	cmd.Flags().BoolP("with-zeroes", "z", false,
		"Compare runs that printed empty bins")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")

	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	root          string
	dbDir         string
	listRoots     bool
	list          bool
	withRunID     int64
	binSize       int
	includeZeroes bool
	jsonOutput    bool
	markdown      bool
}

// parseHistoryOptions reads the history flags and validates them before the
// database is opened.
func parseHistoryOptions(cmd *cobra.Command, args []string) (*historyOptions, error) {
	opts := &historyOptions{dbDir: config.XDGDataDir()}

	var err error
	if opts.listRoots, err = cmd.Flags().GetBool("list-roots"); err != nil {
		return nil, err
	}
	if opts.list, err = cmd.Flags().GetBool("list"); err != nil {
		return nil, err
	}
	if opts.withRunID, err = cmd.Flags().GetInt64("with-run-id"); err != nil {
		return nil, err
	}
	if opts.binSize, err = cmd.Flags().GetInt("bin-size"); err != nil {
		return nil, err
	}
	if opts.includeZeroes, err = cmd.Flags().GetBool("with-zeroes"); err != nil {
		return nil, err
	}
	if opts.jsonOutput, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		opts.dbDir = dbDir
	}

	if opts.listRoots {
		return opts, nil
	}

	if len(args) == 0 {
		return nil, errors.New("directory is required (use --list-roots to see saved directories)")
	}
	if opts.binSize < 1 {
		return nil, config.ErrInvalidBinSize
	}
	if opts.jsonOutput && opts.markdown {
		return nil, config.ErrConflictingReportFormats
	}

	opts.root, err = filepath.Abs(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	// Validate arguments before opening the database.
	opts, err := parseHistoryOptions(cmd, args)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if opts.listRoots {
		return listRoots(ctx, out, db)
	}
	if opts.list {
		return listRunHistory(ctx, out, db, opts.root)
	}

	result, err := compareLatest(ctx, db, opts)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		return outputComparisonJSON(out, result)
	}
	if opts.markdown {
		return outputComparisonMarkdown(out, result)
	}
	return outputComparisonText(out, result)
}

// listRoots lists every directory that has saved runs.
func listRoots(ctx context.Context, w io.Writer, db *database.HistoryDB) error {
	roots, err := db.ListRoots(ctx)
	if err != nil {
		return err
	}

	if len(roots) == 0 {
		fmt.Fprintln(w, "No saved runs found in the database.")
		fmt.Fprintln(w, "\nUse 'wordhist scan --save <directory>' to save a run.")
		return nil
	}

	fmt.Fprintf(w, "Directories with saved runs (%d):\n\n", len(roots))
	for _, root := range roots {
		fmt.Fprintf(w, "  %s\n", root)
	}
	fmt.Fprintln(w, "\nUse 'wordhist history --list <directory>' to see the runs of a directory.")

	return nil
}

// listRunHistory lists every saved run of root.
func listRunHistory(ctx context.Context, w io.Writer, db *database.HistoryDB, root string) error {
	runs, err := db.ListRuns(ctx, root)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintf(w, "No saved runs found for %s\n", root)
		fmt.Fprintln(w, "\nUse 'wordhist scan --save' to save a run of this directory.")
		return nil
	}

	fmt.Fprintf(w, "Saved runs of %s (%d runs):\n\n", root, len(runs))
	fmt.Fprintf(w, "  %-6s  %-20s  %-8s  %-6s  %-9s  %s\n", "ID", "Date", "Bin size", "Zeroes", "Documents", "Skipped")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 68))

	for _, meta := range runs {
		fmt.Fprintf(w, "  %-6d  %-20s  %-8d  %-6s  %-9d  %d\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			meta.BinSize,
			formatBool(meta.IncludeZeroes),
			meta.Documents,
			meta.Skipped,
		)
	}

	fmt.Fprintln(w, "\nUse 'wordhist history <directory>' to compare the latest two runs.")
	fmt.Fprintln(w, "Use 'wordhist history --with-run-id <id> <directory>' to compare with a specific run.")

	return nil
}

// compareLatest loads the latest run of the profile and the run it is
// compared against, and builds the comparison.
func compareLatest(ctx context.Context, db *database.HistoryDB, opts *historyOptions) (*ComparisonResult, error) {
	profile := model.ProfileID(opts.root, opts.binSize, opts.includeZeroes)

	runs, err := db.LatestRuns(ctx, profile, 2)
	if err != nil {
		return nil, err
	}

	if len(runs) == 0 {
		return nil, fmt.Errorf("no saved runs found for %s with bin size %d", opts.root, opts.binSize)
	}

	current := runs[0]
	var previous *model.RunReport

	if opts.withRunID > 0 {
		previous, err = db.GetRun(ctx, opts.withRunID)
		if err != nil {
			return nil, err
		}
		if previous == nil {
			return nil, fmt.Errorf("run with ID %d not found", opts.withRunID)
		}
		if previous.Profile != profile {
			return nil, fmt.Errorf("run ID %d is not comparable with %s (root %s, bin size %d)",
				opts.withRunID, opts.root, previous.Root, previous.BinSize)
		}
	} else {
		if len(runs) < 2 {
			return nil, fmt.Errorf("at least 2 saved runs are required for comparison (found %d)", len(runs))
		}
		previous = runs[1]
	}

	return compareRuns(previous, current), nil
}

// ComparisonResult holds the result of comparing two saved runs.
type ComparisonResult struct {
	// Root is the traversed directory.
	Root string `json:"root"`

	// BinSize is the shared bin width of both runs.
	BinSize int `json:"bin_size"`

	// PreviousRun contains metadata about the earlier run.
	PreviousRun RunSummary `json:"previous_run"`

	// CurrentRun contains metadata about the later run.
	CurrentRun RunSummary `json:"current_run"`

	// Bins holds one row per bin index present in either run, ascending.
	Bins []BinDelta `json:"bins"`

	// DocumentDelta is the change in the number of counted documents.
	DocumentDelta int `json:"document_delta"`

	// Direction is "grown", "shrunk", or "unchanged".
	Direction string `json:"direction"`
}

// RunSummary contains metadata about a run for comparison display.
type RunSummary struct {
	// ID is the database identifier of the run.
	ID int64 `json:"id"`

	// Date is when the run started.
	Date string `json:"date"`

	// Documents is the number of counted documents.
	Documents int `json:"documents"`

	// Skipped is the number of documents that could not be counted.
	Skipped int `json:"skipped"`
}

// BinDelta compares the frequency of one bin across two runs.
type BinDelta struct {
	// Index is the bin index.
	Index int `json:"index"`

	// Label is the word count range of the bin.
	Label string `json:"label"`

	// Previous is the frequency in the earlier run.
	Previous int `json:"previous"`

	// Current is the frequency in the later run.
	Current int `json:"current"`

	// Delta is Current minus Previous.
	Delta int `json:"delta"`
}

// compareRuns compares two run reports bin by bin.
func compareRuns(previous, current *model.RunReport) *ComparisonResult {
	result := &ComparisonResult{
		Root:          current.Root,
		BinSize:       current.BinSize,
		PreviousRun:   summarizeRun(previous),
		CurrentRun:    summarizeRun(current),
		DocumentDelta: current.Documents - previous.Documents,
	}

	// Both bin lists are ascending; merge them.
	i, j := 0, 0
	for i < len(previous.Bins) || j < len(current.Bins) {
		var row BinDelta
		switch {
		case j == len(current.Bins) || (i < len(previous.Bins) && previous.Bins[i].Index < current.Bins[j].Index):
			row = BinDelta{Index: previous.Bins[i].Index, Label: previous.Bins[i].Label, Previous: previous.Bins[i].Frequency}
			i++
		case i == len(previous.Bins) || current.Bins[j].Index < previous.Bins[i].Index:
			row = BinDelta{Index: current.Bins[j].Index, Label: current.Bins[j].Label, Current: current.Bins[j].Frequency}
			j++
		default:
			row = BinDelta{
				Index:    current.Bins[j].Index,
				Label:    current.Bins[j].Label,
				Previous: previous.Bins[i].Frequency,
				Current:  current.Bins[j].Frequency,
			}
			i++
			j++
		}
		row.Delta = row.Current - row.Previous
		result.Bins = append(result.Bins, row)
	}

	switch {
	case result.DocumentDelta > 0:
		result.Direction = shiftGrown
	case result.DocumentDelta < 0:
		result.Direction = shiftShrunk
	default:
		result.Direction = shiftUnchanged
	}

	return result
}

// summarizeRun extracts the display metadata of a run.
func summarizeRun(r *model.RunReport) RunSummary {
	return RunSummary{
		ID:        r.ID,
		Date:      r.StartedAt.Format("2006-01-02 15:04:05"),
		Documents: r.Documents,
		Skipped:   r.SkippedCount(),
	}
}

// changedBins counts the bins whose frequency differs between the runs.
func (c *ComparisonResult) changedBins() int {
	n := 0
	for _, b := range c.Bins {
		if b.Delta != 0 {
			n++
		}
	}
	return n
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(w io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(w io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(w, "# Run Comparison: %s\n\n", result.Root)

	fmt.Fprintln(w, "## Summary")
	fmt.Fprintf(w, "\n**Documents:** %s\n\n", formatDirection(result.Direction))

	fmt.Fprintln(w, "| Metric | Previous | Current | Change |")
	fmt.Fprintln(w, "|--------|----------|---------|--------|")
	fmt.Fprintf(w, "| Run ID | %d | %d | - |\n", result.PreviousRun.ID, result.CurrentRun.ID)
	fmt.Fprintf(w, "| Date | %s | %s | - |\n", result.PreviousRun.Date, result.CurrentRun.Date)
	fmt.Fprintf(w, "| Documents | %d | %d | %s |\n",
		result.PreviousRun.Documents, result.CurrentRun.Documents,
		formatDelta(result.DocumentDelta))
	fmt.Fprintf(w, "| Skipped | %d | %d | %s |\n",
		result.PreviousRun.Skipped, result.CurrentRun.Skipped,
		formatDelta(result.CurrentRun.Skipped-result.PreviousRun.Skipped))

	if len(result.Bins) > 0 {
		fmt.Fprintf(w, "\n## Bins (bin size %d)\n\n", result.BinSize)
		fmt.Fprintln(w, "| Word count | Previous | Current | Change |")
		fmt.Fprintln(w, "|------------|----------|---------|--------|")
		for _, b := range result.Bins {
			fmt.Fprintf(w, "| %s | %d | %d | %s |\n", b.Label, b.Previous, b.Current, formatDelta(b.Delta))
		}
	}

	fmt.Fprintf(w, "\n---\n\n*%d of %d bins changed*\n", result.changedBins(), len(result.Bins))

	return nil
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(w io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(w, "Run Comparison: %s\n", result.Root)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintf(w, "\nDocuments: %s\n", formatDirection(result.Direction))

	fmt.Fprintf(w, "\nPrevious run: #%d %s\n", result.PreviousRun.ID, result.PreviousRun.Date)
	fmt.Fprintf(w, "Current run:  #%d %s\n", result.CurrentRun.ID, result.CurrentRun.Date)

	fmt.Fprintf(w, "\nBins (bin size %d):\n", result.BinSize)
	fmt.Fprintf(w, "  %-10s  %-10s  %-10s  %-10s\n", "Word count", "Previous", "Current", "Change")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 45))
	for _, b := range result.Bins {
		fmt.Fprintf(w, "  %-10s  %-10d  %-10d  %-10s\n", b.Label, b.Previous, b.Current, formatDelta(b.Delta))
	}
	fmt.Fprintln(w, "  "+strings.Repeat("-", 45))
	fmt.Fprintf(w, "  %-10s  %-10d  %-10d  %-10s\n", "Documents",
		result.PreviousRun.Documents, result.CurrentRun.Documents,
		formatDelta(result.DocumentDelta))

	fmt.Fprintf(w, "\nChanged bins: %d of %d\n", result.changedBins(), len(result.Bins))

	return nil
}

// formatDirection formats the document count direction for display.
func formatDirection(direction string) string {
	switch direction {
	case shiftGrown:
		return "GROWN (more documents counted)"
	case shiftShrunk:
		return "SHRUNK (fewer documents counted)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}

// formatBool renders a flag as yes/no.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
