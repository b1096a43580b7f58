package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wordhist/internal/model"
)

// ColumnWidth is the fixed width of both table columns.
// Values wider than this overflow the column; nothing is truncated.
const ColumnWidth = 10

// tableBorder is the border row: "+" followed by two dash-filled columns.
var tableBorder = "+" + strings.Repeat("-", ColumnWidth) + "+" + strings.Repeat("-", ColumnWidth) + "+"

// TableWriter outputs the histogram as a fixed-width ASCII table:
//
//	+----------+----------+
//	|Word count| Frequency|
//	+----------+----------+
//	|         3|         1|
//	+----------+----------+
//
// One row is written per bin in ascending bin order, values right-aligned.
type TableWriter struct {
	baseWriter

	// verbose appends the run summary and the skipped documents.
	verbose bool
}

// TableWriterOption configures a TableWriter.
type TableWriterOption func(*TableWriter)

// WithVerbose appends a run summary and the list of skipped documents
// below the table.
func WithVerbose(verbose bool) TableWriterOption {
	return func(w *TableWriter) {
		w.verbose = verbose
	}
}

// NewTableWriter creates a TableWriter that outputs to the given writer.
func NewTableWriter(output io.Writer, opts ...TableWriterOption) *TableWriter {
	w := &TableWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the histogram table of the report.
func (w *TableWriter) Write(report *model.RunReport) (int, error) {
	var sb strings.Builder

	writeTable(&sb, report.Bins)

	if w.verbose {
		w.writeSummary(&sb, report)
	}

	return io.WriteString(w.output, sb.String())
}

// writeTable renders bins in the order given.
func writeTable(sb *strings.Builder, bins []model.Bin) {
	sb.WriteString(tableBorder + "\n")
	fmt.Fprintf(sb, "|%*s|%*s|\n", ColumnWidth, "Word count", ColumnWidth, "Frequency")
	sb.WriteString(tableBorder + "\n")
	for _, bin := range bins {
		fmt.Fprintf(sb, "|%*s|%*d|\n", ColumnWidth, bin.Label, ColumnWidth, bin.Frequency)
	}
	sb.WriteString(tableBorder + "\n")
}

// writeSummary writes the run counters and any skipped documents.
func (w *TableWriter) writeSummary(sb *strings.Builder, report *model.RunReport) {
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Root:            %s\n", report.Root)
	fmt.Fprintf(sb, "Documents:       %d\n", report.Documents)
	fmt.Fprintf(sb, "Text files:      %d\n", report.TextFiles)
	fmt.Fprintf(sb, "Archives:        %d\n", report.Archives)
	fmt.Fprintf(sb, "Archive members: %d\n", report.ArchiveMembers)
	fmt.Fprintf(sb, "Unsupported:     %d\n", report.UnsupportedCount)
	fmt.Fprintf(sb, "Skipped:         %d\n", report.SkippedCount())

	if report.SkippedCount() == 0 {
		return
	}

	sb.WriteString("\nSkipped documents:\n")
	for _, doc := range report.Skipped {
		if doc.Detail == "" {
			fmt.Fprintf(sb, "  - %s (%s)\n", doc.Path, doc.Reason)
			continue
		}
		fmt.Fprintf(sb, "  - %s (%s): %s\n", doc.Path, doc.Reason, doc.Detail)
	}
}
