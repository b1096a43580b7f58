package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/wordhist/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.RunReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeHistogram(md, report)
	w.writeSkipped(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run summary table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.RunReport) {
	md.H1("Word Uniqueness Histogram")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Root", "`" + report.Root + "`"},
			{"Scan Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration().String()},
			{"Bin Size", strconv.Itoa(report.BinSize)},
			{"Zero-filled", strconv.FormatBool(report.IncludeZeroes)},
			{"Documents", strconv.Itoa(report.Documents)},
			{"Text Files", strconv.Itoa(report.TextFiles)},
			{"Archives", strconv.Itoa(report.Archives)},
			{"Archive Members", strconv.Itoa(report.ArchiveMembers)},
			{"Skipped", strconv.Itoa(report.SkippedCount())},
		},
	})
	md.PlainText("")
}

// writeHistogram writes the histogram table and its pie chart.
func (w *MarkdownWriter) writeHistogram(md *markdown.Markdown, report *model.RunReport) {
	md.H2("Histogram")
	md.PlainText("")

	if len(report.Bins) == 0 {
		md.PlainText("No documents were counted.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Bins))
	for i, bin := range report.Bins {
		rows[i] = []string{bin.Label, strconv.Itoa(bin.Frequency)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Word count", "Frequency"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writePieChart(md, report)
}

// writePieChart writes a mermaid pie chart of documents per bin.
// Empty bins are left out of the chart.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.RunReport) {
	if report.Documents == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Documents per Bin"),
		piechart.WithShowData(true),
	)

	for _, bin := range report.Bins {
		if bin.Frequency > 0 {
			chart.LabelAndIntValue(bin.Label, uint64(bin.Frequency))
		}
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeSkipped writes an alert and a table when documents were skipped.
func (w *MarkdownWriter) writeSkipped(md *markdown.Markdown, report *model.RunReport) {
	if report.SkippedCount() == 0 {
		md.Tip("Every supported document was counted.")
		md.PlainText("")
		return
	}

	md.Warningf("%d document(s) could not be counted.", report.SkippedCount())
	md.PlainText("")

	md.H2("Skipped Documents")
	md.PlainText("")

	rows := make([][]string, len(report.Skipped))
	for i, doc := range report.Skipped {
		detail := doc.Detail
		if detail == "" {
			detail = "-"
		}
		rows[i] = []string{"`" + doc.Path + "`", string(doc.Reason), truncateString(detail, 60)}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Path", "Reason", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [wordhist](https://github.com/nao1215/wordhist)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
