// Package report renders run reports.
//
// This package contains writers for different output formats:
//   - TableWriter: the fixed-width ASCII histogram table for terminals
//   - MarkdownWriter: a Markdown document with summary, table and pie chart
//   - JSONWriter: structured JSON output for tool integration
//
// Writers implement the Writer interface, allowing them to be used
// interchangeably and composed for multi-format output. Report data lives
// in the model package; writers only read it.
package report
