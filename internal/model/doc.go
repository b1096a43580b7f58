// Package model defines the core data structures used throughout wordhist.
//
// This package contains the following main types:
//   - Histogram: Binned word-count frequencies with the zero-fill policy
//   - DocumentKind: Classification of files and archive entries by name
//   - RunReport: The result of one traversal, ready for rendering or storage
//   - SkippedDocument: A document that could not be counted
//
// Multiple packages (walker, archive, engine, report, database) share these
// types, so they live in one leaf package to avoid import cycles.
//
// The models are serializable to JSON for report output and database storage.
package model
