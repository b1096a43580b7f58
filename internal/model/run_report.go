package model

import (
	"encoding/hex"
	"strconv"
	"time"

	"golang.org/x/crypto/sha3"
)

// SkipReason categorizes why a document was not counted.
type SkipReason string

const (
	// SkipUnreadable means the document bytes could not be read.
	SkipUnreadable SkipReason = "unreadable"

	// SkipInvalidText means the document is not valid UTF-8 text.
	SkipInvalidText SkipReason = "invalid_text"

	// SkipMalformedArchive means the archive index could not be parsed.
	SkipMalformedArchive SkipReason = "malformed_archive"

	// SkipUnsupported means the name matched no known document kind, or
	// the filesystem entry is neither a regular file nor a directory.
	SkipUnsupported SkipReason = "unsupported"

	// SkipExcluded means the path matched an exclusion pattern.
	SkipExcluded SkipReason = "excluded"
)

// SkippedDocument records one document that did not contribute to the histogram.
type SkippedDocument struct {
	// Path is the file path, or the composite member label for archive entries.
	Path string `json:"path"`

	// Reason categorizes the skip.
	Reason SkipReason `json:"reason"`

	// Detail is the underlying error message, if any.
	Detail string `json:"detail,omitempty"`
}

// RunReport is the result of one traversal.
// It holds the rendered-ready bin snapshot and the counters collected by the
// engine, and is what report writers and the history database consume.
type RunReport struct {
	// ID is the database identifier. Zero when the run was not saved.
	ID int64 `json:"id,omitempty"`

	// Root is the directory that was traversed.
	Root string `json:"root"`

	// Profile identifies runs that can be compared with each other.
	// See ProfileID.
	Profile string `json:"profile"`

	// BinSize is the histogram bin width.
	BinSize int `json:"bin_size"`

	// IncludeZeroes reports whether empty bins were back-filled.
	IncludeZeroes bool `json:"include_zeroes"`

	// StartedAt is when traversal began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when traversal completed.
	FinishedAt time.Time `json:"finished_at"`

	// Documents is the number of documents folded into the histogram.
	Documents int `json:"documents"`

	// TextFiles is the number of top-level text files counted.
	TextFiles int `json:"text_files"`

	// Archives is the number of archives opened, nested ones included.
	Archives int `json:"archives"`

	// ArchiveMembers is the number of text entries counted inside archives.
	ArchiveMembers int `json:"archive_members"`

	// Skipped lists documents that were read but not counted.
	// Unsupported names are counted in UnsupportedCount instead.
	Skipped []SkippedDocument `json:"skipped,omitempty"`

	// UnsupportedCount is the number of ignored files and archive entries.
	UnsupportedCount int `json:"unsupported_count"`

	// Bins is the histogram snapshot in ascending index order.
	Bins []Bin `json:"bins"`
}

// NewRunReport creates a report for a run over root.
func NewRunReport(root string, binSize int, includeZeroes bool) *RunReport {
	return &RunReport{
		Root:          root,
		Profile:       ProfileID(root, binSize, includeZeroes),
		BinSize:       binSize,
		IncludeZeroes: includeZeroes,
		StartedAt:     time.Now(),
		Bins:          []Bin{},
	}
}

// AddSkipped records a skipped document.
func (r *RunReport) AddSkipped(doc SkippedDocument) {
	if doc.Reason == SkipUnsupported {
		r.UnsupportedCount++
		return
	}
	r.Skipped = append(r.Skipped, doc)
}

// SkippedCount returns the number of documents skipped for reasons other
// than an unsupported name.
func (r *RunReport) SkippedCount() int {
	return len(r.Skipped)
}

// Duration returns how long the traversal took.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Frequency returns the frequency of the bin with the given index,
// or zero when the bin is absent.
func (r *RunReport) Frequency(index int) int {
	for _, b := range r.Bins {
		if b.Index == index {
			return b.Frequency
		}
	}
	return 0
}

// ProfileID fingerprints the inputs that make two runs comparable: the root
// path, the bin size and the zero-fill flag. The result is the first 16 hex
// digits of a SHA3-256 digest.
func ProfileID(root string, binSize int, includeZeroes bool) string {
	h := sha3.New256()
	h.Write([]byte(root))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(binSize)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(includeZeroes)))
	return hex.EncodeToString(h.Sum(nil))[:16]
}
