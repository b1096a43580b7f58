package model

import (
	"errors"
	"sort"
	"strconv"
)

// ErrInvalidBinSize is returned when a histogram is created with a bin size
// smaller than one.
var ErrInvalidBinSize = errors.New("invalid bin size: must be at least 1")

// Bin is one row of a histogram.
type Bin struct {
	// Index is floor(count / binSize) for every count that landed here.
	Index int `json:"index"`

	// Label is the human-readable range of word counts covered by the bin.
	Label string `json:"label"`

	// Frequency is the number of documents that landed in the bin.
	Frequency int `json:"frequency"`
}

// Histogram maps a bin index to the number of documents whose distinct word
// count falls into that bin.
//
// Bin indices are always enumerated in ascending order. When includeZeroes
// is set, every index below the highest bin touched so far exists with a
// frequency of at least zero; bins above the highest touched bin never exist.
//
// A Histogram is not safe for concurrent use.
type Histogram struct {
	// binSize is the width of each bin. Always >= 1.
	binSize int

	// includeZeroes enables back-filling of empty bins.
	includeZeroes bool

	// frequencies holds the stored bins.
	frequencies map[int]int

	// filled is the number of leading bins known to exist, i.e. every index
	// in [0, filled) is present. Only maintained when includeZeroes is set.
	filled int

	// documents is the total number of Add calls.
	documents int
}

// NewHistogram creates an empty histogram.
// binSize must be at least 1; otherwise ErrInvalidBinSize is returned.
func NewHistogram(binSize int, includeZeroes bool) (*Histogram, error) {
	if binSize < 1 {
		return nil, ErrInvalidBinSize
	}
	return &Histogram{
		binSize:       binSize,
		includeZeroes: includeZeroes,
		frequencies:   make(map[int]int),
	}, nil
}

// Add folds one document's distinct word count into the histogram.
// Negative counts are treated as zero.
func (h *Histogram) Add(count int) {
	if count < 0 {
		count = 0
	}
	bin := count / h.binSize

	h.frequencies[bin]++
	h.documents++

	if !h.includeZeroes {
		return
	}
	for k := h.filled; k < bin; k++ {
		if _, ok := h.frequencies[k]; !ok {
			h.frequencies[k] = 0
		}
	}
	if bin >= h.filled {
		h.filled = bin + 1
	}
}

// BinSize returns the width of each bin.
func (h *Histogram) BinSize() int {
	return h.binSize
}

// IncludeZeroes reports whether empty bins are back-filled.
func (h *Histogram) IncludeZeroes() bool {
	return h.includeZeroes
}

// Frequency returns the frequency stored for bin and whether the bin exists.
func (h *Histogram) Frequency(bin int) (int, bool) {
	freq, ok := h.frequencies[bin]
	return freq, ok
}

// Len returns the number of stored bins, including zero-filled ones.
func (h *Histogram) Len() int {
	return len(h.frequencies)
}

// Documents returns the number of documents folded into the histogram.
func (h *Histogram) Documents() int {
	return h.documents
}

// Indices returns the stored bin indices in ascending order.
func (h *Histogram) Indices() []int {
	indices := make([]int, 0, len(h.frequencies))
	for k := range h.frequencies {
		indices = append(indices, k)
	}
	sort.Ints(indices)
	return indices
}

// Bins returns a snapshot of all stored bins in ascending index order.
func (h *Histogram) Bins() []Bin {
	indices := h.Indices()
	bins := make([]Bin, len(indices))
	for i, k := range indices {
		bins[i] = Bin{
			Index:     k,
			Label:     BinLabel(k, h.binSize),
			Frequency: h.frequencies[k],
		}
	}
	return bins
}

// BinLabel returns the row label for a bin.
// With a bin size of 1 each bin holds exactly one count, so the label is the
// index itself; otherwise it is the half-open range "low-high".
func BinLabel(bin, binSize int) string {
	if binSize == 1 {
		return strconv.Itoa(bin)
	}
	return strconv.Itoa(bin*binSize) + "-" + strconv.Itoa((bin+1)*binSize)
}
