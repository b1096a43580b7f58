// Package engine is the composition root of wordhist.
//
// An Engine owns one histogram for its whole life. Process walks a root
// directory, counts the distinct words of every text document (top-level
// files and archive members alike) and folds each count into the histogram.
// Report and Render expose the result once the walk has completed.
package engine
