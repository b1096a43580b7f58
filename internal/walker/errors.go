package walker

import "fmt"

// Operations recorded in TraversalError.Op.
const (
	// OpReadDir is a failure to list a directory.
	OpReadDir = "readdir"

	// OpStat is a failure to resolve an entry's metadata.
	OpStat = "stat"

	// OpRead is a failure to read an archive from disk.
	OpRead = "read"
)

// TraversalError is the fatal error of a walk. It aborts the remainder of
// the traversal, siblings and parent directories included.
type TraversalError struct {
	// Op is the failed operation, one of OpReadDir, OpStat or OpRead.
	Op string

	// Path is the offending path as shown to the user.
	Path string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *TraversalError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying cause.
func (e *TraversalError) Unwrap() error {
	return e.Err
}
