package archive

import (
	"errors"
	"fmt"
)

// ErrEmptyArchive is reported when an archive has no bytes at all.
var ErrEmptyArchive = errors.New("archive is empty")

// Error describes why an archive, or one entry inside it, was skipped.
// It is delivered through Sink.Skip and never returned from Unpack.
type Error struct {
	// Archive is the label of the archive being unpacked.
	Archive string

	// Entry is the entry name inside the archive. Empty when the archive
	// itself could not be opened.
	Entry string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Entry == "" {
		return fmt.Sprintf("cannot open archive %s: %v", e.Archive, e.Err)
	}
	return fmt.Sprintf("cannot read %s in archive %s: %v", e.Entry, e.Archive, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}
