package engine

import "errors"

var (
	// ErrNotDirectory is returned by Process when the root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrAlreadyProcessed is returned when Process is called a second time.
	// The histogram is never reset, so an Engine serves exactly one run.
	ErrAlreadyProcessed = errors.New("engine has already processed a root")

	// ErrNotProcessed is returned by Render when no walk completed,
	// including when the walk failed.
	ErrNotProcessed = errors.New("no completed run to render")
)
