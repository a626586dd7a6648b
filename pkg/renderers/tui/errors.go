package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSchema is returned when the synchronizer has no active schema to
	// edit.
	ErrNoSchema = errors.New("tui: no active schema")
)
