package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSections is returned when the view has nothing to edit.
	ErrNoSections = errors.New("tui: current tab has no sections")
)
