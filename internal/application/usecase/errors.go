package usecase

import "errors"

var (
	// ErrPaneNotFound is returned when an operation names a pane absent from the layout.
	ErrPaneNotFound = errors.New("pane not found")
	// ErrRowNotFound is returned when an operation names a row absent from the layout.
	ErrRowNotFound = errors.New("row not found")
	// ErrNothingToResize is returned when a resize target has no neighbor to trade size with.
	ErrNothingToResize = errors.New("nothing to resize")
	// ErrNoResizeSession is returned when a pointer event arrives without an active drag.
	ErrNoResizeSession = errors.New("no resize session in progress")
)
