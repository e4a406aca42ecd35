package gridterm

import (
	"errors"
	"fmt"
)

// ErrBrokenPipe is returned when writing to a child whose pty has gone away.
// The session treats it as the child being gone and begins teardown.
var ErrBrokenPipe = errors.New("gridterm: broken pipe to child")

// ErrSessionClosed is returned from operations on a closed session.
var ErrSessionClosed = errors.New("gridterm: session closed")

// SpawnError reports a failure to start the child process. Sessions that hit
// one never reach the running state.
type SpawnError struct {
	Command string
	Err     error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("gridterm: spawn %q: %v", e.Command, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// ResizeError reports a failed pty resize. The session keeps its previous
// dimensions; the error is non-fatal.
type ResizeError struct {
	Rows, Cols int
	Err        error
}

func (e *ResizeError) Error() string {
	return fmt.Sprintf("gridterm: resize to %dx%d: %v", e.Rows, e.Cols, e.Err)
}

func (e *ResizeError) Unwrap() error { return e.Err }
