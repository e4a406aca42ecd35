package gridterm

import "time"

// PTY is the channel to the child process. The production implementation
// wraps an OS pseudo-terminal master; tests substitute a socketpair-backed
// fake through Options.StartPTY.
type PTY interface {
	// Read blocks until child output is available. It returns io.EOF or a
	// descriptor error once the channel is dead; pty masters commonly
	// surface child exit as EIO rather than EOF, and callers treat both
	// as the stream-closed marker.
	Read(p []byte) (int, error)

	// Write delivers input bytes to the child. A write to a dead child
	// returns ErrBrokenPipe.
	Write(p []byte) (int, error)

	// Resize propagates new dimensions to the channel and signals the
	// child (SIGWINCH on unix).
	Resize(rows, cols int) error

	// Close releases the master side, unblocking any in-flight Read.
	Close() error

	// Kill best-effort terminates the child process.
	Kill() error

	// ExitStatus returns the child's exit record once it has been reaped,
	// nil before that. The record is immutable.
	ExitStatus() *ExitRecord
}

// ExitRecord captures how the child terminated. Exactly one of Code or
// Signal is meaningful: Code carries a normal exit status, Signal names the
// terminating signal (with Code -1). It is created once by the reaper and
// never mutated, so callers may hold the pointer.
type ExitRecord struct {
	Code     int
	Signal   string
	ExitedAt time.Time
}
