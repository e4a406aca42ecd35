//go:build !windows

package gridterm

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

// FakePTY stands in for a real pseudo-terminal in tests. A socketpair gives
// it the same blocking-read behavior as a pty master: the host side is what
// the session reads and writes, the peer side plays the child process.
type FakePTY struct {
	host *os.File
	peer *os.File

	mu      sync.Mutex
	rows    int
	cols    int
	resizes [][2]int

	exit     atomic.Pointer[ExitRecord]
	killed   atomic.Bool
	peerOnce sync.Once
	hostOnce sync.Once
}

// NewFakePTY creates a connected fake pty pair.
func NewFakePTY() (*FakePTY, error) {
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM, 0)
	if err != nil {
		return nil, fmt.Errorf("socketpair: %w", err)
	}
	// Non-blocking fds register with the runtime poller, so closing one
	// side interrupts a blocked Read the way a real pty master does.
	for _, fd := range fds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(fds[0])
			unix.Close(fds[1])
			return nil, fmt.Errorf("set nonblock: %w", err)
		}
	}
	return &FakePTY{
		host: os.NewFile(uintptr(fds[0]), "fakepty-host"),
		peer: os.NewFile(uintptr(fds[1]), "fakepty-peer"),
	}, nil
}

// Peer returns the child-process side: tests write child output here and
// read what the session sent to the child.
func (f *FakePTY) Peer() *os.File {
	return f.peer
}

// ClosePeer simulates the child going away; host reads hit EOF.
func (f *FakePTY) ClosePeer() {
	f.peerOnce.Do(func() { f.peer.Close() })
}

// SetExit publishes an exit record, as the reaper would for a real child.
func (f *FakePTY) SetExit(rec ExitRecord) {
	if rec.ExitedAt.IsZero() {
		rec.ExitedAt = time.Now()
	}
	f.exit.Store(&rec)
}

// Resizes returns all (rows, cols) pairs Resize was called with.
func (f *FakePTY) Resizes() [][2]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][2]int, len(f.resizes))
	copy(out, f.resizes)
	return out
}

// Killed reports whether Kill was called.
func (f *FakePTY) Killed() bool {
	return f.killed.Load()
}

func (f *FakePTY) Read(p []byte) (int, error) {
	return f.host.Read(p)
}

func (f *FakePTY) Write(p []byte) (int, error) {
	n, err := f.host.Write(p)
	if err != nil {
		return n, ErrBrokenPipe
	}
	return n, nil
}

func (f *FakePTY) Resize(rows, cols int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows, f.cols = rows, cols
	f.resizes = append(f.resizes, [2]int{rows, cols})
	return nil
}

func (f *FakePTY) Close() error {
	var err error
	f.hostOnce.Do(func() { err = f.host.Close() })
	return err
}

// Kill marks the child killed, publishes a signal exit record if none
// exists, and severs the peer so host reads unblock.
func (f *FakePTY) Kill() error {
	f.killed.Store(true)
	if f.exit.Load() == nil {
		f.SetExit(ExitRecord{Code: -1, Signal: "killed"})
	}
	f.ClosePeer()
	return nil
}

func (f *FakePTY) ExitStatus() *ExitRecord {
	return f.exit.Load()
}
