//go:build !windows

package gridterm

import (
	"errors"
	"os"
	"os/exec"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// unixPTY wraps a pty master from creack/pty plus the child process behind
// it. A reaper goroutine waits on the child and publishes the exit record.
type unixPTY struct {
	master *os.File
	cmd    *exec.Cmd

	exit   atomic.Pointer[ExitRecord]
	reaped chan struct{}
}

// startPTY spawns cmd behind a new pseudo-terminal sized rows x cols.
func startPTY(cmd *exec.Cmd, rows, cols int) (PTY, error) {
	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, err
	}
	u := &unixPTY{
		master: master,
		cmd:    cmd,
		reaped: make(chan struct{}),
	}
	go u.reap()
	return u, nil
}

// reap waits for the child exactly once and records how it ended. Exit
// status is never synthesized: until this completes, ExitStatus stays nil.
func (u *unixPTY) reap() {
	defer close(u.reaped)
	err := u.cmd.Wait()
	rec := &ExitRecord{ExitedAt: time.Now()}
	var exitErr *exec.ExitError
	switch {
	case err == nil:
		rec.Code = 0
	case errors.As(err, &exitErr):
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			rec.Code = -1
			rec.Signal = ws.Signal().String()
		} else {
			rec.Code = exitErr.ExitCode()
		}
	default:
		// Wait itself failed; the child state is unknown.
		rec.Code = -1
		rec.Signal = err.Error()
	}
	u.exit.Store(rec)
}

func (u *unixPTY) Read(p []byte) (int, error) {
	return u.master.Read(p)
}

func (u *unixPTY) Write(p []byte) (int, error) {
	n, err := u.master.Write(p)
	if err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.EIO)) {
		return n, ErrBrokenPipe
	}
	return n, err
}

func (u *unixPTY) Resize(rows, cols int) error {
	return pty.Setsize(u.master, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
}

func (u *unixPTY) Close() error {
	return u.master.Close()
}

func (u *unixPTY) Kill() error {
	if u.cmd.Process == nil {
		return nil
	}
	return u.cmd.Process.Kill()
}

func (u *unixPTY) ExitStatus() *ExitRecord {
	return u.exit.Load()
}
