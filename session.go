package gridterm

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

// SessionState is the lifecycle phase of a session.
type SessionState int32

const (
	StateStarting SessionState = iota
	StateRunning
	StateClosing
	StateClosed
	StateFailed
)

func (s SessionState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int32(s))
}

const (
	DefaultRows         = 24
	DefaultCols         = 80
	DefaultCloseTimeout = 2 * time.Second

	defaultMaxScrollback = 1000
	readChunkSize        = 4096
	chunkChannelCap      = 64
)

// Options configures a session. Only Command is required when spawning a
// real process; StartPTY replaces spawning entirely.
type Options struct {
	Command string
	Args    []string
	// Env for the child. nil inherits the host environment plus
	// TERM=xterm-256color and COLORTERM=truecolor.
	Env []string
	Dir string

	Rows, Cols int // default 24x80

	// MaxScrollback bounds retained scrollback lines; 0 uses the default,
	// negative disables scrollback.
	MaxScrollback int

	// ClipboardPolicy arbitrates OSC 52 clipboard access. nil declines
	// reads (with an empty reply) and drops writes.
	ClipboardPolicy ClipboardPolicy

	// OnBell fires on BEL, OnTitle on OSC 0/2 title changes. Both are
	// called from the goroutine running Tick.
	OnBell  func()
	OnTitle func(string)

	Logger       *slog.Logger  // nil uses slog.Default()
	CloseTimeout time.Duration // reader join bound, default 2s

	// StartPTY overrides process spawning, e.g. with a FakePTY in tests.
	StartPTY func(rows, cols int) (PTY, error)
}

// Session hosts one child process behind a pty and its emulated screen.
//
// A dedicated reader goroutine performs the blocking reads; everything else
// (parsing, grid mutation, outbound flush) happens on the caller's Tick.
// Session methods other than Tick are safe to call from any goroutine.
type Session struct {
	id   string
	log  *slog.Logger
	pty  PTY
	grid *Grid

	parser   *Parser
	outbound *OutboundQueue

	state atomic.Int32

	chunks     chan []byte
	stop       chan struct{}
	readerDone chan struct{}

	closeTimeout time.Duration
	closeOnce    sync.Once

	streamClosed bool // owned by Tick
}

// Open spawns the configured command behind a pty and starts the reader
// bridge. The returned session is Running; the caller drives it with Tick.
func Open(opts Options) (*Session, error) {
	rows, cols := opts.Rows, opts.Cols
	if rows < 1 {
		rows = DefaultRows
	}
	if cols < 1 {
		cols = DefaultCols
	}
	scrollback := opts.MaxScrollback
	if scrollback == 0 {
		scrollback = defaultMaxScrollback
	} else if scrollback < 0 {
		scrollback = 0
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	closeTimeout := opts.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = DefaultCloseTimeout
	}

	s := &Session{
		id:           uuid.NewString(),
		log:          logger,
		grid:         NewGrid(rows, cols, scrollback),
		outbound:     &OutboundQueue{},
		chunks:       make(chan []byte, chunkChannelCap),
		stop:         make(chan struct{}),
		readerDone:   make(chan struct{}),
		closeTimeout: closeTimeout,
	}
	s.state.Store(int32(StateStarting))
	if opts.OnBell != nil {
		s.grid.SetBellCallback(opts.OnBell)
	}
	if opts.OnTitle != nil {
		s.grid.SetTitleCallback(opts.OnTitle)
	}
	wb := &translator{queue: s.outbound, clipboard: opts.ClipboardPolicy}
	s.parser = NewParser(s.grid, wb.handle)

	var err error
	if opts.StartPTY != nil {
		s.pty, err = opts.StartPTY(rows, cols)
	} else {
		s.pty, err = startPTY(buildCommand(opts), rows, cols)
	}
	if err != nil {
		s.state.Store(int32(StateFailed))
		return nil, &SpawnError{Command: opts.Command, Err: err}
	}

	s.state.Store(int32(StateRunning))
	go s.readLoop()
	s.log.Debug("session started", "session", s.id, "rows", rows, "cols", cols)
	return s, nil
}

func buildCommand(opts Options) *exec.Cmd {
	cmd := exec.Command(opts.Command, opts.Args...)
	cmd.Dir = opts.Dir
	if opts.Env != nil {
		cmd.Env = opts.Env
	} else {
		cmd.Env = append(os.Environ(),
			"TERM=xterm-256color",
			"COLORTERM=truecolor",
		)
	}
	return cmd
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// State returns the current lifecycle state.
func (s *Session) State() SessionState {
	return SessionState(s.state.Load())
}

// Grid exposes the underlying grid for direct queries (row text,
// scrollback). Mutation belongs to the session.
func (s *Session) Grid() *Grid { return s.grid }

// readLoop is the reader bridge: one blocking read in flight at a time,
// each successful read copied into an owned chunk and handed to Tick via
// the channel. Closing the channel is the stream-closed marker.
func (s *Session) readLoop() {
	defer close(s.readerDone)
	defer close(s.chunks)
	buf := make([]byte, readChunkSize)
	for {
		select {
		case <-s.stop:
			return
		default:
		}
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.chunks <- chunk:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			if errors.Is(err, syscall.EINTR) {
				continue
			}
			// EOF, EIO, or a closed descriptor: the stream is done.
			return
		}
	}
}

// Tick drains pending child output through the parser and flushes queued
// input and replies to the child. It returns true when the screen changed.
// Tick must be called from a single goroutine, typically the render loop.
func (s *Session) Tick() bool {
drain:
	for !s.streamClosed {
		select {
		case chunk, ok := <-s.chunks:
			if !ok {
				s.streamClosed = true
				s.log.Debug("child stream closed", "session", s.id)
				break drain
			}
			s.parser.Feed(chunk)
		default:
			break drain
		}
	}

	s.flushOutbound()

	if s.streamClosed && s.State() == StateRunning {
		if err := s.Close(); err != nil {
			s.log.Warn("close after stream end", "session", s.id, "error", err)
		}
	}
	return s.grid.ConsumeDirty()
}

func (s *Session) flushOutbound() {
	for _, chunk := range s.outbound.Drain() {
		if _, err := s.pty.Write(chunk); err != nil {
			if errors.Is(err, ErrBrokenPipe) {
				s.log.Warn("input dropped, child gone", "session", s.id)
				s.streamClosed = true
			} else {
				s.log.Warn("pty write failed", "session", s.id, "error", err)
			}
			return
		}
	}
}

// WriteInput queues bytes for delivery to the child on the next Tick.
// Input after the child has exited is dropped with a warning.
func (s *Session) WriteInput(p []byte) {
	if len(p) == 0 {
		return
	}
	if s.State() != StateRunning {
		s.log.Warn("input dropped, session not running",
			"session", s.id, "state", s.State().String(), "bytes", len(p))
		return
	}
	s.outbound.Append(p)
}

// Resize propagates new dimensions to the pty first and resizes the grid
// only once the OS call succeeds, so grid dimensions always reflect the last
// acknowledged size.
func (s *Session) Resize(rows, cols int) error {
	if rows < 1 || cols < 1 {
		return &ResizeError{Rows: rows, Cols: cols, Err: errors.New("invalid dimensions")}
	}
	if s.State() != StateRunning {
		return ErrSessionClosed
	}
	if err := s.pty.Resize(rows, cols); err != nil {
		s.log.Warn("pty resize failed", "session", s.id,
			"rows", rows, "cols", cols, "error", err)
		return &ResizeError{Rows: rows, Cols: cols, Err: err}
	}
	s.grid.Resize(rows, cols)
	return nil
}

// Snapshot copies out the current screen state.
func (s *Session) Snapshot() GridSnapshot {
	return s.grid.Snapshot()
}

// ExitStatus returns the child's exit record once reaped, nil before.
func (s *Session) ExitStatus() *ExitRecord {
	return s.pty.ExitStatus()
}

// Close tears the session down: signal the reader to stop, close the pty
// master to unblock its read, and join it within the configured bound,
// escalating to a child kill and finally abandonment with a warning. Close
// is idempotent and every teardown path funnels through it.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.state.Store(int32(StateClosing))
		close(s.stop)
		if err := s.pty.Close(); err != nil {
			s.log.Debug("pty close", "session", s.id, "error", err)
		}
		select {
		case <-s.readerDone:
		case <-time.After(s.closeTimeout):
			if err := s.pty.Kill(); err != nil {
				s.log.Debug("kill child", "session", s.id, "error", err)
			}
			select {
			case <-s.readerDone:
			case <-time.After(s.closeTimeout):
				s.log.Warn("abandoning blocked reader", "session", s.id)
			}
		}
		s.state.Store(int32(StateClosed))
		s.log.Debug("session closed", "session", s.id)
	})
	return nil
}

// --- Mode observability, for key and paste encoding on the caller's side ---

// BracketedPaste reports whether the child asked for bracketed paste
// (pastes should be wrapped in ESC[200~ / ESC[201~).
func (s *Session) BracketedPaste() bool {
	return s.grid.HasMode(ModeBracketedPaste)
}

// ApplicationCursorKeys reports whether arrow keys should send SS3 encodings
// (DECCKM).
func (s *Session) ApplicationCursorKeys() bool {
	return s.grid.HasMode(ModeAppCursorKeys)
}

// MouseReporting reports whether any mouse reporting mode is active.
func (s *Session) MouseReporting() bool {
	return s.grid.Modes().MouseReporting()
}

// AltScreen reports whether the alternate screen is active.
func (s *Session) AltScreen() bool {
	return s.grid.AltScreen()
}

// Title returns the current window title.
func (s *Session) Title() string {
	return s.grid.Title()
}
