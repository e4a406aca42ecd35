// Package cli attaches a gridterm session to the host terminal: raw-mode
// stdin is forwarded to the child, the emulated grid is painted to stdout on
// a fixed tick, and host window resizes propagate through SIGWINCH.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/gridterm/gridterm"
)

// Config controls an attached terminal run.
type Config struct {
	Command string
	Args    []string
	Env     []string
	Dir     string

	// TickInterval is the poll/render cadence. Default 33ms (~30fps).
	TickInterval time.Duration

	Logger *slog.Logger
}

// Terminal drives one session against the host tty.
type Terminal struct {
	cfg      Config
	session  *gridterm.Session
	renderer *renderer
	in       *os.File
	out      *os.File
}

// Run attaches a new session to the host terminal and blocks until the
// child exits or the session closes.
func Run(cfg Config) error {
	if cfg.Command == "" {
		cfg.Command = defaultShell()
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 33 * time.Millisecond
	}

	t := &Terminal{cfg: cfg, in: os.Stdin, out: os.Stdout}
	return t.run()
}

func defaultShell() string {
	if sh := os.Getenv("SHELL"); sh != "" {
		return sh
	}
	return "/bin/sh"
}

func (t *Terminal) run() error {
	fd := int(t.in.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("cli: stdin is not a terminal")
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("cli: get terminal size: %w", err)
	}

	session, err := gridterm.Open(gridterm.Options{
		Command: t.cfg.Command,
		Args:    t.cfg.Args,
		Env:     t.cfg.Env,
		Dir:     t.cfg.Dir,
		Rows:    rows,
		Cols:    cols,
		Logger:  t.cfg.Logger,
		OnBell:  func() { t.out.WriteString("\a") },
		OnTitle: func(title string) {
			fmt.Fprintf(t.out, "\x1b]0;%s\a", title)
		},
	})
	if err != nil {
		return err
	}
	t.session = session
	defer session.Close()

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("cli: raw mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	t.renderer = newRenderer(t.out)
	t.renderer.enterScreen()
	defer t.renderer.leaveScreen()

	winch := make(chan os.Signal, 1)
	signal.Notify(winch, unix.SIGWINCH)
	defer signal.Stop(winch)

	go t.forwardInput()

	ticker := time.NewTicker(t.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-winch:
			if c, r, err := term.GetSize(fd); err == nil {
				session.Resize(r, c)
			}
		case <-ticker.C:
			if session.Tick() {
				t.renderer.paint(session.Snapshot())
			}
			if session.State() != gridterm.StateRunning {
				return nil
			}
		}
	}
}

// forwardInput pumps raw stdin bytes to the child, translating arrow keys
// when the child asked for application cursor mode.
func (t *Terminal) forwardInput() {
	buf := make([]byte, 1024)
	for {
		n, err := t.in.Read(buf)
		if n > 0 {
			t.session.WriteInput(encodeInput(buf[:n], t.session.ApplicationCursorKeys()))
		}
		if err != nil {
			return
		}
	}
}
