// Package localshell implements a session backed by a local shell on a
// pseudo-terminal.
package localshell

import (
	"context"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
	"github.com/go-errors/errors"
	"golang.org/x/sys/unix"

	"github.com/abdullathedruid/rctf/internal/input"
	"github.com/abdullathedruid/rctf/internal/session"
)

// TypeName is shown in session listings.
const TypeName = "local"

// Session runs a shell program on a pty.
type Session struct {
	session.Named

	shell string
	opts  session.Options

	cmd    *exec.Cmd
	pty    *os.File
	stream *session.Stream
}

var _ session.Session = (*Session)(nil)

// New creates a disconnected local session running shell.
func New(shell string, opts session.Options) *Session {
	return &Session{shell: shell, opts: opts}
}

// TypeName returns "local".
func (s *Session) TypeName() string {
	return TypeName
}

// Shell returns the program the session runs.
func (s *Session) Shell() string {
	return s.shell
}

// State reports whether the shell is running.
func (s *Session) State() session.State {
	if s.cmd == nil || (s.stream != nil && s.stream.Exited()) {
		return session.Disconnected
	}
	return session.Connected
}

// Connect starts the shell on a new pty with the configured size and
// control characters.
func (s *Session) Connect(ctx context.Context) error {
	if s.cmd != nil {
		return nil
	}
	if s.shell == "" {
		return errors.Errorf("%w: no shell configured", session.ErrTransport)
	}

	cmd := exec.Command(s.shell)
	cmd.Env = append(os.Environ(), "TERM="+s.opts.TermType)

	f, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(s.opts.Rows),
		Cols: uint16(s.opts.Cols),
	})
	if err != nil {
		return errors.Errorf("%w: start %s: %v", session.ErrTransport, s.shell, err)
	}
	if err := applyControlChars(f, s.opts.Chars); err != nil {
		s.opts.Log().Warn("set pty control characters", "err", err)
	}

	s.cmd = cmd
	s.pty = f
	s.stream = session.NewStream(s.opts, f, func() (session.ExitReason, error) {
		return exitReason(cmd.Wait())
	}, f)
	s.opts.Log().Info("local shell started", "shell", s.shell, "pid", cmd.Process.Pid)
	return nil
}

// exitReason classifies the result of exec.Cmd.Wait.
func exitReason(err error) (session.ExitReason, error) {
	if err == nil {
		return session.Status(0), nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return session.ExitReason{}, err
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		sig := status.Signal()
		name := unix.SignalName(sig)
		if name == "" {
			name = sig.String()
		}
		return session.Signaled(name, sig.String()), nil
	}
	return session.Status(exitErr.ExitCode()), nil
}

// ReadLoop forwards keys to the shell until the control key or the shell
// exits.
func (s *Session) ReadLoop(ctx context.Context, keys <-chan input.Event, out io.Writer) (session.LoopResult, error) {
	if s.stream == nil {
		return 0, session.ErrNotConnected
	}
	return s.stream.ReadLoop(ctx, keys, out)
}

// ResetPrompt interrupts the shell and discards output for a short delay.
func (s *Session) ResetPrompt(ctx context.Context) error {
	if s.stream == nil {
		return session.ErrNotConnected
	}
	return s.stream.ResetPrompt(ctx)
}

// Send writes raw bytes to the pty.
func (s *Session) Send(p []byte) error {
	if s.stream == nil {
		return session.ErrNotConnected
	}
	return s.stream.Send(p)
}

// Disconnect sends EOF, hangs up the pty and kills the shell if it is
// still running. The process is reaped by the stream.
func (s *Session) Disconnect() error {
	if s.cmd == nil {
		return nil
	}
	s.pty.Write([]byte{s.opts.Chars.EOF})
	s.stream.Close()
	err := s.pty.Close()
	s.cmd.Process.Kill()
	s.opts.Log().Info("local shell stopped", "shell", s.shell)

	s.cmd, s.pty, s.stream = nil, nil, nil
	if err != nil && !errors.Is(err, os.ErrClosed) {
		return errors.Errorf("%w: close pty: %v", session.ErrTransport, err)
	}
	return nil
}
