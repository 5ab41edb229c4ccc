// Package session provides the session capability, the shared read loop
// used by every transport, and the manager that drives sessions between
// passthrough and control mode.
package session

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/abdullathedruid/rctf/internal/input"
)

// State is the connection state of a session.
type State int

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// LoopResult is how a read loop ended without error.
type LoopResult int

const (
	// ControlModeRequested means the user pressed the control key. The
	// connection is still open.
	ControlModeRequested LoopResult = iota + 1
	// RemoteExited means the remote process ended. The session must be
	// disconnected and removed.
	RemoteExited
)

func (r LoopResult) String() string {
	switch r {
	case ControlModeRequested:
		return "control mode requested"
	case RemoteExited:
		return "remote exited"
	default:
		return "none"
	}
}

// Session is the capability set every transport implements.
//
// A session starts Disconnected. Connect moves it to Connected and
// Disconnect back to Disconnected, as does a remote exit seen by ReadLoop.
// A transport failure is reported as an error, never as a state.
type Session interface {
	// TypeName identifies the transport in listings, e.g. "ssh".
	TypeName() string

	Connect(ctx context.Context) error

	// ReadLoop forwards keys to the remote and mirrors remote output to out
	// until the control key is pressed or the remote exits. A nonzero exit
	// status or a signal is returned as an *ExitError alongside
	// RemoteExited.
	ReadLoop(ctx context.Context, keys <-chan input.Event, out io.Writer) (LoopResult, error)

	// ResetPrompt interrupts the remote and discards output produced while
	// waiting, so stale output does not leak into the next passthrough turn.
	ResetPrompt(ctx context.Context) error

	Send(p []byte) error

	// Disconnect sends EOF and closes the transport. It is a no-op when
	// already disconnected.
	Disconnect() error

	Name() string
	SetName(name string)
	State() State
}

// Options configure the transport-independent part of a session.
type Options struct {
	// ControlKey ends passthrough and requests control mode.
	ControlKey input.Event

	// ResetDelay is how long ResetPrompt waits before discarding output.
	ResetDelay time.Duration

	// Chars is the control-character mapping requested for the pty.
	Chars input.ControlChars

	TermType string
	Cols     int
	Rows     int

	Logger *log.Logger
}

// Log returns the configured logger, or one that discards everything.
func (o Options) Log() *log.Logger {
	if o.Logger == nil {
		return log.New(io.Discard)
	}
	return o.Logger
}

// DefaultOptions returns options with Escape as the control key.
func DefaultOptions() Options {
	return Options{
		ControlKey: input.Key(input.KeyEsc),
		ResetDelay: time.Second,
		Chars:      input.DefaultControlChars,
		TermType:   "xterm",
		Cols:       80,
		Rows:       24,
	}
}

// Named holds a display name. Transports embed it to implement Name and
// SetName.
type Named struct {
	name string
}

// Name returns the display name, or "" when unnamed.
func (n *Named) Name() string {
	return n.name
}

// SetName changes the display name.
func (n *Named) SetName(name string) {
	n.name = name
}
