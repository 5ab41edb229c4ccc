package session

import (
	"fmt"
	"strings"

	"github.com/go-errors/errors"
)

var (
	// ErrAuthenticationFailed means the credentials were rejected. The
	// session is never registered.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrTransport means the connection failed or broke.
	ErrTransport = errors.New("transport failure")
	// ErrNotConnected is returned by operations that need a connection.
	ErrNotConnected = errors.New("session not connected")
	// ErrRemoteNonZeroExit matches an *ExitError carrying a nonzero status.
	ErrRemoteNonZeroExit = errors.New("remote exited with nonzero status")
	// ErrRemoteSignalExit matches an *ExitError carrying a signal.
	ErrRemoteSignalExit = errors.New("remote terminated by signal")
	// ErrIndexNotFound means no live session has the requested index.
	ErrIndexNotFound = errors.New("session index not found")
	// ErrNameNotFound means no session has the requested name.
	ErrNameNotFound = errors.New("session name not found")
)

// ExitReason is how the remote process ended: an exit status, or a signal
// when Signal is set.
type ExitReason struct {
	Code    int
	Signal  string
	Message string
}

// Status returns an exit reason for a plain exit status.
func Status(code int) ExitReason {
	return ExitReason{Code: code}
}

// Signaled returns an exit reason for a termination signal. name may be
// given with or without the SIG prefix.
func Signaled(name, message string) ExitReason {
	return ExitReason{Signal: strings.TrimPrefix(name, "SIG"), Message: message}
}

// IsSignal reports whether the process was terminated by a signal.
func (r ExitReason) IsSignal() bool {
	return r.Signal != ""
}

// Success reports a zero exit status.
func (r ExitReason) Success() bool {
	return !r.IsSignal() && r.Code == 0
}

func (r ExitReason) String() string {
	if r.IsSignal() {
		return fmt.Sprintf("Process exited with signal SIG%s: %s", r.Signal, r.Message)
	}
	return fmt.Sprintf("Process exited with code %d.", r.Code)
}

// Err returns nil for a successful exit and an *ExitError otherwise.
func (r ExitReason) Err() error {
	if r.Success() {
		return nil
	}
	return &ExitError{Reason: r}
}

// ExitError reports a nonzero exit status or a signal. It matches
// ErrRemoteNonZeroExit or ErrRemoteSignalExit with errors.Is.
type ExitError struct {
	Reason ExitReason
}

func (e *ExitError) Error() string {
	return e.Reason.String()
}

// Is classifies the exit for errors.Is.
func (e *ExitError) Is(target error) bool {
	if e.Reason.IsSignal() {
		return target == ErrRemoteSignalExit
	}
	return target == ErrRemoteNonZeroExit
}
