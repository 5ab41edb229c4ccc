// Package terminal wraps the local terminal: raw mode, size and styled
// output for messages printed between remote sessions.
package terminal

import (
	"io"
	"os"

	"github.com/go-errors/errors"
	"golang.org/x/term"
)

// Default size used when the input is not a terminal.
const (
	DefaultCols = 80
	DefaultRows = 24
)

// Terminal is the local terminal the user types into.
type Terminal struct {
	fd int
}

// New wraps in, the file whose mode is switched to raw.
func New(in *os.File) *Terminal {
	return &Terminal{fd: int(in.Fd())}
}

// IsTerminal reports whether the input is a terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(t.fd)
}

// EnableRaw switches the terminal to raw mode and returns a function that
// restores the previous mode. When the input is not a terminal nothing is
// changed and restore is a no-op.
func (t *Terminal) EnableRaw() (restore func(), err error) {
	if !t.IsTerminal() {
		return func() {}, nil
	}
	oldState, err := term.MakeRaw(t.fd)
	if err != nil {
		return nil, errors.WrapPrefix(err, "enable raw mode", 0)
	}
	return func() {
		term.Restore(t.fd, oldState)
	}, nil
}

// Size returns the terminal size, or 80x24 when unknown.
func (t *Terminal) Size() (cols, rows int) {
	if t.IsTerminal() {
		if c, r, err := term.GetSize(t.fd); err == nil && c > 0 && r > 0 {
			return c, r
		}
	}
	return DefaultCols, DefaultRows
}

// Clear erases the screen and homes the cursor.
func Clear(w io.Writer) {
	io.WriteString(w, "\x1b[H\x1b[2J")
}
