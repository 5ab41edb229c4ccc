package localshell

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/abdullathedruid/rctf/internal/input"
)

// applyControlChars sets the line discipline's special characters so they
// match what key events are encoded to.
func applyControlChars(f *os.File, chars input.ControlChars) error {
	fd := int(f.Fd())
	t, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}
	t.Cc[unix.VINTR] = chars.Interrupt
	t.Cc[unix.VEOF] = chars.EOF
	t.Cc[unix.VERASE] = chars.Erase
	t.Cc[unix.VEOL] = chars.EOL
	return unix.IoctlSetTermios(fd, unix.TCSETS, t)
}
