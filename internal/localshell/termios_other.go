//go:build !linux

package localshell

import (
	"os"

	"github.com/abdullathedruid/rctf/internal/input"
)

func applyControlChars(f *os.File, chars input.ControlChars) error {
	return nil
}
