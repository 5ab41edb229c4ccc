// Package logging sets up the application log file. The terminal belongs to
// the sessions, so nothing is logged to stdout or stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	clog "github.com/charmbracelet/log"
	"github.com/go-errors/errors"
)

// Open returns a logger writing to path at the given level, and a function
// that closes the file. An empty path discards all output.
func Open(path, level string) (*clog.Logger, func() error, error) {
	lvl, err := clog.ParseLevel(level)
	if err != nil {
		return nil, nil, errors.WrapPrefix(err, "log level", 0)
	}

	if path == "" {
		logger := New(io.Discard, lvl)
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, errors.WrapPrefix(err, "create log directory", 0)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, errors.WrapPrefix(err, "open log file", 0)
	}
	return New(f, lvl), f.Close, nil
}

// New creates a timestamped logger on w.
func New(w io.Writer, level clog.Level) *clog.Logger {
	return clog.NewWithOptions(w, clog.Options{
		ReportTimestamp: true,
		Level:           level,
		Prefix:          "rctf",
	})
}
