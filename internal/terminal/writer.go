package terminal

import (
	"bytes"
	"io"
)

// Writer translates "\n" to "\r\n" so local messages render correctly while
// the terminal is in raw mode. An existing "\r\n" is left alone.
type Writer struct {
	w      io.Writer
	lastCR bool
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Write writes p with newlines translated. It reports len(p) on success.
func (w *Writer) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		if len(p) > 0 {
			w.lastCR = p[len(p)-1] == '\r'
		}
		return w.writeAll(p, len(p))
	}

	buf := make([]byte, 0, len(p)+bytes.Count(p, []byte{'\n'}))
	prevCR := w.lastCR
	for _, b := range p {
		if b == '\n' && !prevCR {
			buf = append(buf, '\r')
		}
		buf = append(buf, b)
		prevCR = b == '\r'
	}
	w.lastCR = prevCR
	return w.writeAll(buf, len(p))
}

func (w *Writer) writeAll(buf []byte, n int) (int, error) {
	if _, err := w.w.Write(buf); err != nil {
		return 0, err
	}
	return n, nil
}
