// Package lineedit reads a single line from raw key events with cursor
// editing and history browsing.
package lineedit

import (
	"context"
	"fmt"
	"io"

	"github.com/go-errors/errors"
	"github.com/mattn/go-runewidth"

	"github.com/abdullathedruid/rctf/internal/history"
	"github.com/abdullathedruid/rctf/internal/input"
)

var (
	// ErrAborted is returned when the user presses Ctrl-C.
	ErrAborted = errors.New("input aborted")
	// ErrEscaped is returned when the user presses Escape.
	ErrEscaped = errors.New("input escaped")
	// ErrInputClosed is returned when the key stream ends.
	ErrInputClosed = input.ErrClosed
)

// Editor edits one line at a time on a raw terminal. Output is written
// relative to the cursor column, so the prompt is drawn once per turn and
// only the changed suffix is redrawn afterwards.
type Editor struct {
	out     io.Writer
	history *history.History

	prompt string
	buf    []rune
	col    int

	// scratch holds a copy of the history while browsing so edits to
	// recalled lines do not touch the history itself. histIdx ==
	// len(scratch) is the live line.
	scratch []string
	histIdx int
	liveBuf []rune
	liveCol int
}

// New creates an editor writing to out and committing lines to h.
func New(out io.Writer, h *history.History) *Editor {
	return &Editor{out: out, history: h}
}

// History returns the history lines are committed to.
func (e *Editor) History() *history.History {
	return e.history
}

// ReadLine draws prompt and consumes keys until a line is committed.
// Escape returns ErrEscaped, Ctrl-C returns ErrAborted and Ctrl-D on an
// empty line returns io.EOF.
func (e *Editor) ReadLine(ctx context.Context, prompt string, keys <-chan input.Event) (string, error) {
	e.Begin(prompt)
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case ev, ok := <-keys:
			if !ok {
				return "", ErrInputClosed
			}
			line, done, err := e.Handle(ev)
			if err != nil {
				return "", err
			}
			if done {
				return line, nil
			}
		}
	}
}

// Begin starts a new input turn and draws the prompt.
func (e *Editor) Begin(prompt string) {
	e.prompt = prompt
	e.buf = e.buf[:0]
	e.col = 0
	e.scratch = e.history.Entries()
	e.histIdx = len(e.scratch)
	e.liveBuf = nil
	e.liveCol = 0
	e.write(prompt)
}

// Buffer returns the line being edited.
func (e *Editor) Buffer() string {
	return string(e.buf)
}

// Column returns the cursor position within the buffer in runes.
func (e *Editor) Column() int {
	return e.col
}

// Handle applies one key event. done is true when the line was committed.
func (e *Editor) Handle(ev input.Event) (line string, done bool, err error) {
	if ev.IsPrintable() {
		e.insert(ev.Rune)
		return "", false, nil
	}

	if ev.Mod == input.ModCtrl && ev.Code == input.KeyRune {
		switch ev.Rune {
		case 'c':
			e.write("^C\r\n")
			return "", false, ErrAborted
		case 'd':
			if len(e.buf) == 0 {
				e.write("\r\n")
				return "", false, io.EOF
			}
			e.deleteAt()
		case 'a':
			e.home()
		case 'e':
			e.end()
		case 'u':
			e.replace(e.buf[e.col:], 0)
		case 'l':
			e.write("\x1b[H\x1b[2J")
			e.Redraw()
		}
		return "", false, nil
	}

	switch ev.Code {
	case input.KeyEnter:
		line = string(e.buf)
		e.write("\r\n")
		e.history.Push(line)
		e.scratch = nil
		return line, true, nil
	case input.KeyEsc:
		e.write("\r\n")
		return "", false, ErrEscaped
	case input.KeyBackspace:
		e.backspace()
	case input.KeyDelete:
		e.deleteAt()
	case input.KeyLeft:
		if e.col > 0 {
			e.moveLeft(runewidth.RuneWidth(e.buf[e.col-1]))
			e.col--
		}
	case input.KeyRight:
		if e.col < len(e.buf) {
			e.moveRight(runewidth.RuneWidth(e.buf[e.col]))
			e.col++
		}
	case input.KeyHome:
		e.home()
	case input.KeyEnd:
		e.end()
	case input.KeyUp:
		e.historyUp()
	case input.KeyDown:
		e.historyDown()
	}
	return "", false, nil
}

// Redraw repaints the prompt and buffer on the current row.
func (e *Editor) Redraw() {
	e.write("\r\x1b[K" + e.prompt + string(e.buf))
	e.moveLeft(width(e.buf[e.col:]))
}

func (e *Editor) insert(r rune) {
	e.buf = append(e.buf, 0)
	copy(e.buf[e.col+1:], e.buf[e.col:])
	e.buf[e.col] = r
	e.write(string(r))
	e.col++
	e.drawSuffix()
}

func (e *Editor) backspace() {
	if e.col == 0 {
		return
	}
	e.moveLeft(runewidth.RuneWidth(e.buf[e.col-1]))
	e.buf = append(e.buf[:e.col-1], e.buf[e.col:]...)
	e.col--
	e.drawSuffix()
}

func (e *Editor) deleteAt() {
	if e.col >= len(e.buf) {
		return
	}
	e.buf = append(e.buf[:e.col], e.buf[e.col+1:]...)
	e.drawSuffix()
}

func (e *Editor) home() {
	e.moveLeft(width(e.buf[:e.col]))
	e.col = 0
}

func (e *Editor) end() {
	e.moveRight(width(e.buf[e.col:]))
	e.col = len(e.buf)
}

func (e *Editor) historyUp() {
	if e.histIdx == 0 {
		return
	}
	if e.histIdx == len(e.scratch) {
		e.liveBuf = append([]rune(nil), e.buf...)
		e.liveCol = e.col
	} else {
		e.scratch[e.histIdx] = string(e.buf)
	}
	e.histIdx--
	entry := []rune(e.scratch[e.histIdx])
	e.replace(entry, len(entry))
}

func (e *Editor) historyDown() {
	if e.histIdx >= len(e.scratch) {
		return
	}
	e.scratch[e.histIdx] = string(e.buf)
	e.histIdx++
	if e.histIdx == len(e.scratch) {
		e.replace(e.liveBuf, e.liveCol)
		return
	}
	entry := []rune(e.scratch[e.histIdx])
	e.replace(entry, len(entry))
}

// replace swaps the whole buffer and places the cursor at col.
func (e *Editor) replace(buf []rune, col int) {
	e.moveLeft(width(e.buf[:e.col]))
	e.buf = append(e.buf[:0:0], buf...)
	e.col = col
	e.write(string(e.buf) + "\x1b[K")
	e.moveLeft(width(e.buf[e.col:]))
}

// drawSuffix repaints everything right of the cursor and returns the
// cursor to its column.
func (e *Editor) drawSuffix() {
	tail := e.buf[e.col:]
	e.write(string(tail) + "\x1b[K")
	e.moveLeft(width(tail))
}

func (e *Editor) moveLeft(n int) {
	if n > 0 {
		e.write(fmt.Sprintf("\x1b[%dD", n))
	}
}

func (e *Editor) moveRight(n int) {
	if n > 0 {
		e.write(fmt.Sprintf("\x1b[%dC", n))
	}
}

func (e *Editor) write(s string) {
	io.WriteString(e.out, s)
}

func width(rs []rune) int {
	w := 0
	for _, r := range rs {
		w += runewidth.RuneWidth(r)
	}
	return w
}
