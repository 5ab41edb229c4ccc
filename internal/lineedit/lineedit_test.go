package lineedit

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/history"
	"github.com/abdullathedruid/rctf/internal/input"
)

func newEditor(lines ...string) (*Editor, *bytes.Buffer) {
	h := history.New(history.DefaultLimit)
	for _, l := range lines {
		h.Push(l)
	}
	var out bytes.Buffer
	e := New(&out, h)
	e.Begin("> ")
	return e, &out
}

func typeString(t *testing.T, e *Editor, s string) {
	t.Helper()
	for _, r := range s {
		if _, done, err := e.Handle(input.Char(r)); done || err != nil {
			t.Fatalf("Handle(%q) = done %v, err %v", r, done, err)
		}
	}
}

func press(t *testing.T, e *Editor, codes ...input.Code) {
	t.Helper()
	for _, c := range codes {
		if _, _, err := e.Handle(input.Key(c)); err != nil {
			t.Fatalf("Handle(%v) error = %v", c, err)
		}
	}
}

func TestEditor_InsertAndCommit(t *testing.T) {
	e, out := newEditor()
	typeString(t, e, "ls -la")

	line, done, err := e.Handle(input.Key(input.KeyEnter))
	if err != nil || !done {
		t.Fatalf("Enter = done %v, err %v", done, err)
	}
	if line != "ls -la" {
		t.Errorf("line = %q, want 'ls -la'", line)
	}
	if got := e.History().Entries(); len(got) != 1 || got[0] != "ls -la" {
		t.Errorf("history = %v, want [ls -la]", got)
	}
	if !bytes.HasPrefix(out.Bytes(), []byte("> ")) {
		t.Errorf("output %q does not start with the prompt", out.String())
	}
}

func TestEditor_CursorEditing(t *testing.T) {
	tests := []struct {
		name    string
		run     func(t *testing.T, e *Editor)
		wantBuf string
		wantCol int
	}{
		{
			name: "insert in middle",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "ac")
				press(t, e, input.KeyLeft)
				typeString(t, e, "b")
			},
			wantBuf: "abc",
			wantCol: 2,
		},
		{
			name: "backspace before cursor",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "abc")
				press(t, e, input.KeyLeft, input.KeyBackspace)
			},
			wantBuf: "ac",
			wantCol: 1,
		},
		{
			name: "delete at cursor",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "abc")
				press(t, e, input.KeyHome, input.KeyDelete)
			},
			wantBuf: "bc",
			wantCol: 0,
		},
		{
			name: "left clamps at zero",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "a")
				press(t, e, input.KeyLeft, input.KeyLeft, input.KeyLeft)
			},
			wantBuf: "a",
			wantCol: 0,
		},
		{
			name: "right clamps at end",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "ab")
				press(t, e, input.KeyRight, input.KeyRight)
			},
			wantBuf: "ab",
			wantCol: 2,
		},
		{
			name: "backspace at start is a no-op",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "ab")
				press(t, e, input.KeyHome, input.KeyBackspace)
			},
			wantBuf: "ab",
			wantCol: 0,
		},
		{
			name: "ctrl-u kills before cursor",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "hello world")
				for i := 0; i < 5; i++ {
					press(t, e, input.KeyLeft)
				}
				e.Handle(input.Ctrl('u'))
			},
			wantBuf: "world",
			wantCol: 0,
		},
		{
			name: "wide runes",
			run: func(t *testing.T, e *Editor) {
				typeString(t, e, "日本")
				press(t, e, input.KeyLeft)
				typeString(t, e, "x")
			},
			wantBuf: "日x本",
			wantCol: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEditor()
			tt.run(t, e)
			if e.Buffer() != tt.wantBuf {
				t.Errorf("Buffer() = %q, want %q", e.Buffer(), tt.wantBuf)
			}
			if e.Column() != tt.wantCol {
				t.Errorf("Column() = %d, want %d", e.Column(), tt.wantCol)
			}
		})
	}
}

func TestEditor_UpThenDownRestoresLiveLine(t *testing.T) {
	e, _ := newEditor("first", "second")
	typeString(t, e, "draft")
	press(t, e, input.KeyLeft, input.KeyLeft)

	press(t, e, input.KeyUp)
	if e.Buffer() != "second" {
		t.Fatalf("after Up Buffer() = %q, want 'second'", e.Buffer())
	}

	press(t, e, input.KeyDown)
	if e.Buffer() != "draft" || e.Column() != 3 {
		t.Errorf("after Down = %q col %d, want 'draft' col 3", e.Buffer(), e.Column())
	}
}

func TestEditor_HistoryClamps(t *testing.T) {
	e, _ := newEditor("first", "second")

	press(t, e, input.KeyUp, input.KeyUp, input.KeyUp)
	if e.Buffer() != "first" {
		t.Errorf("Up past oldest: Buffer() = %q, want 'first'", e.Buffer())
	}
	if e.Column() != len("first") {
		t.Errorf("Column() = %d, want end of line", e.Column())
	}

	press(t, e, input.KeyDown, input.KeyDown, input.KeyDown)
	if e.Buffer() != "" {
		t.Errorf("Down past live line: Buffer() = %q, want empty", e.Buffer())
	}
}

func TestEditor_EditedRecallDoesNotChangeHistory(t *testing.T) {
	e, _ := newEditor("first")

	press(t, e, input.KeyUp)
	typeString(t, e, "!")
	press(t, e, input.KeyDown, input.KeyUp)
	if e.Buffer() != "first!" {
		t.Errorf("Buffer() = %q, want scratch edit 'first!'", e.Buffer())
	}

	press(t, e, input.KeyDown)
	if _, _, err := e.Handle(input.Key(input.KeyEsc)); !errors.Is(err, ErrEscaped) {
		t.Fatalf("Esc error = %v, want ErrEscaped", err)
	}
	if got := e.History().Entries(); len(got) != 1 || got[0] != "first" {
		t.Errorf("history = %v, want [first]", got)
	}
}

func TestEditor_AbortAndEscapeAreDistinct(t *testing.T) {
	e, _ := newEditor()
	typeString(t, e, "partial")

	if _, done, err := e.Handle(input.Key(input.KeyEsc)); done || !errors.Is(err, ErrEscaped) {
		t.Errorf("Esc = done %v, err %v, want ErrEscaped", done, err)
	}
	if _, done, err := e.Handle(input.Ctrl('c')); done || !errors.Is(err, ErrAborted) {
		t.Errorf("Ctrl-C = done %v, err %v, want ErrAborted", done, err)
	}
	if e.History().Len() != 0 {
		t.Errorf("aborted input was committed to history")
	}
}

func TestEditor_CtrlD(t *testing.T) {
	e, _ := newEditor()
	if _, _, err := e.Handle(input.Ctrl('d')); err != io.EOF {
		t.Errorf("Ctrl-D on empty line error = %v, want io.EOF", err)
	}

	e.Begin("> ")
	typeString(t, e, "ab")
	press(t, e, input.KeyHome)
	if _, _, err := e.Handle(input.Ctrl('d')); err != nil {
		t.Fatalf("Ctrl-D on non-empty line error = %v", err)
	}
	if e.Buffer() != "b" {
		t.Errorf("Buffer() = %q, want 'b'", e.Buffer())
	}
}

func TestEditor_ReadLine(t *testing.T) {
	h := history.New(10)
	var out bytes.Buffer
	e := New(&out, h)

	keys := make(chan input.Event, 8)
	for _, ev := range []input.Event{input.Char('h'), input.Char('i'), input.Key(input.KeyEnter)} {
		keys <- ev
	}

	line, err := e.ReadLine(context.Background(), "rctf> ", keys)
	if err != nil {
		t.Fatalf("ReadLine() error = %v", err)
	}
	if line != "hi" {
		t.Errorf("ReadLine() = %q, want 'hi'", line)
	}

	close(keys)
	if _, err := e.ReadLine(context.Background(), "rctf> ", keys); !errors.Is(err, ErrInputClosed) {
		t.Errorf("ReadLine() on closed keys error = %v, want ErrInputClosed", err)
	}
}

func TestEditor_ReadLineContextCancel(t *testing.T) {
	e := New(io.Discard, history.New(10))
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := e.ReadLine(ctx, "> ", make(chan input.Event)); err != context.DeadlineExceeded {
		t.Errorf("ReadLine() error = %v, want context.DeadlineExceeded", err)
	}
}
