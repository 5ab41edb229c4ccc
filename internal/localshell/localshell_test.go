package localshell

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/input"
	"github.com/abdullathedruid/rctf/internal/session"
)

const testShell = "/bin/sh"

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type loopResult struct {
	result session.LoopResult
	err    error
}

func startShell(t *testing.T) *Session {
	t.Helper()
	if _, err := os.Stat(testShell); err != nil {
		t.Skipf("%s not available: %v", testShell, err)
	}
	opts := session.DefaultOptions()
	opts.ResetDelay = 100 * time.Millisecond
	s := New(testShell, opts)
	if err := s.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(func() { s.Disconnect() })
	return s
}

func runLoop(s *Session, out *syncBuffer) (chan<- input.Event, <-chan loopResult) {
	keys := make(chan input.Event)
	done := make(chan loopResult, 1)
	go func() {
		res, err := s.ReadLoop(context.Background(), keys, out)
		done <- loopResult{res, err}
	}()
	return keys, done
}

func typeLine(t *testing.T, keys chan<- input.Event, text string) {
	t.Helper()
	evs := make([]input.Event, 0, len(text)+1)
	for _, r := range text {
		evs = append(evs, input.Char(r))
	}
	evs = append(evs, input.Key(input.KeyEnter))
	for _, ev := range evs {
		select {
		case keys <- ev:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out typing %q", text)
		}
	}
}

func waitFor(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("output never contained %q, got %q", want, out.String())
}

func waitResult(t *testing.T, done <-chan loopResult) loopResult {
	t.Helper()
	select {
	case r := <-done:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("ReadLoop did not return")
		return loopResult{}
	}
}

func TestPassthroughAndControlKey(t *testing.T) {
	s := startShell(t)
	if s.State() != session.Connected {
		t.Fatalf("State() = %v, want connected", s.State())
	}

	out := &syncBuffer{}
	keys, done := runLoop(s, out)
	typeLine(t, keys, "echo marker-$((40+2))")
	waitFor(t, out, "marker-42")

	keys <- input.Key(input.KeyEsc)
	r := waitResult(t, done)
	if r.err != nil || r.result != session.ControlModeRequested {
		t.Fatalf("ReadLoop() = %v, %v, want ControlModeRequested", r.result, r.err)
	}
	if s.State() != session.Connected {
		t.Errorf("State() = %v, want connected", s.State())
	}
}

func TestResetPromptThenSend(t *testing.T) {
	s := startShell(t)

	if err := s.ResetPrompt(context.Background()); err != nil {
		t.Fatalf("ResetPrompt() error = %v", err)
	}
	if err := s.Send([]byte("echo after-$((2*3))\n")); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	out := &syncBuffer{}
	keys, done := runLoop(s, out)
	waitFor(t, out, "after-6")
	keys <- input.Key(input.KeyEsc)
	waitResult(t, done)
}

func TestShellExit(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
		check   func(t *testing.T, reason session.ExitReason)
	}{
		{name: "status zero", line: "exit 0"},
		{
			name:    "nonzero status",
			line:    "exit 7",
			wantErr: session.ErrRemoteNonZeroExit,
			check: func(t *testing.T, reason session.ExitReason) {
				if reason.Code != 7 {
					t.Errorf("exit code = %d, want 7", reason.Code)
				}
			},
		},
		{
			name:    "signal",
			line:    "kill -9 $$",
			wantErr: session.ErrRemoteSignalExit,
			check: func(t *testing.T, reason session.ExitReason) {
				if reason.Signal != "KILL" {
					t.Errorf("signal = %q, want KILL", reason.Signal)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := startShell(t)
			out := &syncBuffer{}
			keys, done := runLoop(s, out)
			typeLine(t, keys, tt.line)

			r := waitResult(t, done)
			if r.result != session.RemoteExited {
				t.Fatalf("ReadLoop() result = %v, want RemoteExited", r.result)
			}
			if s.State() != session.Disconnected {
				t.Errorf("State() after exit = %v, want disconnected", s.State())
			}
			if tt.wantErr == nil {
				if r.err != nil {
					t.Fatalf("ReadLoop() error = %v, want nil", r.err)
				}
				return
			}
			if !errors.Is(r.err, tt.wantErr) {
				t.Fatalf("ReadLoop() error = %v, want %v", r.err, tt.wantErr)
			}
			var exitErr *session.ExitError
			if !errors.As(r.err, &exitErr) {
				t.Fatalf("ReadLoop() error %T is not *ExitError", r.err)
			}
			tt.check(t, exitErr.Reason)
		})
	}
}

func TestDisconnectRunningShell(t *testing.T) {
	s := startShell(t)

	if err := s.Disconnect(); err != nil {
		t.Fatalf("Disconnect() error = %v", err)
	}
	if s.State() != session.Disconnected {
		t.Errorf("State() = %v, want disconnected", s.State())
	}
	if err := s.Disconnect(); err != nil {
		t.Errorf("second Disconnect() error = %v", err)
	}
	if err := s.Send([]byte("x")); !errors.Is(err, session.ErrNotConnected) {
		t.Errorf("Send() error = %v, want ErrNotConnected", err)
	}
}

func TestConnectWithoutShell(t *testing.T) {
	s := New("", session.DefaultOptions())
	if err := s.Connect(context.Background()); !errors.Is(err, session.ErrTransport) {
		t.Fatalf("Connect() error = %v, want ErrTransport", err)
	}
	if _, err := s.ReadLoop(context.Background(), nil, &syncBuffer{}); !errors.Is(err, session.ErrNotConnected) {
		t.Errorf("ReadLoop() error = %v, want ErrNotConnected", err)
	}
	if s.TypeName() != "local" {
		t.Errorf("TypeName() = %q, want local", s.TypeName())
	}
}
