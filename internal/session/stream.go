package session

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/input"
)

// outputBuffer is how many output chunks are queued before readers block.
const outputBuffer = 256

// exitEvent is delivered once when the remote ends. err is set when the
// transport broke instead of reporting an exit.
type exitEvent struct {
	reason ExitReason
	err    error
}

// Stream is the transport-independent half of a connected session. It
// carries remote output from reader goroutines to whoever is attached, and
// delivers the exit notification exactly once.
//
// Output is queued in order. While nobody is attached the queue fills and
// the readers block, which applies backpressure to the transport rather
// than dropping bytes.
type Stream struct {
	opts   Options
	stdin  io.Writer
	output chan []byte
	exit   chan exitEvent
	closed chan struct{}

	mu        sync.Mutex
	exited    *exitEvent
	closeOnce sync.Once
}

// NewStream starts copying every reader in outputs into the stream. wait is
// called once all readers have finished and must block until the remote
// process is gone.
func NewStream(opts Options, stdin io.Writer, wait func() (ExitReason, error), outputs ...io.Reader) *Stream {
	s := &Stream{
		opts:   opts,
		stdin:  stdin,
		output: make(chan []byte, outputBuffer),
		exit:   make(chan exitEvent, 1),
		closed: make(chan struct{}),
	}

	var wg sync.WaitGroup
	for _, r := range outputs {
		r := r
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.pump(r)
		}()
	}
	go func() {
		wg.Wait()
		close(s.output)
		reason, err := wait()
		s.exit <- exitEvent{reason: reason, err: err}
	}()
	return s
}

func (s *Stream) pump(r io.Reader) {
	buf := make([]byte, 4096)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.output <- chunk:
			case <-s.closed:
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Close releases readers blocked on a full queue. Transports call it when
// disconnecting so a backgrounded session does not leak goroutines.
func (s *Stream) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

// Send writes raw bytes to the remote.
func (s *Stream) Send(p []byte) error {
	if _, err := s.stdin.Write(p); err != nil {
		return errors.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

// Exited reports whether the exit notification has been consumed.
func (s *Stream) Exited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exited != nil
}

// ReadLoop forwards keys and mirrors output until the control key, the
// remote exit or ctx ends it. The mirror goroutine is stopped and joined
// before ReadLoop returns, so nothing is written to out afterwards.
func (s *Stream) ReadLoop(ctx context.Context, keys <-chan input.Event, out io.Writer) (LoopResult, error) {
	if ev, ok := s.consumedExit(); ok {
		return RemoteExited, ev.result()
	}

	mirrorCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		s.mirror(mirrorCtx, out)
	}()
	stop := func() {
		cancel()
		<-done
	}

	for {
		select {
		case <-ctx.Done():
			stop()
			return 0, ctx.Err()

		case ev := <-s.exit:
			stop()
			// Readers are done before the exit is sent, so the queue
			// holds the remaining output and is closed.
			for chunk := range s.output {
				out.Write(chunk)
			}
			s.mu.Lock()
			s.exited = &ev
			s.mu.Unlock()
			return RemoteExited, ev.result()

		case key, ok := <-keys:
			if !ok {
				stop()
				return 0, input.ErrClosed
			}
			if key == s.opts.ControlKey {
				stop()
				return ControlModeRequested, nil
			}
			data := s.opts.Chars.Encode(key)
			if len(data) == 0 {
				continue
			}
			if err := s.Send(data); err != nil {
				stop()
				return 0, err
			}
		}
	}
}

func (s *Stream) mirror(ctx context.Context, out io.Writer) {
	output := s.output
	for {
		select {
		case <-ctx.Done():
			return
		case chunk, ok := <-output:
			if !ok {
				output = nil
				continue
			}
			out.Write(chunk)
		}
	}
}

// ResetPrompt sends the interrupt byte, waits the configured delay and then
// discards whatever output arrived. It is a heuristic: output produced after
// the delay still reaches the next read loop.
func (s *Stream) ResetPrompt(ctx context.Context) error {
	if err := s.Send([]byte{s.opts.Chars.Interrupt}); err != nil {
		return err
	}

	timer := time.NewTimer(s.opts.ResetDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	s.Drain()
	return nil
}

// Drain discards queued output without blocking.
func (s *Stream) Drain() {
	for {
		select {
		case _, ok := <-s.output:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (s *Stream) consumedExit() (exitEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exited == nil {
		return exitEvent{}, false
	}
	return *s.exited, true
}

func (e exitEvent) result() error {
	if e.err != nil {
		return errors.Errorf("%w: %v", ErrTransport, e.err)
	}
	return e.reason.Err()
}
