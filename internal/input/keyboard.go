package input

import (
	"io"
	"sync"
	"time"

	"github.com/go-errors/errors"
)

// EscapeTimeout is how long a lone ESC waits for the rest of a sequence
// before it is reported as the Escape key.
const EscapeTimeout = 40 * time.Millisecond

// ErrClosed is returned by consumers of the event stream once it has ended.
var ErrClosed = errors.New("input closed")

// Keyboard owns the process's only reader of the terminal and publishes key
// events on a channel. Every consumer (line editor, session read loops)
// receives from the same channel, so keystrokes are never split between
// competing readers.
type Keyboard struct {
	events chan Event

	mu  sync.Mutex
	err error
}

// NewKeyboard starts reading r in the background.
func NewKeyboard(r io.Reader) *Keyboard {
	k := &Keyboard{events: make(chan Event, 64)}
	go k.read(r)
	return k
}

// Events returns the key event stream. It is closed when the reader fails.
func (k *Keyboard) Events() <-chan Event {
	return k.events
}

// Err returns the read error that closed the stream, if any.
func (k *Keyboard) Err() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.err
}

func (k *Keyboard) read(r io.Reader) {
	defer close(k.events)

	chunks := make(chan []byte)
	var readErr error
	go func() {
		defer close(chunks)
		buf := make([]byte, 256)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				chunks <- chunk
			}
			if err != nil {
				readErr = err
				return
			}
		}
	}()

	var dec Decoder
	var flush <-chan time.Time
	for {
		select {
		case chunk, ok := <-chunks:
			if !ok {
				k.emit(dec.Flush())
				k.mu.Lock()
				k.err = readErr
				k.mu.Unlock()
				return
			}
			k.emit(dec.Decode(chunk))
			flush = nil
			if dec.Pending() {
				flush = time.After(EscapeTimeout)
			}
		case <-flush:
			flush = nil
			k.emit(dec.Flush())
		}
	}
}

func (k *Keyboard) emit(events []Event) {
	for _, ev := range events {
		k.events <- ev
	}
}
