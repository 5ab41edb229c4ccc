package input

import "unicode/utf8"

// Decoder turns raw terminal bytes into key events. It keeps incomplete
// UTF-8 sequences and escape sequences between calls so input split across
// reads is not lost.
type Decoder struct {
	pending []byte
}

// csiFinal maps the final byte of "ESC [ x" and "ESC O x" sequences.
var csiFinal = map[byte]Code{
	'A': KeyUp,
	'B': KeyDown,
	'C': KeyRight,
	'D': KeyLeft,
	'H': KeyHome,
	'F': KeyEnd,
}

// csiTilde maps the numeric parameter of "ESC [ n ~" sequences.
var csiTilde = map[string]Code{
	"1": KeyHome,
	"3": KeyDelete,
	"4": KeyEnd,
	"7": KeyHome,
	"8": KeyEnd,
}

// Decode appends data to any pending bytes and returns every complete event.
// An ESC that could still begin a sequence stays pending until more data
// arrives or Flush is called.
func (d *Decoder) Decode(data []byte) []Event {
	return d.decode(data, false)
}

// Pending reports whether bytes are held back waiting for more input.
func (d *Decoder) Pending() bool {
	return len(d.pending) > 0
}

// Flush decodes whatever is pending as if no more input will follow. A
// lone ESC becomes the Escape key.
func (d *Decoder) Flush() []Event {
	return d.decode(nil, true)
}

func (d *Decoder) decode(data []byte, final bool) []Event {
	buf := append(d.pending, data...)
	d.pending = nil

	var events []Event
	for i := 0; i < len(buf); {
		b := buf[i]
		switch {
		case b == 0x1b:
			ev, n, incomplete := decodeEscape(buf[i:])
			if incomplete && !final {
				d.pending = append(d.pending, buf[i:]...)
				return events
			}
			if n > 0 {
				if ev.Code != KeyNone {
					events = append(events, ev)
				}
				i += n
				continue
			}
			events = append(events, Key(KeyEsc))
			i++
		case b == '\r' || b == '\n':
			events = append(events, Key(KeyEnter))
			i++
		case b == '\t':
			events = append(events, Key(KeyTab))
			i++
		case b == 0x7f || b == 0x08:
			events = append(events, Key(KeyBackspace))
			i++
		case b >= 0x01 && b <= 0x1a:
			events = append(events, Ctrl(rune('a'+b-1)))
			i++
		case b == 0x1c:
			events = append(events, Ctrl('\\'))
			i++
		case b == 0x1d:
			events = append(events, Ctrl(']'))
			i++
		case b == 0x1e:
			events = append(events, Ctrl('^'))
			i++
		case b == 0x1f:
			events = append(events, Ctrl('_'))
			i++
		case b == 0x00:
			events = append(events, Ctrl(' '))
			i++
		default:
			if !utf8.FullRune(buf[i:]) {
				if final {
					return events
				}
				d.pending = append(d.pending, buf[i:]...)
				return events
			}
			r, size := utf8.DecodeRune(buf[i:])
			if r != utf8.RuneError {
				events = append(events, Char(r))
			}
			i += size
		}
	}
	return events
}

// decodeEscape decodes an escape sequence at the start of buf. It returns
// the number of bytes consumed, or 0 for a bare ESC. incomplete is true when
// buf ends before the sequence could be classified. An unknown but
// well-formed sequence is consumed and reported as KeyNone.
func decodeEscape(buf []byte) (ev Event, n int, incomplete bool) {
	if len(buf) < 2 {
		return Event{}, 0, true
	}
	switch buf[1] {
	case '[':
		return decodeCSI(buf)
	case 'O':
		if len(buf) < 3 {
			return Event{}, 0, true
		}
		if code, ok := csiFinal[buf[2]]; ok {
			return Key(code), 3, false
		}
		return Event{}, 3, false
	case 0x1b:
		return Event{}, 0, false
	}
	if buf[1] >= ' ' && buf[1] < 0x7f {
		return Event{Code: KeyRune, Rune: rune(buf[1]), Mod: ModAlt}, 2, false
	}
	return Event{}, 0, false
}

func decodeCSI(buf []byte) (Event, int, bool) {
	// Parameter and intermediate bytes are 0x20-0x3f, final byte 0x40-0x7e.
	for i := 2; i < len(buf); i++ {
		c := buf[i]
		if c >= 0x40 && c <= 0x7e {
			params := string(buf[2:i])
			if c == '~' {
				if code, ok := csiTilde[params]; ok {
					return Key(code), i + 1, false
				}
				return Event{}, i + 1, false
			}
			if code, ok := csiFinal[c]; ok {
				ev := Key(code)
				if params == "1;5" {
					ev.Mod = ModCtrl
				}
				return ev, i + 1, false
			}
			return Event{}, i + 1, false
		}
		if c < 0x20 || c > 0x3f {
			// Malformed: treat the ESC as a key press and let the rest
			// decode as ordinary input.
			return Event{}, 0, false
		}
	}
	return Event{}, 0, true
}
