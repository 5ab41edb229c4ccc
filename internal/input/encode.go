package input

import "unicode/utf8"

// Control bytes used by the pseudo-terminal mapping.
const (
	ETX byte = 0x03 // interrupt
	EOT byte = 0x04 // end of transmission
	BS  byte = 0x08 // erase
	DEL byte = 0x7f
)

// ControlChars is the control-character mapping a session negotiates with
// its pseudo-terminal. Encode uses it so the bytes sent for Ctrl-C, Ctrl-D
// and Backspace match what the remote line discipline expects.
type ControlChars struct {
	Interrupt byte
	EOF       byte
	Erase     byte
	EOL       byte
}

// DefaultControlChars is the mapping requested for SSH sessions.
var DefaultControlChars = ControlChars{
	Interrupt: ETX,
	EOF:       EOT,
	Erase:     BS,
	EOL:       '\n',
}

var escapeSequences = map[Code]string{
	KeyUp:     "\x1b[A",
	KeyDown:   "\x1b[B",
	KeyRight:  "\x1b[C",
	KeyLeft:   "\x1b[D",
	KeyHome:   "\x1b[H",
	KeyEnd:    "\x1b[F",
	KeyDelete: "\x1b[3~",
}

// Encode returns the bytes to forward to a session for ev, or nil if the key
// has no passthrough meaning.
func (c ControlChars) Encode(ev Event) []byte {
	switch ev.Code {
	case KeyEnter:
		return []byte{c.EOL}
	case KeyBackspace:
		return []byte{c.Erase}
	case KeyTab:
		return []byte{'\t'}
	case KeyEsc:
		return []byte{0x1b}
	case KeyRune:
		return c.encodeRune(ev)
	}
	if seq, ok := escapeSequences[ev.Code]; ok {
		return []byte(seq)
	}
	return nil
}

func (c ControlChars) encodeRune(ev Event) []byte {
	switch ev.Mod {
	case ModNone:
		return utf8.AppendRune(nil, ev.Rune)
	case ModCtrl:
		switch ev.Rune {
		case 'c':
			return []byte{c.Interrupt}
		case 'd':
			return []byte{c.EOF}
		}
		if ev.Rune >= 'a' && ev.Rune <= 'z' {
			return []byte{byte(ev.Rune-'a') + 1}
		}
		switch ev.Rune {
		case '\\':
			return []byte{0x1c}
		case ']':
			return []byte{0x1d}
		case '^':
			return []byte{0x1e}
		case '_':
			return []byte{0x1f}
		}
	case ModAlt:
		return append([]byte{0x1b}, utf8.AppendRune(nil, ev.Rune)...)
	}
	return nil
}
