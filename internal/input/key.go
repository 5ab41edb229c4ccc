package input

import "fmt"

// Code identifies a key independent of modifiers.
type Code int

const (
	KeyNone Code = iota
	KeyRune
	KeyEnter
	KeyEsc
	KeyBackspace
	KeyDelete
	KeyTab
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
)

var codeNames = map[Code]string{
	KeyEnter:     "enter",
	KeyEsc:       "esc",
	KeyBackspace: "backspace",
	KeyDelete:    "delete",
	KeyTab:       "tab",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyHome:      "home",
	KeyEnd:       "end",
}

// Modifier is a bit set of held modifier keys.
type Modifier uint8

const (
	ModNone Modifier = 0
	ModCtrl Modifier = 1 << iota
	ModAlt
)

// Event is a single decoded key press.
type Event struct {
	Code Code
	Rune rune
	Mod  Modifier
}

// Key returns an unmodified event for a special key.
func Key(code Code) Event {
	return Event{Code: code}
}

// Char returns an unmodified printable character event.
func Char(r rune) Event {
	return Event{Code: KeyRune, Rune: r}
}

// Ctrl returns the event for ctrl plus the given lowercase character.
func Ctrl(r rune) Event {
	return Event{Code: KeyRune, Rune: r, Mod: ModCtrl}
}

// IsPrintable reports whether the event inserts a character.
func (e Event) IsPrintable() bool {
	return e.Code == KeyRune && e.Mod == ModNone && e.Rune >= ' '
}

// String renders the event the way config files name keys.
func (e Event) String() string {
	prefix := ""
	if e.Mod&ModCtrl != 0 {
		prefix += "ctrl+"
	}
	if e.Mod&ModAlt != 0 {
		prefix += "alt+"
	}
	if e.Code == KeyRune {
		return prefix + string(e.Rune)
	}
	if name, ok := codeNames[e.Code]; ok {
		return prefix + name
	}
	return fmt.Sprintf("%skey(%d)", prefix, int(e.Code))
}
