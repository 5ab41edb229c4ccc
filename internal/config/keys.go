package config

import (
	"strings"
	"unicode/utf8"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/input"
)

// ParseKey parses a key string into the event the keyboard decoder produces
// for that key.
// Supported formats:
//   - Single character: "q", "?", "N" (case preserved)
//   - Special keys: "enter", "space", "esc", "tab", "backspace"
//   - Arrow keys: "up", "down", "left", "right"
//   - Ctrl combinations: "ctrl+c", "ctrl+]"
//   - Alt combinations: "alt+x"
func ParseKey(s string) (input.Event, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return input.Event{}, errors.New("empty key string")
	}
	lower := strings.ToLower(trimmed)

	if char, found := strings.CutPrefix(lower, "ctrl+"); found {
		if len(char) == 1 && ctrlChars[char[0]] {
			return input.Ctrl(rune(char[0])), nil
		}
		return input.Event{}, errors.Errorf("invalid ctrl combination: %s", s)
	}

	if _, found := strings.CutPrefix(lower, "alt+"); found {
		// Preserve case of the character after the prefix
		char := trimmed[len("alt+"):]
		if r, size := utf8.DecodeRuneInString(char); size == len(char) && r >= ' ' && r != utf8.RuneError {
			return input.Event{Code: input.KeyRune, Rune: r, Mod: input.ModAlt}, nil
		}
		return input.Event{}, errors.Errorf("invalid alt combination: %s", s)
	}

	if key, ok := specialKeyMap[lower]; ok {
		return key, nil
	}

	if r, size := utf8.DecodeRuneInString(trimmed); size == len(trimmed) && r != utf8.RuneError {
		return input.Char(r), nil
	}

	return input.Event{}, errors.Errorf("unknown key: %s", s)
}

// KeyToString converts an event back to its config string representation.
func KeyToString(ev input.Event) string {
	if ev == input.Char(' ') {
		return "space"
	}
	return ev.String()
}

// specialKeyMap maps string names to special key events.
var specialKeyMap = map[string]input.Event{
	"enter":     input.Key(input.KeyEnter),
	"space":     input.Char(' '),
	"esc":       input.Key(input.KeyEsc),
	"escape":    input.Key(input.KeyEsc),
	"tab":       input.Key(input.KeyTab),
	"backspace": input.Key(input.KeyBackspace),
	"delete":    input.Key(input.KeyDelete),
	"home":      input.Key(input.KeyHome),
	"end":       input.Key(input.KeyEnd),
	"up":        input.Key(input.KeyUp),
	"down":      input.Key(input.KeyDown),
	"left":      input.Key(input.KeyLeft),
	"right":     input.Key(input.KeyRight),
}

// ctrlChars lists the characters that have a ctrl+ form on a terminal.
var ctrlChars = func() map[byte]bool {
	m := map[byte]bool{'\\': true, ']': true, '^': true, '_': true, ' ': true}
	for c := byte('a'); c <= 'z'; c++ {
		m[c] = true
	}
	return m
}()
