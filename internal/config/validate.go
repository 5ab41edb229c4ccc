package config

import (
	"strings"

	"github.com/go-errors/errors"

	"github.com/abdullathedruid/rctf/internal/input"
)

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
	"fatal": true,
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if _, err := c.ControlEvent(); err != nil {
		return err
	}
	if c.ResetDelay <= 0 {
		return errors.Errorf("reset_delay must be positive, got %s", c.ResetDelay)
	}
	if c.HistoryLimit <= 0 {
		return errors.Errorf("history_limit must be positive, got %d", c.HistoryLimit)
	}
	if c.DefaultPort <= 0 || c.DefaultPort > 65535 {
		return errors.Errorf("default_port out of range: %d", c.DefaultPort)
	}
	if strings.TrimSpace(c.Prompt) == "" || strings.TrimSpace(c.ControlPrompt) == "" {
		return errors.New("prompt and control_prompt must not be empty")
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return errors.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// ControlEvent parses ControlKey. Keys that would make passthrough typing
// impossible are rejected.
func (c *Config) ControlEvent() (input.Event, error) {
	ev, err := ParseKey(c.ControlKey)
	if err != nil {
		return input.Event{}, errors.WrapPrefix(err, "invalid control_key", 0)
	}
	if ev.IsPrintable() || ev == input.Key(input.KeyEnter) || typingAlias[ev] {
		return input.Event{}, errors.Errorf("invalid control_key: %q is needed for typing", c.ControlKey)
	}
	return ev, nil
}

// typingAlias holds the ctrl chords that share a byte with backspace, tab
// or enter. The decoder reports those bytes as the named key, so such a
// control key could never be pressed.
var typingAlias = map[input.Event]bool{
	input.Ctrl('h'): true,
	input.Ctrl('i'): true,
	input.Ctrl('j'): true,
	input.Ctrl('m'): true,
}
