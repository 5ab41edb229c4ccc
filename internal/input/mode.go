// Package input decodes raw terminal keystrokes into key events and tracks
// which mode the keyboard is currently feeding.
package input

// Mode represents the current input mode.
type Mode int

const (
	// ModePrompt is the top-level rctf command prompt.
	ModePrompt Mode = iota
	// ModePassthrough forwards all input to the active session.
	ModePassthrough
	// ModeControl is the local termcraft prompt for the active session.
	ModeControl
)

// String returns the human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePrompt:
		return "PROMPT"
	case ModePassthrough:
		return "PASSTHROUGH"
	case ModeControl:
		return "CONTROL"
	default:
		return "UNKNOWN"
	}
}
