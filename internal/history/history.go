// Package history provides bounded line histories and their persistence.
package history

// DefaultLimit is the number of lines a History keeps by default.
const DefaultLimit = 100

// History is an ordered, bounded sequence of committed input lines.
// When full, the oldest line is dropped first. Empty lines are never
// recorded: submitting a blank prompt leaves the history unchanged, and
// loading a saved history skips blank entries.
type History struct {
	limit   int
	entries []string
}

// New creates an empty history holding at most limit lines.
// A non-positive limit means DefaultLimit.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Push appends line, evicting from the front when over the limit.
// Empty lines are not recorded.
func (h *History) Push(line string) {
	if line == "" {
		return
	}
	h.entries = append(h.entries, line)
	if over := len(h.entries) - h.limit; over > 0 {
		h.entries = append(h.entries[:0:0], h.entries[over:]...)
	}
}

// Entries returns a copy of the lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of lines held.
func (h *History) Len() int {
	return len(h.entries)
}

// Limit returns the maximum number of lines held.
func (h *History) Limit() int {
	return h.limit
}

// Replace discards the current lines and pushes lines in order.
func (h *History) Replace(lines []string) {
	h.entries = nil
	for _, line := range lines {
		h.Push(line)
	}
}
