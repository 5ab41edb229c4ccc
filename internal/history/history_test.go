package history

import (
	"fmt"
	"testing"
)

func TestHistory_UnderLimit(t *testing.T) {
	h := New(DefaultLimit)
	var want []string
	for i := 0; i < 42; i++ {
		line := fmt.Sprintf("cmd %d", i)
		h.Push(line)
		want = append(want, line)
	}

	got := h.Entries()
	if len(got) != len(want) {
		t.Fatalf("Len() = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Entries()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestHistory_EvictsOldestFirst(t *testing.T) {
	h := New(DefaultLimit)
	for i := 0; i < 150; i++ {
		h.Push(fmt.Sprintf("cmd %d", i))
	}

	got := h.Entries()
	if len(got) != 100 {
		t.Fatalf("Len() = %d, want 100", len(got))
	}
	if got[0] != "cmd 50" {
		t.Errorf("oldest entry = %q, want 'cmd 50'", got[0])
	}
	if got[99] != "cmd 149" {
		t.Errorf("newest entry = %q, want 'cmd 149'", got[99])
	}
}

func TestHistory_SkipsEmpty(t *testing.T) {
	h := New(3)
	h.Push("a")
	h.Push("")
	h.Push("b")

	if h.Len() != 2 {
		t.Errorf("Len() = %d, want 2", h.Len())
	}
}

func TestHistory_ReplaceSkipsEmpty(t *testing.T) {
	h := New(5)
	h.Replace([]string{"", "ls", "", "pwd"})

	got := h.Entries()
	if len(got) != 2 || got[0] != "ls" || got[1] != "pwd" {
		t.Errorf("Entries() = %q, want [ls pwd]", got)
	}
}

func TestHistory_EntriesIsCopy(t *testing.T) {
	h := New(3)
	h.Push("a")
	entries := h.Entries()
	entries[0] = "changed"

	if got := h.Entries()[0]; got != "a" {
		t.Errorf("Entries()[0] = %q after mutating copy, want 'a'", got)
	}
}

func TestNew_DefaultLimit(t *testing.T) {
	if got := New(0).Limit(); got != DefaultLimit {
		t.Errorf("New(0).Limit() = %d, want %d", got, DefaultLimit)
	}
}

func TestHistory_ReplaceRespectsLimit(t *testing.T) {
	h := New(2)
	h.Replace([]string{"a", "b", "c"})

	got := h.Entries()
	if len(got) != 2 || got[0] != "b" || got[1] != "c" {
		t.Errorf("Entries() = %v, want [b c]", got)
	}
}
