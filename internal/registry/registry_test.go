package registry

import "testing"

func TestRegistry_PushAndGet(t *testing.T) {
	r := New[string]()

	for i, item := range []string{"A", "B", "C"} {
		if got := r.Push(item); got != i {
			t.Errorf("Push(%q) = %d, want %d", item, got, i)
		}
	}

	for i, want := range []string{"A", "B", "C"} {
		got, ok := r.Get(i)
		if !ok || got != want {
			t.Errorf("Get(%d) = %q, %v, want %q, true", i, got, ok, want)
		}
	}
}

func TestRegistry_PushAfterRemove(t *testing.T) {
	r := New[string]()
	r.Push("A")
	r.Push("B")
	r.Push("C")

	removed, ok := r.Remove(1)
	if !ok || removed != "B" {
		t.Fatalf("Remove(1) = %q, %v, want B, true", removed, ok)
	}
	if _, ok := r.Get(1); ok {
		t.Error("Get on freed index should return ok=false")
	}

	if got := r.Push("D"); got != 1 {
		t.Errorf("Push(D) = %d, want 1", got)
	}
	if got, _ := r.Get(1); got != "D" {
		t.Errorf("Get(1) = %q, want D", got)
	}
}

func TestRegistry_LowestFreedIndexFirst(t *testing.T) {
	r := New[int]()
	for i := 1; i <= 4; i++ {
		r.Push(i)
	}
	r.Remove(2)
	r.Remove(1)

	if got := r.NextIndex(); got != 1 {
		t.Errorf("NextIndex() = %d, want 1", got)
	}
	if got := r.Push(5); got != 1 {
		t.Errorf("Push(5) = %d, want 1", got)
	}
	if got := r.Push(6); got != 2 {
		t.Errorf("Push(6) = %d, want 2", got)
	}
	if got := r.NextIndex(); got != 4 {
		t.Errorf("NextIndex() = %d, want 4", got)
	}

	want := []int{1, 5, 6, 4}
	for i, w := range want {
		if got, _ := r.Get(i); got != w {
			t.Errorf("Get(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestRegistry_TotalOperations(t *testing.T) {
	r := New[string]()

	if _, ok := r.Get(-1); ok {
		t.Error("Get(-1) should return ok=false")
	}
	if _, ok := r.Get(10); ok {
		t.Error("Get(10) on empty registry should return ok=false")
	}
	if _, ok := r.Remove(0); ok {
		t.Error("Remove(0) on empty registry should return ok=false")
	}

	r.Push("A")
	r.Remove(0)
	if _, ok := r.Remove(0); ok {
		t.Error("second Remove(0) should return ok=false")
	}
	if r.Len() != 0 {
		t.Errorf("Len() = %d, want 0", r.Len())
	}
}

func TestRegistry_Each(t *testing.T) {
	r := New[string]()
	r.Push("A")
	r.Push("B")
	r.Push("C")
	r.Remove(1)

	var indices []int
	r.Each(func(index int, item string) bool {
		indices = append(indices, index)
		return true
	})
	if len(indices) != 2 || indices[0] != 0 || indices[1] != 2 {
		t.Errorf("Each visited %v, want [0 2]", indices)
	}

	count := 0
	r.Each(func(int, string) bool {
		count++
		return false
	})
	if count != 1 {
		t.Errorf("Each should stop after fn returns false, visited %d", count)
	}
}
