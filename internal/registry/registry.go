// Package registry provides an index-stable collection.
//
// An index handed out by Push keeps pointing at the same item until that
// item is removed. Freed indices are reused lowest-first by later pushes.
package registry

import "container/heap"

// Registry stores items under stable integer indices.
type Registry[T any] struct {
	items []slot[T]
	free  freeList
}

type slot[T any] struct {
	item T
	live bool
}

// New creates an empty registry.
func New[T any]() *Registry[T] {
	return &Registry[T]{}
}

// NextIndex returns the index the next Push will assign.
func (r *Registry[T]) NextIndex() int {
	if len(r.free) > 0 {
		return r.free[0]
	}
	return len(r.items)
}

// Push stores item and returns its index.
func (r *Registry[T]) Push(item T) int {
	if len(r.free) > 0 {
		index := heap.Pop(&r.free).(int)
		r.items[index] = slot[T]{item: item, live: true}
		return index
	}
	r.items = append(r.items, slot[T]{item: item, live: true})
	return len(r.items) - 1
}

// Get returns the item at index. ok is false for out-of-range or freed indices.
func (r *Registry[T]) Get(index int) (item T, ok bool) {
	if index < 0 || index >= len(r.items) || !r.items[index].live {
		return item, false
	}
	return r.items[index].item, true
}

// Remove frees index and returns the item that was stored there.
// ok is false if the index was already empty.
func (r *Registry[T]) Remove(index int) (item T, ok bool) {
	if index < 0 || index >= len(r.items) || !r.items[index].live {
		return item, false
	}
	item = r.items[index].item
	r.items[index] = slot[T]{}
	heap.Push(&r.free, index)
	return item, true
}

// Len returns the number of live items.
func (r *Registry[T]) Len() int {
	return len(r.items) - len(r.free)
}

// Each calls fn for every live item in index order. Iteration stops when fn
// returns false.
func (r *Registry[T]) Each(fn func(index int, item T) bool) {
	for i, s := range r.items {
		if !s.live {
			continue
		}
		if !fn(i, s.item) {
			return
		}
	}
}

// freeList is a min-heap of freed indices.
type freeList []int

func (f freeList) Len() int           { return len(f) }
func (f freeList) Less(i, j int) bool { return f[i] < f[j] }
func (f freeList) Swap(i, j int)      { f[i], f[j] = f[j], f[i] }

func (f *freeList) Push(x any) { *f = append(*f, x.(int)) }

func (f *freeList) Pop() any {
	old := *f
	n := len(old)
	x := old[n-1]
	*f = old[:n-1]
	return x
}
