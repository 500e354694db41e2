// Package pqueue provides a binary min-heap ordered by a caller-supplied
// comparison. Equal elements come out in no particular order.
package pqueue

import "container/heap"

// Queue is a min-heap of T. The zero value is not usable; call New.
type Queue[T any] struct {
	items items[T]
}

// New creates an empty queue ordered by less
func New[T any](less func(a, b T) bool) *Queue[T] {
	return &Queue[T]{items: items[T]{less: less}}
}

// Push adds x in O(log n)
func (q *Queue[T]) Push(x T) {
	heap.Push(&q.items, x)
}

// Pop removes and returns the minimum element in O(log n). It panics on an
// empty queue.
func (q *Queue[T]) Pop() T {
	return heap.Pop(&q.items).(T)
}

// Peek returns the minimum element without removing it
func (q *Queue[T]) Peek() (T, bool) {
	if len(q.items.data) == 0 {
		var zero T
		return zero, false
	}
	return q.items.data[0], true
}

// Len is the number of queued elements
func (q *Queue[T]) Len() int { return len(q.items.data) }

// IsEmpty reports whether the queue holds no elements
func (q *Queue[T]) IsEmpty() bool { return len(q.items.data) == 0 }

// items implements heap.Interface
type items[T any] struct {
	data []T
	less func(a, b T) bool
}

func (h items[T]) Len() int { return len(h.data) }

func (h items[T]) Less(i, j int) bool { return h.less(h.data[i], h.data[j]) }

func (h items[T]) Swap(i, j int) { h.data[i], h.data[j] = h.data[j], h.data[i] }

func (h *items[T]) Push(x interface{}) {
	h.data = append(h.data, x.(T))
}

func (h *items[T]) Pop() interface{} {
	old := h.data
	n := len(old)
	item := old[n-1]
	var zero T
	old[n-1] = zero
	h.data = old[:n-1]
	return item
}
