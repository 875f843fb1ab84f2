package utils

import (
	"iter"

	"github.com/oomph-ac/posesync/oerror"
)

// CircularQueue is a growable ring buffer. Items are appended at the tail and removed from the head;
// when the queue is full the backing array doubles instead of overwriting the oldest item.
type CircularQueue[T any] struct {
	items []T
	head  int
	size  int
}

func NewCircularQueue[T any](capacity int) *CircularQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &CircularQueue[T]{items: make([]T, capacity)}
}

// Get returns the element at logical position index (0 = oldest), or an error if out of range.
func (q *CircularQueue[T]) Get(index int) (T, error) {
	var zero T
	if index < 0 || index >= q.size {
		return zero, oerror.New("circularqueue: get %d out of range [0, %d)", index, q.size)
	}
	return q.items[(q.head+index)%len(q.items)], nil
}

// At is Get without the range check, for callers that already iterate within Len.
func (q *CircularQueue[T]) At(index int) T {
	return q.items[(q.head+index)%len(q.items)]
}

func (q *CircularQueue[T]) Iter() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for index := range q.size {
			if !yield(index, q.items[(q.head+index)%len(q.items)]) {
				return
			}
		}
	}
}

// Len returns the number of items in the queue.
func (q *CircularQueue[T]) Len() int {
	return q.size
}

// Cap returns the number of items the queue can hold before growing.
func (q *CircularQueue[T]) Cap() int {
	return len(q.items)
}

// Front returns the oldest element. The boolean ok is false if the queue is empty.
func (q *CircularQueue[T]) Front() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[q.head], true
}

// Back returns the newest element. The boolean ok is false if the queue is empty.
func (q *CircularQueue[T]) Back() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	return q.items[(q.head+q.size-1)%len(q.items)], true
}

// Pop removes and returns the oldest element. The boolean ok is false if the
// queue is empty.
func (q *CircularQueue[T]) Pop() (item T, ok bool) {
	if q.size == 0 {
		return item, false
	}
	var zero T
	item = q.items[q.head]
	q.items[q.head] = zero
	q.head = (q.head + 1) % len(q.items)
	q.size--
	return item, true
}

// Append appends an item at the tail, growing the queue if it is full.
func (q *CircularQueue[T]) Append(item T) {
	if q.size == len(q.items) {
		q.grow()
	}
	q.items[(q.head+q.size)%len(q.items)] = item
	q.size++
}

// Clear removes all items while keeping the backing array.
func (q *CircularQueue[T]) Clear() {
	clear(q.items)
	q.head = 0
	q.size = 0
}

func (q *CircularQueue[T]) grow() {
	items := make([]T, len(q.items)*2)
	for index := range q.size {
		items[index] = q.items[(q.head+index)%len(q.items)]
	}
	q.items = items
	q.head = 0
}
