package entity

import (
	"iter"

	"github.com/oomph-ac/posesync/utils"
)

const defaultBufferCapacity = 16

// Buffer is a time-ordered queue of snapshots with strictly increasing SentTime. Old snapshots are
// only removed through EvictBefore and Clear.
type Buffer struct {
	queue *utils.CircularQueue[Snapshot]
}

// NewBuffer creates an empty snapshot buffer.
func NewBuffer() *Buffer {
	return &Buffer{queue: utils.NewCircularQueue[Snapshot](defaultBufferCapacity)}
}

// Push appends s if its SentTime is newer than every buffered snapshot, and reports whether it did.
func (b *Buffer) Push(s Snapshot) bool {
	if latest, ok := b.queue.Back(); ok && s.SentTime <= latest.SentTime {
		return false
	}
	b.queue.Append(s)
	return true
}

// Len returns the number of buffered snapshots.
func (b *Buffer) Len() int {
	return b.queue.Len()
}

// Oldest returns the snapshot with the lowest SentTime.
func (b *Buffer) Oldest() (Snapshot, bool) {
	return b.queue.Front()
}

// Latest returns the snapshot with the highest SentTime.
func (b *Buffer) Latest() (Snapshot, bool) {
	return b.queue.Back()
}

// Bracket finds the pair of snapshots surrounding t. higher is the first snapshot with
// SentTime >= t and lower is the one before it. When no snapshot reaches t both are the latest
// snapshot, and when higher is the oldest snapshot both are the oldest. ok is false only for an
// empty buffer.
func (b *Buffer) Bracket(t float64) (lower, higher Snapshot, ok bool) {
	n := b.queue.Len()
	if n == 0 {
		return lower, higher, false
	}
	for i := 0; i < n; i++ {
		s := b.queue.At(i)
		if s.SentTime < t {
			continue
		}
		if i == 0 {
			return s, s, true
		}
		return b.queue.At(i - 1), s, true
	}
	latest := b.queue.At(n - 1)
	return latest, latest, true
}

// EvictBefore removes snapshots from the front whose SentTime is below t and returns how many were
// removed.
func (b *Buffer) EvictBefore(t float64) (n int) {
	for {
		oldest, ok := b.queue.Front()
		if !ok || oldest.SentTime >= t {
			return n
		}
		b.queue.Pop()
		n++
	}
}

// Clear removes every buffered snapshot.
func (b *Buffer) Clear() {
	b.queue.Clear()
}

// All iterates the snapshots from oldest to newest.
func (b *Buffer) All() iter.Seq2[int, Snapshot] {
	return b.queue.Iter()
}
