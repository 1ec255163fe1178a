// SPDX-License-Identifier: EPL-2.0

// Package ring provides a fixed-capacity FIFO that overwrites its oldest
// elements when a writer outpaces the reader.
package ring

import (
	"errors"
	"sync"
)

// ErrEmptyBuffer is returned by Read when there is nothing to read.
var ErrEmptyBuffer = errors.New("empty buffer")

// Buffer is safe for one or more concurrent writers and readers.
type Buffer[T any] struct {
	mu   sync.Mutex
	data []T
	head uint64 // total elements written
	tail uint64 // total elements consumed or overwritten
}

// New creates a buffer holding at most capacity elements.
func New[T any](capacity int) *Buffer[T] {
	if capacity < 1 {
		capacity = 1
	}

	return &Buffer[T]{data: make([]T, capacity)}
}

// Write appends data. When data does not fit, the oldest elements are dropped;
// when data alone exceeds the capacity only its newest elements are kept.
// It returns the number of elements stored.
func (b *Buffer[T]) Write(data []T) int {
	size := uint64(len(b.data))
	if uint64(len(data)) > size {
		data = data[uint64(len(data))-size:]
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, v := range data {
		b.data[(b.head+uint64(i))%size] = v
	}
	b.head += uint64(len(data))
	if b.head-b.tail > size {
		b.tail = b.head - size
	}

	return len(data)
}

// Read moves up to len(dst) of the oldest elements into dst.
func (b *Buffer[T]) Read(dst []T) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.head == b.tail {
		return 0, ErrEmptyBuffer
	}

	n := min(uint64(len(dst)), b.head-b.tail)
	size := uint64(len(b.data))
	for i := range n {
		dst[i] = b.data[(b.tail+i)%size]
	}
	b.tail += n

	return int(n), nil
}

// Len returns the number of unread elements.
func (b *Buffer[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return int(b.head - b.tail)
}

// Cap returns the capacity.
func (b *Buffer[T]) Cap() int { return len(b.data) }

// Reset drops all unread elements.
func (b *Buffer[T]) Reset() {
	b.mu.Lock()
	b.tail = b.head
	b.mu.Unlock()
}
