// SPDX-License-Identifier: MIT
//
// Package ringbuf provides a generic bounded single-producer/
// single-consumer ring buffer, a lock-free queue for handing data
// between a realtime thread and a non-realtime thread without ever
// blocking. Its user in this engine is the plugin background worker's
// request and response queues (internal/pluginhost).
package ringbuf

import (
	"sync/atomic"

	"dawengine/pkg/bitint"
)

// Ring is a bounded, lock-free single-producer/single-consumer ring
// buffer. Capacity is rounded up to the next power of two so index
// wrapping is a mask instead of a modulo.
type Ring[T any] struct {
	buf  []T
	mask uint64
	head atomic.Uint64 // next write index, producer-owned
	tail atomic.Uint64 // next read index, consumer-owned
}

// New constructs a Ring with at least the given capacity.
func New[T any](capacity int) *Ring[T] {
	n := bitint.NextPowerOfTwo(capacity)
	return &Ring[T]{buf: make([]T, n), mask: uint64(n - 1)}
}

// Push enqueues v. It never blocks; it returns false if the ring is full.
func (r *Ring[T]) Push(v T) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if head-tail >= uint64(len(r.buf)) {
		return false
	}
	r.buf[head&r.mask] = v
	r.head.Store(head + 1)
	return true
}

// Pop dequeues the oldest pending value. It never blocks; ok is false
// if the ring is empty.
func (r *Ring[T]) Pop() (v T, ok bool) {
	tail := r.tail.Load()
	head := r.head.Load()
	if tail == head {
		return v, false
	}
	v = r.buf[tail&r.mask]
	r.tail.Store(tail + 1)
	return v, true
}

// Len reports the number of pending entries. Approximate under
// concurrent use; intended for diagnostics only.
func (r *Ring[T]) Len() int {
	return int(r.head.Load() - r.tail.Load())
}

// Cap reports the ring's actual (power-of-two) capacity.
func (r *Ring[T]) Cap() int { return len(r.buf) }
