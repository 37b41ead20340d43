// SPDX-License-Identifier: MIT
//
// Package control implements the Control-Change Queue (component F): a
// lock-free path for tempo and time signature edits to reach the
// realtime thread. Changes are applied once, at the start of the cycle
// they land in, never mid-cycle.
package control

import (
	"math"
	"sync/atomic"
)

// Kind is the closed set of control-change variants the engine accepts
// from outside the realtime thread.
type Kind int

const (
	Tempo Kind = iota
	BeatsPerBar
	BeatUnit

	numKinds
)

func (k Kind) String() string {
	switch k {
	case Tempo:
		return "TEMPO"
	case BeatsPerBar:
		return "BEATS_PER_BAR"
	case BeatUnit:
		return "BEAT_UNIT"
	default:
		return "UNKNOWN"
	}
}

// Change is a single pending edit, queued by whatever non-realtime
// actor (UI, automation, OSC/MIDI control surface) requested it.
type Change struct {
	Kind  Kind
	Value float64
}

// slot holds the most recently pushed, not-yet-applied Change of one
// Kind. bits is published via atomic store/load (math.Float64bits),
// the same atomic-publish idiom meter.PeakRMS uses, so pending and
// bits never tear under a concurrent Push/DrainInto pair.
type slot struct {
	pending atomic.Bool
	bits    atomic.Uint64
}

// Queue holds the latest pending change per Kind: a same-kind Push
// overwrites whatever was queued before it, while different kinds
// never interfere with each other. One producer (non-realtime) and
// one consumer (the engine cycle) are assumed per Kind, matching the
// SPSC discipline the rest of the realtime path uses.
type Queue struct {
	slots [numKinds]slot
}

// NewQueue builds an empty Queue. There is no capacity to size: the
// Kind space is small and closed, so the queue is exactly one slot per
// Kind.
func NewQueue() *Queue {
	return &Queue{}
}

// Push enqueues a change from a non-realtime thread. It never blocks
// and never fails: if a change of the same Kind is already pending, it
// is overwritten in place rather than coalesced into a FIFO.
func (q *Queue) Push(c Change) {
	s := &q.slots[c.Kind]
	s.bits.Store(math.Float64bits(c.Value))
	s.pending.Store(true)
}

// DrainInto applies every pending change to apply, one per Kind in
// Kind order, and clears pending. The engine calls this exactly once
// at the start of each cycle, so a cycle never observes a mid-block
// tempo change.
func (q *Queue) DrainInto(apply func(Change)) int {
	n := 0
	for k := Kind(0); k < numKinds; k++ {
		s := &q.slots[k]
		if !s.pending.CompareAndSwap(true, false) {
			continue
		}
		apply(Change{Kind: k, Value: math.Float64frombits(s.bits.Load())})
		n++
	}
	return n
}
