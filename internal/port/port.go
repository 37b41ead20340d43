// SPDX-License-Identifier: MIT
//
// Package port implements the typed carrier model that binds every
// GraphNode together: audio, CV, control, and event buffers, addressed
// by a stable identifier rather than a pointer, so graph nodes never
// hold back-references into mutable project state.
package port

import (
	"sort"

	"dawengine/internal/engineerr"
)

// Kind is the closed set of port signal types.
type Kind int

const (
	Audio Kind = iota
	CV
	Control
	Event
)

func (k Kind) String() string {
	switch k {
	case Audio:
		return "AUDIO"
	case CV:
		return "CV"
	case Control:
		return "CONTROL"
	case Event:
		return "EVENT"
	default:
		return "UNKNOWN"
	}
}

// OwnerKind identifies the category of domain object that owns a port.
type OwnerKind int

const (
	OwnerTrack OwnerKind = iota
	OwnerPlugin
	OwnerFader
	OwnerSend
	OwnerModulatorMacro
	OwnerSampleProcessor
	OwnerMonitorFader
)

// Role distinguishes ports of the same owner (e.g. stereo L/R, sidechain).
type Role int

const (
	RoleInput Role = iota
	RoleOutput
	RoleSidechain
)

// ID is a stable, comparable identifier for a port. Two ports with the
// same ID are the same port, regardless of which *Port value observes it.
type ID struct {
	OwnerKind OwnerKind
	OwnerID   uint64
	Role      Role
	Index     int
}

// Flags are capability bits describing what a port may be used for.
type Flags uint16

const (
	FlagInput Flags = 1 << iota
	FlagOutput
	FlagAutomatable
	FlagStereoL
	FlagStereoR
	FlagMonitor
	FlagPrefader
	FlagSampleProcessor
	FlagModulatorMacro
)

func (f Flags) Has(bit Flags) bool { return f&bit != 0 }

// Event is a single timestamped MIDI-shaped message within a cycle.
type Event struct {
	FrameOffset int
	Data        [3]byte
}

// ControlRange describes the bounds of a scalar control port.
type ControlRange struct {
	Min, Max, Default float64
}

// Connection is a directed src->dst binding between two compatible ports.
type Connection struct {
	Src, Dst   ID
	Multiplier float64
	Enabled    bool
}

// Port is a named, typed carrier with a per-cycle buffer.
type Port struct {
	ID    ID
	Name  string
	Kind  Kind
	Flags Flags

	// ControlRange is only meaningful when Kind == Control.
	ControlRange ControlRange

	audioBuf   []float32
	controlVal float64
	events     []Event

	blockLength int
}

// New constructs an unallocated Port. Call AllocateBuffers before use.
func New(id ID, name string, kind Kind, flags Flags) *Port {
	return &Port{ID: id, Name: name, Kind: kind, Flags: flags}
}

// AllocateBuffers preallocates the per-cycle buffer storage for the
// engine's block length. Calling it again re-sizes in place.
func (p *Port) AllocateBuffers(blockLength int) error {
	if blockLength <= 0 {
		return engineerr.New(engineerr.CONFIG, "port: block length must be > 0")
	}
	p.blockLength = blockLength
	switch p.Kind {
	case Audio, CV:
		if cap(p.audioBuf) < blockLength {
			p.audioBuf = make([]float32, blockLength)
		} else {
			p.audioBuf = p.audioBuf[:blockLength]
		}
	case Control:
		p.controlVal = p.ControlRange.Default
	case Event:
		if p.events == nil {
			p.events = make([]Event, 0, 64)
		}
	}
	return nil
}

// Allocated reports whether AllocateBuffers has been called.
func (p *Port) Allocated() bool { return p.blockLength > 0 }

// ClearBuffer zeroes audio/CV buffers and empties the event queue. It is
// called at cycle start for any port that will be summed.
func (p *Port) ClearBuffer() error {
	if !p.Allocated() {
		return engineerr.New(engineerr.CONFIG, "port: buffer unallocated")
	}
	switch p.Kind {
	case Audio, CV:
		for i := range p.audioBuf {
			p.audioBuf[i] = 0
		}
	case Event:
		p.events = p.events[:0]
	case Control:
		// Control ports hold their last value across cycles; clearing is a no-op.
	}
	return nil
}

// AudioBuffer returns the raw audio/CV sample buffer for direct writes
// by the port's owning node.
func (p *Port) AudioBuffer() []float32 { return p.audioBuf }

// ControlValue returns the current scalar value of a Control port.
func (p *Port) ControlValue() float64 { return p.controlVal }

// SetControlValue clamps and stores a scalar control value.
func (p *Port) SetControlValue(v float64) {
	if v < p.ControlRange.Min {
		v = p.ControlRange.Min
	}
	if v > p.ControlRange.Max {
		v = p.ControlRange.Max
	}
	p.controlVal = v
}

// Events returns the current event queue, sorted by FrameOffset.
func (p *Port) Events() []Event { return p.events }

// PushEvent inserts an event keeping the queue sorted by FrameOffset.
func (p *Port) PushEvent(e Event) {
	i := sort.Search(len(p.events), func(i int) bool {
		return p.events[i].FrameOffset > e.FrameOffset
	})
	p.events = append(p.events, Event{})
	copy(p.events[i+1:], p.events[i:])
	p.events[i] = e
}

// MonoToStereoPolicy enumerates the mono-to-stereo reconciliation
// policies a port pair may apply. Stereo-to-mono has no policy type;
// AverageStereoToMono is its only form.
type MonoToStereoPolicy int

const (
	// DuplicateLToR copies the mono (treated as L) signal to both channels.
	DuplicateLToR MonoToStereoPolicy = iota
)

// SumSignalFrom adds src's buffer into self's buffer with the given
// gain. Kinds must match. CONTROL replaces rather than sums when both
// are scalar. EVENT merges preserving frame-offset order.
func (p *Port) SumSignalFrom(src *Port, multiplier float64) error {
	if p.Kind != src.Kind {
		return engineerr.New(engineerr.CONFIG, "port: kind mismatch in sum_signal_from")
	}
	if !p.Allocated() || !src.Allocated() {
		return engineerr.New(engineerr.CONFIG, "port: unallocated buffer in sum_signal_from")
	}
	switch p.Kind {
	case Audio, CV:
		n := len(p.audioBuf)
		if len(src.audioBuf) < n {
			n = len(src.audioBuf)
		}
		g := float32(multiplier)
		for i := 0; i < n; i++ {
			p.audioBuf[i] += src.audioBuf[i] * g
		}
	case Control:
		p.controlVal = src.controlVal
	case Event:
		for _, e := range src.events {
			p.PushEvent(e)
		}
	}
	return nil
}

// DuplicateMonoToStereo writes a mono source into both channels of a
// stereo pair of ports.
func DuplicateMonoToStereo(mono *Port, left, right *Port) error {
	if err := left.SumSignalFrom(mono, 1.0); err != nil {
		return err
	}
	return right.SumSignalFrom(mono, 1.0)
}

// AverageStereoToMono averages a stereo pair down into a mono destination.
func AverageStereoToMono(left, right, mono *Port) error {
	if err := mono.SumSignalFrom(left, 0.5); err != nil {
		return err
	}
	return mono.SumSignalFrom(right, 0.5)
}
