// SPDX-License-Identifier: MIT
//
// Package timeline implements the transport/playhead state machine: the
// frame-accurate position, loop points, and play-state machine that
// feeds each engine cycle. State transitions requested from
// non-realtime threads (request_roll, request_pause, set_bpm) are
// observed cooperatively at the next cycle boundary.
package timeline

import (
	"sync/atomic"

	"dawengine/internal/engineerr"
	"dawengine/internal/port"
)

// PlayState is the closed set of transport states.
type PlayState int32

const (
	Paused PlayState = iota
	Rolling
	PauseRequested
	RollRequested
)

func (s PlayState) String() string {
	switch s {
	case Paused:
		return "PAUSED"
	case Rolling:
		return "ROLLING"
	case PauseRequested:
		return "PAUSE_REQUESTED"
	case RollRequested:
		return "ROLL_REQUESTED"
	default:
		return "UNKNOWN"
	}
}

const (
	MinBPM = 20.0
	MaxBPM = 960.0

	DefaultBeatsPerBar = 4
	DefaultBeatUnit    = 4
)

// Transport holds the playhead and loop state shared between the
// realtime cycle and non-realtime callers.
type Transport struct {
	playState int32 // atomic PlayState

	playhead   int64 // atomic, frames
	cue        int64
	loopStart  int64
	loopEnd    int64
	startMark  int64
	endMark    int64

	loopEnabled int32 // atomic bool

	bpm          float64
	beatsPerBar  int
	beatUnit     int
	sampleRate   float64
	framesPerTick float64

	// pauseSem is posted whenever a pause transition completes, so
	// non-realtime callers can await a safe editing window.
	pauseSem chan struct{}
}

// New creates a Transport at the given sample rate, paused, at bar 1.
func New(sampleRate float64) *Transport {
	t := &Transport{
		loopEnd:     8 * 4 * int64(sampleRate), // 8 bars @ 4/4, placeholder frame mapping
		endMark:     128 * 4 * int64(sampleRate),
		bpm:         120,
		beatsPerBar: DefaultBeatsPerBar,
		beatUnit:    DefaultBeatUnit,
		sampleRate:  sampleRate,
		pauseSem:    make(chan struct{}, 1),
	}
	t.recomputeFramesPerTick()
	return t
}

// State returns the current play state.
func (t *Transport) State() PlayState {
	return PlayState(atomic.LoadInt32(&t.playState))
}

// Playhead returns the current frame-accurate position. Safe to call
// from any thread; monotone within a cycle.
func (t *Transport) Playhead() int64 {
	return atomic.LoadInt64(&t.playhead)
}

// RequestRoll transitions PAUSED -> ROLL_REQUESTED. The effective
// transition to ROLLING happens at the next cycle boundary.
func (t *Transport) RequestRoll() {
	atomic.CompareAndSwapInt32(&t.playState, int32(Paused), int32(RollRequested))
}

// RequestPause transitions ROLLING -> PAUSE_REQUESTED.
func (t *Transport) RequestPause() {
	atomic.CompareAndSwapInt32(&t.playState, int32(Rolling), int32(PauseRequested))
}

// ApplyRequestedTransition observes ROLL_REQUESTED/PAUSE_REQUESTED and
// performs the effective transition. Called once per cycle by the
// engine orchestrator, never from user code directly.
func (t *Transport) ApplyRequestedTransition() {
	switch t.State() {
	case RollRequested:
		atomic.StoreInt32(&t.playState, int32(Rolling))
	case PauseRequested:
		atomic.StoreInt32(&t.playState, int32(Paused))
		select {
		case t.pauseSem <- struct{}{}:
		default:
		}
	}
}

// AwaitPause blocks until a pause transition has completed. Intended
// for non-realtime callers (e.g. the undo stack) that need a safe
// editing window.
func (t *Transport) AwaitPause() {
	<-t.pauseSem
}

// AddToPlayhead advances the playhead by frames, but only while ROLLING.
func (t *Transport) AddToPlayhead(frames int64) {
	if t.State() == Rolling {
		atomic.AddInt64(&t.playhead, frames)
	}
}

// MovePlayhead immediately relocates the playhead and emits one
// all-notes-off event on every provided track event port.
func (t *Transport) MovePlayhead(target int64, trackEventPorts []*port.Port) {
	atomic.StoreInt64(&t.playhead, target)
	for _, p := range trackEventPorts {
		if p == nil || p.Kind != port.Event {
			continue
		}
		p.PushEvent(port.Event{FrameOffset: 0, Data: [3]byte{0xB0, 0x7B, 0x00}}) // all notes off, channel 1
	}
}

// SetBPM clamps bpm to [MinBPM, MaxBPM] and recomputes frames-per-tick.
// Not safe to call from the realtime thread directly; callers must
// route this through the control-change queue (see internal/control).
func (t *Transport) SetBPM(bpm float64) {
	if bpm < MinBPM {
		bpm = MinBPM
	}
	if bpm > MaxBPM {
		bpm = MaxBPM
	}
	t.bpm = bpm
	t.recomputeFramesPerTick()
}

// BPM returns the current tempo.
func (t *Transport) BPM() float64 { return t.bpm }

// SetBeatsPerBar updates the meter numerator and recomputes derived values.
func (t *Transport) SetBeatsPerBar(n int) {
	if n < 1 {
		n = 1
	}
	t.beatsPerBar = n
	t.recomputeFramesPerTick()
}

// SetBeatUnit updates the meter denominator and recomputes derived values.
func (t *Transport) SetBeatUnit(n int) {
	if n < 1 {
		n = 1
	}
	t.beatUnit = n
	t.recomputeFramesPerTick()
}

func (t *Transport) recomputeFramesPerTick() {
	// ticks per quarter note is a fixed PPQ-style constant; frames per
	// tick derives from bpm and sample rate the way the original
	// engine_update_frames_per_tick does.
	const ticksPerBeat = 960.0
	secondsPerBeat := 60.0 / t.bpm
	framesPerBeat := secondsPerBeat * t.sampleRate
	t.framesPerTick = framesPerBeat / ticksPerBeat
}

// FramesPerTick returns the current frames-per-tick value.
func (t *Transport) FramesPerTick() float64 { return t.framesPerTick }

// SetLoop configures the loop region. loop_start must be < loop_end.
func (t *Transport) SetLoop(start, end int64, enabled bool) error {
	if start >= end {
		return engineerr.New(engineerr.CONFIG, "timeline: loop_start must be < loop_end")
	}
	t.loopStart = start
	t.loopEnd = end
	if enabled {
		atomic.StoreInt32(&t.loopEnabled, 1)
	} else {
		atomic.StoreInt32(&t.loopEnabled, 0)
	}
	return nil
}

// LoopEnabled reports whether looping is currently active.
func (t *Transport) LoopEnabled() bool { return atomic.LoadInt32(&t.loopEnabled) != 0 }

// LoopBounds returns the current loop start/end frames.
func (t *Transport) LoopBounds() (start, end int64) { return t.loopStart, t.loopEnd }

// SubCycle describes one scheduler invocation's time window within an
// orchestrator callback, produced when a loop boundary splits a block.
type SubCycle struct {
	StartFrame int64
	NFrames    int
}

// PlanCycle computes the sub-cycle split for a block of nframes
// starting at the current playhead. If looping is disabled, engaged
// but not crossed this block, or the transport is not rolling, it
// returns a single sub-cycle.
func (t *Transport) PlanCycle(nframes int) []SubCycle {
	if nframes <= 0 {
		return nil
	}
	if t.State() != Rolling || !t.LoopEnabled() {
		return []SubCycle{{StartFrame: t.Playhead(), NFrames: nframes}}
	}

	start := t.Playhead()
	remaining := t.loopEnd - start
	if remaining <= 0 || int64(nframes) <= remaining {
		return []SubCycle{{StartFrame: start, NFrames: nframes}}
	}

	first := int(remaining)
	second := nframes - first
	return []SubCycle{
		{StartFrame: start, NFrames: first},
		{StartFrame: t.loopStart, NFrames: second},
	}
}

// AdvancePastSubCycle advances the playhead by one sub-cycle, wrapping
// to loop_start if the sub-cycle reached loop_end exactly.
func (t *Transport) AdvancePastSubCycle(sc SubCycle) {
	if t.State() != Rolling {
		return
	}
	end := sc.StartFrame + int64(sc.NFrames)
	if t.LoopEnabled() && end >= t.loopEnd && sc.StartFrame < t.loopEnd {
		atomic.StoreInt64(&t.playhead, t.loopStart)
		return
	}
	atomic.StoreInt64(&t.playhead, end)
}

// UpdatePositionFrames recomputes the frame values of named positions
// after a BPM/meter change. In this engine, named positions are stored
// directly in frames, so this is a hook reserved for a future BBT
// position cache and is a no-op today.
func (t *Transport) UpdatePositionFrames() {}
