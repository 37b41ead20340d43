// SPDX-License-Identifier: MIT
//
// Package engine implements the cycle orchestrator (component H): the
// audio-thread callback that drains pending control changes, advances
// the transport, drives the processing graph one sub-cycle at a time
// across loop boundaries, mixes one-shot sample playback into the
// monitor bus, and publishes the result to the backend.
package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"dawengine/internal/control"
	"dawengine/internal/engineerr"
	"dawengine/internal/port"
	"dawengine/internal/router"
	"dawengine/internal/sampleplayback"
	"dawengine/internal/timeline"
)

// Stats is a point-in-time snapshot of the engine's realtime health,
// safe to poll from a monitoring goroutine without touching the audio
// thread's own state.
type Stats struct {
	XRunCount      uint64
	LastCycle      time.Duration
	ActiveSamples  int
	PlayheadFrames int64
}

// Engine ties every routing-engine component together behind a single
// per-cycle entry point.
type Engine struct {
	Transport    *timeline.Transport
	Scheduler    *router.Scheduler
	ControlQueue *control.Queue
	SampleMixer  *sampleplayback.Mixer

	// MasterL/MasterR are the graph's final output ports; Cycle copies
	// their buffers (after sample-playback mixing) into the backend's
	// output buffers. Set via SetMasterBus before starting the engine.
	MasterL, MasterR *port.Port

	backend Backend
	cfg     BackendConfig

	// CycleBudget, if nonzero, is the wall-clock ceiling a cycle must
	// stay under; exceeding it raises engineerr.XRun via OnFault.
	CycleBudget time.Duration

	// OnFault receives every error a cycle produces (a failed
	// RunCycle, such as GRAPH_SWAPPED, or XRUN) without halting
	// playback: the engine always keeps running, silencing only the
	// node or sub-cycle that faulted. Node payload faults are reported
	// through router.Node.OnFault, not here.
	OnFault func(error)

	mu sync.Mutex // guards Reconfigure against a concurrent cold-path call

	xrunCount   atomic.Uint64
	lastCycleNs atomic.Int64
}

// StatsSnapshot reports the engine's current realtime health. Safe to
// call from any goroutine.
func (e *Engine) StatsSnapshot() Stats {
	var playhead int64
	if e.Transport != nil {
		playhead = e.Transport.Playhead()
	}
	return Stats{
		XRunCount:      e.xrunCount.Load(),
		LastCycle:      time.Duration(e.lastCycleNs.Load()),
		ActiveSamples:  e.SampleMixer.ActiveCount(),
		PlayheadFrames: playhead,
	}
}

// New builds an Engine around the given components. sampleRate and
// blockLength must already have been used to allocate every port in
// the graph the Scheduler will run.
func New(transport *timeline.Transport, sched *router.Scheduler, controlQueue *control.Queue, sampleMixer *sampleplayback.Mixer) *Engine {
	return &Engine{
		Transport:    transport,
		Scheduler:    sched,
		ControlQueue: controlQueue,
		SampleMixer:  sampleMixer,
	}
}

// SetMasterBus wires the graph's final stereo output ports.
func (e *Engine) SetMasterBus(left, right *port.Port) {
	e.MasterL, e.MasterR = left, right
}

// Open negotiates cfg with backend and registers Cycle as its callback.
func (e *Engine) Open(backend Backend, cfg BackendConfig) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backend = backend
	e.cfg = cfg
	return backend.Open(cfg, e.Cycle)
}

// Start begins audio I/O and the scheduler's worker pool.
func (e *Engine) Start() error {
	e.Scheduler.Start()
	if e.backend == nil {
		return nil
	}
	return e.backend.Start()
}

// Stop halts audio I/O and the scheduler's worker pool.
func (e *Engine) Stop() error {
	var err error
	if e.backend != nil {
		err = e.backend.Stop()
	}
	e.Scheduler.Stop()
	return err
}

// Reconfigure applies a new buffer size or sample rate. It acquires the
// scheduler's graph-access semaphore for the full worker weight, so it
// only takes effect between cycles, the rebuild-and-reallocate contract
// for a live buffer-size/sample-rate change.
func (e *Engine) Reconfigure(ctx context.Context, cfg BackendConfig, g *router.Graph) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.Scheduler.SwapGraph(ctx, g); err != nil {
		return err
	}
	e.cfg = cfg
	return nil
}

// Cycle is the per-buffer audio-thread entry point:
//  1. drain pending control changes into the transport
//  2. apply any requested play-state transition
//  3. split the block at loop boundaries into sub-cycles
//  4. run the scheduler once per sub-cycle, advancing the playhead
//  5. mix one-shot sample playback into the master bus
//  6. publish the master bus into the backend's output buffers
func (e *Engine) Cycle(out [][]float32, nframes int) {
	start := time.Now()
	ctx := context.Background()

	e.ControlQueue.DrainInto(func(c control.Change) {
		switch c.Kind {
		case control.Tempo:
			e.Transport.SetBPM(c.Value)
		case control.BeatsPerBar:
			e.Transport.SetBeatsPerBar(int(c.Value))
		case control.BeatUnit:
			e.Transport.SetBeatUnit(int(c.Value))
		}
	})

	e.Transport.ApplyRequestedTransition()

	for _, sc := range e.Transport.PlanCycle(nframes) {
		ti := router.TimeInfo{GStartFrame: sc.StartFrame, NFrames: sc.NFrames}
		if err := e.Scheduler.RunCycle(ctx, ti); err != nil {
			e.fault(err)
		}
		e.Transport.AdvancePastSubCycle(sc)
	}

	if e.MasterL != nil {
		var rbuf []float32
		if e.MasterR != nil {
			rbuf = e.MasterR.AudioBuffer()
		}
		e.SampleMixer.Mix(e.MasterL.AudioBuffer(), rbuf)
	}

	e.publish(out, nframes)

	elapsed := time.Since(start)
	e.lastCycleNs.Store(int64(elapsed))
	if e.CycleBudget > 0 && elapsed > e.CycleBudget {
		e.xrunCount.Add(1)
		e.fault(engineerr.New(engineerr.XRun, "cycle exceeded its wall-clock budget"))
	}
}

func (e *Engine) publish(out [][]float32, nframes int) {
	if e.MasterL == nil || len(out) == 0 {
		return
	}
	copyChannel(out[0], e.MasterL.AudioBuffer(), nframes)
	if len(out) > 1 && e.MasterR != nil {
		copyChannel(out[1], e.MasterR.AudioBuffer(), nframes)
	}
}

func copyChannel(dst, src []float32, nframes int) {
	n := nframes
	if len(dst) < n {
		n = len(dst)
	}
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
}

func (e *Engine) fault(err error) {
	if e.OnFault != nil {
		e.OnFault(err)
	}
}
