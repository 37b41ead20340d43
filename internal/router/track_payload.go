package router

import "dawengine/internal/port"

// Render produces one cycle's worth of audio/event output for a track.
// Region playback, event routing, and recording capture are owned by
// the (out-of-scope) project/arranger layer; the engine only needs a
// render hook that honors the cycle's time window.
type Render func(ti TimeInfo, audioOut []*port.Port, eventsOut *port.Port) error

// TrackProcessorPayload implements the TRACK_PROCESSOR node variant.
type TrackProcessorPayload struct {
	AudioOut   []*port.Port
	EventsOut  *port.Port
	RenderFunc Render

	Recording bool
	// CaptureFunc, when Recording is true, is invoked after RenderFunc
	// with the same audio output buffers, letting the out-of-scope
	// recording subsystem capture the track's dry signal.
	CaptureFunc func(ti TimeInfo, audioOut []*port.Port)
}

func (t *TrackProcessorPayload) Process(ti TimeInfo) error {
	for _, p := range t.AudioOut {
		if err := p.ClearBuffer(); err != nil {
			return err
		}
	}
	if t.EventsOut != nil {
		if err := t.EventsOut.ClearBuffer(); err != nil {
			return err
		}
	}
	if t.RenderFunc != nil {
		if err := t.RenderFunc(ti, t.AudioOut, t.EventsOut); err != nil {
			return err
		}
	}
	if t.Recording && t.CaptureFunc != nil {
		t.CaptureFunc(ti, t.AudioOut)
	}
	return nil
}
