package router

import (
	"dawengine/internal/pluginhost"
	"dawengine/internal/port"
)

// PluginPayload implements the PLUGIN node variant: it drives a hosted
// plugin once per cycle, draining any pending background-worker
// responses first so the plugin sees up-to-date state before Process.
type PluginPayload struct {
	Host pluginhost.Host

	AudioIn   []*port.Port
	AudioOut  []*port.Port
	EventsIn  *port.Port
	EventsOut *port.Port
	Controls  []*port.Port

	// OnResponse handles a drained background-worker response, letting
	// the plugin apply out-of-band state before rendering this cycle.
	OnResponse func(pluginhost.Response)

	// audioInScratch and controlsScratch are reused across cycles so
	// Process never allocates once warmed up; AudioIn/Controls are
	// fixed for the lifetime of the payload, so their lengths never
	// change between calls.
	audioInScratch  [][]float32
	controlsScratch []float64
}

func (p *PluginPayload) Process(ti TimeInfo) error {
	if w := p.Host.Worker(); w != nil && p.OnResponse != nil {
		w.DrainResponses(p.OnResponse)
	}

	if p.audioInScratch == nil {
		p.audioInScratch = make([][]float32, len(p.AudioIn))
	}
	for i, in := range p.AudioIn {
		p.audioInScratch[i] = in.AudioBuffer()
	}
	audioIn := p.audioInScratch

	var eventsIn []port.Event
	if p.EventsIn != nil {
		eventsIn = p.EventsIn.Events()
	}

	if p.controlsScratch == nil {
		p.controlsScratch = make([]float64, len(p.Controls))
	}
	for i, c := range p.Controls {
		p.controlsScratch[i] = c.ControlValue()
	}
	controls := p.controlsScratch

	audioOut, eventsOut, err := p.Host.Process(audioIn, eventsIn, controls, ti.NFrames)
	if err != nil {
		return err
	}

	for i, out := range p.AudioOut {
		if err := out.ClearBuffer(); err != nil {
			return err
		}
		if i < len(audioOut) {
			copy(out.AudioBuffer(), audioOut[i])
		}
	}
	if p.EventsOut != nil {
		if err := p.EventsOut.ClearBuffer(); err != nil {
			return err
		}
		for _, e := range eventsOut {
			p.EventsOut.PushEvent(e)
		}
	}
	return nil
}
