// SPDX-License-Identifier: MIT
package pluginhost

import "dawengine/internal/port"

// Host is the contract the router's PLUGIN node variant drives once per
// cycle. Implementations wrap a single plugin instance (LV2, VST3, or
// an internal effect) behind a uniform audio/event/control interface.
type Host interface {
	// Process renders nframes of output from the given input buffers,
	// event list, and control values. Implementations must not retain
	// the input slices past the call.
	Process(audioIn [][]float32, eventsIn []port.Event, controls []float64, nframes int) (audioOut [][]float32, eventsOut []port.Event, err error)

	// LatencySamples reports the plugin's reported processing latency,
	// contributing to the node's PlaybackLatency in the graph.
	LatencySamples() int

	// Worker returns the plugin's background worker, or nil if the
	// plugin does no background-thread work.
	Worker() *Worker
}

// PassThrough is a zero-latency Host that copies inputs to outputs
// unchanged. It stands in for a plugin slot that has nothing loaded,
// and is useful in tests that exercise the PLUGIN node variant without
// a real plugin binary.
type PassThrough struct {
	NumAudioOut int
}

func (p *PassThrough) Process(audioIn [][]float32, eventsIn []port.Event, controls []float64, nframes int) ([][]float32, []port.Event, error) {
	n := p.NumAudioOut
	if n == 0 {
		n = len(audioIn)
	}
	out := make([][]float32, n)
	for i := range out {
		out[i] = make([]float32, nframes)
		if i < len(audioIn) {
			copy(out[i], audioIn[i])
		}
	}
	return out, eventsIn, nil
}

func (p *PassThrough) LatencySamples() int { return 0 }
func (p *PassThrough) Worker() *Worker     { return nil }
