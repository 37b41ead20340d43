// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"runtime"

	"github.com/gordonklaus/portaudio"

	"dawengine/internal/engine"
)

// PortAudioBackend drives a realtime output-only PortAudio stream,
// satisfying engine.Backend. Each hardware callback hands per-channel
// buffers to the engine's CycleFunc, then interleaves the result into
// PortAudio's native layout.
//
// Performance Critical:
//   - Runs the PortAudio callback on a locked OS thread
//   - Buffers are pre-allocated at Open time; no allocation in the callback
type PortAudioBackend struct {
	deviceID   int
	lowLatency bool

	stream   *portaudio.Stream
	channels int

	interleaved []float32
	planar      [][]float32
	cb          engine.CycleFunc
}

// NewPortAudioBackend returns a backend bound to deviceID (DefaultDeviceID
// selects the system default output device).
func NewPortAudioBackend(deviceID int, lowLatency bool) *PortAudioBackend {
	return &PortAudioBackend{deviceID: deviceID, lowLatency: lowLatency}
}

func (b *PortAudioBackend) Open(cfg engine.BackendConfig, cb engine.CycleFunc) error {
	outDevice, err := OutputDevice(b.deviceID)
	if err != nil {
		return fmt.Errorf("audio: resolve output device: %w", err)
	}

	latency := outDevice.DefaultHighOutputLatency
	if b.lowLatency {
		latency = outDevice.DefaultLowOutputLatency
	}

	b.channels = cfg.Channels
	b.cb = cb
	b.interleaved = make([]float32, cfg.BlockSize*cfg.Channels)
	b.planar = make([][]float32, cfg.Channels)
	for i := range b.planar {
		b.planar[i] = make([]float32, cfg.BlockSize)
	}

	if err := Initialize(); err != nil {
		return err
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{Channels: 0, Device: nil},
		Output: portaudio.StreamDeviceParameters{
			Channels: cfg.Channels,
			Device:   outDevice,
			Latency:  latency,
		},
		FramesPerBuffer: cfg.BlockSize,
		SampleRate:      cfg.SampleRate,
	}

	stream, err := portaudio.OpenStream(params, b.processOutputStream)
	if err != nil {
		Terminate()
		return err
	}
	b.stream = stream
	return nil
}

func (b *PortAudioBackend) Start() error {
	if b.stream == nil {
		return fmt.Errorf("audio: backend not opened")
	}
	return b.stream.Start()
}

func (b *PortAudioBackend) Stop() error {
	if b.stream == nil {
		return nil
	}
	return b.stream.Stop()
}

func (b *PortAudioBackend) Close() error {
	if b.stream == nil {
		return nil
	}
	err := b.stream.Close()
	b.stream = nil
	Terminate()
	return err
}

// processOutputStream is the PortAudio render callback.
//
// Performance Critical (Hot Path):
//   - Runs on a locked OS thread
//   - Uses pre-allocated buffers only; no allocation
func (b *PortAudioBackend) processOutputStream(out []float32) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	nframes := len(out) / b.channels
	for ch := range b.planar {
		b.planar[ch] = b.planar[ch][:nframes]
	}

	b.cb(b.planar, nframes)

	for i := 0; i < nframes; i++ {
		for ch := 0; ch < b.channels; ch++ {
			out[i*b.channels+ch] = b.planar[ch][i]
		}
	}
}
