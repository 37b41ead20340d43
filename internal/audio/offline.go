// SPDX-License-Identifier: MIT
package audio

import (
	"sync"

	"dawengine/internal/engine"
	"dawengine/internal/wavio"
)

// OfflineBackend drives the engine's CycleFunc from a plain goroutine
// instead of a PortAudio hardware callback, as fast as the host can
// run it. It exists for bounce-to-file rendering and for running the
// engine end to end in environments with no audio hardware.
type OfflineBackend struct {
	recorder *wavio.Recorder
	outPath  string

	channels int
	nframes  int

	stop chan struct{}
	wg   sync.WaitGroup

	planar      [][]float32
	interleaved []float32
	cb          engine.CycleFunc
}

// NewOfflineBackend returns a backend that renders to outPath, or
// discards output entirely if outPath is empty.
func NewOfflineBackend(outPath string) *OfflineBackend {
	return &OfflineBackend{outPath: outPath}
}

func (b *OfflineBackend) Open(cfg engine.BackendConfig, cb engine.CycleFunc) error {
	b.channels = cfg.Channels
	b.nframes = cfg.BlockSize
	b.cb = cb
	b.planar = make([][]float32, cfg.Channels)
	for i := range b.planar {
		b.planar[i] = make([]float32, cfg.BlockSize)
	}
	b.interleaved = make([]float32, cfg.BlockSize*cfg.Channels)

	if b.outPath != "" {
		b.recorder = wavio.NewRecorder(int(cfg.SampleRate), cfg.Channels)
		if err := b.recorder.Start(b.outPath); err != nil {
			return err
		}
	}
	return nil
}

func (b *OfflineBackend) Start() error {
	b.stop = make(chan struct{})
	b.wg.Add(1)
	go b.run()
	return nil
}

func (b *OfflineBackend) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.stop:
			return
		default:
		}

		for ch := range b.planar {
			b.planar[ch] = b.planar[ch][:b.nframes]
		}
		b.cb(b.planar, b.nframes)

		if b.recorder != nil {
			for i := 0; i < b.nframes; i++ {
				for ch := 0; ch < b.channels; ch++ {
					b.interleaved[i*b.channels+ch] = b.planar[ch][i]
				}
			}
			_ = b.recorder.Write(b.interleaved)
		}
	}
}

func (b *OfflineBackend) Stop() error {
	if b.stop != nil {
		close(b.stop)
		b.wg.Wait()
		b.stop = nil
	}
	if b.recorder != nil {
		return b.recorder.Stop()
	}
	return nil
}

func (b *OfflineBackend) Close() error { return nil }
