// SPDX-License-Identifier: MIT
//
// Package wavio captures the engine's float32 master bus to a WAV file
// on disk, converting to 32-bit PCM on write.
package wavio

import (
	"fmt"
	"os"
	"sync/atomic"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const pcm32Scale = 1<<31 - 1

// Recorder captures an interleaved float32 master bus to a WAV file.
// Start/Stop toggle an atomic flag so the realtime Write call can check
// it without blocking on a mutex.
type Recorder struct {
	sampleRate int
	channels   int

	isRecording int32 // atomic
	file        *os.File
	encoder     *wav.Encoder
	intBuf      *audio.IntBuffer // reusable conversion scratch
}

func NewRecorder(sampleRate, channels int) *Recorder {
	return &Recorder{sampleRate: sampleRate, channels: channels}
}

func (r *Recorder) Start(path string) error {
	if atomic.LoadInt32(&r.isRecording) == 1 {
		return fmt.Errorf("wavio: already recording")
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	r.file = file
	r.encoder = wav.NewEncoder(file, r.sampleRate, 32, r.channels, 1)
	r.intBuf = &audio.IntBuffer{
		Format: &audio.Format{NumChannels: r.channels, SampleRate: r.sampleRate},
		Data:   make([]int, 0),
	}

	atomic.StoreInt32(&r.isRecording, 1)
	return nil
}

// Write appends one cycle's worth of interleaved master-bus samples.
// A no-op when not recording, so the engine's cycle can call it
// unconditionally without branching on caller state.
//
// Performance Critical (Hot Path):
//   - No allocation once intBuf.Data has grown to its steady-state size
func (r *Recorder) Write(interleaved []float32) error {
	if atomic.LoadInt32(&r.isRecording) == 0 {
		return nil
	}

	if cap(r.intBuf.Data) < len(interleaved) {
		r.intBuf.Data = make([]int, len(interleaved))
	}
	r.intBuf.Data = r.intBuf.Data[:len(interleaved)]
	for i, s := range interleaved {
		r.intBuf.Data[i] = int(s * pcm32Scale)
	}

	return r.encoder.Write(r.intBuf)
}

func (r *Recorder) Stop() error {
	if atomic.LoadInt32(&r.isRecording) == 0 {
		return nil
	}
	atomic.StoreInt32(&r.isRecording, 0)

	if r.encoder != nil {
		if err := r.encoder.Close(); err != nil {
			return err
		}
		r.encoder = nil
	}
	if r.file != nil {
		if err := r.file.Close(); err != nil {
			return err
		}
		r.file = nil
	}
	return nil
}

func (r *Recorder) IsRecording() bool {
	return atomic.LoadInt32(&r.isRecording) == 1
}
