// SPDX-License-Identifier: MIT
//
// Package meter implements read-only spectrum and peak/RMS metering
// that taps a node's output port without perturbing the signal path,
// plus an optional broadcast sink for external monitors.
package meter

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"dawengine/pkg/bitint"
)

// Sink receives a metering snapshot once per analysis window.
// Implementations must not block the caller for long; the spectrum
// analyzer runs off the realtime thread but still on a tight cadence.
type Sink interface {
	Send(snapshot Snapshot) error
}

// Snapshot is one analysis window's worth of spectrum magnitude data.
type Snapshot struct {
	Magnitude  []float64
	SampleRate float64
	FFTSize    int
}

// SpectrumAnalyzer performs windowed FFT magnitude analysis on a single
// audio channel, pre-allocating every buffer it needs so a cycle's
// worth of analysis work never allocates.
type SpectrumAnalyzer struct {
	fftSize    int
	sampleRate float64

	input     []float64
	fftOutput []complex128
	magnitude []float64
	window    []float64

	fft  *fourier.FFT
	sink Sink
}

// NewSpectrumAnalyzer builds an analyzer for the given power-of-two FFT
// size. It panics if fftSize is not a power of two, matching the
// construction-time validation every other closed-enum config value in
// this engine uses.
func NewSpectrumAnalyzer(fftSize int, sampleRate float64, sink Sink) *SpectrumAnalyzer {
	if !bitint.IsPowerOfTwo(fftSize) {
		panic("meter: fft size must be a power of 2")
	}

	window := make([]float64, fftSize)
	for i := range window {
		window[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(fftSize-1)))
	}

	outputSize := fftSize/2 + 1
	return &SpectrumAnalyzer{
		fftSize:    fftSize,
		sampleRate: sampleRate,
		fft:        fourier.NewFFT(fftSize),
		sink:       sink,
		input:      make([]float64, fftSize),
		fftOutput:  make([]complex128, outputSize),
		magnitude:  make([]float64, outputSize),
		window:     window,
	}
}

// Analyze windows and transforms one channel's audio buffer, sending
// the resulting magnitude spectrum to the configured Sink. buf shorter
// than the FFT size is zero-padded; longer is truncated to FFT size.
func (a *SpectrumAnalyzer) Analyze(buf []float32) {
	for i := range a.input {
		if i < len(buf) {
			a.input[i] = float64(buf[i]) * a.window[i]
		} else {
			a.input[i] = 0
		}
	}

	_ = a.fft.Coefficients(a.fftOutput, a.input)
	for i, c := range a.fftOutput {
		a.magnitude[i] = cmplx.Abs(c)
	}

	if a.sink != nil {
		_ = a.sink.Send(Snapshot{Magnitude: a.magnitude, SampleRate: a.sampleRate, FFTSize: a.fftSize})
	}
}

// FrequencyBin returns the frequency in Hz for a given FFT bin index.
func (a *SpectrumAnalyzer) FrequencyBin(i int) float64 {
	if i < 0 || i >= len(a.fftOutput) {
		return 0
	}
	return a.fft.Freq(i) * a.sampleRate
}
