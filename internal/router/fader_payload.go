package router

import (
	"math"
	"sync/atomic"

	"dawengine/internal/port"
)

// PanLaw is a closed set of constant-power pan curves: the engine only
// ever consumes a validated enum, never a raw string.
type PanLaw int

const (
	PanLaw0dB PanLaw = iota
	PanLawMinus3dB
	PanLawMinus6dB
)

func panGains(pan float64, law PanLaw) (left, right float64) {
	// pan in [-1, 1], 0 = center.
	if pan < -1 {
		pan = -1
	}
	if pan > 1 {
		pan = 1
	}
	angle := (pan + 1) * (math.Pi / 4) // 0..pi/2
	left, right = math.Cos(angle), math.Sin(angle)
	switch law {
	case PanLaw0dB:
		const centerBoost = 1.41421356 // +3dB at center for unity (0dB) center gain
		left *= centerBoost
		right *= centerBoost
	case PanLawMinus3dB:
		// already -3dB center under equal-power law; no adjustment.
	case PanLawMinus6dB:
		const centerComp = 0.70710678 // extra -3dB at center for a total of -6dB
		left *= centerComp
		right *= centerComp
	}
	return left, right
}

// FaderPayload implements the FADER/PREFADER/MONITOR_FADER node
// variants: gain, pan law, mute/solo, and peak metering. Listen is
// stored on the payload but does not change Process's output.
type FaderPayload struct {
	InL, InR   *port.Port
	OutL, OutR *port.Port

	Gain float64 // linear, 0..2
	Pan  float64 // -1..1
	Law  PanLaw

	Mute, Solo, Listen bool

	// SoloActiveElsewhere is read each cycle by the owning mixer to
	// decide whether non-soloed faders should be silenced; it is the
	// responsibility of the mixer (outside this package) to keep it
	// current before a cycle starts.
	SoloActiveElsewhere func() bool

	peakLBits uint64 // atomic float64 bits, last-cycle peak
	peakRBits uint64
}

func (f *FaderPayload) Process(ti TimeInfo) error {
	if err := f.OutL.ClearBuffer(); err != nil {
		return err
	}
	if err := f.OutR.ClearBuffer(); err != nil {
		return err
	}

	silenced := f.Mute || (f.SoloActiveElsewhere != nil && f.SoloActiveElsewhere() && !f.Solo)
	if silenced {
		atomic.StoreUint64(&f.peakLBits, 0)
		atomic.StoreUint64(&f.peakRBits, 0)
		return nil
	}

	gl, gr := panGains(f.Pan, f.Law)
	gl *= f.Gain
	gr *= f.Gain

	if err := f.OutL.SumSignalFrom(f.InL, gl); err != nil {
		return err
	}
	if err := f.OutR.SumSignalFrom(f.InR, gr); err != nil {
		return err
	}

	storePeak(&f.peakLBits, f.OutL.AudioBuffer())
	storePeak(&f.peakRBits, f.OutR.AudioBuffer())
	return nil
}

func storePeak(dst *uint64, buf []float32) {
	var peak float32
	for _, v := range buf {
		if v < 0 {
			v = -v
		}
		if v > peak {
			peak = v
		}
	}
	atomic.StoreUint64(dst, math.Float64bits(float64(peak)))
}

// PeakL returns the most recent cycle's left-channel peak amplitude.
func (f *FaderPayload) PeakL() float64 { return math.Float64frombits(atomic.LoadUint64(&f.peakLBits)) }

// PeakR returns the most recent cycle's right-channel peak amplitude.
func (f *FaderPayload) PeakR() float64 { return math.Float64frombits(atomic.LoadUint64(&f.peakRBits)) }
