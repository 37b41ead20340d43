package meter

import (
	"math"
	"testing"

	"dawengine/pkg/utils"
)

const (
	testFFTSize    = 1024
	testSampleRate = 48000.0
)

func sineWaveF32(size int, sampleRate, frequency float64) []float32 {
	buf := make([]float32, size)
	for i := range buf {
		t := float64(i) / sampleRate
		buf[i] = float32(math.Sin(2 * math.Pi * frequency * t))
	}
	return buf
}

type captureSink struct {
	last Snapshot
}

func (c *captureSink) Send(s Snapshot) error {
	c.last = s
	return nil
}

func TestSpectrumAnalyzerFindsDominantBinForSineWave(t *testing.T) {
	sink := &captureSink{}
	a := NewSpectrumAnalyzer(testFFTSize, testSampleRate, sink)

	freq := 440.0
	a.Analyze(sineWaveF32(testFFTSize, testSampleRate, freq))

	peakBin := utils.FindPeakBin(sink.last.Magnitude, 1, len(sink.last.Magnitude)-1)
	gotFreq := a.FrequencyBin(peakBin)
	if math.Abs(gotFreq-freq) > testSampleRate/float64(testFFTSize)*2 {
		t.Fatalf("expected dominant bin near %vHz, got %vHz", freq, gotFreq)
	}
}

func TestSpectrumAnalyzerHotPathAllocatesNothing(t *testing.T) {
	a := NewSpectrumAnalyzer(testFFTSize, testSampleRate, nil)
	buf := sineWaveF32(testFFTSize, testSampleRate, 880.0)

	a.Analyze(buf) // warm up
	allocs := testing.AllocsPerRun(50, func() {
		a.Analyze(buf)
	})
	if allocs > 0 {
		t.Errorf("Analyze allocated memory: got %.1f allocs, want 0", allocs)
	}
}

func TestSpectrumAnalyzerPanicsOnNonPowerOfTwoSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for non-power-of-two FFT size")
		}
	}()
	NewSpectrumAnalyzer(1000, testSampleRate, nil)
}

func TestFrequencyBinOutOfRangeReturnsZero(t *testing.T) {
	a := NewSpectrumAnalyzer(testFFTSize, testSampleRate, nil)
	if a.FrequencyBin(-1) != 0 {
		t.Fatalf("expected 0 for negative bin index")
	}
	if a.FrequencyBin(1 << 20) != 0 {
		t.Fatalf("expected 0 for out-of-range bin index")
	}
}
