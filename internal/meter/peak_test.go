package meter

import "testing"

func TestPeakRMSUpdateComputesBoth(t *testing.T) {
	var m PeakRMS
	m.Update([]float32{1, -1, 1, -1})

	if m.Peak() != 1 {
		t.Fatalf("expected peak 1, got %v", m.Peak())
	}
	if m.RMS() != 1 {
		t.Fatalf("expected RMS 1 for a full-scale square wave, got %v", m.RMS())
	}
}

func TestPeakRMSEmptyBufferIsZero(t *testing.T) {
	var m PeakRMS
	m.Update(nil)
	if m.Peak() != 0 || m.RMS() != 0 {
		t.Fatalf("expected zero peak/RMS for an empty buffer")
	}
}
