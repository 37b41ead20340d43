package meter

import "testing"

func TestGateBlocksQuietBuffer(t *testing.T) {
	g := Gate{Enabled: true, Threshold: 0.1}
	quiet := []float32{0.01, -0.02, 0.03}
	if g.ShouldAnalyze(quiet) {
		t.Fatalf("expected quiet buffer to be gated out")
	}
}

func TestGateAdmitsLoudBuffer(t *testing.T) {
	g := Gate{Enabled: true, Threshold: 0.1}
	loud := []float32{0.5, -0.9, 0.2}
	if !g.ShouldAnalyze(loud) {
		t.Fatalf("expected loud buffer to pass the gate")
	}
}

func TestGateDisabledAlwaysAnalyzes(t *testing.T) {
	g := Gate{Enabled: false, Threshold: 1.0}
	if !g.ShouldAnalyze([]float32{0}) {
		t.Fatalf("expected disabled gate to always admit")
	}
}
