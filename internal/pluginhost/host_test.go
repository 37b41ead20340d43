package pluginhost

import "testing"

func TestPassThroughCopiesInputToOutput(t *testing.T) {
	p := &PassThrough{}
	in := [][]float32{{0.1, 0.2, 0.3}}
	out, _, err := p.Process(in, nil, nil, 3)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 1 || out[0][0] != 0.1 || out[0][1] != 0.2 || out[0][2] != 0.3 {
		t.Fatalf("expected passthrough copy, got %v", out)
	}
	if p.LatencySamples() != 0 {
		t.Fatalf("expected zero latency")
	}
	if p.Worker() != nil {
		t.Fatalf("expected no background worker")
	}
}

func TestPassThroughHonorsExplicitOutputCount(t *testing.T) {
	p := &PassThrough{NumAudioOut: 2}
	out, _, err := p.Process([][]float32{{1}}, nil, nil, 1)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 output channels, got %d", len(out))
	}
}
