package router

import (
	"testing"

	"dawengine/internal/pluginhost"
	"dawengine/internal/port"
)

func newTestPort(kind port.Kind, role port.Role, index int, blockLength int) *port.Port {
	p := port.New(port.ID{OwnerKind: port.OwnerPlugin, OwnerID: 1, Role: role, Index: index}, "p", kind, port.FlagInput)
	if err := p.AllocateBuffers(blockLength); err != nil {
		panic(err)
	}
	return p
}

func TestPluginPayloadCopiesHostOutputIntoOutputPorts(t *testing.T) {
	in := newTestPort(port.Audio, port.RoleInput, 0, 4)
	copy(in.AudioBuffer(), []float32{1, 2, 3, 4})
	out := newTestPort(port.Audio, port.RoleOutput, 0, 4)

	payload := &PluginPayload{
		Host:     &pluginhost.PassThrough{},
		AudioIn:  []*port.Port{in},
		AudioOut: []*port.Port{out},
	}

	if err := payload.Process(TimeInfo{NFrames: 4}); err != nil {
		t.Fatalf("Process: %v", err)
	}
	got := out.AudioBuffer()
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected passthrough output %v, got %v", want, got)
		}
	}
}

func TestPluginPayloadReturnsHostError(t *testing.T) {
	failing := &failingHost{}
	payload := &PluginPayload{Host: failing}
	if err := payload.Process(TimeInfo{NFrames: 4}); err == nil {
		t.Fatalf("expected Process to surface the host's error")
	}
}

type failingHost struct{}

func (f *failingHost) Process(in [][]float32, events []port.Event, controls []float64, n int) ([][]float32, []port.Event, error) {
	return nil, nil, errFake
}
func (f *failingHost) LatencySamples() int          { return 0 }
func (f *failingHost) Worker() *pluginhost.Worker   { return nil }

var errFake = fakeErr("fake plugin failure")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
