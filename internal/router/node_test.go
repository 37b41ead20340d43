package router

import (
	"errors"
	"testing"
)

type recordingPayload struct {
	calls int
	err   error
	panic bool
}

func (r *recordingPayload) Process(ti TimeInfo) error {
	r.calls++
	if r.panic {
		panic("boom")
	}
	return r.err
}

func TestNodeProcessBypassesOnError(t *testing.T) {
	p := &recordingPayload{err: errors.New("plugin exploded")}
	n := NewNode(1, NodePlugin, "fx", p)

	var faulted error
	n.OnFault = func(err error) { faulted = err }

	n.Process(TimeInfo{NFrames: 64})
	if !n.Bypassed() {
		t.Fatalf("expected node to be bypassed after payload error")
	}
	if faulted == nil {
		t.Fatalf("expected OnFault to be called")
	}

	n.Process(TimeInfo{NFrames: 64})
	if p.calls != 1 {
		t.Fatalf("expected bypassed node to skip further Process calls, got %d calls", p.calls)
	}
}

func TestNodeProcessRecoversPanic(t *testing.T) {
	p := &recordingPayload{panic: true}
	n := NewNode(1, NodePlugin, "fx", p)

	var faulted error
	n.OnFault = func(err error) { faulted = err }

	n.Process(TimeInfo{NFrames: 64})
	if !n.Bypassed() {
		t.Fatalf("expected node to be bypassed after payload panic")
	}
	if faulted == nil {
		t.Fatalf("expected OnFault to be called on panic")
	}
}

func TestNodeReinstateClearsBypass(t *testing.T) {
	p := &recordingPayload{err: errors.New("fail once")}
	n := NewNode(1, NodePlugin, "fx", p)
	n.Process(TimeInfo{NFrames: 64})
	if !n.Bypassed() {
		t.Fatalf("expected bypass after failure")
	}

	n.Reinstate()
	p.err = nil
	n.Process(TimeInfo{NFrames: 64})
	if n.Bypassed() {
		t.Fatalf("expected node to run again after Reinstate")
	}
	if p.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", p.calls)
	}
}

func TestReleaseChildCountsDownToZero(t *testing.T) {
	child := NewNode(2, NodePort, "p", NoOpPayload{})
	child.InitRefcount = 3
	child.resetRefcount()

	if releaseChild(child) {
		t.Fatalf("child should not be ready after 1 of 3 releases")
	}
	if releaseChild(child) {
		t.Fatalf("child should not be ready after 2 of 3 releases")
	}
	if !releaseChild(child) {
		t.Fatalf("child should be ready after 3 of 3 releases")
	}
}
