package pluginhost

import (
	"testing"
	"time"
)

func TestWorkerProcessesScheduledRequest(t *testing.T) {
	w := NewWorker(4, func(r Request) Response {
		return Response{ID: r.ID, Data: append([]byte("handled:"), r.Data...)}
	})
	defer w.Close()

	if !w.Schedule(Request{ID: 1, Data: []byte("preset")}) {
		t.Fatalf("expected Schedule to succeed")
	}

	deadline := time.Now().Add(time.Second)
	var got Response
	var found bool
	for time.Now().Before(deadline) && !found {
		w.DrainResponses(func(r Response) {
			got = r
			found = true
		})
		if !found {
			time.Sleep(time.Millisecond)
		}
	}
	if !found {
		t.Fatalf("timed out waiting for background response")
	}
	if got.ID != 1 || string(got.Data) != "handled:preset" {
		t.Fatalf("unexpected response: %+v", got)
	}
}

func TestWorkerDrainResponsesOnEmptyIsNoop(t *testing.T) {
	w := NewWorker(2, func(r Request) Response { return Response{ID: r.ID} })
	defer w.Close()

	called := false
	w.DrainResponses(func(Response) { called = true })
	if called {
		t.Fatalf("expected no responses before any request was scheduled")
	}
}
