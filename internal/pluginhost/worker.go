// SPDX-License-Identifier: MIT
package pluginhost

import (
	"time"

	"dawengine/internal/ringbuf"
)

// Request is a unit of non-realtime-safe work a plugin hands off to its
// background worker (e.g. "load preset", "restore state").
type Request struct {
	ID   uint64
	Data []byte
}

// Response is the background worker's answer to a Request, consumed on
// the realtime thread at the start of a later cycle.
type Response struct {
	ID   uint64
	Data []byte
}

// Worker runs a plugin's background-thread work item handler on its own
// goroutine, decoupled from the realtime thread by a pair of SPSC rings.
type Worker struct {
	requests  *ringbuf.Ring[Request]
	responses *ringbuf.Ring[Response]
	handle    func(Request) Response
	quit      chan struct{}
	done      chan struct{}
}

// NewWorker starts a background worker with the given ring capacity
// (rounded up to a power of two) and request handler.
func NewWorker(capacity int, handle func(Request) Response) *Worker {
	w := &Worker{
		requests:  ringbuf.New[Request](capacity),
		responses: ringbuf.New[Response](capacity),
		handle:    handle,
		quit:      make(chan struct{}),
		done:      make(chan struct{}),
	}
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer close(w.done)
	idle := time.NewTimer(time.Millisecond)
	defer idle.Stop()
	for {
		select {
		case <-w.quit:
			return
		default:
		}
		req, ok := w.requests.Pop()
		if !ok {
			idle.Reset(time.Millisecond)
			select {
			case <-w.quit:
				return
			case <-idle.C:
			}
			continue
		}
		resp := w.handle(req)
		for !w.responses.Push(resp) {
			select {
			case <-w.quit:
				return
			default:
				time.Sleep(time.Microsecond)
			}
		}
	}
}

// Schedule enqueues req for background processing. Safe to call from
// the realtime thread: it never blocks. It returns false if the
// request ring is full, meaning the plugin must drop or retry later.
func (w *Worker) Schedule(req Request) bool {
	return w.requests.Push(req)
}

// DrainResponses delivers every pending response to fn, in order. Call
// once per cycle, before dispatching the node that owns this worker.
func (w *Worker) DrainResponses(fn func(Response)) {
	for {
		resp, ok := w.responses.Pop()
		if !ok {
			return
		}
		fn(resp)
	}
}

// Close stops the background goroutine and waits for it to exit.
func (w *Worker) Close() {
	close(w.quit)
	<-w.done
}
