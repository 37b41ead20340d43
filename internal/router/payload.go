package router

// Payload is the per-variant DSP work a Node wraps. Implementations
// must be allocation-free and lock-free except via bounded SPSC/MPSC
// queues.
type Payload interface {
	Process(ti TimeInfo) error
}

// NoOpPayload is used for the synthetic INITIAL_TRIGGER and TERMINAL
// nodes, which exist only to seed and close out a cycle.
type NoOpPayload struct{}

func (NoOpPayload) Process(TimeInfo) error { return nil }
