package router

import (
	"context"
	"sync"
	"testing"
	"time"
)

type orderTrackingPayload struct {
	id NodeID
	mu *sync.Mutex
	out *[]NodeID
}

func (o *orderTrackingPayload) Process(ti TimeInfo) error {
	o.mu.Lock()
	*o.out = append(*o.out, o.id)
	o.mu.Unlock()
	return nil
}

func buildDiamondGraph(t *testing.T, mu *sync.Mutex, out *[]NodeID) *Graph {
	t.Helper()
	mk := func(id NodeID) Payload { return &orderTrackingPayload{id: id, mu: mu, out: out} }
	snap := ProjectSnapshot{
		Nodes: []NodeSpec{
			{ID: 1, Kind: NodeTrackProcessor, Name: "a", Payload: mk(1)},
			{ID: 2, Kind: NodeFader, Name: "b", Payload: mk(2)},
			{ID: 3, Kind: NodeFader, Name: "c", Payload: mk(3)},
			{ID: 4, Kind: NodeMonitorFader, Name: "d", Payload: mk(4)},
		},
		Edges: []EdgeSpec{
			{From: 1, To: 2},
			{From: 1, To: 3},
			{From: 2, To: 4},
			{From: 3, To: 4},
		},
	}
	g, err := Build(snap)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func indexOf(s []NodeID, v NodeID) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

func TestRunCycleProcessesEveryNodeInDependencyOrder(t *testing.T) {
	var mu sync.Mutex
	var order []NodeID
	g := buildDiamondGraph(t, &mu, &order)

	s := NewScheduler(4)
	s.Start()
	defer s.Stop()

	if err := s.SwapGraph(context.Background(), g); err != nil {
		t.Fatalf("SwapGraph: %v", err)
	}
	if err := s.RunCycle(context.Background(), TimeInfo{NFrames: 64}); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(order) != 4 {
		t.Fatalf("expected all 4 payload nodes to run exactly once, got %v", order)
	}
	if indexOf(order, 1) > indexOf(order, 2) || indexOf(order, 1) > indexOf(order, 3) {
		t.Fatalf("expected node 1 before nodes 2 and 3, got order %v", order)
	}
	if indexOf(order, 2) > indexOf(order, 4) || indexOf(order, 3) > indexOf(order, 4) {
		t.Fatalf("expected nodes 2 and 3 before node 4, got order %v", order)
	}
}

func TestRunCycleCanRepeatAcrossCycles(t *testing.T) {
	var mu sync.Mutex
	var order []NodeID
	g := buildDiamondGraph(t, &mu, &order)

	s := NewScheduler(2)
	s.Start()
	defer s.Stop()

	if err := s.SwapGraph(context.Background(), g); err != nil {
		t.Fatalf("SwapGraph: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.RunCycle(context.Background(), TimeInfo{NFrames: 64}); err != nil {
			t.Fatalf("RunCycle %d: %v", i, err)
		}
	}
	if len(order) != 12 {
		t.Fatalf("expected 4 nodes x 3 cycles = 12 process calls, got %d", len(order))
	}
}

func TestInlineSchedulerMatchesPooledOrderingConstraints(t *testing.T) {
	var mu sync.Mutex
	var order []NodeID
	g := buildDiamondGraph(t, &mu, &order)

	s := NewInlineScheduler()
	if err := s.SwapGraph(context.Background(), g); err != nil {
		t.Fatalf("SwapGraph: %v", err)
	}
	if err := s.RunCycle(context.Background(), TimeInfo{NFrames: 64}); err != nil {
		t.Fatalf("RunCycle: %v", err)
	}

	if len(order) != 4 {
		t.Fatalf("expected all 4 nodes to run, got %v", order)
	}
	if indexOf(order, 1) > indexOf(order, 2) || indexOf(order, 1) > indexOf(order, 3) {
		t.Fatalf("expected node 1 before nodes 2 and 3, got order %v", order)
	}
}

// buildWideFanOutGraph builds a single trigger node feeding width
// children directly into one terminal sum node, so a single dispatch
// can ready far more nodes than a small worker pool's work channel has
// capacity for.
func buildWideFanOutGraph(t *testing.T, mu *sync.Mutex, out *[]NodeID, width int) *Graph {
	t.Helper()
	mk := func(id NodeID) Payload { return &orderTrackingPayload{id: id, mu: mu, out: out} }

	nodes := []NodeSpec{{ID: 1, Kind: NodeTrackProcessor, Name: "trigger", Payload: mk(1)}}
	edges := make([]EdgeSpec, 0, width)
	terminalID := NodeID(width + 2)
	for i := 0; i < width; i++ {
		id := NodeID(i + 2)
		nodes = append(nodes, NodeSpec{ID: id, Kind: NodeFader, Name: "fanout", Payload: mk(id)})
		edges = append(edges, EdgeSpec{From: 1, To: id}, EdgeSpec{From: id, To: terminalID})
	}
	nodes = append(nodes, NodeSpec{ID: terminalID, Kind: NodeMonitorFader, Name: "sum", Payload: mk(terminalID)})

	g, err := Build(ProjectSnapshot{Nodes: nodes, Edges: edges})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

// TestRunCycleSurvivesFanOutWiderThanWorkChannel guards against a
// deadlock where every worker blocks handing off a newly-ready child
// because the shared work channel is full and nothing is draining it.
func TestRunCycleSurvivesFanOutWiderThanWorkChannel(t *testing.T) {
	var mu sync.Mutex
	var order []NodeID
	const width = 64 // far more than numWorkers*4 for a 2-worker pool
	g := buildWideFanOutGraph(t, &mu, &order, width)

	s := NewScheduler(2)
	s.Start()
	defer s.Stop()

	if err := s.SwapGraph(context.Background(), g); err != nil {
		t.Fatalf("SwapGraph: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- s.RunCycle(context.Background(), TimeInfo{NFrames: 64}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("RunCycle: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("RunCycle deadlocked under wide fan-out (width=%d)", width)
	}

	if len(order) != width+2 {
		t.Fatalf("expected trigger + %d fanout nodes + terminal = %d process calls, got %d", width, width+2, len(order))
	}
}

func TestRunCycleWithoutGraphReturnsConfigError(t *testing.T) {
	s := NewScheduler(1)
	s.Start()
	defer s.Stop()

	if err := s.RunCycle(context.Background(), TimeInfo{NFrames: 64}); err == nil {
		t.Fatalf("expected error when no graph has been installed")
	}
}
