package router

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"dawengine/internal/engineerr"
)

// cycleState is the per-cycle state a dispatched Node needs. Cycles
// are strictly serial — RunCycle never overlaps with itself — so only
// one cycleState is ever live; workers reach it through the
// Scheduler's atomic pointer rather than a parameter, keeping the
// workCh payload down to a bare *Node.
type cycleState struct {
	ti         TimeInfo
	generation uint64
	remaining  atomic.Int64
	done       chan struct{}
}

// Scheduler dispatches a Graph's nodes across a fixed-size worker pool
// for the lifetime of the engine (component E). Graph access is guarded
// by a weighted semaphore: RunCycle acquires one unit as a reader for
// the duration of a cycle, and SwapGraph acquires every unit to install
// a new Graph with no reader in flight.
type Scheduler struct {
	numWorkers int
	inline     bool

	workCh chan *Node
	quit   chan struct{}
	wg     sync.WaitGroup

	graphSem   *semaphore.Weighted
	current    atomic.Pointer[Graph]
	generation atomic.Uint64

	cycle atomic.Pointer[cycleState]
}

// NewScheduler builds a worker-pool Scheduler. numWorkers <= 0 selects
// runtime.NumCPU(), floored at 1.
func NewScheduler(numWorkers int) *Scheduler {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &Scheduler{
		numWorkers: numWorkers,
		workCh:     make(chan *Node, numWorkers*4),
		quit:       make(chan struct{}),
		graphSem:   semaphore.NewWeighted(int64(numWorkers)),
	}
}

// NewInlineScheduler builds a single-threaded Scheduler that dispatches
// nodes synchronously on the calling goroutine. It is used for offline
// bounce and debugging, where deterministic ordering matters more than
// throughput.
func NewInlineScheduler() *Scheduler {
	return &Scheduler{numWorkers: 1, inline: true, graphSem: semaphore.NewWeighted(1)}
}

// Start launches the worker pool. No-op for an inline scheduler.
func (s *Scheduler) Start() {
	if s.inline {
		return
	}
	s.wg.Add(s.numWorkers)
	for i := 0; i < s.numWorkers; i++ {
		go s.workerLoop()
	}
}

// Stop signals every worker to exit and waits for them to do so. A
// second call is a no-op.
func (s *Scheduler) Stop() {
	if s.inline {
		return
	}
	select {
	case <-s.quit:
		return
	default:
	}
	close(s.quit)
	s.wg.Wait()
}

// SwapGraph installs g as the graph future cycles run against. It
// blocks until every in-flight RunCycle reader has released the
// semaphore, so a swap never races a dispatched Node.
func (s *Scheduler) SwapGraph(ctx context.Context, g *Graph) error {
	weight := int64(s.numWorkers)
	if s.inline {
		weight = 1
	}
	if err := s.graphSem.Acquire(ctx, weight); err != nil {
		return err
	}
	defer s.graphSem.Release(weight)
	s.current.Store(g)
	s.generation.Add(1)
	return nil
}

// CurrentGraph returns the graph installed by the most recent SwapGraph.
func (s *Scheduler) CurrentGraph() *Graph { return s.current.Load() }

// RunCycle drives every node in the current graph to completion for
// one cycle window, in parent-before-child order. It returns
// engineerr.GraphSwapped if a swap landed while this cycle was still
// dispatching (in practice unreachable, since SwapGraph cannot acquire
// the full semaphore weight until RunCycle's own reader unit is
// released — kept as a defensive invariant check, not a real race).
func (s *Scheduler) RunCycle(ctx context.Context, ti TimeInfo) error {
	if err := s.graphSem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer s.graphSem.Release(1)

	g := s.current.Load()
	if g == nil {
		return engineerr.New(engineerr.CONFIG, "router: scheduler has no graph installed")
	}
	gen := s.generation.Load()
	g.resetForCycle()

	cs := &cycleState{ti: ti, generation: gen, done: make(chan struct{})}
	cs.remaining.Store(int64(len(g.Nodes)))
	s.cycle.Store(cs)

	if s.inline || len(g.Nodes) == 0 {
		s.runInline(g, cs)
	} else {
		for _, n := range g.TriggerNodes {
			s.workCh <- n
		}
		<-cs.done
	}

	if s.generation.Load() != gen {
		return engineerr.New(engineerr.GraphSwapped, "router: graph swapped mid-cycle")
	}
	return nil
}

// workerLoop pulls nodes from the shared work channel and, once it has
// one, drains its own local overflow stack before going back to the
// channel. local exists so dispatch never has to block a send to
// workCh: under wide fan-out, a worker that cannot hand a newly-ready
// child to the channel keeps it for itself instead.
func (s *Scheduler) workerLoop() {
	defer s.wg.Done()
	var local []*Node
	for {
		var n *Node
		if k := len(local); k > 0 {
			n, local = local[k-1], local[:k-1]
		} else {
			select {
			case <-s.quit:
				return
			case v, ok := <-s.workCh:
				if !ok {
					return
				}
				n = v
			}
		}
		local = s.dispatch(n, local)
	}
}

// dispatch processes one node and releases every child whose last
// dependency this completion satisfies. A released child is handed to
// the shared channel with a non-blocking send; if the channel is full,
// it is pushed onto local instead, so dispatch itself never blocks.
func (s *Scheduler) dispatch(n *Node, local []*Node) []*Node {
	cs := s.cycle.Load()
	n.Process(cs.ti)
	for _, child := range n.Children {
		if !releaseChild(child) {
			continue
		}
		select {
		case s.workCh <- child:
		default:
			local = append(local, child)
		}
	}
	if cs.remaining.Add(-1) == 0 {
		close(cs.done)
	}
	return local
}

// runInline walks the graph breadth-first on the calling goroutine,
// used both by the inline scheduler and as RunCycle's fallback for a
// degenerate (empty) graph.
func (s *Scheduler) runInline(g *Graph, cs *cycleState) {
	queue := make([]*Node, 0, len(g.Nodes))
	queue = append(queue, g.TriggerNodes...)
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		n.Process(cs.ti)
		cs.remaining.Add(-1)
		for _, child := range n.Children {
			if releaseChild(child) {
				queue = append(queue, child)
			}
		}
	}
}
