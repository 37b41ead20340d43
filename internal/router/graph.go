package router

// Graph is the immutable result of a single Build: every Node reachable
// from the synthetic INITIAL_TRIGGER root, indexed for scheduler
// dispatch and latency-compensation lookups. A Graph is never mutated
// after Build returns; a project edit produces a new Graph that the
// Scheduler swaps in wholesale via SwapGraph.
type Graph struct {
	Nodes map[NodeID]*Node

	// TriggerNodes is every node with zero incoming edges (in-degree
	// 0), which the scheduler dispatches at the start of a cycle. It
	// always includes the synthetic INITIAL_TRIGGER node.
	TriggerNodes []*Node

	// TerminalNodeCount is the number of synthetic TERMINAL nodes,
	// which the scheduler waits on to know a cycle has completed.
	TerminalNodeCount int

	// MaxRoutePlaybackLatency is the largest RoutePlaybackLatency value
	// across every node in the graph (invariant 3).
	MaxRoutePlaybackLatency int

	// GlobalOffset is max_route_playback_latency plus any latency
	// downstream of the graph's output (see DESIGN.md for the Open
	// Question resolution on this field).
	GlobalOffset int
}

// NodeByID is a convenience lookup used by builders and tests.
func (g *Graph) NodeByID(id NodeID) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// resetForCycle restores every node's refcount. It leaves fault bypass
// untouched: a bypassed node stays silent until Reinstate is called.
// Bypass state is per-Node, not per-payload, so a freshly built Graph
// always starts with every node live.
func (g *Graph) resetForCycle() {
	for _, n := range g.Nodes {
		n.resetRefcount()
	}
}
