package router

import "container/heap"

// idHeap is a min-heap of NodeIDs, giving Kahn's algorithm a
// deterministic processing order: among nodes whose dependencies are
// all satisfied at the same moment, the one with the smaller NodeID
// always goes first. Without this, topological sort order (and hence
// which of several equal-length paths "wins" ties downstream) would
// depend on map iteration order.
type idHeap []NodeID

func (h idHeap) Len() int            { return len(h) }
func (h idHeap) Less(i, j int) bool  { return h[i] < h[j] }
func (h idHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *idHeap) Push(x interface{}) { *h = append(*h, x.(NodeID)) }
func (h *idHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// topoSortWithLatency runs Kahn's algorithm over nodes/edges with a
// deterministic tie-break, and computes each node's RoutePlaybackLatency
// as it goes: the longest accumulated PlaybackLatency from any root to
// that node, inclusive of the node's own latency. It returns the nodes
// in topological order and the maximum RoutePlaybackLatency observed.
// If the graph contains a cycle, the returned slice is shorter than
// nodes and ok is false.
func topoSortWithLatency(nodes map[NodeID]*Node, children, parents map[NodeID][]NodeID, indegree map[NodeID]int) (order []*Node, maxLatency int, ok bool) {
	remaining := make(map[NodeID]int, len(indegree))
	for id, d := range indegree {
		remaining[id] = d
	}

	h := &idHeap{}
	for id, d := range remaining {
		if d == 0 {
			heap.Push(h, id)
		}
	}

	order = make([]*Node, 0, len(nodes))
	for h.Len() > 0 {
		id := heap.Pop(h).(NodeID)
		n := nodes[id]
		order = append(order, n)

		best := 0
		// RoutePlaybackLatency is recomputed here rather than during a
		// separate pass: by the time a node is popped, every parent
		// that feeds it has already been finalized (Kahn's invariant).
		for _, parentID := range parents[id] {
			if p := nodes[parentID]; p.RoutePlaybackLatency > best {
				best = p.RoutePlaybackLatency
			}
		}
		n.RoutePlaybackLatency = n.PlaybackLatency + best
		if n.RoutePlaybackLatency > maxLatency {
			maxLatency = n.RoutePlaybackLatency
		}

		for _, childID := range children[id] {
			remaining[childID]--
			if remaining[childID] == 0 {
				heap.Push(h, childID)
			}
		}
	}

	return order, maxLatency, len(order) == len(nodes)
}
