package router

import (
	"fmt"
	"sort"

	"dawengine/internal/engineerr"
)

// triggerID and terminalID are reserved NodeID values for the
// synthetic nodes Build adds to every graph. They are chosen above any
// ID the project layer is expected to hand out (node IDs are derived
// from small owner indices), and Build re-homes them above the
// snapshot's own maximum ID as a belt-and-braces check.
const (
	triggerIDBase  NodeID = 1<<63 - 2
	terminalIDBase NodeID = 1<<63 - 1
)

// Build constructs a Graph from a ProjectSnapshot: one Node per
// NodeSpec, plus a synthetic INITIAL_TRIGGER feeding every root (a node
// with no incoming edges) and a synthetic TERMINAL fed by every sink (a
// node with no outgoing edges). It computes each node's
// RoutePlaybackLatency and the graph's MaxRoutePlaybackLatency and
// GlobalOffset, and fails with engineerr.GraphCyclic if the snapshot's
// edges contain a cycle.
func Build(snap ProjectSnapshot) (*Graph, error) {
	triggerID, terminalID := reserveSyntheticIDs(snap)

	nodes := make(map[NodeID]*Node, len(snap.Nodes)+2)
	for _, spec := range snap.Nodes {
		n := NewNode(spec.ID, spec.Kind, spec.Name, spec.Payload)
		n.PlaybackLatency = spec.PlaybackLatency
		nodes[spec.ID] = n
	}

	trigger := NewNode(triggerID, NodeInitialTrigger, "INITIAL_TRIGGER", NoOpPayload{})
	trigger.Initial = true
	nodes[triggerID] = trigger

	terminal := NewNode(terminalID, NodeTerminal, "TERMINAL", NoOpPayload{})
	terminal.Terminal = true
	nodes[terminalID] = terminal

	children := make(map[NodeID][]NodeID, len(nodes))
	parents := make(map[NodeID][]NodeID, len(nodes))
	indegree := make(map[NodeID]int, len(nodes))
	for id := range nodes {
		indegree[id] = 0
	}

	addEdge := func(from, to NodeID) {
		children[from] = append(children[from], to)
		parents[to] = append(parents[to], from)
		indegree[to]++
	}

	for _, e := range snap.Edges {
		addEdge(e.From, e.To)
	}

	hasIncoming := make(map[NodeID]bool, len(snap.Nodes))
	hasOutgoing := make(map[NodeID]bool, len(snap.Nodes))
	for _, e := range snap.Edges {
		hasOutgoing[e.From] = true
		hasIncoming[e.To] = true
	}

	for _, spec := range snap.Nodes {
		if !hasIncoming[spec.ID] {
			addEdge(triggerID, spec.ID)
		}
		if !hasOutgoing[spec.ID] {
			addEdge(spec.ID, terminalID)
		}
	}
	// A snapshot with zero nodes still gets a single trigger->terminal
	// edge so the scheduler has a well-formed one-node cycle to run.
	if len(snap.Nodes) == 0 {
		addEdge(triggerID, terminalID)
	}

	order, maxLatency, ok := topoSortWithLatency(nodes, children, parents, indegree)
	if !ok {
		visited := make(map[NodeID]bool, len(order))
		for _, n := range order {
			visited[n.ID] = true
		}
		var stuck []NodeID
		for id := range nodes {
			if !visited[id] {
				stuck = append(stuck, id)
			}
		}
		sort.Slice(stuck, func(i, j int) bool { return stuck[i] < stuck[j] })
		return nil, engineerr.New(engineerr.GraphCyclic, fmt.Sprintf("router: project graph contains a cycle; unvisited nodes %v", stuck))
	}

	for id, n := range nodes {
		n.InitRefcount = int32(indegree[id])
		n.Children = make([]*Node, 0, len(children[id]))
		for _, cid := range children[id] {
			n.Children = append(n.Children, nodes[cid])
		}
	}

	var triggerNodes []*Node
	for _, n := range order {
		if indegree[n.ID] == 0 {
			triggerNodes = append(triggerNodes, n)
		}
	}

	g := &Graph{
		Nodes:                   nodes,
		TriggerNodes:            triggerNodes,
		TerminalNodeCount:       1,
		MaxRoutePlaybackLatency: maxLatency,
		// GlobalOffset: see DESIGN.md. No downstream (post-graph)
		// latency compensation stage exists, so the offset the engine
		// must apply at the transport boundary equals the graph's own
		// maximum route latency.
		GlobalOffset: maxLatency,
	}
	return g, nil
}

// reserveSyntheticIDs picks IDs for INITIAL_TRIGGER/TERMINAL that can
// never collide with a snapshot-supplied NodeID.
func reserveSyntheticIDs(snap ProjectSnapshot) (trigger, terminal NodeID) {
	trigger, terminal = triggerIDBase, terminalIDBase
	for _, spec := range snap.Nodes {
		if spec.ID >= trigger {
			trigger = spec.ID + 1
		}
		if spec.ID >= terminal {
			terminal = spec.ID + 2
		}
	}
	if trigger == terminal {
		terminal++
	}
	return trigger, terminal
}
