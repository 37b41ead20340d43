package router

// NodeSpec is a read-only description of one processing unit, supplied
// by the project layer when asking the builder to construct a Graph.
// The project layer is responsible for wiring each Payload's internal
// port references (e.g. a FaderPayload's InL/InR) before handing the
// spec to Build; the builder only needs the resulting dependency shape.
type NodeSpec struct {
	ID      NodeID
	Kind    NodeKind
	Name    string
	Payload Payload

	// PlaybackLatency is this node's own processing delay in samples
	// (e.g. a plugin's reported latency), excluding anything upstream.
	PlaybackLatency int
}

// EdgeSpec is a directed dependency: To must not be processed until
// From has completed in the same cycle.
type EdgeSpec struct {
	From, To NodeID
}

// ProjectSnapshot is the complete, read-only input to Build: every node
// in the current project's processing graph and the edges between
// them. The builder adds the synthetic INITIAL_TRIGGER and TERMINAL
// nodes itself; Snapshot should not include them.
type ProjectSnapshot struct {
	Nodes []NodeSpec
	Edges []EdgeSpec
}
