package graphexport

import (
	"strings"
	"testing"

	"dawengine/internal/router"
)

func TestDOTIncludesEveryNodeAndEdge(t *testing.T) {
	snap := router.ProjectSnapshot{
		Nodes: []router.NodeSpec{
			{ID: 1, Kind: router.NodeTrackProcessor, Name: "trackA", Payload: router.NoOpPayload{}},
			{ID: 2, Kind: router.NodeFader, Name: "master", Payload: router.NoOpPayload{}, PlaybackLatency: 64},
		},
		Edges: []router.EdgeSpec{{From: 1, To: 2}},
	}
	g, err := router.Build(snap)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	out := DOT(g)
	if !strings.Contains(out, "digraph routing_graph") {
		t.Fatalf("expected a digraph header, got: %s", out)
	}
	if !strings.Contains(out, "trackA") || !strings.Contains(out, "master") {
		t.Fatalf("expected both node names present, got: %s", out)
	}
	if !strings.Contains(out, "n1 -> n2") {
		t.Fatalf("expected an edge from node 1 to node 2, got: %s", out)
	}
	if !strings.Contains(out, "route=64") {
		t.Fatalf("expected the fader's route latency annotated, got: %s", out)
	}
}
