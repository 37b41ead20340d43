// SPDX-License-Identifier: MIT
//
// Package projectfile reads a JSON description of a routing graph's
// topology — the node list and the edges between them — for tooling
// that operates on structure alone, such as graph export. It never
// wires real plugin hosts or ports; nodes built from a project file
// carry router.NoOpPayload and exist only to be laid out and measured.
package projectfile

import (
	"encoding/json"
	"fmt"
	"os"

	"dawengine/internal/router"
)

type nodeJSON struct {
	ID              router.NodeID `json:"id"`
	Kind            string        `json:"kind"`
	Name            string        `json:"name"`
	PlaybackLatency int           `json:"playback_latency"`
}

type edgeJSON struct {
	From router.NodeID `json:"from"`
	To   router.NodeID `json:"to"`
}

type fileJSON struct {
	Nodes []nodeJSON `json:"nodes"`
	Edges []edgeJSON `json:"edges"`
}

// Load reads path and returns the ProjectSnapshot it describes.
func Load(path string) (router.ProjectSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return router.ProjectSnapshot{}, fmt.Errorf("projectfile: read %s: %w", path, err)
	}

	var f fileJSON
	if err := json.Unmarshal(data, &f); err != nil {
		return router.ProjectSnapshot{}, fmt.Errorf("projectfile: parse %s: %w", path, err)
	}

	snap := router.ProjectSnapshot{
		Nodes: make([]router.NodeSpec, len(f.Nodes)),
		Edges: make([]router.EdgeSpec, len(f.Edges)),
	}
	for i, n := range f.Nodes {
		kind, err := router.ParseNodeKind(n.Kind)
		if err != nil {
			return router.ProjectSnapshot{}, fmt.Errorf("projectfile: node %d: %w", n.ID, err)
		}
		snap.Nodes[i] = router.NodeSpec{
			ID:              n.ID,
			Kind:            kind,
			Name:            n.Name,
			Payload:         router.NoOpPayload{},
			PlaybackLatency: n.PlaybackLatency,
		}
	}
	for i, e := range f.Edges {
		snap.Edges[i] = router.EdgeSpec{From: e.From, To: e.To}
	}
	return snap, nil
}
