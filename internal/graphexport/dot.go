// SPDX-License-Identifier: MIT
//
// Package graphexport renders a built router.Graph as Graphviz DOT for
// visualizing the routing topology. Piping the output through
// `dot -Tpng` (or -Tsvg) renders an image; that step is left to the
// caller rather than shelled out from here.
package graphexport

import (
	"fmt"
	"sort"
	"strings"

	"dawengine/internal/router"
)

// DOT renders g as a Graphviz digraph, one node per router.Node
// annotated with its kind and latency figures, and one edge per
// parent-child dependency.
func DOT(g *router.Graph) string {
	var b strings.Builder
	b.WriteString("digraph routing_graph {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	ids := make([]router.NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		n := g.Nodes[id]
		label := fmt.Sprintf("%s\\n%s\\nlatency=%d route=%d", n.Name, n.Kind, n.PlaybackLatency, n.RoutePlaybackLatency)
		fillcolor := "white"
		if n.Bypassed() {
			fillcolor = "lightgrey"
		}
		fmt.Fprintf(&b, "  n%d [label=%q, style=filled, fillcolor=%q];\n", n.ID, label, fillcolor)
	}

	for _, id := range ids {
		n := g.Nodes[id]
		for _, child := range n.Children {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", n.ID, child.ID)
		}
	}

	fmt.Fprintf(&b, "  label=%q;\n", fmt.Sprintf("max_route_latency=%d global_offset=%d", g.MaxRoutePlaybackLatency, g.GlobalOffset))
	b.WriteString("}\n")
	return b.String()
}
