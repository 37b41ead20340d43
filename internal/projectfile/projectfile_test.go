// SPDX-License-Identifier: MIT
package projectfile

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadParsesNodesAndEdges(t *testing.T) {
	content := `{
		"nodes": [
			{"id": 1, "kind": "TRACK_PROCESSOR", "name": "drums"},
			{"id": 2, "kind": "FADER", "name": "master", "playback_latency": 64}
		],
		"edges": [{"from": 1, "to": 2}]
	}`
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp project file: %v", err)
	}

	snap, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Nodes) != 2 || len(snap.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges; want 2, 1", len(snap.Nodes), len(snap.Edges))
	}
	if snap.Nodes[1].PlaybackLatency != 64 {
		t.Errorf("master latency = %d, want 64", snap.Nodes[1].PlaybackLatency)
	}
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	content := `{"nodes": [{"id": 1, "kind": "BOGUS", "name": "x"}], "edges": []}`
	path := filepath.Join(t.TempDir(), "project.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp project file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected an error for an unknown node kind")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
