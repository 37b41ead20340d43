// SPDX-License-Identifier: MIT
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"dawengine/internal/engine"
)

type fakeMonitor struct {
	stats              engine.Stats
	pl, rl, pr, rr float64
}

func (f fakeMonitor) StatsSnapshot() engine.Stats { return f.stats }
func (f fakeMonitor) PeakL() float64              { return f.pl }
func (f fakeMonitor) RMSL() float64               { return f.rl }
func (f fakeMonitor) PeakR() float64              { return f.pr }
func (f fakeMonitor) RMSR() float64               { return f.rr }

func TestViewRendersXRunCount(t *testing.T) {
	m := NewModel(fakeMonitor{stats: engine.Stats{XRunCount: 3}})
	view := m.View()
	if !strings.Contains(view, "XRuns: 3") {
		t.Fatalf("expected XRun count in view, got: %s", view)
	}
}

func TestTickUpdatesSnapshot(t *testing.T) {
	m := NewModel(fakeMonitor{stats: engine.Stats{XRunCount: 5}, pl: 0.8, rl: 0.4})
	updated, cmd := m.Update(tickMsg{})
	next := updated.(Model)

	if next.stats.XRunCount != 5 {
		t.Fatalf("expected snapshot XRunCount 5, got %d", next.stats.XRunCount)
	}
	if cmd == nil {
		t.Fatalf("expected Update to schedule the next tick")
	}
}

func TestQuitKeyEmitsQuitCommand(t *testing.T) {
	m := NewModel(fakeMonitor{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatalf("expected ctrl+c to emit a command")
	}
}

func TestRenderMeterLineReportsRawOutOfRangeValues(t *testing.T) {
	line := renderMeterLine("L", 1.5, -0.2)
	if !strings.Contains(line, "peak=1.500") || !strings.Contains(line, "rms=-0.200") {
		t.Fatalf("expected raw peak/rms values reported verbatim, got: %s", line)
	}
}
