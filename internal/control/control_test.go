package control

import "testing"

func TestDrainIntoAppliesOnePerKind(t *testing.T) {
	q := NewQueue()
	q.Push(Change{Kind: Tempo, Value: 100})
	q.Push(Change{Kind: Tempo, Value: 140})
	q.Push(Change{Kind: BeatsPerBar, Value: 3})

	var applied []Change
	n := q.DrainInto(func(c Change) { applied = append(applied, c) })

	if n != 2 {
		t.Fatalf("expected 2 applied changes (same-kind coalesced), got %d", n)
	}
	if applied[0].Kind != Tempo || applied[0].Value != 140 {
		t.Fatalf("expected the latest tempo change to survive, got %v", applied[0])
	}
	if applied[1].Kind != BeatsPerBar || applied[1].Value != 3 {
		t.Fatalf("expected beats-per-bar change applied independently, got %v", applied[1])
	}
}

func TestDrainIntoEmptyQueueIsNoop(t *testing.T) {
	q := NewQueue()
	called := false
	n := q.DrainInto(func(Change) { called = true })
	if n != 0 || called {
		t.Fatalf("expected no-op drain on empty queue")
	}
}

func TestPushNeverDropsADifferentKind(t *testing.T) {
	q := NewQueue()
	q.Push(Change{Kind: BeatUnit, Value: 4})
	q.Push(Change{Kind: BeatUnit, Value: 8})
	q.Push(Change{Kind: Tempo, Value: 120})

	var applied []Change
	n := q.DrainInto(func(c Change) { applied = append(applied, c) })

	if n != 2 {
		t.Fatalf("expected tempo and beat-unit to both survive, got %d changes: %v", n, applied)
	}
}

func TestDrainIntoClearsPendingUntilNextPush(t *testing.T) {
	q := NewQueue()
	q.Push(Change{Kind: Tempo, Value: 90})
	q.DrainInto(func(Change) {})

	n := q.DrainInto(func(Change) { t.Fatalf("unexpected re-apply of a drained change") })
	if n != 0 {
		t.Fatalf("expected no pending changes after a drain with no intervening push, got %d", n)
	}
}
