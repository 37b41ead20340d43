package ringbuf

import "testing"

func TestRingPushPopFIFO(t *testing.T) {
	r := New[int](4)
	for i := 0; i < 4; i++ {
		if !r.Push(i) {
			t.Fatalf("expected push %d to succeed", i)
		}
	}
	if r.Push(4) {
		t.Fatalf("expected push to fail once ring is full")
	}
	for i := 0; i < 4; i++ {
		v, ok := r.Pop()
		if !ok || v != i {
			t.Fatalf("expected pop %d, got %d ok=%v", i, v, ok)
		}
	}
	if _, ok := r.Pop(); ok {
		t.Fatalf("expected pop to fail on empty ring")
	}
}

func TestRingCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	r := New[int](5)
	if r.Cap() != 8 {
		t.Fatalf("expected capacity to round up to 8, got %d", r.Cap())
	}
}

func TestRingWrapsAroundCorrectly(t *testing.T) {
	r := New[int](2)
	r.Push(1)
	r.Push(2)
	v, _ := r.Pop()
	if v != 1 {
		t.Fatalf("expected 1, got %d", v)
	}
	r.Push(3)
	v, _ = r.Pop()
	if v != 2 {
		t.Fatalf("expected 2, got %d", v)
	}
	v, _ = r.Pop()
	if v != 3 {
		t.Fatalf("expected 3, got %d", v)
	}
}
