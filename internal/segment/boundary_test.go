package segment

import (
	"math"
	"testing"
)

func checkInvariant(t *testing.T, b *Boundary) {
	t.Helper()
	if b.AdjStart < b.RawStart || b.AdjEnd > b.RawEnd {
		t.Fatalf("selection (%v,%v) escaped window (%v,%v)", b.AdjStart, b.AdjEnd, b.RawStart, b.RawEnd)
	}
	if b.AdjEnd < b.AdjStart {
		t.Fatalf("selection inverted: (%v,%v)", b.AdjStart, b.AdjEnd)
	}
	windowFits := b.RawEnd-b.RawStart >= b.MinLength
	if windowFits && b.Length() < b.MinLength-1e-9 {
		t.Fatalf("selection length %v under minimum %v", b.Length(), b.MinLength)
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		name               string
		start, end         float64
		margin, duration   float64
		wantStart, wantEnd float64
	}{
		{"inside track", 5, 9, 1.0, 100, 4, 10},
		{"clamped at zero", 0.5, 2, 1.0, 100, 0, 3},
		{"clamped at duration", 95, 99.5, 1.0, 100, 94, 100},
		{"unknown duration keeps margin", 5, 9, 1.0, 0, 4, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gotStart, gotEnd := Window(tc.start, tc.end, tc.margin, tc.duration)
			if gotStart != tc.wantStart || gotEnd != tc.wantEnd {
				t.Fatalf("Window = (%v,%v), want (%v,%v)", gotStart, gotEnd, tc.wantStart, tc.wantEnd)
			}
		})
	}
}

func TestSetClampsAndSwaps(t *testing.T) {
	b := &Boundary{MinLength: 0.2}

	b.Set(4, 10, 5, 9)
	if b.AdjStart != 5 || b.AdjEnd != 9 {
		t.Fatalf("plain set = (%v,%v), want (5,9)", b.AdjStart, b.AdjEnd)
	}
	checkInvariant(t, b)

	// Inverted selection swaps.
	b.Set(4, 10, 9, 5)
	if b.AdjStart != 5 || b.AdjEnd != 9 {
		t.Fatalf("swapped set = (%v,%v), want (5,9)", b.AdjStart, b.AdjEnd)
	}
	checkInvariant(t, b)

	// Selection outside the window clamps in.
	b.Set(4, 10, 1, 20)
	if b.AdjStart != 4 || b.AdjEnd != 10 {
		t.Fatalf("clamped set = (%v,%v), want (4,10)", b.AdjStart, b.AdjEnd)
	}
	checkInvariant(t, b)
}

func TestSetGrowsEndFirst(t *testing.T) {
	b := &Boundary{MinLength: 0.2}

	// Degenerate selection in the middle grows the end.
	b.Set(0, 10, 5, 5)
	if b.AdjStart != 5 || math.Abs(b.AdjEnd-5.2) > 1e-9 {
		t.Fatalf("grow-end set = (%v,%v), want (5,5.2)", b.AdjStart, b.AdjEnd)
	}
	checkInvariant(t, b)

	// At the window edge the start has to give way instead.
	b.Set(0, 10, 10, 10)
	if math.Abs(b.AdjStart-9.8) > 1e-9 || b.AdjEnd != 10 {
		t.Fatalf("edge set = (%v,%v), want (9.8,10)", b.AdjStart, b.AdjEnd)
	}
	checkInvariant(t, b)
}

func TestSetIdempotent(t *testing.T) {
	a := &Boundary{MinLength: 0.2}
	a.Set(4, 10, 5, 9)
	first := *a
	a.Set(4, 10, 5, 9)
	if *a != first {
		t.Fatalf("second identical Set changed state: %+v vs %+v", first, *a)
	}
}

func TestSetTinyWindow(t *testing.T) {
	b := &Boundary{MinLength: 0.2}
	// Window shorter than the minimum: selection fills the whole window.
	b.Set(3.0, 3.1, 3.0, 3.05)
	if b.AdjStart != 3.0 || math.Abs(b.AdjEnd-3.1) > 1e-9 {
		t.Fatalf("tiny window set = (%v,%v), want (3,3.1)", b.AdjStart, b.AdjEnd)
	}
}

func TestNudgeEndClampsAtMinimum(t *testing.T) {
	b := &Boundary{MinLength: 0.2}
	b.Set(4, 10, 5, 9)

	b.Nudge(SideEnd, -0.05)
	if math.Abs(b.AdjEnd-8.95) > 1e-9 {
		t.Fatalf("AdjEnd = %v, want 8.95", b.AdjEnd)
	}
	checkInvariant(t, b)

	// Pulling the end far past the start stops at start+min.
	b.Nudge(SideEnd, -10)
	if math.Abs(b.AdjEnd-5.2) > 1e-9 {
		t.Fatalf("AdjEnd = %v, want 5.2", b.AdjEnd)
	}
	checkInvariant(t, b)
}

func TestNudgeStartClamps(t *testing.T) {
	b := &Boundary{MinLength: 0.2}
	b.Set(4, 10, 5, 9)

	// Expanding past the window stops at the raw edge.
	b.Nudge(SideStart, -5)
	if b.AdjStart != 4 {
		t.Fatalf("AdjStart = %v, want 4", b.AdjStart)
	}
	// Contracting past the end stops at end-min.
	b.Nudge(SideStart, 20)
	if math.Abs(b.AdjStart-8.8) > 1e-9 {
		t.Fatalf("AdjStart = %v, want 8.8", b.AdjStart)
	}
	checkInvariant(t, b)
}

func TestNudgeSweepKeepsInvariant(t *testing.T) {
	b := &Boundary{MinLength: 0.05}
	b.Set(0, 12, 4, 8)

	deltas := []float64{0.05, -0.05, 1.5, -3.0, 0.3, -0.07, 10, -10}
	for _, d := range deltas {
		b.Nudge(SideStart, d)
		checkInvariant(t, b)
		b.Nudge(SideEnd, -d)
		checkInvariant(t, b)
	}
}
