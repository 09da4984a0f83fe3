// Package segment models the adjustable playback unit: the raw context
// window around a subtitle, the user-tunable selection inside it, and the
// extend overlay that unions trailing entries into one combined unit.
package segment

import "math"

const (
	// DefaultMargin widens a subtitle span into its raw context window.
	DefaultMargin = 1.0
	// DefaultMinLength is the tightest selection the nudge surface allows.
	DefaultMinLength = 0.05
)

// Side selects which edge of the selection a nudge moves.
type Side int

const (
	SideStart Side = iota
	SideEnd
)

// Boundary holds the raw context window and the adjustable selection inside
// it. All values are seconds. The invariant after every mutation is
// RawStart <= AdjStart <= AdjEnd <= RawEnd, with the selection at least
// MinLength long whenever the window can hold that much.
type Boundary struct {
	RawStart float64
	RawEnd   float64
	AdjStart float64
	AdjEnd   float64

	MinLength float64
}

// Window computes the raw context span for a subtitle: its own span widened
// by margin and clamped to the track. A non-positive duration means the track
// length is unknown and only the lower clamp applies.
func Window(start, end, margin, duration float64) (float64, float64) {
	rawStart := math.Max(0, start-margin)
	rawEnd := end + margin
	if duration > 0 && rawEnd > duration {
		rawEnd = duration
	}
	if rawEnd < end {
		rawEnd = end
	}
	return rawStart, rawEnd
}

// Set is the canonical entry point whenever the current unit changes. The
// selection is clamped into the window, swapped if inverted, and padded to
// MinLength by growing the end first; the start only moves when the window is
// too short to grow any further.
func (b *Boundary) Set(rawStart, rawEnd, selStart, selEnd float64) {
	if rawEnd < rawStart {
		rawStart, rawEnd = rawEnd, rawStart
	}
	b.RawStart = rawStart
	b.RawEnd = rawEnd

	selStart = clamp(selStart, rawStart, rawEnd)
	selEnd = clamp(selEnd, rawStart, rawEnd)
	if selEnd < selStart {
		selStart, selEnd = selEnd, selStart
	}
	if selEnd-selStart < b.MinLength {
		selEnd = math.Min(rawEnd, selStart+b.MinLength)
		if selEnd-selStart < b.MinLength {
			selStart = math.Max(rawStart, selEnd-b.MinLength)
		}
	}
	b.AdjStart = selStart
	b.AdjEnd = selEnd
}

// Nudge moves one selection edge by delta seconds. The edge never crosses the
// window or comes closer than MinLength to its counterpart; out-of-range
// deltas are clamped, not rejected.
func (b *Boundary) Nudge(side Side, delta float64) {
	switch side {
	case SideStart:
		b.AdjStart = clamp(b.AdjStart+delta, b.RawStart, b.AdjEnd-b.MinLength)
	case SideEnd:
		b.AdjEnd = clamp(b.AdjEnd+delta, b.AdjStart+b.MinLength, b.RawEnd)
	}
}

// Length reports the current selection length in seconds.
func (b *Boundary) Length() float64 {
	return b.AdjEnd - b.AdjStart
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
