package segment

import "strings"

// MaxExtend caps how many trailing entries can join the current unit.
const MaxExtend = 2

// Extend tracks the trailing-entry union overlaid on the current segment.
// While active, the unit spans entries [BaseIndex, EndIndex] and the locked
// bounds replace the per-entry selection.
type Extend struct {
	Active    bool
	Count     int
	Direction int
	BaseIndex int
	EndIndex  int

	LockedStart float64
	LockedEnd   float64
}

// Toggle advances the extend cycle one step: counts run 1, 2, 1, 0 and the
// direction flips at both ends. baseIndex anchors a fresh activation and is
// ignored while already active; lastIndex is the final valid entry index.
// Returns false when activation is impossible because no trailing entries
// exist. After a toggle that lands on zero, Active is false again and the
// caller is expected to restore the single-segment view.
func (e *Extend) Toggle(baseIndex, lastIndex int) bool {
	if !e.Active {
		if lastIndex-baseIndex <= 0 {
			return false
		}
		e.Active = true
		e.BaseIndex = baseIndex
		e.Count = 0
		e.Direction = 1
	}

	max := MaxExtend
	if r := lastIndex - e.BaseIndex; r < max {
		max = r
	}
	e.Count += e.Direction
	if e.Count >= max {
		e.Count = max
		e.Direction = -1
	}
	if e.Count <= 0 {
		e.Count = 0
		e.Direction = 1
		e.Active = false
		e.EndIndex = e.BaseIndex
		return true
	}
	e.EndIndex = e.BaseIndex + e.Count
	return true
}

// Lock pins the combined selection bounds for the current count.
func (e *Extend) Lock(start, end float64) {
	e.LockedStart = start
	e.LockedEnd = end
}

// Reset drops the overlay entirely.
func (e *Extend) Reset() {
	*e = Extend{}
}

// CombineOriginal joins the original texts of the unioned entries with single
// spaces, skipping entries that are blank after trimming.
func CombineOriginal(texts []string) string {
	parts := make([]string, 0, len(texts))
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// CombineTranslation keeps one line per entry so a missing translation stays
// visible as a blank line.
func CombineTranslation(texts []string) string {
	return strings.Join(texts, "\n")
}
