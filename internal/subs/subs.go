package subs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// AlignTolerance is the maximum start-time distance, in seconds, at which a
// translation entry is still considered to belong to an original entry.
const AlignTolerance = 2.0

// Entry is one timed subtitle line.
type Entry struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Track is an ordered list of entries. Entries are expected to be sorted by
// start time and mostly non-overlapping, but consumers tolerate gaps and the
// occasional overlap.
type Track []Entry

// IndexAt resolves a playback position to the entry that should be displayed.
// Positions before the first entry map to 0 and positions after the last entry
// map to the last index. A position inside the gap between two entries belongs
// to the preceding entry.
func (t Track) IndexAt(position float64) int {
	if len(t) == 0 {
		return 0
	}
	if position <= t[0].Start {
		return 0
	}
	if position >= t[len(t)-1].End {
		return len(t) - 1
	}
	for i := range t {
		if position >= t[i].Start && position <= t[i].End {
			return i
		}
		if i+1 < len(t) && position > t[i].End && position < t[i+1].Start {
			return i
		}
	}
	return 0
}

// ClampIndex forces i into the valid range for this track.
func (t Track) ClampIndex(i int) int {
	if len(t) == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= len(t) {
		return len(t) - 1
	}
	return i
}

// AlignTranslations builds a translation track that is index-parallel to orig.
// Every produced entry carries the original's timing; the text comes from the
// closest unconsumed translation entry within tolerance, or stays empty when
// none qualifies. The cursor over trans only moves forward, so the pass is
// linear and never matches one translation entry twice.
func AlignTranslations(orig, trans Track, tolerance float64) Track {
	aligned := make(Track, 0, len(orig))
	consumed := make([]bool, len(trans))
	j := 0
	for _, o := range orig {
		for j < len(trans) && trans[j].Start < o.Start-tolerance {
			j++
		}
		best := -1
		bestDiff := 0.0
		for _, cand := range [2]int{j, j - 1} {
			if cand < 0 || cand >= len(trans) || consumed[cand] {
				continue
			}
			diff := math.Abs(trans[cand].Start - o.Start)
			if diff > tolerance {
				continue
			}
			if best == -1 || diff < bestDiff {
				best = cand
				bestDiff = diff
			}
		}
		text := ""
		if best >= 0 {
			consumed[best] = true
			text = trans[best].Text
		}
		aligned = append(aligned, Entry{Index: o.Index, Start: o.Start, End: o.End, Text: text})
	}
	return aligned
}

// ValidatePair reports problems with a subtitle pair before alignment rewrites
// the translation timings: a count mismatch, and entries whose start times
// drift apart by more than 100ms. At most five drifting entries are listed.
func ValidatePair(orig, trans Track) []string {
	var issues []string
	if len(orig) != len(trans) {
		issues = append(issues, fmt.Sprintf("subtitle count mismatch: %d original vs %d translation", len(orig), len(trans)))
	}
	n := len(orig)
	if len(trans) < n {
		n = len(trans)
	}
	var drifted []int
	for i := 0; i < n; i++ {
		if math.Abs(orig[i].Start-trans[i].Start) > 0.1 {
			drifted = append(drifted, i+1)
		}
	}
	if len(drifted) > 0 {
		shown := drifted
		suffix := ""
		if len(drifted) > 5 {
			shown = drifted[:5]
			suffix = ", ..."
		}
		issues = append(issues, fmt.Sprintf("start-time drift over 100ms at entries %v%s", shown, suffix))
	}
	return issues
}

// ParseTimestamp accepts "H:MM:SS.s", "MM:SS.s", or plain seconds and returns
// the position in seconds.
func ParseTimestamp(timeStr string) (float64, error) {
	timeStr = strings.TrimSpace(timeStr)
	var hours, minutes int
	var seconds float64
	var err error

	switch strings.Count(timeStr, ":") {
	case 2:
		_, err = fmt.Sscanf(timeStr, "%d:%d:%f", &hours, &minutes, &seconds)
	case 1:
		_, err = fmt.Sscanf(timeStr, "%d:%f", &minutes, &seconds)
	case 0:
		seconds, err = strconv.ParseFloat(timeStr, 64)
	default:
		return 0, fmt.Errorf("invalid timestamp %q", timeStr)
	}
	if err != nil || hours < 0 || minutes < 0 || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", timeStr)
	}

	return float64(hours*3600) + float64(minutes*60) + seconds, nil
}
