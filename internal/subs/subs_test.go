package subs

import (
	"strings"
	"testing"
)

func track(spans ...[2]float64) Track {
	t := make(Track, 0, len(spans))
	for i, s := range spans {
		t = append(t, Entry{Index: i + 1, Start: s[0], End: s[1], Text: "line"})
	}
	return t
}

func TestIndexAt(t *testing.T) {
	entries := track([2]float64{1, 3}, [2]float64{4, 6}, [2]float64{9, 14})

	cases := []struct {
		name string
		pos  float64
		want int
	}{
		{"before first", 0.0, 0},
		{"at first start", 1.0, 0},
		{"inside first", 2.0, 0},
		{"at first end", 3.0, 0},
		{"gap belongs to preceding", 3.5, 0},
		{"inside second", 5.0, 1},
		{"long gap belongs to preceding", 7.5, 1},
		{"inside last", 10.0, 2},
		{"at last end", 14.0, 2},
		{"past last end", 20.0, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := entries.IndexAt(tc.pos); got != tc.want {
				t.Fatalf("IndexAt(%v) = %d, want %d", tc.pos, got, tc.want)
			}
		})
	}
}

func TestIndexAtEmptyTrack(t *testing.T) {
	var empty Track
	if got := empty.IndexAt(5.0); got != 0 {
		t.Fatalf("IndexAt on empty track = %d, want 0", got)
	}
}

func TestIndexAtMonotonic(t *testing.T) {
	entries := track([2]float64{0, 2}, [2]float64{2.5, 4}, [2]float64{4, 7}, [2]float64{9, 12})

	last := 0
	for pos := -1.0; pos <= 14.0; pos += 0.01 {
		got := entries.IndexAt(pos)
		if got < last {
			t.Fatalf("IndexAt(%v) = %d went backwards from %d", pos, got, last)
		}
		last = got
	}
}

func TestClampIndex(t *testing.T) {
	entries := track([2]float64{0, 1}, [2]float64{1, 2})
	if got := entries.ClampIndex(-3); got != 0 {
		t.Fatalf("ClampIndex(-3) = %d, want 0", got)
	}
	if got := entries.ClampIndex(5); got != 1 {
		t.Fatalf("ClampIndex(5) = %d, want 1", got)
	}
	var empty Track
	if got := empty.ClampIndex(2); got != 0 {
		t.Fatalf("ClampIndex on empty track = %d, want 0", got)
	}
}

func TestAlignTranslationsCarriesOriginalTiming(t *testing.T) {
	orig := Track{
		{Index: 1, Start: 0, End: 2, Text: "one"},
		{Index: 2, Start: 3, End: 5, Text: "two"},
		{Index: 3, Start: 6, End: 8, Text: "three"},
	}
	trans := Track{
		{Index: 1, Start: 0.4, End: 2.1, Text: "un"},
		{Index: 2, Start: 3.2, End: 5.3, Text: "deux"},
		{Index: 3, Start: 6.1, End: 8.2, Text: "trois"},
	}

	got := AlignTranslations(orig, trans, AlignTolerance)

	if len(got) != len(orig) {
		t.Fatalf("aligned length = %d, want %d", len(got), len(orig))
	}
	for i := range got {
		if got[i].Start != orig[i].Start || got[i].End != orig[i].End {
			t.Fatalf("entry %d timing = (%v,%v), want (%v,%v)", i, got[i].Start, got[i].End, orig[i].Start, orig[i].End)
		}
	}
	for i, want := range []string{"un", "deux", "trois"} {
		if got[i].Text != want {
			t.Fatalf("entry %d text = %q, want %q", i, got[i].Text, want)
		}
	}
}

func TestAlignTranslationsMissingEntryStaysEmpty(t *testing.T) {
	orig := Track{
		{Index: 1, Start: 0, End: 2, Text: "one"},
		{Index: 2, Start: 10, End: 12, Text: "two"},
		{Index: 3, Start: 20, End: 22, Text: "three"},
	}
	trans := Track{
		{Index: 1, Start: 0.1, End: 2, Text: "un"},
		{Index: 2, Start: 20.3, End: 22, Text: "trois"},
	}

	got := AlignTranslations(orig, trans, AlignTolerance)

	if got[0].Text != "un" || got[1].Text != "" || got[2].Text != "trois" {
		t.Fatalf("texts = %q %q %q, want un, empty, trois", got[0].Text, got[1].Text, got[2].Text)
	}
}

func TestAlignTranslationsNeverConsumesTwice(t *testing.T) {
	// Two originals close together compete for a single translation entry.
	orig := Track{
		{Index: 1, Start: 5.0, End: 6, Text: "a"},
		{Index: 2, Start: 5.8, End: 7, Text: "b"},
	}
	trans := Track{
		{Index: 1, Start: 5.1, End: 6, Text: "shared"},
	}

	got := AlignTranslations(orig, trans, AlignTolerance)

	if got[0].Text != "shared" {
		t.Fatalf("first entry text = %q, want shared", got[0].Text)
	}
	if got[1].Text != "" {
		t.Fatalf("second entry reused a consumed translation: %q", got[1].Text)
	}
}

func TestAlignTranslationsPrefersCloserCandidate(t *testing.T) {
	orig := Track{
		{Index: 1, Start: 4.0, End: 5, Text: "a"},
		{Index: 2, Start: 8.0, End: 9, Text: "b"},
	}
	trans := Track{
		{Index: 1, Start: 3.0, End: 4, Text: "far"},
		{Index: 2, Start: 4.2, End: 5, Text: "near"},
	}

	got := AlignTranslations(orig, trans, AlignTolerance)

	if got[0].Text != "near" {
		t.Fatalf("first entry text = %q, want near", got[0].Text)
	}
}

func TestValidatePair(t *testing.T) {
	orig := Track{
		{Index: 1, Start: 0, End: 1},
		{Index: 2, Start: 2, End: 3},
	}
	same := Track{
		{Index: 1, Start: 0.05, End: 1},
		{Index: 2, Start: 2.0, End: 3},
	}
	if issues := ValidatePair(orig, same); len(issues) != 0 {
		t.Fatalf("expected no issues, got %v", issues)
	}

	short := Track{{Index: 1, Start: 0.5, End: 1}}
	issues := ValidatePair(orig, short)
	if len(issues) != 2 {
		t.Fatalf("expected count and drift issues, got %v", issues)
	}
	if !strings.Contains(issues[0], "count mismatch") {
		t.Fatalf("first issue = %q, want count mismatch", issues[0])
	}
	if !strings.Contains(issues[1], "entries [1]") {
		t.Fatalf("second issue = %q, want drifting entry 1", issues[1])
	}
}

func TestValidatePairCapsReportedEntries(t *testing.T) {
	var orig, trans Track
	for i := 0; i < 8; i++ {
		orig = append(orig, Entry{Index: i + 1, Start: float64(i * 10), End: float64(i*10 + 2)})
		trans = append(trans, Entry{Index: i + 1, Start: float64(i*10) + 0.5, End: float64(i*10) + 2})
	}
	issues := ValidatePair(orig, trans)
	if len(issues) != 1 {
		t.Fatalf("expected one drift issue, got %v", issues)
	}
	if !strings.Contains(issues[0], "...") {
		t.Fatalf("issue %q should truncate the entry list", issues[0])
	}
}

func TestLoadSRT(t *testing.T) {
	got, err := Load("testdata/sample.srt")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("loaded %d entries, want 3", len(got))
	}
	if got[0].Index != 1 || got[1].Index != 2 || got[2].Index != 3 {
		t.Fatalf("indices not renumbered from 1: %+v", got)
	}
	if got[0].Start != 1.0 || got[0].End != 3.5 {
		t.Fatalf("first entry timing = (%v,%v), want (1,3.5)", got[0].Start, got[0].End)
	}
	if !strings.Contains(got[1].Text, "\n") {
		t.Fatalf("multi-line entry should keep its line break, got %q", got[1].Text)
	}
}

func TestParseSRTFromReader(t *testing.T) {
	payload := "1\n00:00:02,000 --> 00:00:04,000\nhello\n\n2\n00:00:05,000 --> 00:00:06,000\nworld\n"
	got, err := ParseSRT(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ParseSRT returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("parsed %d entries, want 2", len(got))
	}
	if got[1].Text != "world" {
		t.Fatalf("second entry text = %q, want world", got[1].Text)
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"90", 90},
		{"90.5", 90.5},
		{"1:30", 90},
		{"1:30.5", 90.5},
		{"0:05", 5},
		{"1:02:03", 3723},
		{"1:02:03.25", 3723.25},
		{" 45 ", 45},
	}
	for _, tc := range cases {
		got, err := ParseTimestamp(tc.in)
		if err != nil {
			t.Fatalf("ParseTimestamp(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimestamp(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseTimestampRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "abc", "1:2:3:4", "-5", "1:-30"} {
		if _, err := ParseTimestamp(in); err == nil {
			t.Fatalf("ParseTimestamp(%q) should fail", in)
		}
	}
}
