package search

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Hello World", "hello world"},
		{"collapses punctuation", "The cat, sat.", "the cat sat"},
		{"collapses underscores and runs", "a__b  -- c", "a b c"},
		{"trims edges", " ... edge ... ", "edge"},
		{"composes fullwidth forms", "ｃａｔ", "cat"},
		{"empty when no word characters", "?!.", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestMatchesTokenPath(t *testing.T) {
	// Punctuation in the entry does not block a whole-word match.
	if !Matches("The cat, sat.", "cat", Normalize("cat")) {
		t.Fatal("expected token match for cat in punctuated text")
	}
	// Punctuation in the query falls through to the token path.
	if !Matches("The cat sat", "cat!", Normalize("cat!")) {
		t.Fatal("expected token match for a punctuated query")
	}
	// A partial word still matches via the substring path.
	if !Matches("concatenate", "cat", Normalize("cat")) {
		t.Fatal("expected substring match inside concatenate")
	}
	if Matches("dog days", "cat", Normalize("cat")) {
		t.Fatal("unexpected match in unrelated text")
	}
}

func TestMatchesSubstringIsCaseInsensitive(t *testing.T) {
	if !Matches("Chasing The CAT now", "the cat", Normalize("the cat")) {
		t.Fatal("expected case-insensitive substring match")
	}
}

func TestMultiWordQuerySkipsTokenPath(t *testing.T) {
	// "cat sat" appears punctuated, so the substring path fails, and the
	// token path never matches multi-word queries.
	if Matches("The cat, sat.", "cat sat", Normalize("cat sat")) {
		t.Fatal("multi-word query must not match through the token path")
	}
}

func TestBuildTagsSources(t *testing.T) {
	orig := []string{"The cat, sat.", "Nothing here", "cat again"}
	trans := []string{"Le chat", "un cat quelconque", ""}

	got := Build(orig, trans, "cat")

	if len(got) != 3 {
		t.Fatalf("got %d matches, want 3", len(got))
	}
	if got[0].Index != 0 || !got[0].InOriginal || got[0].InTranslation {
		t.Fatalf("match 0 = %+v, want original-only at index 0", got[0])
	}
	if got[1].Index != 1 || got[1].InOriginal || !got[1].InTranslation {
		t.Fatalf("match 1 = %+v, want translation-only at index 1", got[1])
	}
	if got[2].Index != 2 || !got[2].InOriginal {
		t.Fatalf("match 2 = %+v, want original at index 2", got[2])
	}
}

func TestBuildEmptyQuery(t *testing.T) {
	if got := Build([]string{"a"}, []string{"b"}, "   "); got != nil {
		t.Fatalf("blank query produced matches: %v", got)
	}
}

func TestHighlightSpan(t *testing.T) {
	// Substring occurrence wins.
	s, e, ok := HighlightSpan("The CAT sat", "cat")
	if !ok || s != 4 || e != 7 {
		t.Fatalf("substring span = (%d,%d,%v), want (4,7,true)", s, e, ok)
	}

	// A punctuated query is no raw substring, so the token fallback locates
	// the whole word it normalizes to.
	s, e, ok = HighlightSpan("The CAT sat", "cat!")
	if !ok {
		t.Fatal("expected a span")
	}
	if got := "The CAT sat"[s:e]; got != "CAT" {
		t.Fatalf("span text = %q, want CAT", got)
	}

	if _, _, ok := HighlightSpan("nothing relevant", "zebra"); ok {
		t.Fatal("unexpected span in unrelated text")
	}
}
