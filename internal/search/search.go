// Package search finds subtitle entries matching a free-form query across
// both text tracks. Matching is forgiving: a raw case-insensitive substring
// hit counts, and so does the query equalling a whole word of the entry once
// punctuation and case are stripped from both sides.
package search

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	nonWord  = regexp.MustCompile(`[^\p{L}\p{N}]+`)
	wordRuns = regexp.MustCompile(`[\p{L}\p{N}]+`)
)

// Match is one entry hit and the fields it matched in.
type Match struct {
	Index         int
	InOriginal    bool
	InTranslation bool
}

// Normalize composes the text (NFKC), lowercases it, and collapses every run
// of punctuation, underscores, and whitespace into a single space.
func Normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = nonWord.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Build scans both tracks in entry order and returns the ordered match list
// for query. The translation slice should carry the effective (override
// applied) texts so the search sees what the user sees.
func Build(orig, trans []string, query string) []Match {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return nil
	}
	nq := Normalize(raw)

	var out []Match
	for i := range orig {
		m := Match{Index: i}
		m.InOriginal = Matches(orig[i], raw, nq)
		if i < len(trans) {
			m.InTranslation = Matches(trans[i], raw, nq)
		}
		if m.InOriginal || m.InTranslation {
			out = append(out, m)
		}
	}
	return out
}

// Matches reports whether text matches the query given both its raw and
// normalized forms. normQuery may be empty when the query held no word
// characters at all; the token path is skipped then, and also for multi-word
// queries, which only match as substrings.
func Matches(text, rawQuery, normQuery string) bool {
	if strings.Contains(strings.ToLower(text), strings.ToLower(rawQuery)) {
		return true
	}
	if normQuery == "" || strings.ContainsRune(normQuery, ' ') {
		return false
	}
	for _, tok := range strings.Fields(Normalize(text)) {
		if tok == normQuery {
			return true
		}
	}
	return false
}

// HighlightSpan locates the byte span of the match inside text for in-place
// highlighting: the first raw case-insensitive occurrence when there is one,
// otherwise the first whole word whose normalized form equals the query.
func HighlightSpan(text, query string) (start, end int, ok bool) {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return 0, 0, false
	}
	lq := strings.ToLower(raw)
	if i := strings.Index(strings.ToLower(text), lq); i >= 0 {
		// Lowering can change byte lengths; keep the span inside text.
		e := i + len(lq)
		if e > len(text) {
			e = len(text)
		}
		if i < e {
			return i, e, true
		}
	}
	nq := Normalize(raw)
	if nq == "" || strings.ContainsRune(nq, ' ') {
		return 0, 0, false
	}
	for _, span := range wordRuns.FindAllStringIndex(text, -1) {
		if Normalize(text[span[0]:span[1]]) == nq {
			return span[0], span[1], true
		}
	}
	return 0, 0, false
}
