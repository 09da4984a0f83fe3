package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"cardsplice/internal/search"
	"cardsplice/internal/session"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.width
	if width <= 0 {
		width = 80
	}

	var b strings.Builder
	header := bulletStyle.Render("┌") + titleStyle.Render("cardsplice")
	if m.title != "" {
		header += "  " + dimTextStyle.Render(runewidth.Truncate(m.title, width-14, "..."))
	}
	b.WriteString(header + "\n\n")

	if len(m.session.Entries()) == 0 {
		b.WriteString(textStyle.Render("  no subtitles loaded") + "\n\n")
		b.WriteString(m.help.View(m.keys))
		return b.String()
	}

	b.WriteString("  " + m.statusBadges() + "\n\n")
	b.WriteString(m.panels(width))
	b.WriteString("\n  " + m.transport(width-4) + "\n")
	b.WriteString("  " + m.statusLine() + "\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) statusBadges() string {
	parts := []string{
		dimTextStyle.Render(fmt.Sprintf("%d/%d", m.session.CurrentIndex()+1, len(m.session.Entries()))),
		modeStyle.Render(m.session.Mode().String()),
	}
	if m.session.AutoPause() {
		parts = append(parts, dimTextStyle.Render("[auto-pause]"))
	}
	if ext := m.session.Extend(); ext.Active {
		parts = append(parts, modeStyle.Render(fmt.Sprintf("[+%d]", ext.Count)))
	}
	if m.session.WaitingResume() {
		parts = append(parts, dimTextStyle.Render("[space resumes]"))
	}
	if m.session.CardCreated() {
		parts = append(parts, createdStyle.Render("✔ card"))
	}
	return strings.Join(parts, "  ")
}

func (m Model) panels(width int) string {
	var b strings.Builder
	query := m.session.SearchQuery()

	for _, line := range strings.Split(m.session.CurrentOriginal(), "\n") {
		b.WriteString("  " + highlight(line, query, originalStyle, width-4) + "\n")
	}

	if m.focus == focusTranslation {
		b.WriteString(m.transArea.View() + "\n")
		return b.String()
	}

	trans := m.session.CurrentTranslation()
	if strings.TrimSpace(trans) == "" {
		b.WriteString("  " + dimTextStyle.Render("(no translation)") + "\n")
		return b.String()
	}
	style := translationStyle
	if m.session.HasOverride(m.session.CurrentIndex()) {
		style = overrideStyle
	}
	for _, line := range strings.Split(trans, "\n") {
		b.WriteString("  " + highlight(line, query, style, width-4) + "\n")
	}
	return b.String()
}

// highlight renders one panel line, reverse-styling the first span that the
// active query matches.
func highlight(line, query string, base lipgloss.Style, width int) string {
	line = runewidth.Truncate(line, width, "...")
	if query != "" {
		if start, end, ok := search.HighlightSpan(line, query); ok {
			return base.Render(line[:start]) + matchStyle.Render(line[start:end]) + base.Render(line[end:])
		}
	}
	return base.Render(line)
}

// transport draws the boundary window with its adjusted bounds and playhead,
// or the whole-file cursor while scrubbing.
func (m Model) transport(width int) string {
	dur := m.session.DurationSeconds()
	pos := m.session.PositionSeconds()
	scrubbing := m.session.Mode() == session.ModeScrubbing
	if scrubbing {
		pos = m.session.ScrubPosition()
	}

	clock := formatClock(pos) + " / " + formatClock(dur)
	barWidth := width - runewidth.StringWidth(clock) - 2
	if barWidth < 16 {
		return dimTextStyle.Render(clock)
	}

	cells := make([]rune, barWidth)
	for i := range cells {
		cells[i] = '─'
	}
	if scrubbing {
		if dur > 0 {
			cells[cellAt(pos, 0, dur, barWidth)] = '●'
		}
	} else {
		bd := m.session.Boundary()
		if bd.RawEnd > bd.RawStart {
			lo := cellAt(bd.AdjStart, bd.RawStart, bd.RawEnd, barWidth)
			hi := cellAt(bd.AdjEnd, bd.RawStart, bd.RawEnd, barWidth)
			for i := lo; i <= hi; i++ {
				cells[i] = '━'
			}
			cells[lo] = '['
			cells[hi] = ']'
			cells[cellAt(pos, bd.RawStart, bd.RawEnd, barWidth)] = '●'
		}
	}
	return transportStyle.Render(string(cells)) + "  " + dimTextStyle.Render(clock)
}

// cellAt maps a position inside [lo, hi] to a bar cell, clamped to the edges.
func cellAt(pos, lo, hi float64, width int) int {
	f := (pos - lo) / (hi - lo)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return int(f * float64(width-1))
}

func formatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	min := int(seconds) / 60
	return fmt.Sprintf("%02d:%04.1f", min, seconds-float64(min*60))
}

func (m Model) statusLine() string {
	switch m.focus {
	case focusSearch:
		return m.searchInput.View()
	case focusDeck:
		return m.deckInput.View()
	case focusTags:
		return m.tagsInput.View()
	case focusTranslation:
		return dimTextStyle.Render("editing translation, esc saves")
	}
	if m.loading {
		return m.spinner.View() + m.loadingMsg
	}
	if m.errorText != "" {
		return errorStyle.Render(m.errorText)
	}
	if status, ok := m.session.SearchStatus(); ok {
		return dimTextStyle.Render(fmt.Sprintf("search %q: %s", m.session.SearchQuery(), status))
	}
	if m.status != "" {
		return successStyle.Render(m.status)
	}
	return ""
}
