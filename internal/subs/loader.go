package subs

import (
	"fmt"
	"io"
	"strings"

	"github.com/asticode/go-astisub"
)

// Load reads an SRT or WebVTT file into a track. Items without visible text
// are dropped and indices are renumbered from 1.
func Load(path string) (Track, error) {
	sf, err := astisub.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open subtitle file: %w", err)
	}
	return fromSubtitles(sf), nil
}

// ParseSRT reads SRT content from r, for payloads that never touch disk.
func ParseSRT(r io.Reader) (Track, error) {
	sf, err := astisub.ReadFromSRT(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse srt: %w", err)
	}
	return fromSubtitles(sf), nil
}

// ParseVTT reads WebVTT content from r.
func ParseVTT(r io.Reader) (Track, error) {
	sf, err := astisub.ReadFromWebVTT(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse vtt: %w", err)
	}
	return fromSubtitles(sf), nil
}

func fromSubtitles(sf *astisub.Subtitles) Track {
	track := make(Track, 0, len(sf.Items))
	for _, item := range sf.Items {
		text := itemText(item)
		if strings.TrimSpace(text) == "" {
			continue
		}
		track = append(track, Entry{
			Index: len(track) + 1,
			Start: item.StartAt.Seconds(),
			End:   item.EndAt.Seconds(),
			Text:  text,
		})
	}
	return track
}

// itemText flattens an item to plain text, one line per subtitle line.
func itemText(item *astisub.Item) string {
	var sb strings.Builder
	for i, line := range item.Lines {
		if i > 0 {
			sb.WriteRune('\n')
		}
		for j, li := range line.Items {
			if j > 0 {
				sb.WriteRune(' ')
			}
			sb.WriteString(li.Text)
		}
	}
	return sb.String()
}
