// Package youtube wraps yt-dlp for video metadata, caption retrieval, and
// audio download.
package youtube

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"cardsplice/internal/subs"
)

// CaptionTrack is one downloadable subtitle track.
type CaptionTrack struct {
	Lang string
	Name string
	URL  string
	Ext  string
	Auto bool
}

// Video is the probe result: identity plus caption tracks classified into
// original-language candidates and translation candidates.
type Video struct {
	ID       string
	Title    string
	Language string

	Original     []CaptionTrack
	Translations []CaptionTrack
}

// Probe runs yt-dlp -J and classifies the available caption tracks.
func Probe(url string) (*Video, error) {
	cmd := exec.Command("yt-dlp", "-J", "--no-warnings", url)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to probe video: %w", err)
	}
	return parseProbe(out)
}

type probeCaption struct {
	URL  string `json:"url"`
	Ext  string `json:"ext"`
	Name string `json:"name"`
}

type probeInfo struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Language          string                    `json:"language"`
	Subtitles         map[string][]probeCaption `json:"subtitles"`
	AutomaticCaptions map[string][]probeCaption `json:"automatic_captions"`
}

func parseProbe(data []byte) (*Video, error) {
	var info probeInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode probe output: %w", err)
	}

	v := &Video{ID: info.ID, Title: info.Title, Language: info.Language}
	for lang, formats := range info.Subtitles {
		f, ok := pickFormat(formats)
		if !ok {
			continue
		}
		track := CaptionTrack{Lang: lang, Name: f.Name, URL: f.URL, Ext: f.Ext}
		if matchesLanguage(lang, info.Language) {
			v.Original = append(v.Original, track)
		} else {
			v.Translations = append(v.Translations, track)
		}
	}
	for lang, formats := range info.AutomaticCaptions {
		f, ok := pickFormat(formats)
		if !ok {
			continue
		}
		track := CaptionTrack{Lang: lang, Name: f.Name, URL: f.URL, Ext: f.Ext, Auto: true}
		// Auto tracks tagged -orig carry the spoken language; the rest are
		// machine translations of it.
		if strings.HasSuffix(lang, "-orig") || matchesLanguage(lang, info.Language) {
			v.Original = append(v.Original, track)
		} else {
			v.Translations = append(v.Translations, track)
		}
	}

	// Map iteration order is random; keep manual tracks first, then by
	// language, so repeated probes list tracks identically.
	byTrack := func(tracks []CaptionTrack) func(i, j int) bool {
		return func(i, j int) bool {
			if tracks[i].Auto != tracks[j].Auto {
				return !tracks[i].Auto
			}
			return tracks[i].Lang < tracks[j].Lang
		}
	}
	sort.Slice(v.Original, byTrack(v.Original))
	sort.Slice(v.Translations, byTrack(v.Translations))
	return v, nil
}

// pickFormat prefers json3, which parses directly, over vtt and srt.
func pickFormat(formats []probeCaption) (probeCaption, bool) {
	for _, want := range []string{"json3", "vtt", "srt"} {
		for _, f := range formats {
			if f.Ext == want {
				return f, true
			}
		}
	}
	return probeCaption{}, false
}

func matchesLanguage(lang, video string) bool {
	if video == "" {
		return false
	}
	base := func(s string) string {
		return strings.ToLower(strings.SplitN(s, "-", 2)[0])
	}
	return base(lang) == base(video)
}

// FetchCaptions downloads a caption track and parses it into entries.
func FetchCaptions(track CaptionTrack) (subs.Track, error) {
	resp, err := http.Get(track.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch captions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("caption request failed with status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read captions: %w", err)
	}

	switch track.Ext {
	case "json3":
		return ParseJSON3(body)
	case "vtt":
		return subs.ParseVTT(bytes.NewReader(body))
	case "srt":
		return subs.ParseSRT(bytes.NewReader(body))
	}
	return nil, fmt.Errorf("unsupported caption format %q", track.Ext)
}

type json3Payload struct {
	Events []struct {
		TStartMs    int64 `json:"tStartMs"`
		DDurationMs int64 `json:"dDurationMs"`
		Segs        []struct {
			UTF8 string `json:"utf8"`
		} `json:"segs"`
	} `json:"events"`
}

// ParseJSON3 converts YouTube's json3 caption payload into a track. Events
// with no visible text or no duration are dropped and the rest renumbered.
func ParseJSON3(data []byte) (subs.Track, error) {
	var payload json3Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode json3 captions: %w", err)
	}

	var track subs.Track
	for _, ev := range payload.Events {
		var b strings.Builder
		for _, seg := range ev.Segs {
			b.WriteString(seg.UTF8)
		}
		text := strings.TrimSpace(b.String())
		if text == "" || ev.DDurationMs <= 0 {
			continue
		}
		start := float64(ev.TStartMs) / 1000
		track = append(track, subs.Entry{
			Index: len(track) + 1,
			Start: start,
			End:   start + float64(ev.DDurationMs)/1000,
			Text:  text,
		})
	}
	return track, nil
}

// DownloadAudio fetches the best audio stream into dir as a 44.1kHz stereo
// wav, which mpv seeks more accurately than a lossy container, and returns
// the file path.
func DownloadAudio(url, dir string) (string, error) {
	cmd := exec.Command(
		"yt-dlp",
		"-f", "bestaudio/best",
		"--extract-audio",
		"--audio-format", "wav",
		"--postprocessor-args", "ffmpeg:-ar 44100 -ac 2",
		"--no-warnings",
		"-o", filepath.Join(dir, "%(id)s.%(ext)s"),
		"--print", "after_move:filepath",
		url,
	)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("failed to download audio: %w", err)
	}
	path := strings.TrimSpace(string(out))
	if path == "" {
		return "", fmt.Errorf("yt-dlp reported no output file")
	}
	log.Debug().Str("path", path).Msg("audio downloaded")
	return path, nil
}
