// Package clip cuts the adjusted selection out of the audio source with
// ffmpeg.
package clip

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Args builds the ffmpeg invocation for one clip. Seeking with -ss/-to before
// -i keeps the cut fast on long inputs.
func Args(src string, start, end float64, out string) []string {
	return []string{
		"-y",
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-i", src,
		"-vn",
		"-acodec", "libmp3lame",
		"-q:a", "2",
		out,
	}
}

// Slice writes the [start, end] span of src as an mp3 in dir and returns the
// path. Filenames carry a random suffix so repeated exports of the same
// segment never collide in the Anki media folder.
func Slice(src string, start, end float64, dir string) (string, error) {
	if end <= start {
		return "", fmt.Errorf("invalid clip range %.3f-%.3f", start, end)
	}
	base := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	name := fmt.Sprintf("%s_%.0f_%s.mp3", base, start*1000, uuid.NewString()[:8])
	out := filepath.Join(dir, name)

	cmd := exec.Command("ffmpeg", Args(src, start, end, out)...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("failed to slice clip: %w: %s", err, output)
	}
	log.Debug().Str("clip", out).Float64("start", start).Float64("end", end).Msg("clip sliced")
	return out, nil
}
