package media

import (
	"context"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"montage/timecode"
)

// SilenceGap is a detected stretch of near-silence in an audio stream,
// useful as a cut-point candidate when segmenting a recording.
type SilenceGap struct {
	Range timecode.TimeRange
}

// DetectSilence runs ffmpeg's silencedetect filter over the input. The
// filter reports on stderr; an analysis failure yields no gaps rather than
// an error, since silence detection is advisory.
func (s *Service) DetectSilence(ctx context.Context, input string, noiseDB float64, minDuration timecode.Time) []SilenceGap {
	filter := "silencedetect=noise=" + strconv.FormatFloat(noiseDB, 'f', -1, 64) + "dB" +
		":duration=" + strconv.FormatFloat(minDuration.Seconds(), 'f', -1, 64)
	cmd := exec.CommandContext(ctx, s.FFmpeg, "-i", input, "-af", filter, "-f", "null", "-")
	output, err := cmd.CombinedOutput()
	if err != nil {
		s.Log.Warn("silence analysis failed", "input", input, "err", err)
		return nil
	}
	return parseSilenceOutput(string(output))
}

var (
	silenceStartRe = regexp.MustCompile(`silence_start: ([0-9.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end: ([0-9.]+)`)
)

func parseSilenceOutput(output string) []SilenceGap {
	var gaps []SilenceGap
	var start *timecode.Time

	for _, line := range strings.Split(output, "\n") {
		if m := silenceStartRe.FindStringSubmatch(line); len(m) > 1 {
			if seconds, err := strconv.ParseFloat(m[1], 64); err == nil {
				if t, err := timecode.FromSeconds(seconds); err == nil {
					start = &t
				}
			}
			continue
		}
		if m := silenceEndRe.FindStringSubmatch(line); len(m) > 1 && start != nil {
			if seconds, err := strconv.ParseFloat(m[1], 64); err == nil {
				if end, err := timecode.FromSeconds(seconds); err == nil {
					if r, err := timecode.NewTimeRange(*start, end); err == nil {
						gaps = append(gaps, SilenceGap{Range: r})
					}
				}
			}
			start = nil
		}
	}
	return gaps
}
