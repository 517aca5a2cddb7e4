package media

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"montage/timecode"
)

// trimArgs builds the stream-copy trim invocation: seek to the range start,
// copy its duration, no re-encode.
func trimArgs(input, output string, r timecode.TimeRange) []string {
	return []string{
		"-y",
		"-i", input,
		"-ss", formatSeconds(r.Start),
		"-t", formatSeconds(r.Duration()),
		"-c", "copy",
		output,
	}
}

// Trim cuts the source range out of input into output without re-encoding.
func (s *Service) Trim(ctx context.Context, input, output string, r timecode.TimeRange) error {
	if r.IsEmpty() {
		return fmt.Errorf("trim range %s is empty", r)
	}
	cmd := exec.CommandContext(ctx, s.FFmpeg, trimArgs(input, output, r)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg trim failed: %w\noutput: %s", err, out)
	}
	s.Log.Info("trimmed media", "input", input, "output", output, "range", r.String())
	return nil
}

func formatSeconds(t timecode.Time) string {
	return strconv.FormatFloat(t.Seconds(), 'f', 6, 64)
}
