package media

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"montage/timecode"
)

// ExportOptions are the codec/resolution/quality knobs of a final render.
type ExportOptions struct {
	Codec  string // e.g. "libx264"
	Width  int
	Height int
	CRF    int // quality, lower is better; 0 uses the encoder default
}

// ProgressFunc receives the completed fraction in 0..1. The final call
// before a successful return reports 1.
type ProgressFunc func(fraction float64)

// exportArgs builds the transcode invocation with machine-readable progress
// on stdout.
func exportArgs(playlist, output string, opts ExportOptions) []string {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", playlist,
	}
	if opts.Codec != "" {
		args = append(args, "-c:v", opts.Codec)
	}
	if opts.Width > 0 && opts.Height > 0 {
		args = append(args, "-vf", fmt.Sprintf("scale=%d:%d", opts.Width, opts.Height))
	}
	if opts.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(opts.CRF))
	}
	args = append(args,
		"-progress", "pipe:1",
		"-nostats",
		output,
	)
	return args
}

// Export renders the clip files into a single output, reporting progress as
// a fraction of the total duration. The duration must come from the caller
// (the timeline knows it; ffmpeg does not, for a concat input).
func (s *Service) Export(ctx context.Context, clips []string, output string, total timecode.Time, opts ExportOptions, progress ProgressFunc) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to export")
	}
	if total.IsZero() {
		return fmt.Errorf("export duration must be positive")
	}
	playlist := output + ".playlist.txt"
	if err := WritePlaylist(playlist, clips); err != nil {
		return err
	}
	defer os.Remove(playlist)

	cmd := exec.CommandContext(ctx, s.FFmpeg, exportArgs(playlist, output, opts)...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open ffmpeg stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		if frac, ok := parseProgressLine(scanner.Text(), total); ok && progress != nil {
			progress(frac)
		}
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg export failed: %w", err)
	}
	if progress != nil {
		progress(1)
	}
	s.Log.Info("exported", "clips", len(clips), "output", output)
	return nil
}

// parseProgressLine reads one key=value line of ffmpeg -progress output,
// returning the completed fraction for out_time_us lines.
func parseProgressLine(line string, total timecode.Time) (float64, bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false
	}
	switch key {
	case "out_time_us", "out_time_ms":
		// Despite the name, both keys carry microseconds in current
		// ffmpeg releases.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		frac := float64(us) / float64(total.Micros())
		if frac > 1 {
			frac = 1
		}
		return frac, true
	case "progress":
		if value == "end" {
			return 1, true
		}
	}
	return 0, false
}
