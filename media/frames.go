package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// posterFrameArgs extracts every I-frame as a high-quality JPEG.
// -vsync vfr avoids duplicating frames between keyframe intervals.
func posterFrameArgs(input, outputPattern string) []string {
	return []string{
		"-i", input,
		"-vf", "select='eq(pict_type,I)'",
		"-vsync", "vfr",
		"-q:v", "2",
		outputPattern,
	}
}

// ExtractPosterFrames writes each I-frame of the input into outputDir as
// poster_0001.jpg, poster_0002.jpg, ... and returns the directory.
func (s *Service) ExtractPosterFrames(ctx context.Context, input, outputDir string) error {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("media file does not exist: %s", input)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	pattern := filepath.Join(outputDir, "poster_%04d.jpg")

	cmd := exec.CommandContext(ctx, s.FFmpeg, posterFrameArgs(input, pattern)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg poster extraction failed: %w\noutput: %s", err, out)
	}
	s.Log.Info("extracted poster frames", "input", input, "dir", outputDir)
	return nil
}
