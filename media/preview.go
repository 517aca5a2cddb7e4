package media

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// WritePlaylist writes an ffmpeg concat demuxer playlist for the given
// files. Quotes in paths are escaped the way the demuxer expects.
func WritePlaylist(path string, files []string) error {
	var b strings.Builder
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			abs = f
		}
		fmt.Fprintf(&b, "file '%s'\n", strings.ReplaceAll(abs, "'", `'\''`))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to write playlist: %w", err)
	}
	return nil
}

// previewArgs renders a concat playlist into a gapless stream-copy MP4 with
// the moov atom up front, so a player can start before the write finishes.
func previewArgs(playlist, output string) []string {
	return []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", playlist,
		"-c", "copy",
		"-movflags", "+faststart",
		output,
	}
}

// RenderPreview concatenates clip files into a preview MP4. The clips must
// share codec parameters; stream copy does not transcode mismatches.
func (s *Service) RenderPreview(ctx context.Context, clips []string, output string) error {
	if len(clips) == 0 {
		return fmt.Errorf("no clips to preview")
	}
	playlist := output + ".playlist.txt"
	if err := WritePlaylist(playlist, clips); err != nil {
		return err
	}
	defer os.Remove(playlist)

	cmd := exec.CommandContext(ctx, s.FFmpeg, previewArgs(playlist, output)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg preview render failed: %w\noutput: %s", err, out)
	}
	s.Log.Info("rendered preview", "clips", len(clips), "output", output)
	return nil
}
