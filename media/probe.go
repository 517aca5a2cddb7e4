package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"

	"montage/timecode"
)

// Info is what the editor needs to know about a media file before placing
// it on the timeline.
type Info struct {
	Duration timecode.Time
	Width    int
	Height   int
	HasVideo bool
	HasAudio bool
}

// Probe inspects a media file with ffprobe.
func (s *Service) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, s.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path)
	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}
	info, err := parseProbeOutput(output)
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe output for %s: %w", path, err)
	}
	s.Log.Debug("probed media", "path", path, "duration", info.Duration, "size", fmt.Sprintf("%dx%d", info.Width, info.Height))
	return info, nil
}

type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

func parseProbeOutput(output []byte) (Info, error) {
	var result probeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return Info{}, err
	}
	seconds, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		return Info{}, fmt.Errorf("bad duration %q: %w", result.Format.Duration, err)
	}
	duration, err := timecode.FromSeconds(seconds)
	if err != nil {
		return Info{}, err
	}

	info := Info{Duration: duration}
	for _, stream := range result.Streams {
		switch stream.CodecType {
		case "video":
			info.HasVideo = true
			if stream.Width > 0 {
				info.Width = stream.Width
				info.Height = stream.Height
			}
		case "audio":
			info.HasAudio = true
		}
	}
	return info, nil
}
