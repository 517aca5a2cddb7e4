// Package media shells out to ffprobe and ffmpeg for the operations the
// editor needs around its timeline: probing, trimming, preview renders,
// poster frames, silence detection, and export with progress. The services
// themselves stay external; this package only shapes their invocations and
// parses their output.
package media

import (
	"montage/logger"
)

// Service binds the external binaries and a logger. Zero-value paths fall
// back to whatever the shell finds on PATH.
type Service struct {
	FFmpeg  string
	FFprobe string
	Log     *logger.Logger
}

func NewService(ffmpeg, ffprobe string, log *logger.Logger) *Service {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{FFmpeg: ffmpeg, FFprobe: ffprobe, Log: log}
}
