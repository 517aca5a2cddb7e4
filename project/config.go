package project

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"montage/timecode"
)

// Config carries tool-wide settings: where the external services live,
// which binaries to shell out to, and timeline defaults.
type Config struct {
	ComfyURL       string `yaml:"comfy_url"`
	TranscriberURL string `yaml:"transcriber_url"`

	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`

	FrameRate string `yaml:"frame_rate"`

	TitleCard struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"title_card"`

	LogMode string `yaml:"log_mode"`
}

func defaultConfig() *Config {
	c := &Config{
		ComfyURL:       "http://127.0.0.1:8188",
		TranscriberURL: "http://127.0.0.1:9000",
		FFmpegPath:     "ffmpeg",
		FFprobePath:    "ffprobe",
		FrameRate:      "23.976",
		LogMode:        "dev",
	}
	c.TitleCard.Width = 1920
	c.TitleCard.Height = 1080
	return c
}

// LoadConfig reads configuration with the lookup order: the explicit path
// argument, $MONTAGE_CONFIG, then ~/.config/montage/config.yaml. A missing
// file at any of those yields the defaults; fields absent from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv("MONTAGE_CONFIG")
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".config", "montage", "config.yaml")
		}
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if _, err := timecode.ParseFrameRate(c.FrameRate); err != nil {
		return err
	}
	if c.TitleCard.Width <= 0 || c.TitleCard.Height <= 0 {
		return fmt.Errorf("title card dimensions must be positive, got %dx%d",
			c.TitleCard.Width, c.TitleCard.Height)
	}
	if c.FFmpegPath == "" || c.FFprobePath == "" {
		return fmt.Errorf("ffmpeg and ffprobe paths must not be empty")
	}
	return nil
}

// Rate returns the configured default frame rate.
func (c *Config) Rate() timecode.FrameRate {
	rate, err := timecode.ParseFrameRate(c.FrameRate)
	if err != nil {
		return timecode.Rate23976
	}
	return rate
}
