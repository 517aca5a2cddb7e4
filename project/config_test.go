package project

import (
	"os"
	"path/filepath"
	"testing"

	"montage/timecode"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWhenMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ComfyURL != "http://127.0.0.1:8188" {
		t.Errorf("default comfy URL: got %q", cfg.ComfyURL)
	}
	if cfg.Rate() != timecode.Rate23976 {
		t.Errorf("default rate: got %v", cfg.Rate())
	}
	if cfg.TitleCard.Width != 1920 || cfg.TitleCard.Height != 1080 {
		t.Errorf("default title card size: got %dx%d", cfg.TitleCard.Width, cfg.TitleCard.Height)
	}
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "frame_rate: \"25\"\ncomfy_url: http://gpu-box:8188\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Rate() != timecode.Rate25 {
		t.Errorf("frame rate: want 25, got %v", cfg.Rate())
	}
	if cfg.ComfyURL != "http://gpu-box:8188" {
		t.Errorf("comfy URL: got %q", cfg.ComfyURL)
	}
	// Untouched fields keep their defaults.
	if cfg.FFmpegPath != "ffmpeg" {
		t.Errorf("ffmpeg path default lost: got %q", cfg.FFmpegPath)
	}
}

func TestLoadConfigRejectsBadFrameRate(t *testing.T) {
	path := writeConfig(t, "frame_rate: \"17\"\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("bad frame rate: want error")
	}
}

func TestLoadConfigRejectsBadDimensions(t *testing.T) {
	path := writeConfig(t, "title_card:\n  width: 0\n  height: 1080\n")
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("zero title card width: want error")
	}
}
