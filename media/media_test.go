package media

import (
	"reflect"
	"testing"

	"montage/timecode"
)

func sec(s float64) timecode.Time {
	return timecode.MustSeconds(s)
}

func TestParseProbeOutput(t *testing.T) {
	output := []byte(`{
		"streams": [
			{"codec_type": "video", "width": 1920, "height": 1080},
			{"codec_type": "audio"}
		],
		"format": {"duration": "12.345000"}
	}`)
	info, err := parseProbeOutput(output)
	if err != nil {
		t.Fatalf("parseProbeOutput: %v", err)
	}
	if info.Duration.Seconds() != 12.345 {
		t.Errorf("duration: want 12.345s, got %s", info.Duration)
	}
	if info.Width != 1920 || info.Height != 1080 {
		t.Errorf("size: want 1920x1080, got %dx%d", info.Width, info.Height)
	}
	if !info.HasVideo || !info.HasAudio {
		t.Errorf("streams: want video+audio, got video=%v audio=%v", info.HasVideo, info.HasAudio)
	}
}

func TestParseProbeOutputBadDuration(t *testing.T) {
	if _, err := parseProbeOutput([]byte(`{"format":{"duration":"N/A"}}`)); err == nil {
		t.Fatal("want error for unparseable duration")
	}
}

func TestTrimArgs(t *testing.T) {
	r, _ := timecode.NewTimeRange(sec(1.5), sec(4))
	got := trimArgs("in.mov", "out.mov", r)
	want := []string{"-y", "-i", "in.mov", "-ss", "1.500000", "-t", "2.500000", "-c", "copy", "out.mov"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("trimArgs:\nwant %v\ngot  %v", want, got)
	}
}

func TestPreviewArgs(t *testing.T) {
	got := previewArgs("list.txt", "preview.mp4")
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", "list.txt",
		"-c", "copy", "-movflags", "+faststart", "preview.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("previewArgs:\nwant %v\ngot  %v", want, got)
	}
}

func TestExportArgs(t *testing.T) {
	got := exportArgs("list.txt", "final.mp4", ExportOptions{Codec: "libx264", Width: 1280, Height: 720, CRF: 18})
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", "list.txt",
		"-c:v", "libx264", "-vf", "scale=1280:720", "-crf", "18",
		"-progress", "pipe:1", "-nostats", "final.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("exportArgs:\nwant %v\ngot  %v", want, got)
	}
}

func TestExportArgsDefaults(t *testing.T) {
	got := exportArgs("list.txt", "final.mp4", ExportOptions{})
	want := []string{"-y", "-f", "concat", "-safe", "0", "-i", "list.txt",
		"-progress", "pipe:1", "-nostats", "final.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("default exportArgs:\nwant %v\ngot  %v", want, got)
	}
}

func TestParseProgressLine(t *testing.T) {
	total := sec(10)
	tests := []struct {
		line     string
		wantFrac float64
		wantOK   bool
	}{
		{"out_time_us=5000000", 0.5, true},
		{"out_time_ms=2500000", 0.25, true},
		{"out_time_us=15000000", 1, true}, // past the end clamps to 1
		{"progress=continue", 0, false},
		{"progress=end", 1, true},
		{"frame=120", 0, false},
		{"garbage", 0, false},
		{"out_time_us=notanumber", 0, false},
	}
	for _, tt := range tests {
		frac, ok := parseProgressLine(tt.line, total)
		if ok != tt.wantOK || (ok && frac != tt.wantFrac) {
			t.Errorf("parseProgressLine(%q): want (%v, %v), got (%v, %v)",
				tt.line, tt.wantFrac, tt.wantOK, frac, ok)
		}
	}
}

func TestParseSilenceOutput(t *testing.T) {
	output := `[silencedetect @ 0x7f8] silence_start: 4.4725
[silencedetect @ 0x7f8] silence_end: 5.03 | silence_duration: 0.5575
[silencedetect @ 0x7f8] silence_start: 12.1
[silencedetect @ 0x7f8] silence_end: 12.6 | silence_duration: 0.5
`
	gaps := parseSilenceOutput(output)
	if len(gaps) != 2 {
		t.Fatalf("want 2 gaps, got %d", len(gaps))
	}
	if gaps[0].Range.Start.Seconds() != 4.4725 || gaps[0].Range.End.Seconds() != 5.03 {
		t.Errorf("first gap: got %s", gaps[0].Range)
	}
	if gaps[1].Range.Duration().Seconds() != 0.5 {
		t.Errorf("second gap duration: want 0.5s, got %s", gaps[1].Range.Duration())
	}
}

func TestParseSilenceOutputUnpairedEnd(t *testing.T) {
	gaps := parseSilenceOutput("silence_end: 5.0 | silence_duration: 1.0\n")
	if len(gaps) != 0 {
		t.Errorf("unpaired end must yield no gaps, got %d", len(gaps))
	}
}
