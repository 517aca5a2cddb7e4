package timecode

import (
	"errors"
	"testing"
)

func TestTimecodeRendering(t *testing.T) {
	tests := []struct {
		seconds float64
		rate    FrameRate
		want    string
	}{
		{0, Rate24, "00:00:00:00"},
		{1, Rate24, "00:00:01:00"},
		{1.5, Rate24, "00:00:01:12"},
		{1, Rate25, "00:00:01:00"},
		{0.04, Rate25, "00:00:00:01"},
		{3661, Rate30, "01:01:01:00"},
		{10, Rate2997, "00:00:10:00"},
	}
	for _, tt := range tests {
		if got := MustSeconds(tt.seconds).Timecode(tt.rate); got != tt.want {
			t.Errorf("Timecode(%vs @ %s): want %q, got %q", tt.seconds, tt.rate, tt.want, got)
		}
	}
}

func TestParseTimecodeRoundTrip(t *testing.T) {
	for _, tc := range []string{"00:00:00:00", "00:01:30:12", "01:00:00:23"} {
		tm, err := ParseTimecode(tc, Rate24)
		if err != nil {
			t.Fatalf("ParseTimecode(%q): %v", tc, err)
		}
		if got := tm.Timecode(Rate24); got != tc {
			t.Errorf("timecode round trip %q: got %q", tc, got)
		}
	}
}

func TestParseTimecodeRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "1:2:3", "00:00:00", "00:61:00:00", "00:00:00:24", "aa:bb:cc:dd"} {
		if _, err := ParseTimecode(bad, Rate24); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ParseTimecode(%q): want ErrInvalidTime, got %v", bad, err)
		}
	}
}

func TestStamps(t *testing.T) {
	tm := MustSeconds(3661.025)
	if got := tm.StampSRT(); got != "01:01:01,025" {
		t.Errorf("StampSRT: want %q, got %q", "01:01:01,025", got)
	}
	if got := tm.StampVTT(); got != "01:01:01.025" {
		t.Errorf("StampVTT: want %q, got %q", "01:01:01.025", got)
	}
}

func TestParseStampRoundTrip(t *testing.T) {
	for _, stamp := range []string{"00:00:00,000", "00:01:02,345", "12:34:56,789"} {
		tm, err := ParseStampSRT(stamp)
		if err != nil {
			t.Fatalf("ParseStampSRT(%q): %v", stamp, err)
		}
		if got := tm.StampSRT(); got != stamp {
			t.Errorf("SRT stamp round trip %q: got %q", stamp, got)
		}
	}
	tm, err := ParseStampVTT("00:00:01.500")
	if err != nil {
		t.Fatalf("ParseStampVTT: %v", err)
	}
	if got := tm.Seconds(); got != 1.5 {
		t.Errorf("VTT stamp: want 1.5s, got %vs", got)
	}
}

func TestParseStampRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "00:00:00", "0:0:0,0", "00:00:00.000x", "00:99:00,000"} {
		if _, err := ParseStampSRT(bad); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("ParseStampSRT(%q): want ErrInvalidTime, got %v", bad, err)
		}
	}
}

func TestRational(t *testing.T) {
	tests := []struct {
		seconds float64
		rate    FrameRate
		want    string
	}{
		{0, Rate23976, "0s"},
		{1, Rate23976, "24024/24000s"},
		{10, Rate23976, "240240/24000s"},
		{2, Rate25, "50/25s"},
	}
	for _, tt := range tests {
		if got := MustSeconds(tt.seconds).Rational(tt.rate); got != tt.want {
			t.Errorf("Rational(%vs @ %s): want %q, got %q", tt.seconds, tt.rate, tt.want, got)
		}
	}
}

func TestRationalRoundTrip(t *testing.T) {
	for _, rate := range []FrameRate{Rate23976, Rate24, Rate2997} {
		for _, frames := range []int64{0, 1, 24, 239, 86400} {
			tm, err := FromFrames(frames, rate)
			if err != nil {
				t.Fatalf("FromFrames: %v", err)
			}
			parsed, err := ParseRational(tm.Rational(rate))
			if err != nil {
				t.Fatalf("ParseRational(%q): %v", tm.Rational(rate), err)
			}
			if got := parsed.Frames(rate); got != frames {
				t.Errorf("rational round trip %d frames @ %s: got %d", frames, rate, got)
			}
		}
	}
}

func TestScaleMapping(t *testing.T) {
	s := Scale{PixelsPerSecond: 100, Scroll: MustSeconds(10)}
	if got := s.TimeAt(250).Seconds(); got != 12.5 {
		t.Errorf("TimeAt(250): want 12.5s, got %vs", got)
	}
	if got := s.PixelAt(MustSeconds(12.5)); got != 250 {
		t.Errorf("PixelAt(12.5s): want 250, got %v", got)
	}
	// Dragging left of the origin clamps to zero rather than failing.
	if got := s.TimeAt(-2000); !got.IsZero() {
		t.Errorf("TimeAt(-2000): want 0, got %s", got)
	}
}
