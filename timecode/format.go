package timecode

import (
	"fmt"
	"strconv"
	"strings"
)

// Timecode renders t as non-drop HH:MM:SS:FF at the given frame rate.
func (t Time) Timecode(rate FrameRate) string {
	frames := t.Frames(rate)
	fpsInt := int64((rate.FPS()) + 0.5)
	ff := frames % fpsInt
	totalSeconds := frames / fpsInt
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", h, m, s, ff)
}

// ParseTimecode reads non-drop HH:MM:SS:FF back into a Time.
func ParseTimecode(s string, rate FrameRate) (Time, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Time{}, fmt.Errorf("%w: timecode %q", ErrInvalidTime, s)
	}
	var nums [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return Time{}, fmt.Errorf("%w: timecode %q", ErrInvalidTime, s)
		}
		nums[i] = n
	}
	fpsInt := int64((rate.FPS()) + 0.5)
	if nums[1] >= 60 || nums[2] >= 60 || nums[3] >= fpsInt {
		return Time{}, fmt.Errorf("%w: timecode %q", ErrInvalidTime, s)
	}
	frames := ((nums[0]*3600+nums[1]*60+nums[2])*fpsInt + nums[3])
	return FromFrames(frames, rate)
}

// StampSRT renders t as HH:MM:SS,mmm.
func (t Time) StampSRT() string {
	return t.stamp(',')
}

// StampVTT renders t as HH:MM:SS.mmm.
func (t Time) StampVTT() string {
	return t.stamp('.')
}

func (t Time) stamp(sep byte) string {
	ms := t.Millis()
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	frac := ms % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", h, m, s, sep, frac)
}

func ParseStampSRT(s string) (Time, error) {
	return parseStamp(s, ",")
}

func ParseStampVTT(s string) (Time, error) {
	return parseStamp(s, ".")
}

func parseStamp(s, sep string) (Time, error) {
	clock, frac, ok := strings.Cut(s, sep)
	if !ok || len(frac) != 3 {
		return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
	}
	parts := strings.Split(clock, ":")
	if len(parts) != 3 {
		return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
	}
	var nums [3]int64
	for i, p := range parts {
		if len(p) != 2 {
			return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
		}
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
		}
		nums[i] = n
	}
	ms, err := strconv.ParseInt(frac, 10, 64)
	if err != nil || ms < 0 {
		return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
	}
	if nums[1] >= 60 || nums[2] >= 60 {
		return Time{}, fmt.Errorf("%w: stamp %q", ErrInvalidTime, s)
	}
	return FromMillis(nums[0]*3600000 + nums[1]*60000 + nums[2]*1000 + ms)
}

// Rational renders t frame-aligned in FCPXML's N/Ds form ("0s" for zero),
// e.g. 1s at 23.976 becomes "24024/24000s".
func (t Time) Rational(rate FrameRate) string {
	frames := t.Frames(rate)
	if frames == 0 {
		return "0s"
	}
	return fmt.Sprintf("%d/%ds", frames*rate.Den, rate.Num)
}

// ParseRational reads "0s", "Ns", or "A/Bs" back into a Time.
func ParseRational(s string) (Time, error) {
	if !strings.HasSuffix(s, "s") {
		return Time{}, fmt.Errorf("%w: rational %q", ErrInvalidTime, s)
	}
	body := strings.TrimSuffix(s, "s")
	num, den, found := strings.Cut(body, "/")
	if !found {
		whole, err := strconv.ParseInt(num, 10, 64)
		if err != nil {
			return Time{}, fmt.Errorf("%w: rational %q", ErrInvalidTime, s)
		}
		return FromMicros(whole * 1e6)
	}
	a, err1 := strconv.ParseInt(num, 10, 64)
	b, err2 := strconv.ParseInt(den, 10, 64)
	if err1 != nil || err2 != nil || b == 0 {
		return Time{}, fmt.Errorf("%w: rational %q", ErrInvalidTime, s)
	}
	return FromSeconds(float64(a) / float64(b))
}
