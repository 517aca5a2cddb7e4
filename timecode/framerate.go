package timecode

import (
	"fmt"
	"math"
)

// FrameRate is a rational frames-per-second value. NTSC family rates keep
// their exact 1001-denominator form so frame math stays drift-free.
type FrameRate struct {
	Num int64
	Den int64
}

var (
	Rate23976 = FrameRate{24000, 1001}
	Rate24    = FrameRate{24, 1}
	Rate25    = FrameRate{25, 1}
	Rate2997  = FrameRate{30000, 1001}
	Rate30    = FrameRate{30, 1}
	Rate50    = FrameRate{50, 1}
	Rate5994  = FrameRate{60000, 1001}
	Rate60    = FrameRate{60, 1}
)

// ParseFrameRate reads the config spellings ("23.976", "29.97", "25", ...).
func ParseFrameRate(s string) (FrameRate, error) {
	switch s {
	case "23.976":
		return Rate23976, nil
	case "24":
		return Rate24, nil
	case "25":
		return Rate25, nil
	case "29.97":
		return Rate2997, nil
	case "30":
		return Rate30, nil
	case "50":
		return Rate50, nil
	case "59.94":
		return Rate5994, nil
	case "60":
		return Rate60, nil
	}
	return FrameRate{}, fmt.Errorf("unknown frame rate %q", s)
}

func (r FrameRate) FPS() float64 {
	return float64(r.Num) / float64(r.Den)
}

// FrameDuration renders one frame's length in the rational form FCPXML
// expects, e.g. "1001/24000s" at 23.976.
func (r FrameRate) FrameDuration() string {
	return fmt.Sprintf("%d/%ds", r.Den, r.Num)
}

func (r FrameRate) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%.3f", r.FPS())
}

// Frames counts whole frames elapsed at rate.
func (t Time) Frames(rate FrameRate) int64 {
	return int64(math.Round(t.Seconds() * rate.FPS()))
}

func FromFrames(n int64, rate FrameRate) (Time, error) {
	if n < 0 {
		return Time{}, fmt.Errorf("%w: %d frames", ErrInvalidTime, n)
	}
	return FromSeconds(float64(n) / rate.FPS())
}

// SnapToFrame rounds t to the nearest frame boundary at rate.
func (t Time) SnapToFrame(rate FrameRate) Time {
	snapped, _ := FromFrames(t.Frames(rate), rate)
	return snapped
}
