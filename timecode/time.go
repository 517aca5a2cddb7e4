// Package timecode holds the timeline's temporal model: microsecond Time
// values, half-open TimeRanges, frame rates, and the timecode/SRT/VTT/rational
// string forms the rest of the tool reads and writes.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	// ErrInvalidTime reports a negative or non-finite time value. Model
	// constructors fail fast instead of clamping; clamping belongs at the
	// UI input boundary (see Scale.TimeAt).
	ErrInvalidTime = errors.New("invalid time")

	// ErrInvalidRange reports a range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid time range")
)

// Time is a non-negative count of microseconds on the timeline axis.
// The zero value is the timeline origin.
type Time struct {
	us int64
}

func FromMicros(us int64) (Time, error) {
	if us < 0 {
		return Time{}, fmt.Errorf("%w: %d microseconds", ErrInvalidTime, us)
	}
	return Time{us: us}, nil
}

func FromMillis(ms int64) (Time, error) {
	return FromMicros(ms * 1000)
}

func FromSeconds(s float64) (Time, error) {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return Time{}, fmt.Errorf("%w: %v seconds", ErrInvalidTime, s)
	}
	return Time{us: int64(math.Round(s * 1e6))}, nil
}

func FromDuration(d time.Duration) (Time, error) {
	return FromMicros(d.Microseconds())
}

// MustSeconds is FromSeconds for values known valid at the call site,
// typically constants in tests and command defaults.
func MustSeconds(s float64) Time {
	t, err := FromSeconds(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Time) Micros() int64           { return t.us }
func (t Time) Millis() int64           { return t.us / 1000 }
func (t Time) Seconds() float64        { return float64(t.us) / 1e6 }
func (t Time) Duration() time.Duration { return time.Duration(t.us) * time.Microsecond }
func (t Time) IsZero() bool            { return t.us == 0 }

func (t Time) Add(other Time) Time {
	return Time{us: t.us + other.us}
}

// Sub fails with ErrInvalidTime when other is later than t; timeline
// arithmetic never produces a negative Time.
func (t Time) Sub(other Time) (Time, error) {
	if other.us > t.us {
		return Time{}, fmt.Errorf("%w: %s - %s is negative", ErrInvalidTime, t, other)
	}
	return Time{us: t.us - other.us}, nil
}

// Scale multiplies t by factor, used for clip speed changes.
func (t Time) Scale(factor float64) (Time, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Time{}, fmt.Errorf("%w: scale factor %v", ErrInvalidTime, factor)
	}
	return Time{us: int64(math.Round(float64(t.us) * factor))}, nil
}

func (t Time) Before(other Time) bool { return t.us < other.us }
func (t Time) After(other Time) bool  { return t.us > other.us }
func (t Time) Equal(other Time) bool  { return t.us == other.us }

// Cmp returns -1, 0 or +1 ordering t against other.
func (t Time) Cmp(other Time) int {
	switch {
	case t.us < other.us:
		return -1
	case t.us > other.us:
		return 1
	default:
		return 0
	}
}

func Min(a, b Time) Time {
	if a.us < b.us {
		return a
	}
	return b
}

func Max(a, b Time) Time {
	if a.us > b.us {
		return a
	}
	return b
}

func (t Time) String() string {
	return fmt.Sprintf("%.3fs", t.Seconds())
}
