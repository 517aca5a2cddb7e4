// Package keyframe models animatable parameter curves: sorted (time, value)
// samples with per-segment interpolation, evaluated at arbitrary query times.
package keyframe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"montage/timecode"
)

// ErrNoKeyframes reports evaluation of an empty curve. Callers with a
// sensible fallback should use EvaluateOr instead.
var ErrNoKeyframes = errors.New("no keyframes")

// Interp selects how the segment leaving a keyframe is interpolated.
type Interp int

const (
	Hold Interp = iota
	Linear
	Bezier
	EaseIn
	EaseOut
	EaseInOut
)

func (i Interp) String() string {
	switch i {
	case Hold:
		return "hold"
	case Linear:
		return "linear"
	case Bezier:
		return "bezier"
	case EaseIn:
		return "easeIn"
	case EaseOut:
		return "easeOut"
	case EaseInOut:
		return "easeInOut"
	}
	return fmt.Sprintf("Interp(%d)", int(i))
}

// Handle is a bezier tangent expressed as offsets from its keyframe:
// DTime in seconds along the timeline axis, DValue in parameter units.
// Outgoing handles point forward (positive DTime), incoming backward.
type Handle struct {
	DTime  float64 `json:"dTime"`
	DValue float64 `json:"dValue"`
}

type Keyframe struct {
	At     timecode.Time `json:"at"`
	Value  float64       `json:"value"`
	Interp Interp        `json:"interp"`
	Out    Handle        `json:"out"`
	In     Handle        `json:"in"`
}

// Track is one animatable scalar parameter: a value range and keyframes kept
// sorted by time, unique per time. Mutations copy internally so a Track held
// by a previous document version stays frozen.
type Track struct {
	ID    uuid.UUID `json:"id"`
	Param string    `json:"param"`
	Min   float64   `json:"min"`
	Max   float64   `json:"max"`

	keys []Keyframe
}

func NewTrack(param string, min, max float64) *Track {
	return &Track{ID: uuid.New(), Param: param, Min: min, Max: max}
}

func (t *Track) Len() int { return len(t.keys) }

// Keyframes returns the keyframes in time order.
func (t *Track) Keyframes() []Keyframe {
	out := make([]Keyframe, len(t.keys))
	copy(out, t.keys)
	return out
}

// Set upserts a keyframe: inserting in sorted position, or replacing the
// keyframe already at exactly k.At.
func (t *Track) Set(k Keyframe) {
	i := sort.Search(len(t.keys), func(i int) bool {
		return !t.keys[i].At.Before(k.At)
	})
	if i < len(t.keys) && t.keys[i].At.Equal(k.At) {
		keys := make([]Keyframe, len(t.keys))
		copy(keys, t.keys)
		keys[i] = k
		t.keys = keys
		return
	}
	keys := make([]Keyframe, 0, len(t.keys)+1)
	keys = append(keys, t.keys[:i]...)
	keys = append(keys, k)
	keys = append(keys, t.keys[i:]...)
	t.keys = keys
}

// Remove deletes the keyframe at exactly at, reporting whether one existed.
func (t *Track) Remove(at timecode.Time) bool {
	i := sort.Search(len(t.keys), func(i int) bool {
		return !t.keys[i].At.Before(at)
	})
	if i >= len(t.keys) || !t.keys[i].At.Equal(at) {
		return false
	}
	keys := make([]Keyframe, 0, len(t.keys)-1)
	keys = append(keys, t.keys[:i]...)
	keys = append(keys, t.keys[i+1:]...)
	t.keys = keys
	return true
}

// Evaluate returns the curve value at the query time. Outside the first and
// last keyframe the boundary value extrapolates as a constant; a single
// keyframe makes the whole curve constant. Empty tracks fail with
// ErrNoKeyframes.
func (t *Track) Evaluate(at timecode.Time) (float64, error) {
	if len(t.keys) == 0 {
		return 0, ErrNoKeyframes
	}
	return t.clamp(t.evaluate(at)), nil
}

// EvaluateOr is Evaluate with an externally supplied default for empty tracks.
func (t *Track) EvaluateOr(at timecode.Time, def float64) float64 {
	if len(t.keys) == 0 {
		return def
	}
	return t.clamp(t.evaluate(at))
}

func (t *Track) clamp(v float64) float64 {
	if t.Min < t.Max {
		if v < t.Min {
			return t.Min
		}
		if v > t.Max {
			return t.Max
		}
	}
	return v
}

func (t *Track) evaluate(at timecode.Time) float64 {
	first, last := t.keys[0], t.keys[len(t.keys)-1]
	if !at.After(first.At) {
		return first.Value
	}
	if !at.Before(last.At) {
		return last.Value
	}

	// Index of the first keyframe strictly after the query time; the
	// segment is keys[i-1] .. keys[i].
	i := sort.Search(len(t.keys), func(i int) bool {
		return t.keys[i].At.After(at)
	})
	a, b := t.keys[i-1], t.keys[i]

	span := b.At.Seconds() - a.At.Seconds()
	u := (at.Seconds() - a.At.Seconds()) / span

	switch a.Interp {
	case Hold:
		return a.Value
	case Linear:
		return a.Value + (b.Value-a.Value)*u
	case EaseIn:
		return a.Value + (b.Value-a.Value)*(u*u)
	case EaseOut:
		return a.Value + (b.Value-a.Value)*(1-(1-u)*(1-u))
	case EaseInOut:
		var shaped float64
		if u < 0.5 {
			shaped = 2 * u * u
		} else {
			shaped = 1 - 2*(1-u)*(1-u)
		}
		return a.Value + (b.Value-a.Value)*shaped
	case Bezier:
		return evalBezier(a, b, at.Seconds())
	}
	return a.Value
}

// evalBezier evaluates the cubic segment between a and b at timeline time x.
// Handles are (Δtime, Δvalue) offsets, so the curve is parametrized by time:
// the bezier parameter for the given x is recovered by bisection on the x
// component, which is monotonic for handle times kept inside the segment.
func evalBezier(a, b Keyframe, x float64) float64 {
	x0, y0 := a.At.Seconds(), a.Value
	x3, y3 := b.At.Seconds(), b.Value

	x1 := clampFloat(x0+a.Out.DTime, x0, x3)
	y1 := y0 + a.Out.DValue
	x2 := clampFloat(x3+b.In.DTime, x0, x3)
	y2 := y3 + b.In.DValue

	lo, hi := 0.0, 1.0
	for i := 0; i < 48; i++ {
		mid := (lo + hi) / 2
		if cubic(x0, x1, x2, x3, mid) < x {
			lo = mid
		} else {
			hi = mid
		}
	}
	return cubic(y0, y1, y2, y3, (lo+hi)/2)
}

func cubic(p0, p1, p2, p3, t float64) float64 {
	inv := 1 - t
	return inv*inv*inv*p0 + 3*inv*inv*t*p1 + 3*inv*t*t*p2 + t*t*t*p3
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
