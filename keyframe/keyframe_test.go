package keyframe

import (
	"errors"
	"math"
	"testing"

	"montage/timecode"
)

func sec(s float64) timecode.Time {
	return timecode.MustSeconds(s)
}

func linearTrack(t *testing.T) *Track {
	t.Helper()
	tr := NewTrack("opacity", 0, 10)
	tr.Set(Keyframe{At: sec(0), Value: 0, Interp: Linear})
	tr.Set(Keyframe{At: sec(1), Value: 10, Interp: Linear})
	return tr
}

func eval(t *testing.T, tr *Track, at float64) float64 {
	t.Helper()
	v, err := tr.Evaluate(sec(at))
	if err != nil {
		t.Fatalf("Evaluate(%vs): %v", at, err)
	}
	return v
}

func TestEvaluateEmptyTrack(t *testing.T) {
	tr := NewTrack("scale", 0, 1)
	if _, err := tr.Evaluate(sec(0)); !errors.Is(err, ErrNoKeyframes) {
		t.Fatalf("empty track: want ErrNoKeyframes, got %v", err)
	}
	if got := tr.EvaluateOr(sec(0), 0.75); got != 0.75 {
		t.Errorf("EvaluateOr default: want 0.75, got %v", got)
	}
}

func TestSingleKeyframeIsConstant(t *testing.T) {
	tr := NewTrack("rotation", -360, 360)
	tr.Set(Keyframe{At: sec(5), Value: 90, Interp: Linear})
	for _, at := range []float64{0, 5, 100} {
		if got := eval(t, tr, at); got != 90 {
			t.Errorf("Evaluate(%vs): want 90, got %v", at, got)
		}
	}
}

func TestBoundaryExactness(t *testing.T) {
	tr := linearTrack(t)
	if got := eval(t, tr, 0); got != 0 {
		t.Errorf("Evaluate at first keyframe: want 0, got %v", got)
	}
	if got := eval(t, tr, 1); got != 10 {
		t.Errorf("Evaluate at last keyframe: want 10, got %v", got)
	}
	// Constant extrapolation outside the span.
	if got := eval(t, tr, 99); got != 10 {
		t.Errorf("Evaluate past last keyframe: want 10, got %v", got)
	}
}

func TestLinearMidpoint(t *testing.T) {
	tr := linearTrack(t)
	if got := eval(t, tr, 0.5); got != 5 {
		t.Errorf("Evaluate(0.5s): want exactly 5, got %v", got)
	}
}

func TestHoldStepsAtNextKeyframe(t *testing.T) {
	tr := NewTrack("opacity", 0, 10)
	tr.Set(Keyframe{At: sec(0), Value: 0, Interp: Hold})
	tr.Set(Keyframe{At: sec(1), Value: 10, Interp: Hold})
	if got := eval(t, tr, 0.999); got != 0 {
		t.Errorf("hold at 0.999s: want 0, got %v", got)
	}
	if got := eval(t, tr, 1); got != 10 {
		t.Errorf("hold at 1s: want 10, got %v", got)
	}
}

func TestEaseShapes(t *testing.T) {
	tests := []struct {
		interp Interp
		at     float64
		want   float64
	}{
		{EaseIn, 0.5, 2.5},    // 10 * 0.25
		{EaseOut, 0.5, 7.5},   // 10 * 0.75
		{EaseInOut, 0.5, 5},   // symmetric midpoint
		{EaseInOut, 0.25, 1.25},
		{EaseInOut, 0.75, 8.75},
	}
	for _, tt := range tests {
		tr := NewTrack("opacity", 0, 10)
		tr.Set(Keyframe{At: sec(0), Value: 0, Interp: tt.interp})
		tr.Set(Keyframe{At: sec(1), Value: 10, Interp: tt.interp})
		if got := eval(t, tr, tt.at); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s at %vs: want %v, got %v", tt.interp, tt.at, tt.want, got)
		}
	}
}

func TestBezierEndpointsAndShape(t *testing.T) {
	tr := NewTrack("position", 0, 100)
	tr.Set(Keyframe{At: sec(0), Value: 0, Interp: Bezier, Out: Handle{DTime: 0.4, DValue: 0}})
	tr.Set(Keyframe{At: sec(1), Value: 100, Interp: Bezier, In: Handle{DTime: -0.4, DValue: 0}})

	if got := eval(t, tr, 0); got != 0 {
		t.Errorf("bezier at first keyframe: want 0, got %v", got)
	}
	if got := eval(t, tr, 1); got != 100 {
		t.Errorf("bezier at last keyframe: want 100, got %v", got)
	}

	// Flat handles give an ease-in-out shape: slow near the endpoints,
	// symmetric at the midpoint, monotonically increasing.
	mid := eval(t, tr, 0.5)
	if math.Abs(mid-50) > 0.01 {
		t.Errorf("symmetric bezier midpoint: want ~50, got %v", mid)
	}
	early := eval(t, tr, 0.1)
	if early >= 10 {
		t.Errorf("flat out-handle must lag linear early on: got %v at 0.1s", early)
	}
	prev := -1.0
	for at := 0.0; at <= 1.0; at += 0.05 {
		v := eval(t, tr, at)
		if v < prev-1e-9 {
			t.Fatalf("bezier not monotonic: %v after %v at %vs", v, prev, at)
		}
		prev = v
	}
}

func TestSetUpsertsByExactTime(t *testing.T) {
	tr := linearTrack(t)
	tr.Set(Keyframe{At: sec(1), Value: 4, Interp: Linear})
	if got := tr.Len(); got != 2 {
		t.Fatalf("upsert must not grow the track: want 2 keyframes, got %d", got)
	}
	if got := eval(t, tr, 1); got != 4 {
		t.Errorf("after upsert: want 4, got %v", got)
	}
}

func TestSetKeepsOrder(t *testing.T) {
	tr := NewTrack("volume", 0, 1)
	for _, at := range []float64{3, 1, 2, 0} {
		tr.Set(Keyframe{At: sec(at), Value: at, Interp: Linear})
	}
	keys := tr.Keyframes()
	for i := 1; i < len(keys); i++ {
		if !keys[i-1].At.Before(keys[i].At) {
			t.Fatalf("keyframes out of order at %d: %s then %s", i, keys[i-1].At, keys[i].At)
		}
	}
}

func TestRemove(t *testing.T) {
	tr := linearTrack(t)
	if !tr.Remove(sec(1)) {
		t.Fatal("Remove(1s): want true")
	}
	if tr.Remove(sec(1)) {
		t.Fatal("second Remove(1s): want false")
	}
	if got := tr.Len(); got != 1 {
		t.Errorf("after remove: want 1 keyframe, got %d", got)
	}
}

func TestEvaluateClampsToValueRange(t *testing.T) {
	tr := NewTrack("opacity", 0, 1)
	tr.Set(Keyframe{At: sec(0), Value: 0, Interp: Bezier, Out: Handle{DTime: 0.1, DValue: 5}})
	tr.Set(Keyframe{At: sec(1), Value: 1, Interp: Bezier, In: Handle{DTime: -0.1, DValue: 5}})
	for at := 0.0; at <= 1.0; at += 0.1 {
		v := eval(t, tr, at)
		if v < 0 || v > 1 {
			t.Fatalf("value %v at %vs escapes [0,1]", v, at)
		}
	}
}
