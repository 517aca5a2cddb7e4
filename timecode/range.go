package timecode

import "fmt"

// TimeRange is the half-open interval [Start, End). End-exclusive containment
// matches caption and marker "active at playhead" semantics.
type TimeRange struct {
	Start Time `json:"start"`
	End   Time `json:"end"`
}

func NewTimeRange(start, end Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidRange, end, start)
	}
	return TimeRange{Start: start, End: end}, nil
}

// RangeAt builds a range from a start and duration.
func RangeAt(start, duration Time) TimeRange {
	return TimeRange{Start: start, End: start.Add(duration)}
}

func (r TimeRange) Duration() Time {
	d, _ := r.End.Sub(r.Start)
	return d
}

func (r TimeRange) IsEmpty() bool {
	return !r.Start.Before(r.End)
}

// Contains reports whether t falls inside the range, end-exclusive.
func (r TimeRange) Contains(t Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Overlaps reports whether the two half-open intervals share any point.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Intersect returns the shared sub-range, if any.
func (r TimeRange) Intersect(other TimeRange) (TimeRange, bool) {
	start := Max(r.Start, other.Start)
	end := Min(r.End, other.End)
	if !start.Before(end) {
		return TimeRange{}, false
	}
	return TimeRange{Start: start, End: end}, true
}

// Union returns the smallest range covering both, including any gap between.
func (r TimeRange) Union(other TimeRange) TimeRange {
	return TimeRange{Start: Min(r.Start, other.Start), End: Max(r.End, other.End)}
}

// Shift moves the range later by delta, preserving duration.
func (r TimeRange) Shift(delta Time) TimeRange {
	return TimeRange{Start: r.Start.Add(delta), End: r.End.Add(delta)}
}

// Clamp trims the range to fit within bounds.
func (r TimeRange) Clamp(bounds TimeRange) TimeRange {
	clamped, ok := r.Intersect(bounds)
	if !ok {
		return TimeRange{Start: bounds.Start, End: bounds.Start}
	}
	return clamped
}

func (r TimeRange) String() string {
	return fmt.Sprintf("[%s, %s)", r.Start, r.End)
}
