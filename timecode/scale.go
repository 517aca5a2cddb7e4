package timecode

// Scale maps between timeline time and horizontal pixels for a given zoom
// level and scroll position. Every ruler, track, and keyframe surface shares
// this one conversion instead of re-deriving it.
type Scale struct {
	PixelsPerSecond float64
	Scroll          Time
}

// TimeAt converts a pixel offset to timeline time. Positions left of the
// timeline origin clamp to zero; this is the UI input boundary, the one
// place clamping is correct.
func (s Scale) TimeAt(px float64) Time {
	if s.PixelsPerSecond <= 0 {
		return s.Scroll
	}
	seconds := px/s.PixelsPerSecond + s.Scroll.Seconds()
	if seconds <= 0 {
		return Time{}
	}
	t, _ := FromSeconds(seconds)
	return t
}

// PixelAt converts a timeline time to a pixel offset. Times before the
// scroll position yield negative offsets (off-screen to the left).
func (s Scale) PixelAt(t Time) float64 {
	return (t.Seconds() - s.Scroll.Seconds()) * s.PixelsPerSecond
}
