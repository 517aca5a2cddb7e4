package timeline

import (
	"github.com/google/uuid"

	"montage/keyframe"
	"montage/timecode"
)

// Clip is a placed reference to a portion of a media source. Placement is
// the clip's range on the shared timeline axis; Source is the range within
// the referenced media used for trimming. A clip belongs to exactly one
// track; identity is stable across reorderings and moves.
type Clip struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Type  ClipType  `json:"type"`
	Media string    `json:"media,omitempty"`

	Placement timecode.TimeRange `json:"placement"`
	Source    timecode.TimeRange `json:"source"`

	// Speed scales source time against timeline time; 1 is realtime.
	Speed float64 `json:"speed"`

	Mask *Mask `json:"mask,omitempty"`

	// Anim holds keyframed parameter curves (opacity, position, ...).
	Anim []*keyframe.Track `json:"anim,omitempty"`
}

// NewClip builds a clip placed at start on the timeline, playing the given
// source range at normal speed.
func NewClip(name string, typ ClipType, media string, start timecode.Time, source timecode.TimeRange) Clip {
	return Clip{
		ID:        uuid.New(),
		Name:      name,
		Type:      typ,
		Media:     media,
		Placement: timecode.RangeAt(start, source.Duration()),
		Source:    source,
		Speed:     1,
	}
}

func (c Clip) Duration() timecode.Time {
	return c.Placement.Duration()
}

// speed returns the effective source-per-timeline rate, defaulting zero
// (unset in older documents) to realtime.
func (c Clip) speed() float64 {
	if c.Speed <= 0 {
		return 1
	}
	return c.Speed
}
