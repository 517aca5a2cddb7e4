package timeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"montage/timecode"
)

// Track is an ordered, typed container of clips. Clips are kept sorted by
// timeline start; the track answers overlap queries but never rejects
// overlapping inserts on its own. Overlap policy belongs to the Sequence
// mutation that requested the insert.
type Track struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Kind TrackKind `json:"kind"`

	Muted   bool `json:"muted,omitempty"`
	Locked  bool `json:"locked,omitempty"`
	Visible bool `json:"visible"`
	Solo    bool `json:"solo,omitempty"`

	clips []Clip
}

func NewTrack(kind TrackKind, name string) Track {
	return Track{ID: uuid.New(), Name: name, Kind: kind, Visible: true}
}

func (t *Track) Len() int { return len(t.clips) }

// Clips returns the clips in timeline order.
func (t *Track) Clips() []Clip {
	out := make([]Clip, len(t.clips))
	copy(out, t.clips)
	return out
}

// AddClip appends a clip in sorted position. Incompatible clip types and
// locked tracks fail with the track unchanged.
func (t *Track) AddClip(c Clip) error {
	if t.Locked {
		return fmt.Errorf("%w: %s", ErrTrackLocked, t.Name)
	}
	if !t.Kind.Accepts(c.Type) {
		return fmt.Errorf("%w: %s clip on %s track", ErrIncompatibleClipType, c.Type, t.Kind)
	}
	t.insert(c)
	return nil
}

func (t *Track) insert(c Clip) {
	i := sort.Search(len(t.clips), func(i int) bool {
		return t.clips[i].Placement.Start.After(c.Placement.Start)
	})
	clips := make([]Clip, 0, len(t.clips)+1)
	clips = append(clips, t.clips[:i]...)
	clips = append(clips, c)
	clips = append(clips, t.clips[i:]...)
	t.clips = clips
}

// ClipAt returns the clip whose placement contains the time, end-exclusive.
// The clip slice is start-ordered, so a binary search finds the candidate
// region; when overlapping clips are permitted the latest-starting match
// wins, which is what the playhead expects over a transition.
func (t *Track) ClipAt(at timecode.Time) (Clip, bool) {
	i := sort.Search(len(t.clips), func(i int) bool {
		return t.clips[i].Placement.Start.After(at)
	})
	for j := i - 1; j >= 0; j-- {
		if t.clips[j].Placement.Contains(at) {
			return t.clips[j], true
		}
	}
	return Clip{}, false
}

// Overlapping returns the clips whose placements intersect r, in timeline
// order.
func (t *Track) Overlapping(r timecode.TimeRange) []Clip {
	var out []Clip
	for _, c := range t.clips {
		if c.Placement.Overlaps(r) {
			out = append(out, c)
		}
	}
	return out
}

// FindClip looks a clip up by ID.
func (t *Track) FindClip(id uuid.UUID) (Clip, bool) {
	for _, c := range t.clips {
		if c.ID == id {
			return c, true
		}
	}
	return Clip{}, false
}

// RemoveClip deletes a clip by ID, returning the removed clip.
func (t *Track) RemoveClip(id uuid.UUID) (Clip, error) {
	if t.Locked {
		return Clip{}, fmt.Errorf("%w: %s", ErrTrackLocked, t.Name)
	}
	for i, c := range t.clips {
		if c.ID == id {
			clips := make([]Clip, 0, len(t.clips)-1)
			clips = append(clips, t.clips[:i]...)
			clips = append(clips, t.clips[i+1:]...)
			t.clips = clips
			return c, nil
		}
	}
	return Clip{}, fmt.Errorf("clip %s: %w", id, ErrNotFound)
}

// End returns the end of the last clip, the track's extent on the timeline.
func (t *Track) End() timecode.Time {
	var end timecode.Time
	for _, c := range t.clips {
		end = timecode.Max(end, c.Placement.End)
	}
	return end
}

type trackJSON struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Kind    TrackKind `json:"kind"`
	Muted   bool      `json:"muted,omitempty"`
	Locked  bool      `json:"locked,omitempty"`
	Visible bool      `json:"visible"`
	Solo    bool      `json:"solo,omitempty"`
	Clips   []Clip    `json:"clips,omitempty"`
}

func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackJSON{
		ID: t.ID, Name: t.Name, Kind: t.Kind,
		Muted: t.Muted, Locked: t.Locked, Visible: t.Visible, Solo: t.Solo,
		Clips: t.clips,
	})
}

// UnmarshalJSON restores the start-order invariant and re-checks clip
// compatibility, so a hand-edited document cannot smuggle an audio clip
// onto a video track.
func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, c := range raw.Clips {
		if !raw.Kind.Accepts(c.Type) {
			return fmt.Errorf("%w: %s clip %q on %s track %q",
				ErrIncompatibleClipType, c.Type, c.Name, raw.Kind, raw.Name)
		}
	}
	sort.SliceStable(raw.Clips, func(i, j int) bool {
		return raw.Clips[i].Placement.Start.Before(raw.Clips[j].Placement.Start)
	})
	t.ID = raw.ID
	t.Name = raw.Name
	t.Kind = raw.Kind
	t.Muted = raw.Muted
	t.Locked = raw.Locked
	t.Visible = raw.Visible
	t.Solo = raw.Solo
	t.clips = raw.Clips
	return nil
}
