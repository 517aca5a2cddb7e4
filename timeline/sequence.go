package timeline

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"montage/timecode"
)

// OverlapPolicy decides whether a mutation may place a clip over an existing
// one on the same track. Rejecting is the default editing behavior; allowing
// is for authoring transitions, where two clips overlap briefly by intent.
type OverlapPolicy int

const (
	RejectOverlap OverlapPolicy = iota
	AllowOverlap
)

// Sequence is the editing document's timeline: tracks, global markers, and
// an optional working range (in/out points). All mutations validate first
// and commit only when every check passes, so a failed operation leaves the
// sequence exactly as it was.
type Sequence struct {
	ID   uuid.UUID          `json:"id"`
	Name string             `json:"name"`
	Rate timecode.FrameRate `json:"rate"`

	Tracks   []Track             `json:"tracks"`
	Markers  []Marker            `json:"markers,omitempty"`
	WorkArea *timecode.TimeRange `json:"workArea,omitempty"`
}

func NewSequence(name string, rate timecode.FrameRate) *Sequence {
	return &Sequence{ID: uuid.New(), Name: name, Rate: rate}
}

// AddTrack appends a track and returns its ID.
func (s *Sequence) AddTrack(kind TrackKind, name string) uuid.UUID {
	t := NewTrack(kind, name)
	s.Tracks = append(s.Tracks, t)
	return t.ID
}

// Track finds a track by ID; the pointer addresses the sequence's own slice.
func (s *Sequence) Track(id uuid.UUID) (*Track, error) {
	for i := range s.Tracks {
		if s.Tracks[i].ID == id {
			return &s.Tracks[i], nil
		}
	}
	return nil, fmt.Errorf("track %s: %w", id, ErrNotFound)
}

// FindClip locates a clip anywhere in the sequence, returning its track.
func (s *Sequence) FindClip(clipID uuid.UUID) (*Track, Clip, error) {
	for i := range s.Tracks {
		if c, ok := s.Tracks[i].FindClip(clipID); ok {
			return &s.Tracks[i], c, nil
		}
	}
	return nil, Clip{}, fmt.Errorf("clip %s: %w", clipID, ErrNotFound)
}

// AddClip places a clip on a track under the given overlap policy.
func (s *Sequence) AddClip(trackID uuid.UUID, c Clip, policy OverlapPolicy) error {
	t, err := s.Track(trackID)
	if err != nil {
		return err
	}
	if err := s.validatePlacement(t, c, policy); err != nil {
		return err
	}
	return t.AddClip(c)
}

func (s *Sequence) validatePlacement(t *Track, c Clip, policy OverlapPolicy) error {
	if t.Locked {
		return fmt.Errorf("%w: %s", ErrTrackLocked, t.Name)
	}
	if !t.Kind.Accepts(c.Type) {
		return fmt.Errorf("%w: %s clip on %s track", ErrIncompatibleClipType, c.Type, t.Kind)
	}
	if policy == RejectOverlap {
		for _, other := range t.Overlapping(c.Placement) {
			if other.ID != c.ID {
				return fmt.Errorf("%w: %q at %s", ErrClipOverlap, other.Name, other.Placement)
			}
		}
	}
	return nil
}

// MoveClip relocates a clip to a new timeline start, possibly on another
// track. The whole operation is atomic: destination compatibility, lock
// state, and overlap policy are validated before anything is removed, so a
// failed move leaves both tracks untouched.
func (s *Sequence) MoveClip(clipID, destTrackID uuid.UUID, newStart timecode.Time, policy OverlapPolicy) error {
	src, c, err := s.FindClip(clipID)
	if err != nil {
		return err
	}
	dest, err := s.Track(destTrackID)
	if err != nil {
		return err
	}
	if src.Locked {
		return fmt.Errorf("%w: %s", ErrTrackLocked, src.Name)
	}

	moved := c
	moved.Placement = timecode.RangeAt(newStart, c.Placement.Duration())
	if err := s.validatePlacement(dest, moved, policy); err != nil {
		return err
	}

	if _, err := src.RemoveClip(clipID); err != nil {
		return err
	}
	return dest.AddClip(moved)
}

// ResizeClip trims a clip's start or end to a new timeline bound. Start
// trims shift the source in-point by the same delta scaled by clip speed;
// end trims move only the out-points. A result of zero or negative duration
// fails with ErrInvalidDuration and commits nothing.
func (s *Sequence) ResizeClip(clipID uuid.UUID, newStart, newEnd timecode.Time) error {
	track, c, err := s.FindClip(clipID)
	if err != nil {
		return err
	}
	if track.Locked {
		return fmt.Errorf("%w: %s", ErrTrackLocked, track.Name)
	}
	if !newStart.Before(newEnd) {
		return fmt.Errorf("%w: resize to %s..%s", ErrInvalidDuration, newStart, newEnd)
	}

	resized := c
	resized.Placement = timecode.TimeRange{Start: newStart, End: newEnd}
	resized.Source = c.Source

	if !newStart.Equal(c.Placement.Start) {
		if newStart.After(c.Placement.Start) {
			d, _ := newStart.Sub(c.Placement.Start)
			scaled, err := d.Scale(c.speed())
			if err != nil {
				return err
			}
			resized.Source.Start = c.Source.Start.Add(scaled)
		} else {
			d, _ := c.Placement.Start.Sub(newStart)
			scaled, err := d.Scale(c.speed())
			if err != nil {
				return err
			}
			start, err := c.Source.Start.Sub(scaled)
			if err != nil {
				return fmt.Errorf("%w: trim before source start", ErrInvalidDuration)
			}
			resized.Source.Start = start
		}
	}
	if !newEnd.Equal(c.Placement.End) {
		if newEnd.After(c.Placement.End) {
			d, _ := newEnd.Sub(c.Placement.End)
			scaled, err := d.Scale(c.speed())
			if err != nil {
				return err
			}
			resized.Source.End = c.Source.End.Add(scaled)
		} else {
			d, _ := c.Placement.End.Sub(newEnd)
			scaled, err := d.Scale(c.speed())
			if err != nil {
				return err
			}
			end, err := c.Source.End.Sub(scaled)
			if err != nil {
				return fmt.Errorf("%w: trim past source end", ErrInvalidDuration)
			}
			resized.Source.End = end
		}
	}
	if !resized.Source.Start.Before(resized.Source.End) {
		return fmt.Errorf("%w: source collapses to %s..%s", ErrInvalidDuration, resized.Source.Start, resized.Source.End)
	}

	if _, err := track.RemoveClip(clipID); err != nil {
		return err
	}
	return track.AddClip(resized)
}

// RemoveClip deletes a clip wherever it lives.
func (s *Sequence) RemoveClip(clipID uuid.UUID) error {
	track, _, err := s.FindClip(clipID)
	if err != nil {
		return err
	}
	_, err = track.RemoveClip(clipID)
	return err
}

// Duration is the end of the last clip across all tracks.
func (s *Sequence) Duration() timecode.Time {
	var end timecode.Time
	for i := range s.Tracks {
		end = timecode.Max(end, s.Tracks[i].End())
	}
	return end
}

// AddMarker inserts a marker keeping the marker list time-ordered.
func (s *Sequence) AddMarker(m Marker) {
	i := sort.Search(len(s.Markers), func(i int) bool {
		return s.Markers[i].At.After(m.At)
	})
	markers := make([]Marker, 0, len(s.Markers)+1)
	markers = append(markers, s.Markers[:i]...)
	markers = append(markers, m)
	markers = append(markers, s.Markers[i:]...)
	s.Markers = markers
}

// UpdateMarker replaces a marker by ID, re-sorting if its time moved.
// Locked markers refuse the update.
func (s *Sequence) UpdateMarker(m Marker) error {
	for i := range s.Markers {
		if s.Markers[i].ID == m.ID {
			if s.Markers[i].Locked {
				return fmt.Errorf("%w: %q", ErrMarkerLocked, s.Markers[i].Label)
			}
			markers := make([]Marker, 0, len(s.Markers)-1)
			markers = append(markers, s.Markers[:i]...)
			markers = append(markers, s.Markers[i+1:]...)
			s.Markers = markers
			s.AddMarker(m)
			return nil
		}
	}
	return fmt.Errorf("marker %s: %w", m.ID, ErrNotFound)
}

func (s *Sequence) RemoveMarker(id uuid.UUID) error {
	for i := range s.Markers {
		if s.Markers[i].ID == id {
			if s.Markers[i].Locked {
				return fmt.Errorf("%w: %q", ErrMarkerLocked, s.Markers[i].Label)
			}
			s.Markers = append(s.Markers[:i:i], s.Markers[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("marker %s: %w", id, ErrNotFound)
}

// MarkersIn returns the markers inside r, in time order.
func (s *Sequence) MarkersIn(r timecode.TimeRange) []Marker {
	var out []Marker
	for _, m := range s.Markers {
		if r.Contains(m.At) {
			out = append(out, m)
		}
	}
	return out
}

// SetWorkArea sets the in/out points; a nil range clears them.
func (s *Sequence) SetWorkArea(r *timecode.TimeRange) {
	s.WorkArea = r
}
