// Package caption models timed text: caption tracks with sorted cues,
// SRT and WebVTT codecs, and cue-to-clip segmentation.
package caption

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"montage/timecode"
)

// ErrMalformedEntry reports one unparseable block inside an SRT/VTT import.
// Imports collect what parses and skip the rest; they never abort wholesale.
var ErrMalformedEntry = errors.New("malformed caption entry")

// Style is the text styling a caption or track carries. A nil per-caption
// style falls back to the track default.
type Style struct {
	Font   string  `json:"font,omitempty"`
	Size   float64 `json:"size,omitempty"`
	Color  string  `json:"color,omitempty"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
}

// Position places a caption in normalized frame coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Caption is a TimeRange-bound text annotation. Speaker and Confidence come
// from transcription; both are optional.
type Caption struct {
	ID         uuid.UUID          `json:"id"`
	Range      timecode.TimeRange `json:"range"`
	Text       string             `json:"text"`
	Speaker    string             `json:"speaker,omitempty"`
	Confidence float64            `json:"confidence,omitempty"`
	Style      *Style             `json:"style,omitempty"`
	Position   *Position          `json:"position,omitempty"`
}

func New(r timecode.TimeRange, text string) Caption {
	return Caption{ID: uuid.New(), Range: r, Text: text}
}

// Track owns an ordered set of captions plus the defaults they inherit.
type Track struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Language        string    `json:"language,omitempty"`
	DefaultStyle    Style     `json:"defaultStyle"`
	DefaultPosition Position  `json:"defaultPosition"`

	cues []Caption
}

func NewTrack(name, language string) *Track {
	return &Track{ID: uuid.New(), Name: name, Language: language}
}

func (t *Track) Len() int { return len(t.cues) }

// Captions returns the cues in time order.
func (t *Track) Captions() []Caption {
	out := make([]Caption, len(t.cues))
	copy(out, t.cues)
	return out
}

// Add inserts a caption keeping the cue list sorted by start time.
func (t *Track) Add(c Caption) {
	i := sort.Search(len(t.cues), func(i int) bool {
		return t.cues[i].Range.Start.After(c.Range.Start)
	})
	cues := make([]Caption, 0, len(t.cues)+1)
	cues = append(cues, t.cues[:i]...)
	cues = append(cues, c)
	cues = append(cues, t.cues[i:]...)
	t.cues = cues
}

// Remove deletes a caption by ID, reporting whether it existed.
func (t *Track) Remove(id uuid.UUID) bool {
	for i, c := range t.cues {
		if c.ID == id {
			t.cues = append(t.cues[:i:i], t.cues[i+1:]...)
			return true
		}
	}
	return false
}

// Update replaces a caption by ID, re-sorting if its range moved.
func (t *Track) Update(c Caption) bool {
	if !t.Remove(c.ID) {
		return false
	}
	t.Add(c)
	return true
}

// At returns the first caption active at the given time, end-exclusive: a
// cue ending exactly at t has already yielded to its successor.
func (t *Track) At(at timecode.Time) (Caption, bool) {
	for _, c := range t.cues {
		if c.Range.Contains(at) {
			return c, true
		}
		if c.Range.Start.After(at) {
			break
		}
	}
	return Caption{}, false
}

// In returns the captions whose ranges overlap r, in time order.
func (t *Track) In(r timecode.TimeRange) []Caption {
	var out []Caption
	for _, c := range t.cues {
		if c.Range.Overlaps(r) {
			out = append(out, c)
		}
	}
	return out
}

// Shift moves every cue later by delta, for slipping captions against a
// re-trimmed timeline.
func (t *Track) Shift(delta timecode.Time) {
	cues := make([]Caption, len(t.cues))
	for i, c := range t.cues {
		c.Range = c.Range.Shift(delta)
		cues[i] = c
	}
	t.cues = cues
}

// ShiftEarlier moves every cue earlier by delta. Fails without modifying
// the track if any cue would start before zero.
func (t *Track) ShiftEarlier(delta timecode.Time) error {
	cues := make([]Caption, len(t.cues))
	for i, c := range t.cues {
		start, err := c.Range.Start.Sub(delta)
		if err != nil {
			return fmt.Errorf("cue %q at %s cannot shift %s earlier: %w", c.Text, c.Range.Start, delta, err)
		}
		end, err := c.Range.End.Sub(delta)
		if err != nil {
			return err
		}
		c.Range, err = timecode.NewTimeRange(start, end)
		if err != nil {
			return err
		}
		cues[i] = c
	}
	t.cues = cues
	return nil
}

type trackJSON struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Language        string    `json:"language,omitempty"`
	DefaultStyle    Style     `json:"defaultStyle"`
	DefaultPosition Position  `json:"defaultPosition"`
	Cues            []Caption `json:"cues,omitempty"`
}

func (t *Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackJSON{
		ID: t.ID, Name: t.Name, Language: t.Language,
		DefaultStyle: t.DefaultStyle, DefaultPosition: t.DefaultPosition,
		Cues: t.cues,
	})
}

func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	sort.SliceStable(raw.Cues, func(i, j int) bool {
		return raw.Cues[i].Range.Start.Before(raw.Cues[j].Range.Start)
	})
	t.ID = raw.ID
	t.Name = raw.Name
	t.Language = raw.Language
	t.DefaultStyle = raw.DefaultStyle
	t.DefaultPosition = raw.DefaultPosition
	t.cues = raw.Cues
	return nil
}
