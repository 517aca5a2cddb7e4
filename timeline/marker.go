package timeline

import (
	"fmt"

	"github.com/google/uuid"

	"montage/timecode"
)

type MarkerType int

const (
	CommentMarker MarkerType = iota
	ChapterMarker
	TodoMarker
	SyncMarker
	EditMarker
	CueMarker
)

func (m MarkerType) String() string {
	switch m {
	case CommentMarker:
		return "comment"
	case ChapterMarker:
		return "chapter"
	case TodoMarker:
		return "todo"
	case SyncMarker:
		return "sync"
	case EditMarker:
		return "edit"
	case CueMarker:
		return "cue"
	}
	return fmt.Sprintf("MarkerType(%d)", int(m))
}

func ParseMarkerType(s string) (MarkerType, error) {
	switch s {
	case "comment":
		return CommentMarker, nil
	case "chapter":
		return ChapterMarker, nil
	case "todo":
		return TodoMarker, nil
	case "sync":
		return SyncMarker, nil
	case "edit":
		return EditMarker, nil
	case "cue":
		return CueMarker, nil
	}
	return 0, fmt.Errorf("unknown marker type %q", s)
}

// Marker is a point-in-time annotation, global to the sequence rather than
// owned by any track.
type Marker struct {
	ID     uuid.UUID     `json:"id"`
	Type   MarkerType    `json:"type"`
	At     timecode.Time `json:"at"`
	Label  string        `json:"label"`
	Color  string        `json:"color,omitempty"`
	Locked bool          `json:"locked,omitempty"`
}

func NewMarker(typ MarkerType, at timecode.Time, label string) Marker {
	return Marker{ID: uuid.New(), Type: typ, At: at, Label: label}
}
