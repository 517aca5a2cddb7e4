// Package timeline models the editing document's track/clip layout: typed
// tracks holding time-ordered clips, markers, and the atomic move/resize
// operations the editing surface performs on them.
package timeline

import (
	"errors"
	"fmt"
)

var (
	ErrIncompatibleClipType = errors.New("clip type incompatible with track kind")
	ErrInvalidDuration      = errors.New("invalid duration")
	ErrClipOverlap          = errors.New("clip overlaps existing clip")
	ErrTrackLocked          = errors.New("track is locked")
	ErrMarkerLocked         = errors.New("marker is locked")
	ErrNotFound             = errors.New("not found")
)

// TrackKind is the pure domain kind of a track. Presentation metadata
// (display name, icon, color) lives in the CLI's lookup table, not here.
type TrackKind int

const (
	VideoTrack TrackKind = iota
	AudioTrack
	TextTrack
	EffectTrack
)

func (k TrackKind) String() string {
	switch k {
	case VideoTrack:
		return "video"
	case AudioTrack:
		return "audio"
	case TextTrack:
		return "text"
	case EffectTrack:
		return "effect"
	}
	return fmt.Sprintf("TrackKind(%d)", int(k))
}

type ClipType int

const (
	VideoClip ClipType = iota
	ImageClip
	AudioClip
	TextClip
	EffectClip
)

func (c ClipType) String() string {
	switch c {
	case VideoClip:
		return "video"
	case ImageClip:
		return "image"
	case AudioClip:
		return "audio"
	case TextClip:
		return "text"
	case EffectClip:
		return "effect"
	}
	return fmt.Sprintf("ClipType(%d)", int(c))
}

// ParseClipType reads the CLI spellings of a clip type.
func ParseClipType(s string) (ClipType, error) {
	switch s {
	case "video":
		return VideoClip, nil
	case "image":
		return ImageClip, nil
	case "audio":
		return AudioClip, nil
	case "text":
		return TextClip, nil
	case "effect":
		return EffectClip, nil
	}
	return 0, fmt.Errorf("unknown clip type %q", s)
}

// Accepts reports whether a clip of type c may live on a track of kind k.
// Video tracks take both video and image clips; the rest match one to one.
func (k TrackKind) Accepts(c ClipType) bool {
	switch k {
	case VideoTrack:
		return c == VideoClip || c == ImageClip
	case AudioTrack:
		return c == AudioClip
	case TextTrack:
		return c == TextClip
	case EffectTrack:
		return c == EffectClip
	}
	return false
}
