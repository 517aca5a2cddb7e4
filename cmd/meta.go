package cmd

import (
	"montage/timeline"
)

// Presentation metadata for the enums lives here at the UI edge, not on the
// model types, so renaming a label never touches timeline semantics.

var clipTypeLabels = map[timeline.ClipType]string{
	timeline.VideoClip:  "Video",
	timeline.ImageClip:  "Image",
	timeline.AudioClip:  "Audio",
	timeline.TextClip:   "Text",
	timeline.EffectClip: "Effect",
}

var trackKindLabels = map[timeline.TrackKind]string{
	timeline.VideoTrack:  "Video",
	timeline.AudioTrack:  "Audio",
	timeline.TextTrack:   "Text",
	timeline.EffectTrack: "Effect",
}

var markerTypeLabels = map[timeline.MarkerType]struct {
	Label string
	Color string
}{
	timeline.CommentMarker: {"Comment", "#4a90d9"},
	timeline.ChapterMarker: {"Chapter", "#e8a33d"},
	timeline.TodoMarker:    {"To Do", "#d94a4a"},
	timeline.SyncMarker:    {"Sync", "#7b61c4"},
	timeline.EditMarker:    {"Edit", "#3db86b"},
	timeline.CueMarker:     {"Cue", "#c43d9e"},
}

func clipTypeLabel(t timeline.ClipType) string {
	if label, ok := clipTypeLabels[t]; ok {
		return label
	}
	return "Unknown"
}

func trackKindLabel(k timeline.TrackKind) string {
	if label, ok := trackKindLabels[k]; ok {
		return label
	}
	return "Unknown"
}

func markerTypeLabel(t timeline.MarkerType) string {
	if meta, ok := markerTypeLabels[t]; ok {
		return meta.Label
	}
	return "Unknown"
}
