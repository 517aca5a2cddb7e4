package project

import (
	"path/filepath"
	"testing"

	"montage/caption"
	"montage/timecode"
	"montage/timeline"
)

func sec(s float64) timecode.Time {
	return timecode.MustSeconds(s)
}

func sampleDocument(t *testing.T) *Document {
	t.Helper()
	doc := NewDocument("demo", timecode.Rate23976)

	videoID := doc.Sequence.AddTrack(timeline.VideoTrack, "V1")
	source, _ := timecode.NewTimeRange(sec(0), sec(5))
	clip := timeline.NewClip("intro", timeline.VideoClip, "intro.mov", sec(0), source)
	if err := doc.Sequence.AddClip(videoID, clip, timeline.RejectOverlap); err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	doc.Sequence.AddMarker(timeline.NewMarker(timeline.ChapterMarker, sec(1), "opening"))

	captions := caption.NewTrack("English", "en")
	r, _ := timecode.NewTimeRange(sec(0), sec(2))
	captions.Add(caption.New(r, "Hello"))
	doc.AddCaptionTrack(captions)
	return doc
}

func TestSaveLoadRoundTrip(t *testing.T) {
	doc := sampleDocument(t)
	path := filepath.Join(t.TempDir(), "projects", "demo.json")

	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Name != doc.Name || loaded.ID != doc.ID {
		t.Errorf("identity: want %s/%s, got %s/%s", doc.Name, doc.ID, loaded.Name, loaded.ID)
	}
	if got := len(loaded.Sequence.Tracks); got != 1 {
		t.Fatalf("tracks: want 1, got %d", got)
	}
	if got := loaded.Sequence.Tracks[0].Len(); got != 1 {
		t.Errorf("clips: want 1, got %d", got)
	}
	if got := len(loaded.Sequence.Markers); got != 1 {
		t.Errorf("markers: want 1, got %d", got)
	}
	if got := len(loaded.Captions); got != 1 {
		t.Fatalf("caption tracks: want 1, got %d", got)
	}
	c, ok := loaded.CaptionAt(sec(1))
	if !ok || c.Text != "Hello" {
		t.Errorf("CaptionAt(1s) after reload: want Hello, got %q ok=%v", c.Text, ok)
	}
	if loaded.Sequence.Rate != timecode.Rate23976 {
		t.Errorf("rate: want 23.976, got %v", loaded.Sequence.Rate)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("Load of missing file: want error")
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	doc := sampleDocument(t)
	doc.Version = DocumentVersion + 1
	path := filepath.Join(t.TempDir(), "future.json")
	if err := doc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load of future version: want error")
	}
}

func TestBusDeliversAndCancels(t *testing.T) {
	doc := NewDocument("events", timecode.Rate24)

	var got []Event
	cancel := doc.Bus().Subscribe(func(e Event) {
		got = append(got, e)
	})

	doc.AddCaptionTrack(caption.NewTrack("English", "en"))
	if len(got) != 1 || got[0].Kind != CaptionsChanged {
		t.Fatalf("events after add: want one CaptionsChanged, got %v", got)
	}

	cancel()
	doc.AddCaptionTrack(caption.NewTrack("French", "fr"))
	if len(got) != 1 {
		t.Errorf("events after cancel: want 1, got %d", len(got))
	}
}
