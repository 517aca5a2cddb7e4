package timeline

import (
	"encoding/json"
	"errors"
	"testing"

	"montage/timecode"
)

func twoTrackSequence(t *testing.T) (*Sequence, Clip) {
	t.Helper()
	seq := NewSequence("test", timecode.Rate23976)
	videoID := seq.AddTrack(VideoTrack, "V1")
	seq.AddTrack(AudioTrack, "A1")

	clip := videoClip("intro", 0, 5)
	if err := seq.AddClip(videoID, clip, RejectOverlap); err != nil {
		t.Fatalf("AddClip: %v", err)
	}
	return seq, clip
}

func TestMoveClipAtomicOnIncompatibleDest(t *testing.T) {
	seq, clip := twoTrackSequence(t)
	audioTrack := &seq.Tracks[1]

	err := seq.MoveClip(clip.ID, audioTrack.ID, sec(2), RejectOverlap)
	if !errors.Is(err, ErrIncompatibleClipType) {
		t.Fatalf("move video clip to audio track: want ErrIncompatibleClipType, got %v", err)
	}

	// Failed move must leave both tracks exactly as before.
	if got := seq.Tracks[0].Len(); got != 1 {
		t.Errorf("source track: want 1 clip, got %d", got)
	}
	if got := seq.Tracks[1].Len(); got != 0 {
		t.Errorf("destination track: want 0 clips, got %d", got)
	}
	kept, ok := seq.Tracks[0].FindClip(clip.ID)
	if !ok || !kept.Placement.Start.IsZero() {
		t.Errorf("clip must keep its original placement, got %v ok=%v", kept.Placement, ok)
	}
}

func TestMoveClipBetweenCompatibleTracks(t *testing.T) {
	seq, clip := twoTrackSequence(t)
	v2 := seq.AddTrack(VideoTrack, "V2")

	if err := seq.MoveClip(clip.ID, v2, sec(10), RejectOverlap); err != nil {
		t.Fatalf("MoveClip: %v", err)
	}
	if got := seq.Tracks[0].Len(); got != 0 {
		t.Errorf("source track after move: want 0 clips, got %d", got)
	}
	moved, _, err := seq.FindClip(clip.ID)
	if err != nil {
		t.Fatalf("FindClip after move: %v", err)
	}
	if moved.ID != v2 {
		t.Errorf("clip must live on V2 after move")
	}
	_, c, _ := seq.FindClip(clip.ID)
	if c.Placement.Start.Seconds() != 10 || c.Duration().Seconds() != 5 {
		t.Errorf("moved placement: want [10,15), got %s", c.Placement)
	}
}

func TestAddClipOverlapPolicy(t *testing.T) {
	seq, clip := twoTrackSequence(t)
	trackID := seq.Tracks[0].ID

	overlapping := videoClip("b-roll", 3, 4)
	err := seq.AddClip(trackID, overlapping, RejectOverlap)
	if !errors.Is(err, ErrClipOverlap) {
		t.Fatalf("overlapping add under RejectOverlap: want ErrClipOverlap, got %v", err)
	}
	if got := seq.Tracks[0].Len(); got != 1 {
		t.Errorf("rejected add must leave track unchanged: want 1 clip, got %d", got)
	}

	// Transition authoring permits the same insert explicitly.
	if err := seq.AddClip(trackID, overlapping, AllowOverlap); err != nil {
		t.Fatalf("overlapping add under AllowOverlap: %v", err)
	}
	if got := len(seq.Tracks[0].Overlapping(clip.Placement)); got != 2 {
		t.Errorf("want 2 overlapping clips after AllowOverlap insert, got %d", got)
	}
}

func TestResizeClipRejectsCollapse(t *testing.T) {
	seq, clip := twoTrackSequence(t)

	err := seq.ResizeClip(clip.ID, sec(3), sec(3))
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("zero-length resize: want ErrInvalidDuration, got %v", err)
	}
	got, _ := seq.Tracks[0].FindClip(clip.ID)
	if got.Placement != clip.Placement || got.Source != clip.Source {
		t.Error("failed resize must not change the clip")
	}
}

func TestResizeStartTrimsSourceProportionally(t *testing.T) {
	seq, clip := twoTrackSequence(t)

	if err := seq.ResizeClip(clip.ID, sec(2), sec(5)); err != nil {
		t.Fatalf("ResizeClip: %v", err)
	}
	got, _ := seq.Tracks[0].FindClip(clip.ID)
	if got.Placement.Start.Seconds() != 2 || got.Placement.End.Seconds() != 5 {
		t.Errorf("placement after start trim: want [2,5), got %s", got.Placement)
	}
	if got.Source.Start.Seconds() != 2 || got.Source.End.Seconds() != 5 {
		t.Errorf("source after start trim: want [2,5), got %s", got.Source)
	}
}

func TestResizeStartEarlierExtendsSource(t *testing.T) {
	seq := NewSequence("extend", timecode.Rate24)
	trackID := seq.AddTrack(VideoTrack, "V1")
	source, _ := timecode.NewTimeRange(sec(2), sec(7))
	clip := NewClip("pickup", VideoClip, "pickup.mov", sec(10), source)
	if err := seq.AddClip(trackID, clip, RejectOverlap); err != nil {
		t.Fatalf("AddClip: %v", err)
	}

	// Pulling the start 1s earlier reveals 1s more of the source head.
	if err := seq.ResizeClip(clip.ID, sec(9), sec(15)); err != nil {
		t.Fatalf("ResizeClip: %v", err)
	}
	got, _ := seq.Tracks[0].FindClip(clip.ID)
	if got.Placement.Start.Seconds() != 9 {
		t.Errorf("placement start: want 9s, got %s", got.Placement.Start)
	}
	if got.Source.Start.Seconds() != 1 || got.Source.End.Seconds() != 7 {
		t.Errorf("source after earlier start: want [1,7), got %s", got.Source)
	}

	// Only 1s of head remains; pulling 3s earlier runs out of source.
	err := seq.ResizeClip(clip.ID, sec(6), sec(15))
	if !errors.Is(err, ErrInvalidDuration) {
		t.Fatalf("start before source head: want ErrInvalidDuration, got %v", err)
	}
	got, _ = seq.Tracks[0].FindClip(clip.ID)
	if got.Source.Start.Seconds() != 1 {
		t.Errorf("failed resize must not change the source, got %s", got.Source)
	}
}

func TestResizeEndTrimMovesOnlyEnds(t *testing.T) {
	seq, clip := twoTrackSequence(t)

	if err := seq.ResizeClip(clip.ID, sec(0), sec(3)); err != nil {
		t.Fatalf("ResizeClip: %v", err)
	}
	got, _ := seq.Tracks[0].FindClip(clip.ID)
	if got.Source.Start.Seconds() != 0 {
		t.Errorf("end trim must not move source in-point, got %s", got.Source.Start)
	}
	if got.Source.End.Seconds() != 3 {
		t.Errorf("source out-point after end trim: want 3s, got %s", got.Source.End)
	}
}

func TestResizeSpeedAwareSourceTrim(t *testing.T) {
	seq := NewSequence("speed", timecode.Rate24)
	trackID := seq.AddTrack(VideoTrack, "V1")
	clip := NewClip("fast", VideoClip, "fast.mov", sec(0), srcRange(0, 10))
	clip.Speed = 2 // 10s of source plays in 5s of timeline
	clip.Placement = timecode.RangeAt(sec(0), sec(5))
	if err := seq.AddClip(trackID, clip, RejectOverlap); err != nil {
		t.Fatalf("AddClip: %v", err)
	}

	// Trimming 1 timeline second off the front consumes 2 source seconds.
	if err := seq.ResizeClip(clip.ID, sec(1), sec(5)); err != nil {
		t.Fatalf("ResizeClip: %v", err)
	}
	got, _ := seq.Tracks[0].FindClip(clip.ID)
	if got.Source.Start.Seconds() != 2 {
		t.Errorf("speed-aware start trim: want source start 2s, got %s", got.Source.Start)
	}
}

func TestLockedTrackRefusesMutation(t *testing.T) {
	seq, clip := twoTrackSequence(t)
	seq.Tracks[0].Locked = true

	if err := seq.ResizeClip(clip.ID, sec(1), sec(5)); !errors.Is(err, ErrTrackLocked) {
		t.Errorf("resize on locked track: want ErrTrackLocked, got %v", err)
	}
	if err := seq.MoveClip(clip.ID, seq.Tracks[0].ID, sec(1), RejectOverlap); !errors.Is(err, ErrTrackLocked) {
		t.Errorf("move on locked track: want ErrTrackLocked, got %v", err)
	}
}

func TestMarkersSortedAndQueried(t *testing.T) {
	seq := NewSequence("markers", timecode.Rate24)
	for _, at := range []float64{9, 1, 5} {
		seq.AddMarker(NewMarker(ChapterMarker, sec(at), "m"))
	}
	for i := 1; i < len(seq.Markers); i++ {
		if seq.Markers[i].At.Before(seq.Markers[i-1].At) {
			t.Fatalf("markers out of order at %d", i)
		}
	}
	if got := len(seq.MarkersIn(srcRange(0, 6))); got != 2 {
		t.Errorf("MarkersIn([0,6)): want 2, got %d", got)
	}
	// End-exclusive: a marker at 9 is outside [0,9).
	if got := len(seq.MarkersIn(srcRange(0, 9))); got != 2 {
		t.Errorf("MarkersIn([0,9)): want 2, got %d", got)
	}
}

func TestLockedMarkerRefusesRemoval(t *testing.T) {
	seq := NewSequence("markers", timecode.Rate24)
	m := NewMarker(SyncMarker, sec(1), "sync point")
	m.Locked = true
	seq.AddMarker(m)

	if err := seq.RemoveMarker(m.ID); !errors.Is(err, ErrMarkerLocked) {
		t.Fatalf("remove locked marker: want ErrMarkerLocked, got %v", err)
	}
	m.Label = "renamed"
	if err := seq.UpdateMarker(m); !errors.Is(err, ErrMarkerLocked) {
		t.Fatalf("update locked marker: want ErrMarkerLocked, got %v", err)
	}
}

func TestSequenceJSONRoundTrip(t *testing.T) {
	seq, clip := twoTrackSequence(t)
	seq.AddMarker(NewMarker(TodoMarker, sec(2), "fix color"))
	mask := &Mask{Shape: EllipseMask{CenterX: 0.5, CenterY: 0.5, RadiusX: 0.25, RadiusY: 0.25}, Feather: 2}
	withMask, _ := seq.Tracks[0].FindClip(clip.ID)
	withMask.Mask = mask
	if _, err := seq.Tracks[0].RemoveClip(clip.ID); err != nil {
		t.Fatal(err)
	}
	if err := seq.Tracks[0].AddClip(withMask); err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(seq)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var restored Sequence
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if restored.Name != seq.Name || len(restored.Tracks) != len(seq.Tracks) {
		t.Fatalf("restored shape mismatch: %+v", restored)
	}
	rc, ok := restored.Tracks[0].FindClip(clip.ID)
	if !ok {
		t.Fatal("clip lost in round trip")
	}
	if rc.Mask == nil || rc.Mask.ShapeKind() != "ellipse" {
		t.Errorf("mask lost in round trip: %+v", rc.Mask)
	}
	if len(restored.Markers) != 1 || restored.Markers[0].Label != "fix color" {
		t.Errorf("markers lost in round trip")
	}
}

func TestTrackJSONRejectsIncompatibleClip(t *testing.T) {
	raw := []byte(`{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","name":"V1","kind":0,"visible":true,
		"clips":[{"id":"6ba7b811-9dad-11d1-80b4-00c04fd430c8","name":"voice","type":2,
		"placement":{"start":0,"end":1000000},"source":{"start":0,"end":1000000},"speed":1}]}`)
	var track Track
	if err := json.Unmarshal(raw, &track); !errors.Is(err, ErrIncompatibleClipType) {
		t.Fatalf("audio clip on video track in document: want ErrIncompatibleClipType, got %v", err)
	}
}
