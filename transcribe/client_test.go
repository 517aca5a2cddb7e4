package transcribe

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"montage/timecode"
)

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "interview.wav")
	if err := os.WriteFile(path, []byte("RIFF fake wave"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/asr" {
			t.Errorf("path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("language") != "en" {
			t.Errorf("language query: %v", r.URL.Query())
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("multipart: %v", err)
		}
		if _, _, err := r.FormFile("audio_file"); err != nil {
			t.Errorf("audio_file part: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"language": "en",
			"segments": []map[string]any{
				{"text": " Hello there.", "start": 0.0, "end": 1.8, "confidence": 0.97, "speaker": "A"},
				{"text": "General Kenobi!", "start": 2.1, "end": 4.0, "confidence": 0.91, "speaker": "B"},
				{"text": "   ", "start": 4.0, "end": 5.0},
				{"text": "backwards", "start": 6.0, "end": 5.0},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	track, err := c.Transcribe(context.Background(), writeAudioFixture(t), Options{Language: "en"})
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if track.Name != "interview" || track.Language != "en" {
		t.Errorf("track identity: name=%q lang=%q", track.Name, track.Language)
	}
	if track.Len() != 2 {
		t.Fatalf("want 2 cues after dropping bad segments, got %d", track.Len())
	}
	cues := track.Captions()
	if cues[0].Text != "Hello there." || cues[0].Speaker != "A" {
		t.Errorf("first cue: %+v", cues[0])
	}
	if cues[1].Range.Start != timecode.MustSeconds(2.1) {
		t.Errorf("second cue start: %s", cues[1].Range.Start)
	}
	if got, ok := track.At(timecode.MustSeconds(3.0)); !ok || got.Text != "General Kenobi!" {
		t.Errorf("At(3s): %+v ok=%v", got, ok)
	}
}

func TestTranscribeServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Transcribe(context.Background(), writeAudioFixture(t), Options{}); err == nil {
		t.Fatal("want error on 503")
	}
}

func TestTranscribeAllSegmentsUnusable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"language": "en",
			"segments": []map[string]any{{"text": "", "start": 0.0, "end": 1.0}},
		})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	if _, err := c.Transcribe(context.Background(), writeAudioFixture(t), Options{}); err == nil {
		t.Fatal("want error when nothing survives filtering")
	}
}
