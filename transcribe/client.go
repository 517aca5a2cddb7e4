// Package transcribe turns recorded audio into caption tracks by calling a
// speech-to-text service over HTTP. The service contract is the common
// whisper webservice one: multipart audio in, timed segment JSON out.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"montage/caption"
	"montage/logger"
	"montage/timecode"
)

// Client talks to the transcription service. Transcription of long audio is
// slow, so the HTTP client carries a generous timeout.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 30 * time.Minute},
		Log:     log,
	}
}

// Options shape a transcription request. Zero values let the service pick.
type Options struct {
	Language string // ISO 639-1 hint, e.g. "en"
	Task     string // "transcribe" (default) or "translate"
}

type segment struct {
	Text       string  `json:"text"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"confidence"`
	Speaker    string  `json:"speaker"`
}

type transcriptResponse struct {
	Language string    `json:"language"`
	Segments []segment `json:"segments"`
}

// Transcribe sends the audio file and returns the recognized speech as a
// caption track. Segments with empty text or a non-positive span are
// dropped rather than failing the whole transcript.
func (c *Client) Transcribe(ctx context.Context, audioPath string, opts Options) (*caption.Track, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("audio_file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}

	query := url.Values{"output": {"json"}}
	if opts.Language != "" {
		query.Set("language", opts.Language)
	}
	if opts.Task != "" {
		query.Set("task", opts.Task)
	}
	endpoint := c.BaseURL + "/asr?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c.Log.Info("transcribing", "audio", audioPath, "language", opts.Language)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("transcription service returned %d: %s", resp.StatusCode, msg)
	}

	var result transcriptResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("bad transcript response: %w", err)
	}
	return trackFromSegments(audioPath, result)
}

func trackFromSegments(audioPath string, result transcriptResponse) (*caption.Track, error) {
	name := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	track := caption.NewTrack(name, result.Language)

	dropped := 0
	for _, seg := range result.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" || seg.End <= seg.Start || seg.Start < 0 {
			dropped++
			continue
		}
		start, err := timecode.FromSeconds(seg.Start)
		if err != nil {
			dropped++
			continue
		}
		end, err := timecode.FromSeconds(seg.End)
		if err != nil {
			dropped++
			continue
		}
		r, err := timecode.NewTimeRange(start, end)
		if err != nil {
			dropped++
			continue
		}
		cue := caption.New(r, text)
		cue.Speaker = seg.Speaker
		cue.Confidence = seg.Confidence
		track.Add(cue)
	}
	if track.Len() == 0 {
		return nil, fmt.Errorf("transcript had no usable segments (%d dropped)", dropped)
	}
	return track, nil
}
