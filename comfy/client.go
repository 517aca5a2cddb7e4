// Package comfy talks to a ComfyUI server: queueing workflow prompts,
// streaming execution progress over its websocket, and retrieving rendered
// outputs. The editor uses it for generated b-roll and title backgrounds.
package comfy

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

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"montage/logger"
)

// Client is a ComfyUI API client. The ClientID ties websocket progress
// messages to the prompts this client queues.
type Client struct {
	BaseURL  string
	HTTP     *http.Client
	ClientID uuid.UUID
	Log      *logger.Logger
}

func NewClient(baseURL string, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		HTTP:     &http.Client{Timeout: 30 * time.Second},
		ClientID: uuid.New(),
		Log:      log,
	}
}

// Ping reports whether the server answers its stats endpoint.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/system_stats", nil)
	if err != nil {
		return false
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Submit queues a workflow and returns the server's prompt ID.
func (c *Client) Submit(ctx context.Context, w Workflow) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"prompt":    w,
		"client_id": c.ClientID.String(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/prompt", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to reach ComfyUI: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ComfyUI rejected prompt (%d): %s", resp.StatusCode, body)
	}
	var result struct {
		PromptID string `json:"prompt_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("bad prompt response: %w", err)
	}
	if result.PromptID == "" {
		return "", fmt.Errorf("prompt response missing prompt_id")
	}
	c.Log.Info("queued workflow", "prompt_id", result.PromptID)
	return result.PromptID, nil
}

// Progress is one execution update for a queued prompt.
type Progress struct {
	Node     string  // node currently executing, empty when idle
	Fraction float64 // 0..1 within the current node's work
	Done     bool
}

// Wait blocks until the prompt finishes, streaming progress over the
// server's websocket. When the websocket cannot be opened it degrades to
// polling the history endpoint, losing progress granularity but not
// completion.
func (c *Client) Wait(ctx context.Context, promptID string, progress func(Progress)) error {
	conn := c.dialProgress()
	if conn != nil {
		defer conn.Close()
	}

	done := make(chan error, 1)
	if conn != nil {
		go c.readProgress(conn, promptID, progress, done)
	} else {
		done <- nil // straight to polling
	}

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	wsDone := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-done:
			if err == nil && conn != nil {
				if progress != nil {
					progress(Progress{Fraction: 1, Done: true})
				}
				return nil
			}
			// websocket dropped or was never available; keep polling
			wsDone = true
		case <-ticker.C:
			if conn != nil && !wsDone {
				continue // websocket still authoritative
			}
			finished, err := c.inHistory(ctx, promptID)
			if err != nil {
				c.Log.Debug("history poll failed", "err", err)
				continue
			}
			if finished {
				if progress != nil {
					progress(Progress{Fraction: 1, Done: true})
				}
				return nil
			}
		}
	}
}

func (c *Client) dialProgress() *websocket.Conn {
	scheme := "ws"
	host := strings.TrimPrefix(c.BaseURL, "http://")
	if strings.HasPrefix(c.BaseURL, "https://") {
		scheme = "wss"
		host = strings.TrimPrefix(c.BaseURL, "https://")
	}
	wsURL := fmt.Sprintf("%s://%s/ws?clientId=%s", scheme, host, c.ClientID)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		c.Log.Warn("websocket unavailable, falling back to polling", "err", err)
		return nil
	}
	return conn
}

func (c *Client) readProgress(conn *websocket.Conn, promptID string, progress func(Progress), done chan<- error) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			done <- err
			return
		}
		var msg struct {
			Type string         `json:"type"`
			Data map[string]any `json:"data"`
		}
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "progress":
			val, _ := msg.Data["value"].(float64)
			max, _ := msg.Data["max"].(float64)
			if max > 0 && progress != nil {
				progress(Progress{Fraction: val / max})
			}
		case "executing":
			if node, ok := msg.Data["node"].(string); ok && progress != nil {
				progress(Progress{Node: node})
			}
		case "execution_success":
			if id, _ := msg.Data["prompt_id"].(string); id == promptID {
				done <- nil
				return
			}
		case "execution_error":
			if id, _ := msg.Data["prompt_id"].(string); id == promptID {
				reason, _ := msg.Data["exception_message"].(string)
				done <- fmt.Errorf("execution failed: %s", reason)
				return
			}
		}
	}
}

func (c *Client) inHistory(ctx context.Context, promptID string) (bool, error) {
	entry, err := c.historyEntry(ctx, promptID)
	if err != nil {
		return false, err
	}
	return entry != nil, nil
}

func (c *Client) historyEntry(ctx context.Context, promptID string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/history/"+promptID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var history map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, err
	}
	entry, _ := history[promptID].(map[string]any)
	return entry, nil
}

// Output identifies a rendered file on the server.
type Output struct {
	Filename  string
	Subfolder string
	Type      string
}

// Outputs lists the files a finished prompt produced, in the order the
// server reports its output nodes.
func (c *Client) Outputs(ctx context.Context, promptID string) ([]Output, error) {
	entry, err := c.historyEntry(ctx, promptID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, fmt.Errorf("prompt %s not in history", promptID)
	}
	if err := historyError(entry); err != nil {
		return nil, err
	}
	outputs, _ := entry["outputs"].(map[string]any)
	var files []Output
	for _, outNode := range outputs {
		nodeMap, ok := outNode.(map[string]any)
		if !ok {
			continue
		}
		for _, kind := range []string{"videos", "images", "gifs"} {
			items, _ := nodeMap[kind].([]any)
			for _, item := range items {
				d, ok := item.(map[string]any)
				if !ok {
					continue
				}
				out := Output{}
				out.Filename, _ = d["filename"].(string)
				out.Subfolder, _ = d["subfolder"].(string)
				out.Type, _ = d["type"].(string)
				if out.Filename != "" {
					files = append(files, out)
				}
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("prompt %s finished with no outputs", promptID)
	}
	return files, nil
}

// historyError digs the execution error out of a history entry's status
// messages, if the run failed.
func historyError(entry map[string]any) error {
	status, _ := entry["status"].(map[string]any)
	if statusStr, _ := status["status_str"].(string); statusStr != "error" {
		return nil
	}
	if messages, _ := status["messages"].([]any); len(messages) > 0 {
		for _, msg := range messages {
			pair, ok := msg.([]any)
			if !ok || len(pair) < 2 {
				continue
			}
			if kind, _ := pair[0].(string); kind != "execution_error" {
				continue
			}
			if errMap, ok := pair[1].(map[string]any); ok {
				if excMsg, ok := errMap["exception_message"].(string); ok {
					return fmt.Errorf("execution failed: %s", excMsg)
				}
			}
			return fmt.Errorf("execution failed: %v", pair[1])
		}
	}
	return fmt.Errorf("execution failed")
}

// Download fetches a rendered output into destPath.
func (c *Client) Download(ctx context.Context, out Output, destPath string) error {
	query := url.Values{
		"filename":  {out.Filename},
		"subfolder": {out.Subfolder},
		"type":      {out.Type},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/view?"+query.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", out.Filename, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s failed with status %d", out.Filename, resp.StatusCode)
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("failed to write %s: %w", destPath, err)
	}
	c.Log.Info("downloaded output", "file", out.Filename, "dest", destPath)
	return nil
}

// Upload pushes a local file into the server's input store and returns the
// name the server assigned, which may differ from the original on
// collision. The endpoint also accepts audio files despite its path.
func (c *Client) Upload(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/upload/image", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload of %s failed: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upload of %s failed with status %d", path, resp.StatusCode)
	}
	var result struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.Name == "" {
		result.Name = filepath.Base(path)
	}
	return result.Name, nil
}
