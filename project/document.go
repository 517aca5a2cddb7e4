// Package project owns the on-disk document format, the change-notification
// bus, and tool configuration.
package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"montage/caption"
	"montage/timecode"
	"montage/timeline"
)

// DocumentVersion is bumped when the document schema changes shape.
const DocumentVersion = 1

// Document is a complete editing project: one sequence plus its caption
// tracks. It is the single owner of mutable state; everything reaching it
// goes through explicit calls rather than ambient lookup.
type Document struct {
	ID       uuid.UUID          `json:"id"`
	Version  int                `json:"version"`
	Name     string             `json:"name"`
	Sequence *timeline.Sequence `json:"sequence"`
	Captions []*caption.Track   `json:"captions,omitempty"`

	bus Bus
}

func NewDocument(name string, rate timecode.FrameRate) *Document {
	return &Document{
		ID:       uuid.New(),
		Version:  DocumentVersion,
		Name:     name,
		Sequence: timeline.NewSequence(name, rate),
	}
}

// Bus exposes the document's change-notification bus.
func (d *Document) Bus() *Bus {
	return &d.bus
}

// AddCaptionTrack attaches a caption track and announces the change.
func (d *Document) AddCaptionTrack(t *caption.Track) {
	d.Captions = append(d.Captions, t)
	d.bus.Publish(Event{Kind: CaptionsChanged, ID: t.ID})
}

// CaptionTrack finds a caption track by ID.
func (d *Document) CaptionTrack(id uuid.UUID) (*caption.Track, error) {
	for _, t := range d.Captions {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, fmt.Errorf("caption track %s: %w", id, timeline.ErrNotFound)
}

// CaptionAt returns the first visible caption active at the given time,
// walking tracks in order so earlier tracks take priority.
func (d *Document) CaptionAt(at timecode.Time) (caption.Caption, bool) {
	for _, t := range d.Captions {
		if c, ok := t.At(at); ok {
			return c, true
		}
	}
	return caption.Caption{}, false
}

// Save writes the document as indented JSON, creating parent directories as
// needed. The write goes through a temp file and rename so a crash cannot
// leave a half-written project behind.
func (d *Document) Save(path string) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create project directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write project: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write project: %w", err)
	}
	d.bus.Publish(Event{Kind: DocumentSaved, ID: d.ID})
	return nil
}

// Load reads a document from disk.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project %s: %w", path, err)
	}
	var d Document
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse project %s: %w", path, err)
	}
	if d.Version > DocumentVersion {
		return nil, fmt.Errorf("project %s has version %d, newer than this tool understands (%d)",
			path, d.Version, DocumentVersion)
	}
	if d.Sequence == nil {
		return nil, fmt.Errorf("project %s has no sequence", path)
	}
	return &d, nil
}
