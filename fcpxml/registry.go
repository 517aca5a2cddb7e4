package fcpxml

import (
	"fmt"
	"sync"
)

// Registry hands out document-unique resource IDs and deduplicates assets
// by source path, so a media file referenced by several clips yields one
// <asset> element.
type Registry struct {
	mu sync.Mutex

	doc          *Document
	next         int
	usedIDs      map[string]bool
	assetsBySrc  map[string]string // media-rep src -> resource ID
	fileUIDs     map[string]string
}

// NewRegistry wraps a document, registering any resources it already holds.
func NewRegistry(doc *Document) *Registry {
	r := &Registry{
		doc:         doc,
		next:        1,
		usedIDs:     make(map[string]bool),
		assetsBySrc: make(map[string]string),
		fileUIDs:    make(map[string]string),
	}
	for _, a := range doc.Resources.Assets {
		r.usedIDs[a.ID] = true
		r.assetsBySrc[a.MediaRep.Src] = a.ID
	}
	for _, f := range doc.Resources.Formats {
		r.usedIDs[f.ID] = true
	}
	for _, e := range doc.Resources.Effects {
		r.usedIDs[e.ID] = true
	}
	r.next = len(r.usedIDs) + 1
	return r
}

// ReserveID returns the next unused resource ID and marks it taken.
func (r *Registry) ReserveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reserveLocked()
}

func (r *Registry) reserveLocked() string {
	for {
		id := ResourceID(r.next)
		r.next++
		if !r.usedIDs[id] {
			r.usedIDs[id] = true
			return id
		}
	}
}

// AddFormat registers a format and returns its ID.
func (r *Registry) AddFormat(f Format) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = r.reserveLocked()
	r.doc.Resources.Formats = append(r.doc.Resources.Formats, f)
	return f.ID
}

// AddEffect registers an effect and returns its ID.
func (r *Registry) AddEffect(e Effect) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.reserveLocked()
	r.doc.Resources.Effects = append(r.doc.Resources.Effects, e)
	return e.ID
}

// GetOrCreateAsset returns the resource ID for the media at src, creating
// the asset on first sight. The template's ID, UID and Sig are filled in
// here; everything else is the caller's.
func (r *Registry) GetOrCreateAsset(src string, template Asset) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.assetsBySrc["file://"+src]; ok {
		return id
	}
	template.ID = r.reserveLocked()
	uid := r.uidLocked(src)
	template.UID = uid
	template.MediaRep = MediaRep{Kind: "original-media", Sig: uid, Src: "file://" + src}
	r.doc.Resources.Assets = append(r.doc.Resources.Assets, template)
	r.assetsBySrc[template.MediaRep.Src] = template.ID
	return template.ID
}

func (r *Registry) uidLocked(path string) string {
	if uid, ok := r.fileUIDs[path]; ok {
		return uid
	}
	uid := UID(path)
	r.fileUIDs[path] = uid
	return uid
}

// Count returns the number of registered resources.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.usedIDs)
}

func (r *Registry) String() string {
	return fmt.Sprintf("registry(%d resources)", r.Count())
}
