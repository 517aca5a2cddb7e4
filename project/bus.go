package project

import (
	"sync"

	"github.com/google/uuid"
)

// EventKind classifies a document change.
type EventKind int

const (
	SequenceChanged EventKind = iota
	CaptionsChanged
	MarkersChanged
	DocumentSaved
)

type Event struct {
	Kind EventKind
	ID   uuid.UUID // the entity the change touched
}

// Bus is an explicit observer list: subscribers register a callback and get
// every event published after a successful mutation. It replaces ambient
// state watching with plain ownership; whoever holds the document decides
// who hears about changes. The zero value is ready to use.
type Bus struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

// Subscribe registers fn and returns a cancel function removing it.
func (b *Bus) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[int]func(Event))
	}
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

// Publish delivers e to every subscriber, synchronously and in no
// particular order.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()
	for _, fn := range fns {
		fn(e)
	}
}
