// Package realtime is an in-process publish/subscribe hub that fans out
// document save events to listeners such as the notifications websocket.
//
// Delivery is best effort: a listener whose buffer is full misses the event,
// nobody else is slowed down, and nothing is replayed.
package realtime

import (
	"sort"
	"sync"
	"time"
)

// Event types.
const (
	TypeSaved = "saved"
)

// SaveEvent announces that a tenant document was stored.
type SaveEvent struct {
	WebsiteName string    `json:"websiteName"`
	Username    string    `json:"username,omitempty"`
	RevisionID  string    `json:"revisionId"`
	Pages       []string  `json:"pages,omitempty"`
	SavedAt     time.Time `json:"savedAt"`
}

// Event is the envelope delivered to listeners.
type Event struct {
	Type string    `json:"type"`
	Save SaveEvent `json:"save"`
}

// Hub fans events out to registered listeners. It is safe for concurrent
// use.
type Hub struct {
	mu        sync.RWMutex
	listeners map[uint64]chan Event
	nextID    uint64
	bufSize   int
}

// NewHub creates a hub. bufSize <= 0 means 32 buffered events per listener.
func NewHub(bufSize int) *Hub {
	if bufSize <= 0 {
		bufSize = 32
	}
	return &Hub{
		listeners: make(map[uint64]chan Event),
		bufSize:   bufSize,
	}
}

// Register adds a listener. Callers must Unregister the id when done.
func (h *Hub) Register() (uint64, <-chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	ch := make(chan Event, h.bufSize)
	h.listeners[id] = ch
	return id, ch
}

// Unregister removes a listener and closes its channel. Unknown ids are
// ignored.
func (h *Hub) Unregister(id uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.listeners[id]; ok {
		delete(h.listeners, id)
		close(ch)
	}
}

// Publish delivers ev to every listener with room in its buffer.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.listeners {
		select {
		case ch <- ev:
		default:
		}
	}
}

// PublishSave wraps and publishes a save event.
func (h *Hub) PublishSave(se SaveEvent) {
	h.Publish(Event{Type: TypeSaved, Save: se})
}

// Size returns the number of listeners.
func (h *Hub) Size() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}

// NewSaveEvent builds a save event with the page slugs sorted.
func NewSaveEvent(websiteName, username, revisionID string, savedAt time.Time, pages []string) SaveEvent {
	sorted := append([]string(nil), pages...)
	sort.Strings(sorted)
	return SaveEvent{
		WebsiteName: websiteName,
		Username:    username,
		RevisionID:  revisionID,
		Pages:       sorted,
		SavedAt:     savedAt,
	}
}
