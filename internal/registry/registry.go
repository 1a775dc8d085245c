package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Counters exposes a relay's live byte counts.
type Counters interface {
	BytesToTarget() int64
	BytesToClient() int64
}

// Entry describes one in-flight relay.
type Entry struct {
	ID         uuid.UUID
	RemoteAddr string
	Path       string
	StartedAt  time.Time
	Counters   Counters
}

// Registry tracks live relays for the dashboard and shutdown logging.
type Registry interface {
	Register(entry Entry)
	Remove(id uuid.UUID)
	Snapshot() []Entry
	Count() int
}

type registry struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]Entry
}

func NewRegistry() Registry {
	return &registry{
		entries: make(map[uuid.UUID]Entry),
	}
}

func (r *registry) Register(entry Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entry.ID] = entry
}

func (r *registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, id)
}

// Snapshot returns the live entries ordered by start time so repeated
// renders stay stable.
func (r *registry) Snapshot() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].StartedAt.Equal(entries[j].StartedAt) {
			return entries[i].ID.String() < entries[j].ID.String()
		}
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries
}

func (r *registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
