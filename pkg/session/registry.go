package session

import (
	"sync"
	"time"

	"github.com/matzehuels/tracegrid/pkg/errors"
)

// DefaultTTL is how long an idle registry entry survives [Registry.Cleanup].
const DefaultTTL = 2 * time.Hour

// Registry stores values keyed by session ID. It is safe for concurrent use.
type Registry[T any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*entry[T]
}

type entry[T any] struct {
	value    T
	lastUsed time.Time
}

// NewRegistry creates a registry. ttl <= 0 uses DefaultTTL.
func NewRegistry[T any](ttl time.Duration) *Registry[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Registry[T]{ttl: ttl, now: time.Now, entries: make(map[string]*entry[T])}
}

// Put stores v under id, replacing any previous value.
func (r *Registry[T]) Put(id string, v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry[T]{value: v, lastUsed: r.now()}
}

// Get returns the value for id and refreshes its idle timer.
func (r *Registry[T]) Get(id string) (T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero T
		return zero, errors.New(errors.ErrCodeSessionNotFound, "session %q not found", id)
	}
	e.lastUsed = r.now()
	return e.value, nil
}

// Delete removes id. It reports whether the entry existed.
func (r *Registry[T]) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[id]
	delete(r.entries, id)
	return ok
}

// Len is the number of live entries.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Cleanup removes entries idle for longer than the TTL and returns how many
// were removed.
func (r *Registry[T]) Cleanup() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	n := 0
	for id, e := range r.entries {
		if e.lastUsed.Before(cutoff) {
			delete(r.entries, id)
			n++
		}
	}
	return n
}
