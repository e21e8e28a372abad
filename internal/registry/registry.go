// Package registry keeps per-page state such as listing views and chat sessions in memory until it's closed or has
// been idle for too long.
package registry

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Closer is torn down when its entry expires or is removed.
type Closer interface {
	Close()
}

type entry[V Closer] struct {
	value    V
	lastUsed time.Time
}

// Registry maps random identifiers to values. All methods are safe for concurrent use.
type Registry[V Closer] struct {
	name   string
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	entries map[uuid.UUID]*entry[V]
}

type Option[V Closer] func(*Registry[V])

func WithLogger[V Closer](logger *slog.Logger) Option[V] {
	return func(r *Registry[V]) {
		r.logger = logger
	}
}

// WithClock overrides the clock used for idle expiry.
func WithClock[V Closer](now func() time.Time) Option[V] {
	return func(r *Registry[V]) {
		r.now = now
	}
}

// New creates a Registry whose entries expire after being idle for ttl. name is used in log messages.
func New[V Closer](name string, ttl time.Duration, opts ...Option[V]) *Registry[V] {
	r := &Registry[V]{
		name:    name,
		ttl:     ttl,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
		mu:      sync.Mutex{},
		entries: make(map[uuid.UUID]*entry[V]),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add stores v under a new random identifier.
func (r *Registry[V]) Add(v V) uuid.UUID {
	id := uuid.New()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[id] = &entry[V]{value: v, lastUsed: r.now()}
	return id
}

// Get returns the value stored under id and marks it as used.
func (r *Registry[V]) Get(id uuid.UUID) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[id]
	if !ok {
		var zero V
		return zero, false
	}
	e.lastUsed = r.now()
	return e.value, true
}

// Remove closes and forgets the value stored under id. It reports whether there was one.
func (r *Registry[V]) Remove(id uuid.UUID) bool {
	r.mu.Lock()
	e, ok := r.entries[id]
	delete(r.entries, id)
	r.mu.Unlock()
	if ok {
		e.value.Close()
	}
	return ok
}

// Len returns the number of live entries.
func (r *Registry[V]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Sweep closes every entry that has been idle for longer than the ttl and returns how many were closed.
func (r *Registry[V]) Sweep() int {
	deadline := r.now().Add(-r.ttl)
	var expired []V
	r.mu.Lock()
	for id, e := range r.entries {
		if e.lastUsed.Before(deadline) {
			expired = append(expired, e.value)
			delete(r.entries, id)
		}
	}
	r.mu.Unlock()

	for _, v := range expired {
		v.Close()
	}
	return len(expired)
}

// CloseAll closes and forgets every entry.
func (r *Registry[V]) CloseAll() {
	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[uuid.UUID]*entry[V])
	r.mu.Unlock()
	for _, e := range entries {
		e.value.Close()
	}
}

// Run sweeps every interval until ctx is done and then closes all entries.
func (r *Registry[V]) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			r.CloseAll()
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.LogAttrs(ctx, slog.LevelDebug, "expired idle entries",
					slog.String("registry", r.name), slog.Int("count", n))
			}
		}
	}
}
